package services

import (
	"context"
	"fmt"

	"github.com/donorhub/backend/internal/models"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CharityService struct {
	charityRepo *repositories.CharityRepo
	auditRepo   *repositories.AuditRepo
	log         *zap.Logger
}

func NewCharityService(
	charityRepo *repositories.CharityRepo,
	auditRepo *repositories.AuditRepo,
	log *zap.Logger,
) *CharityService {
	return &CharityService{
		charityRepo: charityRepo,
		auditRepo:   auditRepo,
		log:         log,
	}
}

func (s *CharityService) Register(ctx context.Context, caller string, c *models.Charity) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidPayload)
	}

	c.Owner = caller
	if c.Status == "" {
		c.Status = models.ProfileStatusActive
	}
	if !models.IsValidProfileStatus(c.Status) {
		return fmt.Errorf("%w: unknown status %q", models.ErrInvalidPayload, c.Status)
	}

	if err := s.charityRepo.Create(ctx, c); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		Actor:      &caller,
		ActorType:  "user",
		Action:     "charity_registered",
		EntityType: "charity",
		EntityID:   &c.ID,
	})
	return nil
}

func (s *CharityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Charity, error) {
	return s.charityRepo.GetByID(ctx, id)
}

func (s *CharityService) Update(ctx context.Context, id uuid.UUID, caller string, update *models.Charity) (*models.Charity, error) {
	existing, err := s.charityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Owner != caller {
		return nil, models.ErrUnauthorized
	}

	if update.Name != "" {
		existing.Name = update.Name
	}
	if update.Email != nil {
		existing.Email = update.Email
	}
	if update.Website != nil {
		existing.Website = update.Website
	}
	if update.Status != "" {
		if !models.IsValidProfileStatus(update.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidPayload, update.Status)
		}
		existing.Status = update.Status
	}

	if err := s.charityRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *CharityService) List(ctx context.Context, limit, offset int) ([]models.Charity, error) {
	return s.charityRepo.List(ctx, limit, offset)
}
