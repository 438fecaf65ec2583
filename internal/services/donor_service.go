package services

import (
	"context"
	"fmt"

	"github.com/donorhub/backend/internal/models"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DonorService struct {
	donorRepo    *repositories.DonorRepo
	campaignRepo *repositories.CampaignRepo
	auditRepo    *repositories.AuditRepo
	log          *zap.Logger
}

func NewDonorService(
	donorRepo *repositories.DonorRepo,
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	log *zap.Logger,
) *DonorService {
	return &DonorService{
		donorRepo:    donorRepo,
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		log:          log,
	}
}

func (s *DonorService) Register(ctx context.Context, caller string, d *models.Donor) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidPayload)
	}

	d.Owner = caller
	if d.Status == "" {
		d.Status = models.ProfileStatusActive
	}
	if !models.IsValidProfileStatus(d.Status) {
		return fmt.Errorf("%w: unknown status %q", models.ErrInvalidPayload, d.Status)
	}

	if err := s.donorRepo.Create(ctx, d); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		Actor:      &caller,
		ActorType:  "user",
		Action:     "donor_registered",
		EntityType: "donor",
		EntityID:   &d.ID,
	})
	return nil
}

func (s *DonorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	return s.donorRepo.GetByID(ctx, id)
}

func (s *DonorService) Update(ctx context.Context, id uuid.UUID, caller string, update *models.Donor) (*models.Donor, error) {
	existing, err := s.donorRepo.GetByID(ctx, id)
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
	if update.Phone != nil {
		existing.Phone = update.Phone
	}
	if update.Status != "" {
		if !models.IsValidProfileStatus(update.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidPayload, update.Status)
		}
		existing.Status = update.Status
	}

	if err := s.donorRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *DonorService) List(ctx context.Context, limit, offset int) ([]models.Donor, error) {
	return s.donorRepo.List(ctx, limit, offset)
}

// ListCampaigns returns the campaigns this donor has accepted.
func (s *DonorService) ListCampaigns(ctx context.Context, donorID uuid.UUID) ([]models.Campaign, error) {
	if _, err := s.donorRepo.GetByID(ctx, donorID); err != nil {
		return nil, err
	}
	return s.campaignRepo.ListCampaignsByDonor(ctx, donorID)
}
