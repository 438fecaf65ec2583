package services

import (
	"context"
	"fmt"

	"github.com/donorhub/backend/internal/events"
	"github.com/donorhub/backend/internal/models"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignService struct {
	campaignRepo *repositories.CampaignRepo
	charityRepo  *repositories.CharityRepo
	donorRepo    *repositories.DonorRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewCampaignService(
	campaignRepo *repositories.CampaignRepo,
	charityRepo *repositories.CharityRepo,
	donorRepo *repositories.DonorRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		charityRepo:  charityRepo,
		donorRepo:    donorRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
	}
}

// transition validates and performs a status transition with audit logging.
func (s *CampaignService) transition(ctx context.Context, campaign *models.Campaign, newStatus string, actor *string) error {
	if !models.IsValidCampaignTransition(campaign.Status, newStatus) {
		return fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, campaign.Status, newStatus)
	}

	oldStatus := campaign.Status
	if err := s.campaignRepo.UpdateStatus(ctx, campaign.ID, newStatus); err != nil {
		return err
	}
	campaign.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		Actor:      actor,
		ActorType:  "user",
		Action:     fmt.Sprintf("campaign_status_%s_to_%s", oldStatus, newStatus),
		EntityType: "campaign",
		EntityID:   &campaign.ID,
		Meta:       map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})
	_ = s.publisher.Publish(ctx, events.StreamCampaigns, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id": campaign.ID.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	})

	return nil
}

func (s *CampaignService) Create(ctx context.Context, caller string, c *models.Campaign) error {
	if c.Title == "" || c.TargetAmount <= 0 {
		return fmt.Errorf("%w: title and a positive target_amount are required", models.ErrInvalidPayload)
	}

	charity, err := s.charityRepo.GetByID(ctx, c.CharityID)
	if err != nil {
		return fmt.Errorf("charity %s: %w", c.CharityID, err)
	}
	if charity.Owner != caller {
		return models.ErrUnauthorized
	}

	c.Status = models.CampaignStatusPending
	c.Creator = caller
	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		Actor:      &caller,
		ActorType:  "user",
		Action:     "campaign_created",
		EntityType: "campaign",
		EntityID:   &c.ID,
		Meta:       map[string]any{"target_amount": c.TargetAmount},
	})
	return nil
}

func (s *CampaignService) Activate(ctx context.Context, id uuid.UUID, caller string) error {
	campaign, err := s.requireCreator(ctx, id, caller)
	if err != nil {
		return err
	}
	return s.transition(ctx, campaign, models.CampaignStatusActive, &caller)
}

// Accept records a donor's acceptance: the first acceptance moves the
// campaign to accepted, later acceptances only extend the donor list.
func (s *CampaignService) Accept(ctx context.Context, id, donorID uuid.UUID, caller string) error {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("campaign %s: %w", id, err)
	}

	donor, err := s.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return fmt.Errorf("donor %s: %w", donorID, err)
	}
	if donor.Owner != caller {
		return models.ErrUnauthorized
	}

	if campaign.Status != models.CampaignStatusAccepted {
		if err := s.transition(ctx, campaign, models.CampaignStatusAccepted, &caller); err != nil {
			return err
		}
	}

	return s.campaignRepo.AddDonor(ctx, id, donorID)
}

func (s *CampaignService) Complete(ctx context.Context, id uuid.UUID, caller string) error {
	campaign, err := s.requireCreator(ctx, id, caller)
	if err != nil {
		return err
	}
	return s.transition(ctx, campaign, models.CampaignStatusCompleted, &caller)
}

func (s *CampaignService) Cancel(ctx context.Context, id uuid.UUID, caller string) error {
	campaign, err := s.requireCreator(ctx, id, caller)
	if err != nil {
		return err
	}
	return s.transition(ctx, campaign, models.CampaignStatusCancelled, &caller)
}

func (s *CampaignService) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, id)
}

func (s *CampaignService) List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	return s.campaignRepo.List(ctx, f)
}

func (s *CampaignService) ListDonors(ctx context.Context, id uuid.UUID) ([]models.Donor, error) {
	if _, err := s.campaignRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.campaignRepo.ListDonors(ctx, id)
}

func (s *CampaignService) GetEvents(ctx context.Context, id uuid.UUID) ([]models.AuditLog, error) {
	return s.auditRepo.GetByEntity(ctx, "campaign", id, 100, 0)
}

func (s *CampaignService) requireCreator(ctx context.Context, id uuid.UUID, caller string) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("campaign %s: %w", id, err)
	}
	if campaign.Creator != caller {
		return nil, models.ErrUnauthorized
	}
	return campaign, nil
}
