package services

import (
	"context"
	"fmt"

	"github.com/donorhub/backend/internal/models"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService manages denormalized donation reports. Reports are pure
// records created independently of the reservation lifecycle.
type ReportService struct {
	reportRepo *repositories.ReportRepo
	log        *zap.Logger
}

func NewReportService(reportRepo *repositories.ReportRepo, log *zap.Logger) *ReportService {
	return &ReportService{reportRepo: reportRepo, log: log}
}

func (s *ReportService) Create(ctx context.Context, rep *models.DonationReport) error {
	if rep.DonorID == uuid.Nil || rep.CharityID == uuid.Nil || rep.CampaignID == uuid.Nil {
		return fmt.Errorf("%w: donor_id, charity_id and campaign_id are required", models.ErrInvalidPayload)
	}
	if rep.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrInvalidPayload)
	}
	if rep.Status == "" {
		rep.Status = models.DonationStatusCompleted
	}
	return s.reportRepo.Create(ctx, rep)
}

func (s *ReportService) GetByID(ctx context.Context, id uuid.UUID) (*models.DonationReport, error) {
	return s.reportRepo.GetByID(ctx, id)
}

func (s *ReportService) List(ctx context.Context, limit, offset int) ([]models.DonationReport, error) {
	return s.reportRepo.List(ctx, limit, offset)
}
