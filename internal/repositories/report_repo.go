package repositories

import (
	"context"
	"errors"

	"github.com/donorhub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, rep *models.DonationReport) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO donation_reports (donor_id, charity_id, campaign_id, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rep.DonorID, rep.CharityID, rep.CampaignID, rep.Amount, rep.Status,
	).Scan(&rep.ID, &rep.CreatedAt)
}

func (r *ReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.DonationReport, error) {
	var rep models.DonationReport
	err := r.pool.QueryRow(ctx, `
		SELECT id, donor_id, charity_id, campaign_id, amount, status, created_at
		FROM donation_reports WHERE id = $1
	`, id).Scan(&rep.ID, &rep.DonorID, &rep.CharityID, &rep.CampaignID,
		&rep.Amount, &rep.Status, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepo) List(ctx context.Context, limit, offset int) ([]models.DonationReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, donor_id, charity_id, campaign_id, amount, status, created_at
		FROM donation_reports ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.DonationReport
	for rows.Next() {
		var rep models.DonationReport
		if err := rows.Scan(&rep.ID, &rep.DonorID, &rep.CharityID, &rep.CampaignID,
			&rep.Amount, &rep.Status, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
