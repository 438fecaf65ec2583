package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/donorhub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (charity_id, title, description, target_amount, status, creator)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, total_received, created_at, updated_at
	`, c.CharityID, c.Title, c.Description, c.TargetAmount, c.Status, c.Creator,
	).Scan(&c.ID, &c.TotalReceived, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	err := r.pool.QueryRow(ctx, `
		SELECT id, charity_id, title, description, target_amount, total_received,
		       status, creator, created_at, updated_at
		FROM campaigns WHERE id = $1
	`, id).Scan(&c.ID, &c.CharityID, &c.Title, &c.Description, &c.TargetAmount,
		&c.TotalReceived, &c.Status, &c.Creator, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyDonation folds a completed donation into the campaign total.
func (r *CampaignRepo) ApplyDonation(ctx context.Context, id uuid.UUID, amount int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET total_received = total_received + $1, updated_at = now()
		WHERE id = $2
	`, amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AddDonor records a donor's acceptance of a campaign. Repeated acceptance
// is a no-op.
func (r *CampaignRepo) AddDonor(ctx context.Context, campaignID, donorID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO campaign_donors (campaign_id, donor_id)
		VALUES ($1, $2)
		ON CONFLICT (campaign_id, donor_id) DO NOTHING
	`, campaignID, donorID)
	return err
}

func (r *CampaignRepo) ListDonors(ctx context.Context, campaignID uuid.UUID) ([]models.Donor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.owner, d.name, d.email, d.phone, d.donation_amount, d.donations_count,
		       d.status, d.created_at, d.updated_at
		FROM donors d
		JOIN campaign_donors cd ON cd.donor_id = d.id
		WHERE cd.campaign_id = $1
		ORDER BY cd.accepted_at
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donors []models.Donor
	for rows.Next() {
		var d models.Donor
		if err := rows.Scan(&d.ID, &d.Owner, &d.Name, &d.Email, &d.Phone,
			&d.DonationAmount, &d.DonationsCount, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		donors = append(donors, d)
	}
	return donors, nil
}

// ListCampaignsByDonor returns campaigns the donor has accepted.
func (r *CampaignRepo) ListCampaignsByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.charity_id, c.title, c.description, c.target_amount, c.total_received,
		       c.status, c.creator, c.created_at, c.updated_at
		FROM campaigns c
		JOIN campaign_donors cd ON cd.campaign_id = c.id
		WHERE cd.donor_id = $1
		ORDER BY cd.accepted_at DESC
	`, donorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCampaigns(rows)
}

type CampaignFilter struct {
	CharityID *uuid.UUID
	Status    *string
	Limit     int
	Offset    int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `
		SELECT id, charity_id, title, description, target_amount, total_received,
		       status, creator, created_at, updated_at
		FROM campaigns
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CharityID != nil {
		where = append(where, fmt.Sprintf("charity_id = $%d", argIdx))
		args = append(args, *f.CharityID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCampaigns(rows)
}

func collectCampaigns(rows pgx.Rows) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.CharityID, &c.Title, &c.Description, &c.TargetAmount,
			&c.TotalReceived, &c.Status, &c.Creator, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}
