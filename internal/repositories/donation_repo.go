package repositories

import (
	"context"
	"errors"

	"github.com/donorhub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DonationRepo owns the completed donations table, keyed by donation id.
type DonationRepo struct {
	pool *pgxpool.Pool
}

func NewDonationRepo(pool *pgxpool.Pool) *DonationRepo {
	return &DonationRepo{pool: pool}
}

const donationColumns = `id, memo, donor_id, charity_id, campaign_id, payer, payee,
       amount, status, paid_at_block, completed_by, created_at, completed_at`

func scanDonation(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	var memo int64
	var paidAt *int64
	err := row.Scan(&d.ID, &memo, &d.DonorID, &d.CharityID, &d.CampaignID,
		&d.Payer, &d.Payee, &d.Amount, &d.Status, &paidAt, &d.CompletedBy,
		&d.CreatedAt, &d.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	d.Memo = uint64(memo)
	if paidAt != nil {
		block := uint64(*paidAt)
		d.PaidAtBlock = &block
	}
	return &d, nil
}

func (r *DonationRepo) Insert(ctx context.Context, d *models.Donation) error {
	var paidAt *int64
	if d.PaidAtBlock != nil {
		block := int64(*d.PaidAtBlock)
		paidAt = &block
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO donations (id, memo, donor_id, charity_id, campaign_id,
		                       payer, payee, amount, status, paid_at_block,
		                       completed_by, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, d.ID, int64(d.Memo), d.DonorID, d.CharityID, d.CampaignID,
		d.Payer, d.Payee, d.Amount, d.Status, paidAt,
		d.CompletedBy, d.CreatedAt, d.CompletedAt)
	return err
}

func (r *DonationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	return scanDonation(r.pool.QueryRow(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE id = $1`, id))
}

func (r *DonationRepo) ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]models.Donation, error) {
	return r.list(ctx, `donor_id = $1`, donorID, limit, offset)
}

func (r *DonationRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]models.Donation, error) {
	return r.list(ctx, `campaign_id = $1`, campaignID, limit, offset)
}

func (r *DonationRepo) list(ctx context.Context, cond string, key uuid.UUID, limit, offset int) ([]models.Donation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+donationColumns+` FROM donations WHERE `+cond+
			` ORDER BY completed_at DESC LIMIT $2 OFFSET $3`,
		key, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		var d models.Donation
		var memo int64
		var paidAt *int64
		if err := rows.Scan(&d.ID, &memo, &d.DonorID, &d.CharityID, &d.CampaignID,
			&d.Payer, &d.Payee, &d.Amount, &d.Status, &paidAt, &d.CompletedBy,
			&d.CreatedAt, &d.CompletedAt); err != nil {
			return nil, err
		}
		d.Memo = uint64(memo)
		if paidAt != nil {
			block := uint64(*paidAt)
			d.PaidAtBlock = &block
		}
		donations = append(donations, d)
	}
	return donations, nil
}
