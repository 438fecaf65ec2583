package repositories

import (
	"context"
	"errors"

	"github.com/donorhub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DonorRepo struct {
	pool *pgxpool.Pool
}

func NewDonorRepo(pool *pgxpool.Pool) *DonorRepo {
	return &DonorRepo{pool: pool}
}

func (r *DonorRepo) Create(ctx context.Context, d *models.Donor) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO donors (owner, name, email, phone, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, donation_amount, donations_count, created_at, updated_at
	`, d.Owner, d.Name, d.Email, d.Phone, d.Status,
	).Scan(&d.ID, &d.DonationAmount, &d.DonationsCount, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DonorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	var d models.Donor
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner, name, email, phone, donation_amount, donations_count, status, created_at, updated_at
		FROM donors WHERE id = $1
	`, id).Scan(&d.ID, &d.Owner, &d.Name, &d.Email, &d.Phone,
		&d.DonationAmount, &d.DonationsCount, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DonorRepo) GetByOwner(ctx context.Context, owner string) (*models.Donor, error) {
	var d models.Donor
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner, name, email, phone, donation_amount, donations_count, status, created_at, updated_at
		FROM donors WHERE owner = $1
	`, owner).Scan(&d.ID, &d.Owner, &d.Name, &d.Email, &d.Phone,
		&d.DonationAmount, &d.DonationsCount, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DonorRepo) Update(ctx context.Context, d *models.Donor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE donors SET name = $1, email = $2, phone = $3, status = $4, updated_at = now()
		WHERE id = $5
	`, d.Name, d.Email, d.Phone, d.Status, d.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyDonation folds a completed donation into the donor's aggregates.
func (r *DonorRepo) ApplyDonation(ctx context.Context, id uuid.UUID, amount int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE donors SET donation_amount = donation_amount + $1,
		       donations_count = donations_count + 1, updated_at = now()
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

func (r *DonorRepo) List(ctx context.Context, limit, offset int) ([]models.Donor, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner, name, email, phone, donation_amount, donations_count, status, created_at, updated_at
		FROM donors ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
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
