package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/donorhub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CharityRepo struct {
	pool *pgxpool.Pool
}

func NewCharityRepo(pool *pgxpool.Pool) *CharityRepo {
	return &CharityRepo{pool: pool}
}

const charityColumns = `id, owner, name, email, website, site_title, site_description, site_checked_at,
       total_received, donations_count, status, created_at, updated_at`

func scanCharity(row pgx.Row) (*models.Charity, error) {
	var c models.Charity
	err := row.Scan(&c.ID, &c.Owner, &c.Name, &c.Email, &c.Website,
		&c.SiteTitle, &c.SiteDescription, &c.SiteCheckedAt,
		&c.TotalReceived, &c.DonationsCount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CharityRepo) Create(ctx context.Context, c *models.Charity) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO charities (owner, name, email, website, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, total_received, donations_count, created_at, updated_at
	`, c.Owner, c.Name, c.Email, c.Website, c.Status,
	).Scan(&c.ID, &c.TotalReceived, &c.DonationsCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CharityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Charity, error) {
	return scanCharity(r.pool.QueryRow(ctx,
		`SELECT `+charityColumns+` FROM charities WHERE id = $1`, id))
}

func (r *CharityRepo) GetByOwner(ctx context.Context, owner string) (*models.Charity, error) {
	return scanCharity(r.pool.QueryRow(ctx,
		`SELECT `+charityColumns+` FROM charities WHERE owner = $1`, owner))
}

func (r *CharityRepo) Update(ctx context.Context, c *models.Charity) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE charities SET name = $1, email = $2, website = $3, status = $4, updated_at = now()
		WHERE id = $5
	`, c.Name, c.Email, c.Website, c.Status, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyDonation folds a completed donation into the charity's aggregates.
func (r *CharityRepo) ApplyDonation(ctx context.Context, id uuid.UUID, amount int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE charities SET total_received = total_received + $1,
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

func (r *CharityRepo) List(ctx context.Context, limit, offset int) ([]models.Charity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+charityColumns+` FROM charities ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charities []models.Charity
	for rows.Next() {
		var c models.Charity
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.Email, &c.Website,
			&c.SiteTitle, &c.SiteDescription, &c.SiteCheckedAt,
			&c.TotalReceived, &c.DonationsCount, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		charities = append(charities, c)
	}
	return charities, nil
}

// ListForSiteRefresh returns charities with a website whose metadata was
// never fetched or is older than the given cutoff.
func (r *CharityRepo) ListForSiteRefresh(ctx context.Context, olderThan time.Time, limit int) ([]models.Charity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+charityColumns+` FROM charities
		WHERE website IS NOT NULL AND website <> ''
		  AND (site_checked_at IS NULL OR site_checked_at < $1)
		ORDER BY site_checked_at NULLS FIRST
		LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charities []models.Charity
	for rows.Next() {
		var c models.Charity
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.Email, &c.Website,
			&c.SiteTitle, &c.SiteDescription, &c.SiteCheckedAt,
			&c.TotalReceived, &c.DonationsCount, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		charities = append(charities, c)
	}
	return charities, nil
}

func (r *CharityRepo) UpdateSiteMeta(ctx context.Context, id uuid.UUID, title, description *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE charities SET site_title = $1, site_description = $2, site_checked_at = now()
		WHERE id = $3
	`, title, description, id)
	return err
}
