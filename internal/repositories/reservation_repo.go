package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/donorhub/backend/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepo owns the pending_donations table, keyed by memo. Memos are
// uint64 in Go and stored as the BIGINT bit pattern.
type ReservationRepo struct {
	pool *pgxpool.Pool
}

func NewReservationRepo(pool *pgxpool.Pool) *ReservationRepo {
	return &ReservationRepo{pool: pool}
}

const pendingColumns = `memo, id, donor_id, charity_id, campaign_id, payer, payee,
       amount, status, created_at, expires_at`

func scanPending(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	var memo int64
	err := row.Scan(&memo, &d.ID, &d.DonorID, &d.CharityID, &d.CampaignID,
		&d.Payer, &d.Payee, &d.Amount, &d.Status, &d.CreatedAt, &d.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	d.Memo = uint64(memo)
	return &d, nil
}

// Insert adds a pending reservation. A memo collision violates the primary
// key and surfaces as ErrMemoCollision rather than overwriting.
func (r *ReservationRepo) Insert(ctx context.Context, d *models.Donation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pending_donations (memo, id, donor_id, charity_id, campaign_id,
		                               payer, payee, amount, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, int64(d.Memo), d.ID, d.DonorID, d.CharityID, d.CampaignID,
		d.Payer, d.Payee, d.Amount, d.Status, d.CreatedAt, d.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.ErrMemoCollision
		}
		return err
	}
	return nil
}

func (r *ReservationRepo) GetByMemo(ctx context.Context, memo uint64) (*models.Donation, error) {
	return scanPending(r.pool.QueryRow(ctx,
		`SELECT `+pendingColumns+` FROM pending_donations WHERE memo = $1`, int64(memo)))
}

// Claim atomically removes the reservation for memo if it has not expired,
// returning the removed row. The single DELETE is the per-memo mutual
// exclusion: concurrent completion attempts for the same memo see exactly
// one winner, the rest get ErrNotFound.
func (r *ReservationRepo) Claim(ctx context.Context, memo uint64, now time.Time) (*models.Donation, error) {
	return scanPending(r.pool.QueryRow(ctx, `
		DELETE FROM pending_donations
		WHERE memo = $1 AND expires_at > $2
		RETURNING `+pendingColumns,
		int64(memo), now))
}

// Remove deletes the reservation for memo unconditionally. Removing a memo
// that is already gone is a no-op, not an error.
func (r *ReservationRepo) Remove(ctx context.Context, memo uint64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM pending_donations WHERE memo = $1`, int64(memo))
	return err
}

// DeleteExpired sweeps reservations whose payment window has closed and
// returns how many were removed.
func (r *ReservationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM pending_donations WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepo) List(ctx context.Context, limit, offset int) ([]models.Donation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+pendingColumns+` FROM pending_donations ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []models.Donation
	for rows.Next() {
		var d models.Donation
		var memo int64
		if err := rows.Scan(&memo, &d.ID, &d.DonorID, &d.CharityID, &d.CampaignID,
			&d.Payer, &d.Payee, &d.Amount, &d.Status, &d.CreatedAt, &d.ExpiresAt); err != nil {
			return nil, err
		}
		d.Memo = uint64(memo)
		pending = append(pending, d)
	}
	return pending, nil
}
