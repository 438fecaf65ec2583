package services

import (
	"context"
	"fmt"
	"time"

	"github.com/donorhub/backend/internal/config"
	"github.com/donorhub/backend/internal/correlate"
	"github.com/donorhub/backend/internal/events"
	"github.com/donorhub/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Narrow store interfaces so the reservation protocol can be exercised
// against in-memory fakes. The repositories package implements all of them.

type DonorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error)
	ApplyDonation(ctx context.Context, id uuid.UUID, amount int64) error
}

type CharityStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Charity, error)
	ApplyDonation(ctx context.Context, id uuid.UUID, amount int64) error
}

type CampaignStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	ApplyDonation(ctx context.Context, id uuid.UUID, amount int64) error
}

type ReservationStore interface {
	Insert(ctx context.Context, d *models.Donation) error
	GetByMemo(ctx context.Context, memo uint64) (*models.Donation, error)
	Claim(ctx context.Context, memo uint64, now time.Time) (*models.Donation, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type DonationStore interface {
	Insert(ctx context.Context, d *models.Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]models.Donation, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]models.Donation, error)
}

type PaymentVerifier interface {
	Verify(ctx context.Context, caller, receiver string, amount int64, blockIndex, memo uint64) (bool, error)
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

// DonationService runs the reservation protocol: reserve an intended
// donation, hold the memo slot for a bounded payment window, then convert
// the reservation into a completed donation once the transfer is verified
// against the ledger.
type DonationService struct {
	donors    DonorStore
	charities CharityStore
	campaigns CampaignStore
	pending   ReservationStore
	donations DonationStore
	verifier  PaymentVerifier
	audit     AuditLogger
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger
}

func NewDonationService(
	donors DonorStore,
	charities CharityStore,
	campaigns CampaignStore,
	pending ReservationStore,
	donations DonationStore,
	verifier PaymentVerifier,
	audit AuditLogger,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *DonationService {
	return &DonationService{
		donors:    donors,
		charities: charities,
		campaigns: campaigns,
		pending:   pending,
		donations: donations,
		verifier:  verifier,
		audit:     audit,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

// Reserve creates a pending donation with a fresh memo and a payment window
// of cfg.ReservationTTL. Referenced entities are checked in the order
// donor, charity, campaign.
func (s *DonationService) Reserve(ctx context.Context, caller string, donorID, charityID, campaignID uuid.UUID, amount int64) (*models.Donation, error) {
	if donorID == uuid.Nil || charityID == uuid.Nil || campaignID == uuid.Nil {
		return nil, fmt.Errorf("%w: donor_id, charity_id and campaign_id are required", models.ErrInvalidPayload)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrInvalidPayload)
	}

	donor, err := s.donors.GetByID(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("donor %s: %w", donorID, err)
	}
	if _, err := s.charities.GetByID(ctx, charityID); err != nil {
		return nil, fmt.Errorf("charity %s: %w", charityID, err)
	}
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, err)
	}

	now := time.Now()
	d := &models.Donation{
		ID:         uuid.New(),
		Memo:       correlate.Memo(donorID.String(), caller, now.UnixNano()),
		DonorID:    donorID,
		CharityID:  charityID,
		CampaignID: campaignID,
		Payer:      donor.Owner,
		Payee:      campaign.Creator,
		Amount:     amount,
		Status:     models.DonationStatusPaymentPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.ReservationTTL),
	}

	if err := s.pending.Insert(ctx, d); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		Actor:      &caller,
		ActorType:  "user",
		Action:     "donation_reserved",
		EntityType: "donation",
		EntityID:   &d.ID,
		Meta:       map[string]any{"memo": fmt.Sprintf("%d", d.Memo), "amount": amount},
	})
	_ = s.publisher.Publish(ctx, events.StreamDonations, events.Event{
		Type: events.EventDonationReserved,
		Payload: map[string]any{
			"donation_id": d.ID.String(),
			"memo":        fmt.Sprintf("%d", d.Memo),
			"amount":      amount,
			"expires_at":  d.ExpiresAt,
		},
	})

	s.log.Info("donation reserved",
		zap.String("donation_id", d.ID.String()),
		zap.Uint64("memo", d.Memo),
		zap.Int64("amount", amount),
		zap.Time("expires_at", d.ExpiresAt),
	)
	return d, nil
}

// Complete verifies the off-band payment for a reservation and, on success,
// moves it from pending to completed storage and folds the amount into the
// donor, charity and campaign aggregates.
//
// Verification failure and a missing or expired reservation are both
// recoverable: nothing has been mutated and the caller may retry with a
// later block. The atomic claim on the memo guarantees at-most-once
// completion even under concurrent attempts.
func (s *DonationService) Complete(ctx context.Context, caller string, donorID uuid.UUID, amount int64, blockIndex, memo uint64) (*models.Donation, error) {
	if caller == "" || donorID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller and donor_id are required", models.ErrInvalidPayload)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrInvalidPayload)
	}

	res, err := s.pending.GetByMemo(ctx, memo)
	if err != nil {
		return nil, fmt.Errorf("reservation for memo %d: %w", memo, err)
	}
	if res.DonorID != donorID {
		return nil, fmt.Errorf("reservation for memo %d does not belong to donor %s: %w", memo, donorID, models.ErrNotFound)
	}
	if amount != res.Amount {
		return nil, fmt.Errorf("%w: amount %d does not match reserved amount %d", models.ErrInvalidPayload, amount, res.Amount)
	}

	// The donor must still exist before the memo is consumed; checking here
	// keeps a missing donor a clean typed failure instead of a half-applied
	// completion.
	if _, err := s.donors.GetByID(ctx, donorID); err != nil {
		return nil, fmt.Errorf("donor %s: %w", donorID, err)
	}

	ok, err := s.verifier.Verify(ctx, caller, res.Payee, amount, blockIndex, memo)
	if err != nil {
		return nil, fmt.Errorf("ledger query: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("block %d: %w", blockIndex, models.ErrNotVerified)
	}

	claimed, err := s.pending.Claim(ctx, memo, time.Now())
	if err != nil {
		return nil, fmt.Errorf("claim memo %d: %w", memo, err)
	}

	now := time.Now()
	claimed.Status = models.DonationStatusCompleted
	claimed.PaidAtBlock = &blockIndex
	claimed.CompletedBy = &caller
	claimed.CompletedAt = &now
	claimed.ExpiresAt = time.Time{}

	if err := s.donations.Insert(ctx, claimed); err != nil {
		return nil, fmt.Errorf("persist completed donation: %w", err)
	}

	if err := s.donors.ApplyDonation(ctx, claimed.DonorID, claimed.Amount); err != nil {
		return nil, fmt.Errorf("update donor aggregates: %w", err)
	}
	if err := s.charities.ApplyDonation(ctx, claimed.CharityID, claimed.Amount); err != nil {
		return nil, fmt.Errorf("update charity aggregates: %w", err)
	}
	if err := s.campaigns.ApplyDonation(ctx, claimed.CampaignID, claimed.Amount); err != nil {
		return nil, fmt.Errorf("update campaign aggregates: %w", err)
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		Actor:      &caller,
		ActorType:  "user",
		Action:     "donation_completed",
		EntityType: "donation",
		EntityID:   &claimed.ID,
		Meta:       map[string]any{"memo": fmt.Sprintf("%d", memo), "block": blockIndex},
	})
	_ = s.publisher.Publish(ctx, events.StreamDonations, events.Event{
		Type: events.EventDonationCompleted,
		Payload: map[string]any{
			"donation_id": claimed.ID.String(),
			"campaign_id": claimed.CampaignID.String(),
			"amount":      claimed.Amount,
			"block":       blockIndex,
		},
	})

	s.log.Info("donation completed",
		zap.String("donation_id", claimed.ID.String()),
		zap.Uint64("memo", memo),
		zap.Uint64("block", blockIndex),
		zap.Int64("amount", claimed.Amount),
	)
	return claimed, nil
}

// VerifyPayment is the read-only verification surface: it checks the block
// without touching any reservation. Safe to call any number of times.
func (s *DonationService) VerifyPayment(ctx context.Context, caller, receiver string, amount int64, blockIndex, memo uint64) (bool, error) {
	return s.verifier.Verify(ctx, caller, receiver, amount, blockIndex, memo)
}

// SweepExpired removes reservations whose payment window has closed. A later
// completion attempt for a swept memo fails with ErrNotFound; the sweep
// itself never surfaces an error to donors.
func (s *DonationService) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.pending.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("expired reservations swept", zap.Int64("count", removed))
		_ = s.publisher.Publish(ctx, events.StreamDonations, events.Event{
			Type:    events.EventReservationExpired,
			Payload: map[string]any{"count": removed},
		})
	}
	return removed, nil
}

func (s *DonationService) GetDonation(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	return s.donations.GetByID(ctx, id)
}

// GetPendingByMemo returns the payment info for an open reservation.
func (s *DonationService) GetPendingByMemo(ctx context.Context, memo uint64) (*models.Donation, error) {
	return s.pending.GetByMemo(ctx, memo)
}

func (s *DonationService) ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]models.Donation, error) {
	return s.donations.ListByDonor(ctx, donorID, limit, offset)
}

func (s *DonationService) ListByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]models.Donation, error) {
	return s.donations.ListByCampaign(ctx, campaignID, limit, offset)
}
