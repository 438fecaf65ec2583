package services

import (
	"context"
	"testing"
	"time"

	"github.com/donorhub/backend/internal/config"
	"github.com/donorhub/backend/internal/events"
	"github.com/donorhub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// In-memory fakes for the narrow store interfaces.

type fakeDonorStore struct {
	donors map[uuid.UUID]*models.Donor
}

func (f *fakeDonorStore) GetByID(_ context.Context, id uuid.UUID) (*models.Donor, error) {
	d, ok := f.donors[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDonorStore) ApplyDonation(_ context.Context, id uuid.UUID, amount int64) error {
	d, ok := f.donors[id]
	if !ok {
		return models.ErrNotFound
	}
	d.DonationAmount += amount
	d.DonationsCount++
	return nil
}

type fakeCharityStore struct {
	charities map[uuid.UUID]*models.Charity
}

func (f *fakeCharityStore) GetByID(_ context.Context, id uuid.UUID) (*models.Charity, error) {
	c, ok := f.charities[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCharityStore) ApplyDonation(_ context.Context, id uuid.UUID, amount int64) error {
	c, ok := f.charities[id]
	if !ok {
		return models.ErrNotFound
	}
	c.TotalReceived += amount
	c.DonationsCount++
	return nil
}

type fakeCampaignStore struct {
	campaigns map[uuid.UUID]*models.Campaign
}

func (f *fakeCampaignStore) GetByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaignStore) ApplyDonation(_ context.Context, id uuid.UUID, amount int64) error {
	c, ok := f.campaigns[id]
	if !ok {
		return models.ErrNotFound
	}
	c.TotalReceived += amount
	return nil
}

type fakeReservationStore struct {
	pending map[uint64]*models.Donation
}

func (f *fakeReservationStore) Insert(_ context.Context, d *models.Donation) error {
	if _, ok := f.pending[d.Memo]; ok {
		return models.ErrMemoCollision
	}
	cp := *d
	f.pending[d.Memo] = &cp
	return nil
}

func (f *fakeReservationStore) GetByMemo(_ context.Context, memo uint64) (*models.Donation, error) {
	d, ok := f.pending[memo]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeReservationStore) Claim(_ context.Context, memo uint64, now time.Time) (*models.Donation, error) {
	d, ok := f.pending[memo]
	if !ok || !d.ExpiresAt.After(now) {
		return nil, models.ErrNotFound
	}
	delete(f.pending, memo)
	cp := *d
	return &cp, nil
}

func (f *fakeReservationStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for memo, d := range f.pending {
		if !d.ExpiresAt.After(now) {
			delete(f.pending, memo)
			n++
		}
	}
	return n, nil
}

type fakeDonationStore struct {
	donations map[uuid.UUID]*models.Donation
}

func (f *fakeDonationStore) Insert(_ context.Context, d *models.Donation) error {
	cp := *d
	f.donations[d.ID] = &cp
	return nil
}

func (f *fakeDonationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDonationStore) ListByDonor(_ context.Context, donorID uuid.UUID, _, _ int) ([]models.Donation, error) {
	var out []models.Donation
	for _, d := range f.donations {
		if d.DonorID == donorID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonationStore) ListByCampaign(_ context.Context, campaignID uuid.UUID, _, _ int) ([]models.Donation, error) {
	var out []models.Donation
	for _, d := range f.donations {
		if d.CampaignID == campaignID {
			out = append(out, *d)
		}
	}
	return out, nil
}

// fakeVerifier approves a payment only when the amount matches what the
// "ledger" recorded for the block.
type fakeVerifier struct {
	recordedAmount int64
	err            error
	calls          int
}

func (f *fakeVerifier) Verify(_ context.Context, _, _ string, amount int64, _, _ uint64) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return amount == f.recordedAmount, nil
}

type noopAudit struct{}

func (noopAudit) Log(context.Context, models.AuditLog) error { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, events.Event) error { return nil }

type fixture struct {
	svc        *DonationService
	donors     *fakeDonorStore
	charities  *fakeCharityStore
	campaigns  *fakeCampaignStore
	pending    *fakeReservationStore
	donations  *fakeDonationStore
	verifier   *fakeVerifier
	donorID    uuid.UUID
	charityID  uuid.UUID
	campaignID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	donorID := uuid.New()
	charityID := uuid.New()
	campaignID := uuid.New()

	f := &fixture{
		donors: &fakeDonorStore{donors: map[uuid.UUID]*models.Donor{
			donorID: {ID: donorID, Owner: "donor-1", Name: "Alice", Status: models.ProfileStatusActive},
		}},
		charities: &fakeCharityStore{charities: map[uuid.UUID]*models.Charity{
			charityID: {ID: charityID, Owner: "charity-1", Name: "Water Fund", Status: models.ProfileStatusActive},
		}},
		campaigns: &fakeCampaignStore{campaigns: map[uuid.UUID]*models.Campaign{
			campaignID: {ID: campaignID, CharityID: charityID, Title: "Wells", Creator: "charity-1", Status: models.CampaignStatusActive},
		}},
		pending:    &fakeReservationStore{pending: map[uint64]*models.Donation{}},
		donations:  &fakeDonationStore{donations: map[uuid.UUID]*models.Donation{}},
		verifier:   &fakeVerifier{recordedAmount: 100},
		donorID:    donorID,
		charityID:  charityID,
		campaignID: campaignID,
	}

	cfg := &config.Config{ReservationTTL: time.Hour}
	f.svc = NewDonationService(
		f.donors, f.charities, f.campaigns, f.pending, f.donations,
		f.verifier, noopAudit{}, noopPublisher{}, cfg, zap.NewNop(),
	)
	return f
}

func TestReserveThenComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusPaymentPending, res.Status)
	assert.NotZero(t, res.Memo)
	assert.Equal(t, "donor-1", res.Payer)
	assert.Equal(t, "charity-1", res.Payee)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	done, err := f.svc.Complete(ctx, "donor-1", f.donorID, 100, 42, res.Memo)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCompleted, done.Status)
	require.NotNil(t, done.PaidAtBlock)
	assert.Equal(t, uint64(42), *done.PaidAtBlock)
	require.NotNil(t, done.CompletedBy)
	assert.Equal(t, "donor-1", *done.CompletedBy)
	assert.True(t, done.ExpiresAt.IsZero())

	// Reservation consumed, completed donation stored.
	_, err = f.pending.GetByMemo(ctx, res.Memo)
	assert.ErrorIs(t, err, models.ErrNotFound)
	stored, err := f.svc.GetDonation(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCompleted, stored.Status)

	// Aggregates updated on all three sides.
	donor, _ := f.donors.GetByID(ctx, f.donorID)
	assert.Equal(t, int64(100), donor.DonationAmount)
	assert.Equal(t, 1, donor.DonationsCount)
	charity, _ := f.charities.GetByID(ctx, f.charityID)
	assert.Equal(t, int64(100), charity.TotalReceived)
	campaign, _ := f.campaigns.GetByID(ctx, f.campaignID)
	assert.Equal(t, int64(100), campaign.TotalReceived)
}

func TestReserveValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Reserve(ctx, "donor-1", uuid.Nil, f.charityID, f.campaignID, 100)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)

	_, err = f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)

	_, err = f.svc.Reserve(ctx, "donor-1", uuid.New(), f.charityID, f.campaignID, 100)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.Reserve(ctx, "donor-1", f.donorID, uuid.New(), f.campaignID, 100)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, uuid.New(), 100)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCompleteUnknownMemo(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Complete(context.Background(), "donor-1", f.donorID, 100, 42, 12345)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, f.verifier.calls, "verifier must not run for an unknown memo")
}

func TestCompleteExpiredReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)

	// Force the window shut.
	f.pending.pending[res.Memo].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = f.svc.Complete(ctx, "donor-1", f.donorID, 100, 42, res.Memo)
	assert.ErrorIs(t, err, models.ErrNotFound)

	donor, _ := f.donors.GetByID(ctx, f.donorID)
	assert.Zero(t, donor.DonationAmount, "expired completion must not touch aggregates")
}

func TestCompleteTwiceSecondFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, "donor-1", f.donorID, 100, 42, res.Memo)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, "donor-1", f.donorID, 100, 42, res.Memo)
	assert.ErrorIs(t, err, models.ErrNotFound)

	donor, _ := f.donors.GetByID(ctx, f.donorID)
	assert.Equal(t, int64(100), donor.DonationAmount, "aggregates applied exactly once")
	assert.Equal(t, 1, donor.DonationsCount)
}

func TestCompleteVerificationFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.verifier.recordedAmount = 50 // ledger saw a smaller transfer

	res, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, "donor-1", f.donorID, 100, 42, res.Memo)
	assert.ErrorIs(t, err, models.ErrNotVerified)

	// Reservation survives a failed verification so the donor can retry.
	still, err := f.pending.GetByMemo(ctx, res.Memo)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusPaymentPending, still.Status)
}

func TestCompleteAmountMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, "donor-1", f.donorID, 250, 42, res.Memo)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
	assert.Zero(t, f.verifier.calls)
}

func TestCompleteWrongDonor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, "donor-1", uuid.New(), 100, 42, res.Memo)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Untouched: the real donor can still complete.
	_, err = f.svc.Complete(ctx, "donor-1", f.donorID, 100, 42, res.Memo)
	assert.NoError(t, err)
}

func TestSweepExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	live, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)

	stale := &models.Donation{
		ID: uuid.New(), Memo: 777, DonorID: f.donorID, CharityID: f.charityID,
		CampaignID: f.campaignID, Amount: 60, Status: models.DonationStatusPaymentPending,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, f.pending.Insert(ctx, stale))

	removed, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = f.pending.GetByMemo(ctx, stale.Memo)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.pending.GetByMemo(ctx, live.Memo)
	assert.NoError(t, err)
}

func TestReserveMemoCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Reserve(ctx, "donor-1", f.donorID, f.charityID, f.campaignID, 100)
	require.NoError(t, err)

	dup := *res
	dup.ID = uuid.New()
	err = f.pending.Insert(ctx, &dup)
	assert.ErrorIs(t, err, models.ErrMemoCollision)
}
