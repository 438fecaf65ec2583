package models

import (
	"time"

	"github.com/google/uuid"
)

// Donation statuses
const (
	DonationStatusPaymentPending = "payment_pending"
	DonationStatusCompleted      = "completed"
)

// Donation is both a pending reservation and a completed donation; the two
// live in disjoint tables (pending_donations keyed by memo, donations keyed
// by id) and a logical donation exists in exactly one of them at any time.
//
// Memo is the correlation token tying the reservation to an off-band ledger
// transfer. It is serialized as a JSON string because uint64 values above
// 2^53 do not survive a float64 round trip.
type Donation struct {
	ID          uuid.UUID  `json:"id"`
	Memo        uint64     `json:"memo,string"`
	DonorID     uuid.UUID  `json:"donor_id"`
	CharityID   uuid.UUID  `json:"charity_id"`
	CampaignID  uuid.UUID  `json:"campaign_id"`
	Payer       string     `json:"payer"` // donor's owning identity
	Payee       string     `json:"payee"` // campaign creator's identity
	Amount      int64      `json:"amount"`
	Status      string     `json:"status"`
	PaidAtBlock *uint64    `json:"paid_at_block,omitempty"`
	CompletedBy *string    `json:"completed_by,omitempty"` // verifying caller
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at,omitzero"` // pending only
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Expired reports whether the reservation window has closed at the given time.
func (d *Donation) Expired(now time.Time) bool {
	return !d.ExpiresAt.After(now)
}
