package models

import (
	"time"

	"github.com/google/uuid"
)

// DonationReport is a denormalized record created independently of the
// reservation lifecycle.
type DonationReport struct {
	ID         uuid.UUID `json:"id"`
	DonorID    uuid.UUID `json:"donor_id"`
	CharityID  uuid.UUID `json:"charity_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
