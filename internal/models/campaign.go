package models

import (
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusPending   = "pending"
	CampaignStatusActive    = "active"
	CampaignStatusAccepted  = "accepted"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

// Valid state transitions: from -> []to. Cancellation is reachable from
// every non-terminal state; completed and cancelled are terminal.
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusPending:   {CampaignStatusActive, CampaignStatusAccepted, CampaignStatusCancelled},
	CampaignStatusActive:    {CampaignStatusAccepted, CampaignStatusCancelled},
	CampaignStatusAccepted:  {CampaignStatusCompleted, CampaignStatusCancelled},
	CampaignStatusCompleted: {},
	CampaignStatusCancelled: {},
}

func IsValidCampaignTransition(from, to string) bool {
	allowed, ok := ValidCampaignTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID            uuid.UUID `json:"id"`
	CharityID     uuid.UUID `json:"charity_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	TargetAmount  int64     `json:"target_amount"`
	TotalReceived int64     `json:"total_received"`
	Status        string    `json:"status"`
	Creator       string    `json:"creator"` // identity that receives campaign payments
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
