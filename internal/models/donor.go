package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile statuses shared by donors and charities.
const (
	ProfileStatusActive    = "active"
	ProfileStatusInactive  = "inactive"
	ProfileStatusSuspended = "suspended"
)

func IsValidProfileStatus(s string) bool {
	switch s {
	case ProfileStatusActive, ProfileStatusInactive, ProfileStatusSuspended:
		return true
	}
	return false
}

type Donor struct {
	ID             uuid.UUID `json:"id"`
	Owner          string    `json:"owner"` // caller identity that registered the profile
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	DonationAmount int64     `json:"donation_amount"`
	DonationsCount int       `json:"donations_count"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
