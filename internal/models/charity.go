package models

import (
	"time"

	"github.com/google/uuid"
)

type Charity struct {
	ID              uuid.UUID  `json:"id"`
	Owner           string     `json:"owner"`
	Name            string     `json:"name"`
	Email           *string    `json:"email,omitempty"`
	Website         *string    `json:"website,omitempty"`
	SiteTitle       *string    `json:"site_title,omitempty"`
	SiteDescription *string    `json:"site_description,omitempty"`
	SiteCheckedAt   *time.Time `json:"site_checked_at,omitempty"`
	TotalReceived   int64      `json:"total_received"`
	DonationsCount  int        `json:"donations_count"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
