package events

import "context"

// Event types
const (
	EventDonationReserved      = "donation_reserved"
	EventDonationCompleted     = "donation_completed"
	EventReservationExpired    = "reservation_expired"
	EventCampaignStatusChanged = "campaign_status_changed"
)

// Streams
const (
	StreamDonations = "events:donation"
	StreamCampaigns = "events:campaign"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
