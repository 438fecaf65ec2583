package dto

import "time"

type AuthResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

// PaymentInfoResponse is what a donor needs to make the off-band transfer:
// pay Amount to Payee with Memo before ExpiresAt.
type PaymentInfoResponse struct {
	DonationID string    `json:"donation_id"`
	Payee      string    `json:"payee"`
	Memo       string    `json:"memo"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type VerifyPaymentResponse struct {
	Verified bool `json:"verified"`
}
