package dto

// Auth

type AuthTokenRequest struct {
	Identity string `json:"identity"`
}

// Donors / charities

type RegisterDonorRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type UpdateDonorRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty"`
}

type RegisterCharityRequest struct {
	Name    string  `json:"name"`
	Website *string `json:"website,omitempty"`
	Email   *string `json:"email,omitempty"`
}

type UpdateCharityRequest struct {
	Name    *string `json:"name,omitempty"`
	Website *string `json:"website,omitempty"`
	Email   *string `json:"email,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// Campaigns

type CreateCampaignRequest struct {
	CharityID    string  `json:"charity_id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	TargetAmount int64   `json:"target_amount"`
}

type AcceptCampaignRequest struct {
	DonorID string `json:"donor_id"`
}

// Donations

type ReserveDonationRequest struct {
	DonorID    string `json:"donor_id"`
	CharityID  string `json:"charity_id"`
	CampaignID string `json:"campaign_id"`
	Amount     int64  `json:"amount"`
}

// Memo and block index travel as decimal strings so 64-bit values survive
// JSON number precision limits.
type CompleteDonationRequest struct {
	DonorID    string `json:"donor_id"`
	Amount     int64  `json:"amount"`
	BlockIndex uint64 `json:"block_index,string"`
	Memo       uint64 `json:"memo,string"`
}

type VerifyPaymentRequest struct {
	Receiver   string `json:"receiver"`
	Amount     int64  `json:"amount"`
	BlockIndex uint64 `json:"block_index,string"`
	Memo       uint64 `json:"memo,string"`
}

// Reports

type CreateReportRequest struct {
	DonorID    string `json:"donor_id"`
	CharityID  string `json:"charity_id"`
	CampaignID string `json:"campaign_id"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status,omitempty"`
}
