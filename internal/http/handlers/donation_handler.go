package handlers

import (
	"strconv"

	"github.com/donorhub/backend/internal/http/dto"
	"github.com/donorhub/backend/internal/middleware"
	"github.com/donorhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DonationHandler struct {
	donationService *services.DonationService
	log             *zap.Logger
}

func NewDonationHandler(donationService *services.DonationService, log *zap.Logger) *DonationHandler {
	return &DonationHandler{donationService: donationService, log: log}
}

// Reserve opens a payment window: the response tells the donor who to pay,
// how much, and which memo to attach to the transfer.
func (h *DonationHandler) Reserve(c *fiber.Ctx) error {
	var req dto.ReserveDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	donorID, err := uuid.Parse(req.DonorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donor_id"})
	}
	charityID, err := uuid.Parse(req.CharityID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid charity_id"})
	}
	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
	}

	caller := middleware.GetIdentity(c)
	res, err := h.donationService.Reserve(c.Context(), caller, donorID, charityID, campaignID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: dto.PaymentInfoResponse{
		DonationID: res.ID.String(),
		Payee:      res.Payee,
		Memo:       strconv.FormatUint(res.Memo, 10),
		Amount:     res.Amount,
		Status:     res.Status,
		ExpiresAt:  res.ExpiresAt,
	}})
}

// Complete converts a paid reservation into a completed donation after the
// transfer is found and verified in the given ledger block.
func (h *DonationHandler) Complete(c *fiber.Ctx) error {
	var req dto.CompleteDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	donorID, err := uuid.Parse(req.DonorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donor_id"})
	}

	caller := middleware.GetIdentity(c)
	donation, err := h.donationService.Complete(c.Context(), caller, donorID, req.Amount, req.BlockIndex, req.Memo)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donation})
}

// Verify checks a block for a matching transfer without touching any
// reservation.
func (h *DonationHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Receiver == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "receiver is required"})
	}

	caller := middleware.GetIdentity(c)
	ok, err := h.donationService.VerifyPayment(c.Context(), caller, req.Receiver, req.Amount, req.BlockIndex, req.Memo)
	if err != nil {
		h.log.Error("payment verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "ledger unavailable"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.VerifyPaymentResponse{Verified: ok}})
}

func (h *DonationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donation id"})
	}

	donation, err := h.donationService.GetDonation(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donation})
}

// GetPending returns the payment info for an open reservation by memo.
func (h *DonationHandler) GetPending(c *fiber.Ctx) error {
	memo, err := strconv.ParseUint(c.Params("memo"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid memo"})
	}

	res, err := h.donationService.GetPendingByMemo(c.Context(), memo)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.PaymentInfoResponse{
		DonationID: res.ID.String(),
		Payee:      res.Payee,
		Memo:       strconv.FormatUint(res.Memo, 10),
		Amount:     res.Amount,
		Status:     res.Status,
		ExpiresAt:  res.ExpiresAt,
	}})
}

func (h *DonationHandler) ListByDonor(c *fiber.Ctx) error {
	donorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donor id"})
	}

	donations, err := h.donationService.ListByDonor(c.Context(), donorID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donations})
}

func (h *DonationHandler) ListByCampaign(c *fiber.Ctx) error {
	campaignID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	donations, err := h.donationService.ListByCampaign(c.Context(), campaignID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donations})
}
