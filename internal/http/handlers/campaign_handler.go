package handlers

import (
	"context"

	"github.com/donorhub/backend/internal/http/dto"
	"github.com/donorhub/backend/internal/middleware"
	"github.com/donorhub/backend/internal/models"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/donorhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, log: log}
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	charityID, err := uuid.Parse(req.CharityID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid charity_id"})
	}

	campaign := &models.Campaign{
		CharityID:    charityID,
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
	}

	caller := middleware.GetIdentity(c)
	if err := h.campaignService.Create(c.Context(), caller, campaign); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	campaign, err := h.campaignService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: campaign})
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	filter := repositories.CampaignFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("charity_id"); v != "" {
		charityID, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid charity_id"})
		}
		filter.CharityID = &charityID
	}

	campaigns, err := h.campaignService.List(c.Context(), filter)
	if err != nil {
		h.log.Error("list campaigns failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *CampaignHandler) Activate(c *fiber.Ctx) error {
	return h.transition(c, h.campaignService.Activate)
}

func (h *CampaignHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, h.campaignService.Complete)
}

func (h *CampaignHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.campaignService.Cancel)
}

// Accept records that a donor joins the campaign. Callable by the donor's
// owner, repeatably.
func (h *CampaignHandler) Accept(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.AcceptCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	donorID, err := uuid.Parse(req.DonorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donor_id"})
	}

	caller := middleware.GetIdentity(c)
	if err := h.campaignService.Accept(c.Context(), id, donorID, caller); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) ListDonors(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	donors, err := h.campaignService.ListDonors(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donors})
}

func (h *CampaignHandler) GetEvents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	eventsLog, err := h.campaignService.GetEvents(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: eventsLog})
}

func (h *CampaignHandler) transition(c *fiber.Ctx, op func(ctx context.Context, id uuid.UUID, caller string) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	caller := middleware.GetIdentity(c)
	if err := op(c.Context(), id, caller); err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
