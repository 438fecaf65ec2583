package handlers

import (
	"github.com/donorhub/backend/internal/http/dto"
	"github.com/donorhub/backend/internal/middleware"
	"github.com/donorhub/backend/internal/models"
	"github.com/donorhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DonorHandler struct {
	donorService *services.DonorService
	log          *zap.Logger
}

func NewDonorHandler(donorService *services.DonorService, log *zap.Logger) *DonorHandler {
	return &DonorHandler{donorService: donorService, log: log}
}

func (h *DonorHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterDonorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	donor := &models.Donor{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}

	caller := middleware.GetIdentity(c)
	if err := h.donorService.Register(c.Context(), caller, donor); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: donor})
}

func (h *DonorHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donor id"})
	}

	donor, err := h.donorService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donor})
}

func (h *DonorHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donor id"})
	}

	var req dto.UpdateDonorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	update := &models.Donor{Email: req.Email, Phone: req.Phone}
	if req.Name != nil {
		update.Name = *req.Name
	}
	if req.Status != nil {
		update.Status = *req.Status
	}

	caller := middleware.GetIdentity(c)
	donor, err := h.donorService.Update(c.Context(), id, caller, update)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donor})
}

func (h *DonorHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	donors, err := h.donorService.List(c.Context(), limit, offset)
	if err != nil {
		h.log.Error("list donors failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: donors})
}

// ListCampaigns returns the campaigns the donor has accepted.
func (h *DonorHandler) ListCampaigns(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid donor id"})
	}

	campaigns, err := h.donorService.ListCampaigns(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}
