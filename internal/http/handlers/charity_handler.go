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

type CharityHandler struct {
	charityService *services.CharityService
	log            *zap.Logger
}

func NewCharityHandler(charityService *services.CharityService, log *zap.Logger) *CharityHandler {
	return &CharityHandler{charityService: charityService, log: log}
}

func (h *CharityHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterCharityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	charity := &models.Charity{
		Name:    req.Name,
		Website: req.Website,
		Email:   req.Email,
	}

	caller := middleware.GetIdentity(c)
	if err := h.charityService.Register(c.Context(), caller, charity); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: charity})
}

func (h *CharityHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid charity id"})
	}

	charity, err := h.charityService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: charity})
}

func (h *CharityHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid charity id"})
	}

	var req dto.UpdateCharityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	update := &models.Charity{Website: req.Website, Email: req.Email}
	if req.Name != nil {
		update.Name = *req.Name
	}
	if req.Status != nil {
		update.Status = *req.Status
	}

	caller := middleware.GetIdentity(c)
	charity, err := h.charityService.Update(c.Context(), id, caller, update)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: charity})
}

func (h *CharityHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	charities, err := h.charityService.List(c.Context(), limit, offset)
	if err != nil {
		h.log.Error("list charities failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: charities})
}
