package handlers

import (
	"github.com/donorhub/backend/internal/auth"
	"github.com/donorhub/backend/internal/config"
	"github.com/donorhub/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// IssueToken exchanges an identity for a signed JWT. The identity doubles as
// the ledger account owner, so it is also what payments are verified against.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.AuthTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if req.Identity == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "identity is required"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, req.Identity, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.AuthResponse{Token: token})
}
