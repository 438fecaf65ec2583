package http

import (
	"time"

	"github.com/donorhub/backend/internal/config"
	"github.com/donorhub/backend/internal/http/handlers"
	"github.com/donorhub/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	donorHandler *handlers.DonorHandler,
	charityHandler *handlers.CharityHandler,
	campaignHandler *handlers.CampaignHandler,
	donationHandler *handlers.DonationHandler,
	reportHandler *handlers.ReportHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/token", authHandler.IssueToken)

	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute))

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Donors
	protected.Post("/donors", donorHandler.Register)
	protected.Get("/donors", donorHandler.List)
	protected.Get("/donors/:id", donorHandler.Get)
	protected.Put("/donors/:id", donorHandler.Update)
	protected.Get("/donors/:id/campaigns", donorHandler.ListCampaigns)
	protected.Get("/donors/:id/donations", donationHandler.ListByDonor)

	// Charities
	protected.Post("/charities", charityHandler.Register)
	protected.Get("/charities", charityHandler.List)
	protected.Get("/charities/:id", charityHandler.Get)
	protected.Put("/charities/:id", charityHandler.Update)

	// Campaigns
	protected.Post("/campaigns", campaignHandler.Create)
	protected.Get("/campaigns", campaignHandler.List)
	protected.Get("/campaigns/:id", campaignHandler.Get)
	protected.Post("/campaigns/:id/activate", campaignHandler.Activate)
	protected.Post("/campaigns/:id/accept", campaignHandler.Accept)
	protected.Post("/campaigns/:id/complete", campaignHandler.Complete)
	protected.Post("/campaigns/:id/cancel", campaignHandler.Cancel)
	protected.Get("/campaigns/:id/donors", campaignHandler.ListDonors)
	protected.Get("/campaigns/:id/events", campaignHandler.GetEvents)
	protected.Get("/campaigns/:id/donations", donationHandler.ListByCampaign)

	// Donations (reservation protocol)
	protected.Post("/donations/reserve", donationHandler.Reserve)
	protected.Post("/donations/complete", donationHandler.Complete)
	protected.Post("/donations/verify", donationHandler.Verify)
	protected.Get("/donations/pending/:memo", donationHandler.GetPending)
	protected.Get("/donations/:id", donationHandler.Get)

	// Reports
	protected.Post("/reports", reportHandler.Create)
	protected.Get("/reports", reportHandler.List)
	protected.Get("/reports/:id", reportHandler.Get)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
