package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donorhub/backend/internal/config"
	"github.com/donorhub/backend/internal/db"
	"github.com/donorhub/backend/internal/events"
	apphttp "github.com/donorhub/backend/internal/http"
	"github.com/donorhub/backend/internal/http/handlers"
	"github.com/donorhub/backend/internal/ledger"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/donorhub/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	donorRepo := repositories.NewDonorRepo(pool)
	charityRepo := repositories.NewCharityRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	reservationRepo := repositories.NewReservationRepo(pool)
	donationRepo := repositories.NewDonationRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Ledger verification
	ledgerClient := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerRetryMax, time.Duration(cfg.LedgerTimeoutMS)*time.Millisecond, log)
	verifier := ledger.NewVerifier(ledgerClient, log)

	// Services
	donationService := services.NewDonationService(donorRepo, charityRepo, campaignRepo, reservationRepo, donationRepo, verifier, auditRepo, publisher, cfg, log)
	campaignService := services.NewCampaignService(campaignRepo, charityRepo, donorRepo, auditRepo, publisher, log)
	donorService := services.NewDonorService(donorRepo, campaignRepo, auditRepo, log)
	charityService := services.NewCharityService(charityRepo, auditRepo, log)
	reportService := services.NewReportService(reportRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	donorHandler := handlers.NewDonorHandler(donorService, log)
	charityHandler := handlers.NewCharityHandler(charityService, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, log)
	donationHandler := handlers.NewDonationHandler(donationService, log)
	reportHandler := handlers.NewReportHandler(reportService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, donorHandler, charityHandler, campaignHandler, donationHandler, reportHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
