package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donorhub/backend/internal/config"
	"github.com/donorhub/backend/internal/db"
	"github.com/donorhub/backend/internal/events"
	"github.com/donorhub/backend/internal/ledger"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/donorhub/backend/internal/services"
	"github.com/donorhub/backend/internal/sitemeta"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	donorRepo := repositories.NewDonorRepo(pool)
	charityRepo := repositories.NewCharityRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	reservationRepo := repositories.NewReservationRepo(pool)
	donationRepo := repositories.NewDonationRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	ledgerClient := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerRetryMax, time.Duration(cfg.LedgerTimeoutMS)*time.Millisecond, log)
	verifier := ledger.NewVerifier(ledgerClient, log)
	donationService := services.NewDonationService(donorRepo, charityRepo, campaignRepo, reservationRepo, donationRepo, verifier, auditRepo, publisher, cfg, log)
	parser := sitemeta.NewParser(cfg.SiteFetchTimeoutMS, cfg.SiteFetchMaxRetries, log)

	log.Info("worker started")

	sweepTicker := time.NewTicker(cfg.SweepInterval)
	siteTicker := time.NewTicker(1 * time.Hour)
	defer sweepTicker.Stop()
	defer siteTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			runReservationSweep(ctx, donationService, log)
		case <-siteTicker.C:
			runSiteRefresh(ctx, charityRepo, parser, cfg, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runReservationSweep(ctx context.Context, donationService *services.DonationService, log *zap.Logger) {
	removed, err := donationService.SweepExpired(ctx)
	if err != nil {
		log.Error("reservation sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		log.Info("swept expired reservations", zap.Int64("count", removed))
	}
}

// runSiteRefresh re-fetches website metadata for charities whose last check
// is older than the refresh interval.
func runSiteRefresh(ctx context.Context, charityRepo *repositories.CharityRepo, parser *sitemeta.Parser, cfg *config.Config, log *zap.Logger) {
	charities, err := charityRepo.ListForSiteRefresh(ctx, time.Now().Add(-cfg.SiteRefreshInterval), 50)
	if err != nil {
		log.Error("failed to list charities for site refresh", zap.Error(err))
		return
	}

	for _, charity := range charities {
		if charity.Website == nil || *charity.Website == "" {
			continue
		}

		meta, err := parser.Fetch(ctx, *charity.Website)
		if err != nil {
			log.Warn("site fetch failed",
				zap.String("charity_id", charity.ID.String()),
				zap.String("website", *charity.Website),
				zap.Error(err),
			)
			continue
		}

		var title, description *string
		if meta.Title != "" {
			title = &meta.Title
		}
		if meta.Description != "" {
			description = &meta.Description
		}

		if err := charityRepo.UpdateSiteMeta(ctx, charity.ID, title, description); err != nil {
			log.Error("failed to store site metadata",
				zap.String("charity_id", charity.ID.String()),
				zap.Error(err),
			)
			continue
		}

		log.Info("site metadata refreshed",
			zap.String("charity_id", charity.ID.String()),
			zap.String("title", meta.Title),
		)

		time.Sleep(1 * time.Second) // rate limiting
	}
}
