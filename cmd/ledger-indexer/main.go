// The ledger indexer tails the external transfer ledger and auto-completes
// reservations whose payment it observes, so donors don't have to call the
// completion endpoint themselves.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/donorhub/backend/internal/config"
	"github.com/donorhub/backend/internal/db"
	"github.com/donorhub/backend/internal/events"
	"github.com/donorhub/backend/internal/ledger"
	"github.com/donorhub/backend/internal/models"
	"github.com/donorhub/backend/internal/repositories"
	"github.com/donorhub/backend/internal/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisCursor    = "ledger-indexer:cursor"
	redisProcessed = "ledger-indexer:block:"
	processedTTL   = 7 * 24 * time.Hour
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.LedgerBaseURL == "" {
		log.Fatal("LEDGER_BASE_URL is required")
	}

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

	donorRepo := repositories.NewDonorRepo(pool)
	charityRepo := repositories.NewCharityRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	reservationRepo := repositories.NewReservationRepo(pool)
	donationRepo := repositories.NewDonationRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)

	ledgerClient := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerRetryMax, time.Duration(cfg.LedgerTimeoutMS)*time.Millisecond, log)
	verifier := ledger.NewVerifier(ledgerClient, log)
	donationService := services.NewDonationService(donorRepo, charityRepo, campaignRepo, reservationRepo, donationRepo, verifier, auditRepo, publisher, cfg, log)

	log.Info("ledger indexer started", zap.String("ledger", cfg.LedgerBaseURL))

	initCursor(ctx, ledgerClient, rdb, log)

	ticker := time.NewTicker(cfg.IndexerPollPeriod)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := pollAndProcess(ctx, ledgerClient, reservationRepo, donationService, rdb, cfg, log); err != nil {
				log.Error("poll cycle failed", zap.Error(err))
			}
		case <-sigCh:
			log.Info("shutting down ledger indexer")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// initCursor positions the cursor at the chain tip on first run so only
// blocks arriving after startup are processed.
func initCursor(ctx context.Context, client *ledger.Client, rdb *redis.Client, log *zap.Logger) {
	existing, _ := rdb.Get(ctx, redisCursor).Result()
	if existing != "" {
		log.Info("resuming from saved cursor", zap.String("cursor", existing))
		return
	}

	resp, err := client.QueryBlocks(ctx, 0, 0)
	if err != nil {
		log.Warn("failed to get chain length for cursor init", zap.Error(err))
		rdb.Set(ctx, redisCursor, "0", 0)
		return
	}

	saveCursor(ctx, rdb, resp.ChainLength)
	log.Info("cursor initialized at chain tip (skipping historical blocks)",
		zap.Uint64("chain_length", resp.ChainLength),
	)
}

func loadCursor(ctx context.Context, rdb *redis.Client) uint64 {
	val, err := rdb.Get(ctx, redisCursor).Result()
	if err != nil || val == "" {
		return 0
	}
	cursor, _ := strconv.ParseUint(val, 10, 64)
	return cursor
}

func saveCursor(ctx context.Context, rdb *redis.Client, cursor uint64) {
	rdb.Set(ctx, redisCursor, strconv.FormatUint(cursor, 10), 0)
}

// pollAndProcess runs a single poll cycle: fetch blocks past the cursor,
// match transfers to open reservations by memo, complete the matched ones,
// then advance the cursor.
func pollAndProcess(
	ctx context.Context,
	client *ledger.Client,
	reservationRepo *repositories.ReservationRepo,
	donationService *services.DonationService,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) error {
	cursor := loadCursor(ctx, rdb)

	resp, err := client.QueryBlocks(ctx, cursor, uint64(cfg.IndexerBatchSize))
	if err != nil {
		return fmt.Errorf("query blocks from %d: %w", cursor, err)
	}

	if len(resp.Blocks) == 0 {
		return nil
	}

	for _, block := range resp.Blocks {
		processBlock(ctx, block, reservationRepo, donationService, rdb, log)
	}

	last := resp.Blocks[len(resp.Blocks)-1]
	saveCursor(ctx, rdb, last.Index+1)
	return nil
}

// processBlock completes the reservation a block's transfer pays for, if any.
func processBlock(
	ctx context.Context,
	block ledger.Block,
	reservationRepo *repositories.ReservationRepo,
	donationService *services.DonationService,
	rdb *redis.Client,
	log *zap.Logger,
) {
	if block.Transfer == nil {
		return
	}

	// Idempotency: skip if already processed
	blockKey := fmt.Sprintf("%s%d", redisProcessed, block.Index)
	if rdb.Exists(ctx, blockKey).Val() > 0 {
		return
	}

	memo := block.Transfer.Memo

	res, err := reservationRepo.GetByMemo(ctx, memo)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Error("failed to look up reservation", zap.Uint64("memo", memo), zap.Error(err))
			return
		}
		rdb.Set(ctx, blockKey, "no_reservation", processedTTL)
		return
	}

	log.Info("payment detected for open reservation",
		zap.Uint64("block", block.Index),
		zap.Uint64("memo", memo),
		zap.Int64("amount", block.Transfer.Amount),
	)

	// Complete on behalf of the reserving payer; the verifier re-checks the
	// block contents, so a transfer from anyone else simply won't verify.
	donation, err := donationService.Complete(ctx, res.Payer, res.DonorID, res.Amount, block.Index, memo)
	if err != nil {
		if errors.Is(err, models.ErrNotVerified) || errors.Is(err, models.ErrNotFound) {
			log.Warn("transfer did not complete the reservation",
				zap.Uint64("block", block.Index),
				zap.Uint64("memo", memo),
				zap.Error(err),
			)
			rdb.Set(ctx, blockKey, "rejected", processedTTL)
			return
		}
		log.Error("completion failed", zap.Uint64("memo", memo), zap.Error(err))
		return
	}

	rdb.Set(ctx, blockKey, "completed:"+donation.ID.String(), processedTTL)

	log.Info("reservation auto-completed",
		zap.String("donation_id", donation.ID.String()),
		zap.Uint64("block", block.Index),
		zap.Uint64("memo", memo),
	)
}
