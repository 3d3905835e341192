package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/podolab/salon-bot/internal/availability"
	"github.com/podolab/salon-bot/internal/booking"
	"github.com/podolab/salon-bot/internal/config"
	"github.com/podolab/salon-bot/internal/notify"
	"github.com/podolab/salon-bot/internal/ops"
	"github.com/podolab/salon-bot/internal/storage"
	"github.com/podolab/salon-bot/internal/telegram"
	"github.com/podolab/salon-bot/pkg/logging"
)

func main() {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	logger.Info("starting salon bot",
		"env", cfg.Env,
		"store_backend", cfg.StoreBackend,
		"workday_count", cfg.WorkdayCount,
	)

	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_TOKEN is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	sessions := newSessionStore(cfg, logger)

	bot, err := telegram.NewBot(cfg.TelegramToken, logger)
	if err != nil {
		logger.Error("telegram init failed", "error", err)
		os.Exit(1)
	}

	metrics := booking.NewMetrics(nil)
	machine := booking.NewMachine(
		sessions,
		availability.NewService(store, logger),
		store,
		notify.NewService(bot, cfg.StaffChatID, logger),
		booking.WithWorkdayCount(cfg.WorkdayCount),
		booking.WithMetrics(metrics),
		booking.WithLogger(logger),
	)

	assets := telegram.Assets{
		PricePath:    cfg.PriceImagePath,
		SchedulePath: cfg.ScheduleImagePath,
		PrepPath:     cfg.PrepImagePath,
	}
	dispatcher := telegram.NewDispatcher(bot, machine, assets, cfg.BackendTimeout, logger)

	opsSrv := ops.NewServer(cfg.Port, nil, logger)
	go func() {
		if err := opsSrv.Start(); err != nil {
			logger.Error("ops server error", "error", err)
		}
	}()

	logger.Info("bot polling for updates")
	if err := dispatcher.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("dispatcher stopped", "error", err)
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server forced to shutdown", "error", err)
	}
	logger.Info("bot stopped")
}

// newStore picks the persistence backend. The hosted product records
// appointments in Airtable; self-hosted installs use Postgres.
func newStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) (storage.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return storage.NewPostgresStore(pool), pool.Close, nil
	case config.StoreAirtable:
		if cfg.AirtableBaseID == "" || cfg.AirtableTable == "" || cfg.AirtableToken == "" {
			return nil, nil, fmt.Errorf("AIRTABLE_BASE_ID, AIRTABLE_TABLE and AIRTABLE_TOKEN are required for the airtable backend")
		}
		store := storage.NewAirtableStore(
			cfg.AirtableBaseID, cfg.AirtableTable, cfg.AirtableToken,
			storage.WithLogger(logger),
		)
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// newSessionStore keeps booking sessions in Redis when configured and
// falls back to process memory, which loses sessions on restart.
func newSessionStore(cfg *config.Config, logger *logging.Logger) booking.SessionStore {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, booking sessions are in-memory only")
		return booking.NewMemorySessionStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return booking.NewRedisSessionStore(client, cfg.SessionTTL)
}
