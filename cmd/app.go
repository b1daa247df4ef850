package cmd

import (
	"context"
	"fmt"
	"time"

	"payment-sync/core/asaas"
	"payment-sync/core/config"
	"payment-sync/core/database"
	"payment-sync/core/logger"
	"payment-sync/core/ratelimit"
	"payment-sync/core/storage"
	paymentsync "payment-sync/feature/sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app bundles what the commands share: configuration, logger, governor and
// provider client.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	governor *ratelimit.Governor
	client   *asaas.Client
	redis    *redis.Client
	store    storage.Client
}

// newApp loads configuration and builds the provider stack. withProvider
// requires the provider credentials.
func newApp(withProvider bool) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if withProvider {
		if err := cfg.Asaas.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: l}
	if !withProvider {
		return a, nil
	}

	opts := []ratelimit.Option{ratelimit.WithLogger(l)}
	if cfg.RateLimit.RedisAddr != "" {
		rdb := ratelimit.NewRedisClient(cfg.RateLimit)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			// The governor still works on its own, only the sharing is lost.
			l.Warn("Redis unreachable, rate limit state stays local", zap.String("addr", cfg.RateLimit.RedisAddr), zap.Error(err))
			_ = rdb.Close()
		} else {
			a.redis = rdb
			opts = append(opts, ratelimit.WithStateStore(ratelimit.NewRedisStore(rdb, cfg.RateLimit.RedisKey)))
			l.Info("Sharing rate limit state through Redis", zap.String("addr", cfg.RateLimit.RedisAddr))
		}
	}

	a.governor = ratelimit.New(cfg.RateLimit, opts...)
	a.client = asaas.New(cfg.Asaas, a.governor, asaas.WithLogger(l))
	return a, nil
}

// close flushes the logger and releases connections.
func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.logger.Sync()
}

// connectDatabase opens the local store.
func (a *app) connectDatabase() (*gorm.DB, error) {
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// storageClient returns the object storage client, or nil when archiving is
// disabled. The client is created once.
func (a *app) storageClient() (storage.Client, error) {
	if !a.cfg.Storage.Enabled {
		return nil, nil
	}
	if a.store == nil {
		client, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		a.store = client
	}
	return a.store, nil
}

// newArchive returns the report archive, or nil when archiving is disabled.
func (a *app) newArchive() (*paymentsync.Archive, error) {
	client, err := a.storageClient()
	if err != nil || client == nil {
		return nil, err
	}
	return paymentsync.NewArchive(client, a.cfg.Storage), nil
}

// newRunner wires a sync runner with history and the optional archive.
func (a *app) newRunner(db *gorm.DB, syncCfg paymentsync.Config) (*paymentsync.Runner, *paymentsync.History, *paymentsync.Archive, error) {
	archive, err := a.newArchive()
	if err != nil {
		return nil, nil, nil, err
	}
	history := paymentsync.NewHistory(db, a.cfg.Database, a.logger)

	opts := []paymentsync.Option{
		paymentsync.WithLogger(a.logger),
		paymentsync.WithHistory(history),
		paymentsync.WithPageSize(a.cfg.Asaas.PageSize),
	}
	if archive != nil {
		opts = append(opts, paymentsync.WithArchive(archive))
	}
	return paymentsync.NewRunner(a.client, db, a.cfg.Database, syncCfg, opts...), history, archive, nil
}
