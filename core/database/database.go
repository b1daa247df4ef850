package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"payment-sync/core/retry"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector builds the GORM dialector for the configured driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	switch cfg.Driver {
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode, timeout)
		return postgres.Open(dsn), nil
	case "mysql":
		// Special characters in the password must be URL encoded.
		userInfo := url.UserPassword(cfg.User, cfg.Password).String()
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
			userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Name), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Connect opens the database and verifies it with a ping. Connection errors
// during the ping are retried with exponential backoff.
func Connect(cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	// Suppress GORM logging; failures surface through returned errors.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// In-memory databases exist per connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		maxOpen := cfg.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 20
		}
		sqlDB.SetMaxIdleConns(maxOpen / 2)
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	_, err = retry.Do(ctx, RetryPolicy(cfg, nil), func(ctx context.Context, _ int) error {
		return sqlDB.PingContext(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// RetryPolicy retries connection errors with exponential backoff.
func RetryPolicy(cfg Config, log *zap.Logger) retry.Policy {
	base := time.Duration(cfg.RetryBaseMs) * time.Millisecond
	if base <= 0 {
		base = time.Second
	}
	max := time.Duration(cfg.RetryMaxMs) * time.Millisecond
	if max < base {
		max = base
	}
	return retry.Policy{
		MaxRetries: cfg.MaxRetries,
		Retryable:  IsConnectionError,
		Delay:      retry.Exponential(base, max),
		OnRetry: func(attempt int, delay time.Duration, err error) {
			if log != nil {
				log.Warn("Database connection error, retrying",
					zap.Int("attempt", attempt),
					zap.Duration("delay", delay),
					zap.Error(err))
			}
		},
	}
}
