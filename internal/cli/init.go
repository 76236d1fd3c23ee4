// Package cli provides common CLI initialization utilities shared by
// cmd/expensetracker and cmd/expensetracker-migrate.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expensetracker/internal/amqp"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger. Unknown levels fall back to info.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := config.ParseLogLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Migrate applies pending schema migrations for the configured store.
func Migrate(logger *log.Logger, cfg *config.Config) error {
	dialect := storage.Dialect(cfg.DatabaseDriver)
	if err := storage.RunMigrations(dialect, cfg.DSN()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := storage.SchemaVersion(dialect, cfg.DSN())
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.WithComponent(log.ComponentMigrate).Info("Schema up to date",
		"driver", cfg.DatabaseDriver,
		"version", version,
		"dirty", dirty)
	return nil
}

// OpenStore opens the connection pool, running migrations first when
// AutoMigrate is set.
func OpenStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (*storage.DB, error) {
	if cfg.AutoMigrate {
		if err := Migrate(logger, cfg); err != nil {
			return nil, err
		}
	}

	db, err := storage.Open(ctx, storage.Options{
		Dialect:         storage.Dialect(cfg.DatabaseDriver),
		DSN:             cfg.DSN(),
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger.WithComponent(log.ComponentStorage).Info("Store opened",
		"driver", cfg.DatabaseDriver,
		"max_open_conns", cfg.MaxOpenConns,
		"auto_migrate", cfg.AutoMigrate)
	return db, nil
}

// ConnectPublisher returns the AMQP event publisher, or nil when no broker
// is configured.
func ConnectPublisher(logger *log.Logger, cfg *config.Config) (services.EventPublisher, error) {
	amqpLogger := logger.WithComponent(log.ComponentAMQP)
	if cfg.AMQPURL == "" {
		amqpLogger.Info("Event publishing disabled - no AMQP_URL provided")
		return nil, nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect AMQP: %w", err)
	}
	amqpLogger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
