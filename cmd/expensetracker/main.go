package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	db, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize store", log.FieldError, err, "driver", cfg.DatabaseDriver)
		os.Exit(1)
	}

	publisher, err := cli.ConnectPublisher(logger, cfg)
	if err != nil {
		db.Close()
		logger.Error("Failed to initialize event publisher", log.FieldError, err)
		os.Exit(1)
	}

	service := services.NewExpenseService(storage.NewRepository(db), publisher)
	defer func() {
		if err := service.Close(); err != nil {
			logger.Error("Failed to release resources", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, service, service, service, service, logger)
	if err := srv.TrustProxies(cfg.TrustedProxies...); err != nil {
		logger.Error("Invalid trusted proxy", log.FieldError, err, log.FieldOperation, log.OpStartup)
		service.Close()
		os.Exit(1)
	}

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting expensetracker server",
			"port", cfg.Port,
			"driver", cfg.DatabaseDriver,
			"trusted_proxies", len(cfg.TrustedProxies),
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err, log.FieldOperation, log.OpShutdown)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		service.Close()
		os.Exit(1)
	}

	metrics := srv.Metrics()
	logger.Info("Server stopped gracefully",
		"total_requests", metrics.TotalRequests,
		"avg_response_time", metrics.AverageResponseTime().String())
}
