package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"payment-sync/core/loader"
	"payment-sync/core/logger"
	"payment-sync/core/middleware/auth"
	"payment-sync/core/middleware/rayid"
	"payment-sync/feature/installments"
	"payment-sync/feature/integrity"
	paymentsync "payment-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Payment Sync API
// @version 1.0
// @description Operator API for Asaas synchronization runs.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the operator HTTP server",
	Long: `Starts the HTTP server exposing sync runs, installment status, the rate limit
budget and Prometheus metrics.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()
	zap.ReplaceGlobals(a.logger)
	logg := a.logger

	db, err := a.connectDatabase()
	if err != nil {
		return err
	}

	runner, history, archive, err := a.newRunner(db, a.cfg.Sync)
	if err != nil {
		return err
	}
	syncService := paymentsync.NewService(runner, history, archive, a.governor, a.cfg.Sync, logg)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(auth.New(auth.Config{
		ApiKey: a.cfg.Server.ApiKey,
		Skip:   a.cfg.Server.PublicPaths(),
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	store, err := a.storageClient()
	if err != nil {
		return err
	}

	mgr := loader.NewManager()
	mgr.Register(paymentsync.NewFeature(syncService))
	mgr.Register(installments.NewFeature(a.client, a.cfg.Asaas.PageSize, logg))
	mgr.Register(integrity.NewFeature(db, schemaModels(), store, a.cfg.Storage, a.client, logg))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
		errCh <- app.Listen(a.cfg.Server.Addr())
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sig:
	}

	logg.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logg.Warn("Server shutdown incomplete", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		syncService.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logg.Warn("Sync run still stopping after shutdown timeout")
	}
	return nil
}
