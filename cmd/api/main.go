package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpadapter "todoapi/internal/adapter/http"
	teladapter "todoapi/internal/adapter/telemetry"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	appLogger, err := logger.NewLokiLogger(cfg.ServiceName, cfg.Telemetry.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		metrics *telemetry.AppMetrics
		probe   port.Telemetry = telemetry.NewNoOpProbe()
	)

	if cfg.Telemetry.Enabled {
		container, err := teladapter.NewContainer(ctx, cfg, appLogger)

		if err != nil {
			appLogger.Logger.Fatal("Failed to initialize telemetry", zap.Error(err))
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := container.Shutdown(shutdownCtx); err != nil {
				appLogger.Logger.Warn("Telemetry shutdown failed", zap.Error(err))
			}
		}()

		metrics = container.AppMetrics
		metrics.StartSystemMetrics(ctx)
		probe = container.NewTelemetryProbe()
	}

	if err := httpadapter.StartServer(ctx, cfg, metrics, probe, appLogger); err != nil {
		appLogger.Logger.Error("Server stopped", zap.Error(err))
		os.Exit(1)
	}
}
