package http

import (
	"context"
	"errors"
	"net/http"

	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/core/port"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"

	"go.uber.org/zap"
)

// StartServer serves the API until ctx is cancelled, then drains in-flight
// requests within cfg.HTTP.ShutdownTimeout.
func StartServer(ctx context.Context, cfg *config.AppConfig, metrics *telemetry.AppMetrics, probe port.Telemetry, log *logger.LokiLogger) error {
	container, err := NewContainer(ctx, cfg, probe, log)

	if err != nil {
		return err
	}

	defer container.Close()

	router := routes.SetupRouter(routes.RouterConfig{
		TodoHandler: container.TodoHandler,
		Metrics:     metrics,
		Logger:      log,
		Config:      cfg,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	log.Logger.Info("Server starting",
		zap.String("addr", srv.Addr),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.Database.Driver),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
	)

	serveErr := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-serveErr
}
