// Package app assembles the service: config, logging, tracing, the sheets
// client, the pipeline service and the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"refundlens/internal/config"
	"refundlens/internal/infrastructure"
	"refundlens/internal/middleware"
	"refundlens/internal/services"
	"refundlens/internal/sheets"
	handlers "refundlens/internal/transport/http"
)

// Application is the main application container.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Pipeline  *services.PipelineService
}

// NewApplication wires the application with dependency injection.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	ctx := context.Background()
	logger.InfoContext(ctx, "application starting",
		slog.String("service", infrastructure.ServiceName),
		slog.String("version", infrastructure.ServiceVersion))

	telemetry, err := infrastructure.InitTracing(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	provider, err := sheets.NewClient(ctx, cfg.Sheets, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize sheets client: %w", err)
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry,
		Pipeline:  services.NewPipelineService(provider, cfg.Sheets, logger),
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	if a.Config.HTTP.RateLimitEnabled {
		r.Use(middleware.RateLimit(a.Config.HTTP.RateLimitRPS, a.Config.HTTP.RateLimitBurst))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler()
		r.Get("/health", healthHandler.Health)

		pipelineHandler := handlers.NewPipelineHandler(a.Pipeline, a.Logger)
		r.Mount("/pipeline", pipelineHandler.Routes())
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Run starts the HTTP server and blocks until shutdown completes.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		a.Logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}

	a.Logger.Info("shutdown complete")
	return nil
}
