// Package app assembles the application: configuration, logging, metrics,
// the session store, services, and the HTTP router, plus the run loop with
// graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"auditlens/internal/agent"
	"auditlens/internal/config"
	apierrors "auditlens/internal/errors"
	"auditlens/internal/infrastructure"
	"auditlens/internal/ingest"
	custommw "auditlens/internal/middleware"
	"auditlens/internal/services"
	"auditlens/internal/session"
	handlers "auditlens/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application is the dependency container.
type Application struct {
	Config  *config.Config
	Router  *chi.Mux
	Server  *http.Server
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics

	Store    session.Store
	Sessions *session.Manager

	AnalysisService *services.AnalysisService
	AgentService    *services.AgentService
	HealthService   *services.HealthService
}

// New builds the application from configuration and environment.
func New(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	logger.Info("application starting",
		slog.String("service", infrastructure.ServiceName),
		slog.String("version", Version),
	)

	metrics, err := infrastructure.InitializeMetrics(Version, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}

	store := session.NewLRUStore(cfg.Session.Capacity, cfg.Session.TTL)
	sessions := session.NewManager(store, logger)

	var runner *agent.Agent
	if cfg.Agent.Enabled && cfg.Agent.APIKey != "" {
		provider, err := agent.NewGeminiProvider(ctx, cfg.Agent.APIKey, cfg.Agent.Model)
		if err != nil {
			return nil, fmt.Errorf("initialize agent provider: %w", err)
		}
		runner = agent.New(provider, agent.Config{
			MaxChunks: cfg.Agent.MaxChunks,
			ChunkSize: cfg.Agent.ChunkSize,
		}, logger)
		logger.Info("agent enabled", slog.String("model", cfg.Agent.Model))
	} else {
		logger.Warn("agent disabled, /api/agent will return 503",
			slog.Bool("enabled", cfg.Agent.Enabled),
			slog.Bool("api_key_present", cfg.Agent.APIKey != ""),
		)
	}

	app := &Application{
		Config:          cfg,
		Logger:          logger,
		Metrics:         metrics,
		Store:           store,
		Sessions:        sessions,
		AnalysisService: services.NewAnalysisService(sessions, metrics, logger),
		AgentService:    services.NewAgentService(runner, sessions, metrics, cfg.Agent.Timeout, logger),
		HealthService:   services.NewHealthService(store, Version),
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) buildRouter() *chi.Mux {
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	fetcher := ingest.NewFetcher(a.Config.Fetch.Timeout, a.Logger)

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.MaxBodyBytes(a.Config.Server.MaxBodyBytes))
	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(a.Config.Security.AllowedOrigins))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Handle("/metrics", a.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		health := handlers.NewHealthHandler(a.HealthService, Version, a.Logger)
		r.Get("/healthz", health.Healthz)
		r.Get("/version", health.Version)

		// Everything below carries session identity and sits behind the gate.
		r.Group(func(r chi.Router) {
			r.Use(custommw.BearerGate(a.Config.Security.APIToken, a.Logger))
			r.Use(custommw.Identity)

			r.Mount("/state", handlers.NewStateHandler(a.AnalysisService, a.Logger, errorHandler).Routes())
			r.Mount("/tools", handlers.NewToolsHandler(a.AnalysisService, a.Logger, errorHandler).Routes())
			r.Mount("/agent", handlers.NewAgentHandler(a.AgentService, a.Logger, errorHandler).Routes())
			r.Mount("/", handlers.NewIngestHandler(a.AnalysisService, fetcher, a.Logger, errorHandler).Routes())
		})
	})

	return r
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		if err := a.Metrics.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
		}
		return nil
	})

	err := g.Wait()
	a.Logger.Info("stopped", slog.Duration("grace", a.Config.Server.ShutdownTimeout), slog.Any("error", err))
	return err
}
