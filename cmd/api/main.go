// Package main is the entrypoint for the MindTrace API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mindtrace/mindtrace/internal/cache"
	"github.com/mindtrace/mindtrace/internal/config"
	"github.com/mindtrace/mindtrace/internal/dashboard"
	"github.com/mindtrace/mindtrace/internal/handler"
	"github.com/mindtrace/mindtrace/internal/insight"
	"github.com/mindtrace/mindtrace/internal/metrics"
	"github.com/mindtrace/mindtrace/internal/middleware"
	"github.com/mindtrace/mindtrace/internal/poller"
	"github.com/mindtrace/mindtrace/internal/repository"
	"github.com/mindtrace/mindtrace/internal/server"
	"github.com/mindtrace/mindtrace/internal/service"
	"github.com/mindtrace/mindtrace/internal/session"
	"github.com/mindtrace/mindtrace/internal/wizard"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Metrics
	metricsRecorder := metrics.NewInMemory()

	// Session gate: Redis identity cache backed by the durable store
	gate := session.NewGate(cacheClient, repo, cfg.SessionTTL, metricsRecorder, logger)

	// AI analyzer: optional, the static fallback covers its absence
	var analyzer insight.Analyzer
	if cfg.AIEnabled() {
		gemini, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Error("failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		analyzer = gemini
		logger.Info("AI analysis enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("AI analysis disabled, serving fallback payloads")
	}

	// Initialize services
	insightService := insight.NewService(analyzer, metricsRecorder, logger)
	entryService := service.NewEntryService(repo, metricsRecorder)
	authService := service.NewAuthService(repo, cacheClient, cfg.SessionTTL, metricsRecorder, logger)
	dashboardService := dashboard.NewService(repo, cacheClient, metricsRecorder, logger, 3*cfg.RefreshInterval)
	wizardStore := wizard.NewStore(wizard.DefaultDraftTTL)

	// Poll loop: keeps the global dashboard snapshot fresh
	snapshotPoller := poller.New(cfg.RefreshInterval, dashboardService.RefreshSnapshot, logger)
	if err := snapshotPoller.Start(); err != nil {
		logger.Error("failed to start snapshot poller", "error", err)
		os.Exit(1)
	}

	// Session janitor: prunes expired session records
	sessionJanitor := poller.New(cfg.SessionPruneInterval, func(ctx context.Context) error {
		pruned, err := repo.DeleteExpiredSessions(ctx)
		if err != nil {
			return err
		}
		if pruned > 0 {
			logger.Info("pruned expired sessions", "count", pruned)
		}
		return nil
	}, logger)
	if err := sessionJanitor.Start(); err != nil {
		logger.Error("failed to start session janitor", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	authHandler := handler.NewAuthHandler(authService, gate, logger)
	entryHandler := handler.NewEntryHandler(entryService, logger)
	wizardHandler := handler.NewWizardHandler(wizardStore, entryService, insightService, metricsRecorder, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	analysisHandler := handler.NewAnalysisHandler(insightService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:      h,
		health:    healthHandler,
		metrics:   metricsHandler,
		auth:      authHandler,
		entries:   entryHandler,
		wizard:    wizardHandler,
		dashboard: dashboardHandler,
		analysis:  analysisHandler,
		gate:      gate,
		cache:     cacheClient,
		cfg:       cfg,
		logger:    logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("session janitor", func(ctx context.Context) error {
		sessionJanitor.Stop()
		return nil
	})

	srv.OnShutdown("snapshot poller", func(ctx context.Context) error {
		snapshotPoller.Stop()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"refresh_interval", cfg.RefreshInterval,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything the router needs.
type routerDeps struct {
	base      *handler.Handler
	health    *handler.HealthHandler
	metrics   *handler.MetricsHandler
	auth      *handler.AuthHandler
	entries   *handler.EntryHandler
	wizard    *handler.WizardHandler
	dashboard *handler.DashboardHandler
	analysis  *handler.AnalysisHandler
	gate      *session.Gate
	cache     *cache.Cache
	cfg       *config.Config
	logger    *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      deps.cfg.IsDevelopment(),
		MaxRequestBodySize: deps.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   deps.cfg.GetCORSAllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health and metrics endpoints (no session required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:    deps.logger,
		Cache:     deps.cache,
		Enabled:   deps.cfg.AnalysisRateLimitEnabled,
		PerMinute: deps.cfg.AnalysisRatePerMinute,
		Burst:     deps.cfg.AnalysisRateBurst,
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Resolve the session on every API request; absence degrades
		// to unscoped behavior rather than rejection.
		r.Use(middleware.Session(deps.gate))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", deps.auth.Signup)
			r.Post("/login", deps.auth.Login)
			r.Post("/logout", deps.auth.Logout)
			r.Post("/session", deps.auth.RefreshSession)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", deps.entries.List)
			r.Get("/{id}", deps.entries.Get)
			r.Post("/", deps.entries.Create)
		})

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", deps.wizard.Open)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deps.wizard.Get)
				r.Post("/apps", deps.wizard.ToggleApp)
				r.Put("/screen-time", deps.wizard.SetScreenTime)
				r.Put("/reflection", deps.wizard.SetReflection)
				r.Post("/tags", deps.wizard.ToggleTag)
				r.Post("/next", deps.wizard.Next)
				r.Post("/finish", deps.wizard.Finish)
				r.Post("/confirm", deps.wizard.Confirm)
				r.Delete("/", deps.wizard.Cancel)
			})
		})

		r.Get("/dashboard", deps.dashboard.Get)

		r.With(middleware.RateLimitAnalysis(rateLimitCfg)).
			Post("/analysis", deps.analysis.Analyze)
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
