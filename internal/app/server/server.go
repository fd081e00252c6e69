package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"paycalc/internal/domain/payroll"
	"paycalc/internal/platform/config"
	"paycalc/internal/platform/logging"
	"paycalc/internal/platform/metrics"
	"paycalc/internal/platform/watch"
	payrollhandler "paycalc/internal/transport/http/handlers/payroll"
	"paycalc/internal/transport/http/middleware"
	"paycalc/internal/web"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Service *payroll.Service
	Metrics *metrics.Collector
	Router  http.Handler
}

// Run loads configuration from the environment and serves until SIGINT or SIGTERM.
func Run() error {
	return RunConfig(config.Load())
}

func RunConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.Serve(ctx)
}

// New builds the service graph and router. A configured presets file must
// load cleanly.
func New(_ context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	presets := payroll.DefaultPresetRegistry()
	if cfg.PresetsFile != "" {
		cities, err := payroll.ReloadPresets(presets, cfg.PresetsFile)
		if err != nil {
			return nil, err
		}
		logger.Info("presets loaded", "path", cfg.PresetsFile, "cities", len(cities))
	}

	app := &App{Config: cfg, Logger: logger}
	var observer payroll.Observer
	var recorder middleware.Recorder
	var live payrollhandler.LiveObserver
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
		observer, recorder, live = app.Metrics, app.Metrics, app.Metrics
	}
	app.Service = payroll.NewService(presets, observer)
	app.Router = app.routes(recorder, live)
	return app, nil
}

func (a *App) routes(recorder middleware.Recorder, live payrollhandler.LiveObserver) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Logger, recorder))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.Service.Presets().Default(); !ok {
			http.Error(w, "no city presets loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

		payrollHandler := payrollhandler.NewHandler(a.Service, payrollhandler.Options{
			AllowedOrigins:    cfg.CORSAllowedOrigins,
			WSMaxMessageBytes: cfg.WSMaxMessageBytes,
			Live:              live,
		})
		payrollHandler.RegisterRoutes(r)
	})

	router.Mount("/", web.Handler(cfg.FrontendDir))
	return router
}

// Serve runs the HTTP server and, when enabled, the presets watcher until ctx
// is cancelled or one of them fails.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("paycalc server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", a.Config.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		a.Logger.Info("shutting down", "timeout", a.Config.ShutdownTimeout.String())
		return srv.Shutdown(shutdownCtx)
	})

	if a.Config.PresetsWatch && a.Config.PresetsFile != "" {
		g.Go(func() error {
			return watch.File(ctx, a.Config.PresetsFile, watch.DefaultDebounce, a.ReloadPresets)
		})
	}

	return g.Wait()
}

// ReloadPresets re-reads the presets file. A bad file keeps the current presets.
func (a *App) ReloadPresets() {
	cities, err := payroll.ReloadPresets(a.Service.Presets(), a.Config.PresetsFile)
	if a.Metrics != nil {
		a.Metrics.PresetReload(err == nil)
	}
	if err != nil {
		a.Logger.Error("presets reload failed", "path", a.Config.PresetsFile, "err", err)
		return
	}
	a.Logger.Info("presets reloaded", "path", a.Config.PresetsFile, "cities", len(cities))
}
