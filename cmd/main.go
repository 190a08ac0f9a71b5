package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/compass/internal/backend"
	"github.com/UnknownOlympus/compass/internal/config"
	"github.com/UnknownOlympus/compass/internal/console"
	"github.com/UnknownOlympus/compass/internal/controller"
	"github.com/UnknownOlympus/compass/internal/feedback"
	"github.com/UnknownOlympus/compass/internal/form"
	"github.com/UnknownOlympus/compass/internal/mapview"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/render"
	"github.com/UnknownOlympus/compass/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 5 * time.Second

// HealthChecker reports whether the recommendation backend is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// main is the entry point of the application.
func main() {
	// Canceled on Ctrl+C so the console and the monitoring server stop together.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	// Logs go to stderr; stdout belongs to the console.
	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	client := backend.NewClient(cfg.BackendURL, cfg.Timeout, cfg.RateLimit, logger, appMetrics)

	// The map surface is chosen at runtime: an in-memory one, a GeoJSON file for
	// tile viewers or a Google Static Maps image.
	surfaceFactory, err := mapview.NewSurfaceFactory(mapview.SurfaceConfig{
		Type:   mapview.SurfaceType(cfg.Map.Surface),
		Output: cfg.Map.Output,
		APIKey: cfg.Map.APIKey,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create map surface factory: %v", err)
	}

	out := ui.NewSyncWriter(os.Stdout)
	values := form.NewValues(formDefaults(cfg.Defaults))
	status := ui.NewStatusLine(out)
	prompter := ui.NewWriterPrompter(out)

	submitter := feedback.NewSubmitter(client, status, appMetrics, logger)
	renderer := render.NewRenderer(render.NewTextDisplay(out), values, prompter, submitter, logger)
	mapView := mapview.NewMapView(surfaceFactory, logger)
	ctrl := controller.New(logger, values, status, mapView, renderer, client, appMetrics)

	repl := console.New(os.Stdin, out, values, ctrl, renderer, client, status, prompter, logger)

	logger.InfoContext(ctx, "Application started", "backend", cfg.BackendURL, "surface", cfg.Map.Surface)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer stop()
		return repl.Run(gctx)
	})
	if cfg.Port > 0 {
		group.Go(func() error {
			return runMonitoringServer(gctx, logger, reg, client, cfg.Port)
		})
	}

	if err = group.Wait(); err != nil {
		logger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Application stopped gracefully.")
}

// formDefaults converts the configured defaults into initial form values.
func formDefaults(d config.FormDefaults) map[form.Field]string {
	return map[form.Field]string{
		form.FieldQuery:      d.Query,
		form.FieldUserID:     d.UserID,
		form.FieldLat:        d.Lat,
		form.FieldLng:        d.Lng,
		form.FieldRadius:     d.RadiusM,
		form.FieldMaxResults: d.MaxResults,
		form.FieldCategories: d.Categories,
	}
}

// newMonitoringRouter exposes /healthz, which pings the backend, and /metrics.
func newMonitoringRouter(log *slog.Logger, reg *prometheus.Registry, checker HealthChecker) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := checker.Health(ctx); err != nil {
			log.WarnContext(ctx, "Backend health check failed", "error", err)
			status, body = http.StatusServiceUnavailable, "Backend health check failed"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return router
}

// runMonitoringServer serves the monitoring router on port until ctx is canceled.
func runMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	checker HealthChecker,
	port int,
) error {
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      newMonitoringRouter(log, reg, checker),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Monitoring server shutdown failed", "error", err)
		}
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitoring server failed: %w", err)
	}

	return nil
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
