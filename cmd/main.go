package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/matchledger/internal/adapters/http/api"
	"github.com/okian/matchledger/internal/adapters/http/site"
	"github.com/okian/matchledger/internal/adapters/http/swagger"
	"github.com/okian/matchledger/internal/adapters/repository"
	app "github.com/okian/matchledger/internal/app"
	"github.com/okian/matchledger/internal/config"
	"github.com/okian/matchledger/internal/domain/stats"
	"github.com/okian/matchledger/pkg/logger"
	"github.com/okian/matchledger/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	flushInterval             = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "match ledger exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info(ctx, "storage ready", logger.String("backend", cfg.Storage))

	svc, err := newService(cfg, store, log)
	if err != nil {
		_ = store.Close()
		return err
	}
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("start service: %w", err)
	}

	go startSystemMetricsUpdater(ctx)
	go startFlushLoop(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			_ = svc.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stop service: %w", err)
	}

	log.Info(shutdownCtx, "server stopped")
	return nil
}

// openStore selects the blob backend named by cfg.Storage.
func openStore(ctx context.Context, cfg *config.Config) (repository.BlobStore, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return repository.NewMemoryStore(), nil
	case config.StorageFile:
		return repository.NewFileStore(cfg.DataDir)
	case config.StorageSQLite:
		return repository.OpenSQLite(ctx, cfg.SQLitePath)
	case config.StoragePostgres:
		return repository.OpenPostgres(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("%w: unknown storage %q", config.ErrInvalidConfig, cfg.Storage)
	}
}

func newService(cfg *config.Config, store repository.BlobStore, log logger.Logger) (*app.Service, error) {
	src, err := stats.ParseSource(cfg.StatsSource)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(log.Named("ledger")),
		app.WithStore(store),
		app.WithScoreRequired(cfg.ScoreRequired),
		app.WithStatsSource(src),
		app.WithPrefillToday(cfg.DraftPrefillToday),
	), nil
}

func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()

	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc,
		api.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)
	apiServer.Register(mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startFlushLoop retries failed collection writes until ctx is done.
func startFlushLoop(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushPending(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// flushPending refreshes the ledger gauges and retries pending writes.
func flushPending(ctx context.Context, svc *app.Service) {
	_ = svc.GetStats()
	if svc.PendingWrites() == 0 {
		return
	}
	if err := svc.Flush(ctx); err != nil {
		logger.Get().Warn(ctx, "retrying pending writes failed", logger.Error(err))
	}
}
