package app

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

	"surveybench/internal/cache"
	"surveybench/internal/config"
	"surveybench/internal/infrastructure"
	"surveybench/internal/mappings"
	"surveybench/internal/rowstore"
	"surveybench/internal/services"
	transporthttp "surveybench/internal/transport/http"
)

// Application wires configuration, observability, storage, the
// benchmark service, and the HTTP server.
type Application struct {
	cfg      *config.Config
	logger   *slog.Logger
	otel     *infrastructure.OTelProviders
	store    *rowstore.MemoryStore
	mappings mappings.Provider
	service  *services.BenchmarkService
	server   *http.Server
}

// NewApplication builds the application from the config file at
// cfgPath (empty means environment-only configuration).
func NewApplication(cfgPath string) (*Application, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize otel: %w", err)
	}

	store := rowstore.NewMemoryStore()
	if cfg.Paths.ExtractsDir != "" {
		if err := rowstore.LoadDir(store, cfg.Paths.ExtractsDir, logger); err != nil {
			return nil, fmt.Errorf("load extracts from %s: %w", cfg.Paths.ExtractsDir, err)
		}
	}

	var provider mappings.Provider
	if cfg.Paths.MappingsFile != "" {
		fp, err := mappings.NewFileProvider(cfg.Paths.MappingsFile)
		if err != nil {
			return nil, fmt.Errorf("load mappings from %s: %w", cfg.Paths.MappingsFile, err)
		}
		provider = fp
	} else {
		provider = mappings.NewMemoryProvider()
	}

	cacheLayer := cache.New(cache.Config{
		FreshFor: cfg.Engine.CacheFreshFor,
		StaleFor: cfg.Engine.CacheStaleFor,
	}, logger)

	service := services.NewBenchmarkService(store, provider, cacheLayer, otelProviders.Engine, logger, services.Config{
		ChunkSize:         cfg.Engine.ChunkSize,
		SourceConcurrency: cfg.Engine.SourceConcurrency,
	})

	router := transporthttp.NewRouter(service, cfg, otelProviders.PrometheusHTTP, logger)
	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		cfg:      cfg,
		logger:   logger,
		otel:     otelProviders,
		store:    store,
		mappings: provider,
		service:  service,
		server:   server,
	}, nil
}

// Start runs the HTTP server until ctx is canceled.
func (a *Application) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return a.Stop()
	}
}

// Stop shuts the server and observability pipeline down gracefully.
func (a *Application) Stop() error {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var firstErr error
	if err := a.server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}
	if err := a.otel.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close log file: %w", err)
	}
	return firstErr
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return a.Start(ctx)
}
