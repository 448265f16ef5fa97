package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"surveybench/internal/cache"
	"surveybench/internal/config"
	"surveybench/internal/exporter"
	"surveybench/internal/infrastructure"
	"surveybench/internal/mappings"
	"surveybench/internal/rowstore"
	"surveybench/internal/services"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file (optional, env vars override)")
	inDir := flag.String("in", "", "input directory with CSV/XLSX extracts (overrides config)")
	outDir := flag.String("out", "output", "output directory for results")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	extractsDir := cfg.Paths.ExtractsDir
	if *inDir != "" {
		extractsDir = *inDir
	}

	if err := run(cfg, extractsDir, *outDir, *timeout, logger); err != nil {
		logger.Error("aggregation run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, extractsDir, outDir string, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store := rowstore.NewMemoryStore()
	if err := rowstore.LoadDir(store, extractsDir, logger); err != nil {
		return err
	}

	var provider mappings.Provider
	if cfg.Paths.MappingsFile != "" {
		fp, err := mappings.NewFileProvider(cfg.Paths.MappingsFile)
		if err != nil {
			logger.Warn("mappings file unavailable, using heuristics only", "error", err.Error())
			provider = mappings.NewMemoryProvider()
		} else {
			provider = fp
		}
	} else {
		provider = mappings.NewMemoryProvider()
	}

	cacheLayer := cache.New(cache.Config{
		FreshFor: cfg.Engine.CacheFreshFor,
		StaleFor: cfg.Engine.CacheStaleFor,
	}, logger)
	service := services.NewBenchmarkService(store, provider, cacheLayer, nil, logger, services.Config{
		ChunkSize:         cfg.Engine.ChunkSize,
		SourceConcurrency: cfg.Engine.SourceConcurrency,
	})

	writer, err := exporter.NewWriter(outDir, logger)
	if err != nil {
		return err
	}

	catalog, err := service.DiscoverVariables(ctx, "")
	if err != nil {
		return fmt.Errorf("discover variables: %w", err)
	}
	if err := writer.WriteVariableCatalog(catalog); err != nil {
		return err
	}

	records, err := service.GetAggregatedData(ctx, services.AggregationFilter{})
	if err != nil {
		return fmt.Errorf("aggregate corpus: %w", err)
	}
	if err := writer.WriteAggregatedCSV(records); err != nil {
		return err
	}
	if err := writer.WriteAggregatedJSON(records); err != nil {
		return err
	}

	return nil
}
