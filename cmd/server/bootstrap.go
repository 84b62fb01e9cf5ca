package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"market-sentiment/internal/auditlog"
	"market-sentiment/internal/database"
	"market-sentiment/internal/digest"
	"market-sentiment/internal/digest/digestobs"
	"market-sentiment/internal/fetcher"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/pipeline"
	"market-sentiment/internal/pipeline/pipelineobs"
	"market-sentiment/internal/providers"
	"market-sentiment/internal/store"
	"market-sentiment/internal/trace"
)

// initializeSystem loads the environment and initializes the logger
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initializeTracing starts the span exporter named in the tracing section
func initializeTracing(cfg *store.Config) {
	err := trace.Init(trace.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version,
		Exporter:    cfg.Tracing.Exporter,
		File:        cfg.Tracing.File,
		PrettyPrint: cfg.Tracing.PrettyPrint,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
}

// loadConfig loads config.yaml, or the file named by CONFIG_PATH
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfigOrDefault(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	return cfg, nil
}

// initializeDatabase opens the store and seeds demo rows when configured
func initializeDatabase(ctx context.Context, cfg *store.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Database ready", "dsn", cfg.Database.DSN)

	if cfg.Database.SeedDemo {
		seeded, err := database.SeedDemo(ctx, db)
		if err != nil {
			logger.Warn(ctx, "Failed to seed demo data", "error", err)
		} else if seeded {
			logger.Info(ctx, "Seeded demo assets, analyses and predictions")
		}
	}
	return db, nil
}

// initializePipeline builds providers, fetcher and the analysis pipeline with observability
func initializePipeline(ctx context.Context, cfg *store.Config, st interfaces.Store, journal *auditlog.Journal) (interfaces.Pipeline, *fetcher.Fetcher, error) {
	set, err := providers.Build(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fetcher.NewFromConfig(cfg)

	// Create base pipeline
	p := pipeline.New(pipeline.Deps{
		Classifier:  set.Classifier,
		Features:    set.Features,
		OCR:         set.OCR,
		Fetcher:     f,
		Store:       st,
		Journal:     journal,
		MaxInsights: cfg.Analysis.MaxInsights,
		TextCap:     cfg.Analysis.TextCap,
	})

	// Wrap with observability middleware
	return pipelineobs.Wrap(p), f, nil
}

// initializeDigest wraps the digest builder with observability and schedules it
func initializeDigest(ctx context.Context, cfg *store.Config, journal *auditlog.Journal) (interfaces.DigestBuilder, *cron.Cron, error) {
	// Create base builder and wrap with observability middleware
	builder := digestobs.Wrap(digest.New(journal))

	c, err := digest.Schedule(cfg.Journal.DigestCron, builder, journal, cfg.Journal.RetentionDays)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "Daily digest scheduled", "cron", cfg.Journal.DigestCron, "tz", auditlog.IST.String())
	return builder, c, nil
}

// newAccessLogger returns the zap logger used for HTTP access lines
func newAccessLogger(cfg *store.Config) (*zap.Logger, error) {
	if cfg.Server.Mode == gin.DebugMode {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
