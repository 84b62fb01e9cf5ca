package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"market-sentiment/internal/auditlog"
	"market-sentiment/internal/database"
	"market-sentiment/internal/digest"
	"market-sentiment/internal/handlers"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/server"
	"market-sentiment/internal/trace"
)

const version = "1.0.0"

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	must(err)
	initializeTracing(cfg)

	db, err := initializeDatabase(ctx, cfg)
	must(err)
	defer database.Close(db)
	repo := database.NewRepository(db)

	journal := auditlog.New(cfg.Journal.Dir)

	p, f, err := initializePipeline(ctx, cfg, repo, journal)
	must(err)
	defer f.Close()

	builder, scheduler, err := initializeDigest(ctx, cfg, journal)
	must(err)
	scheduler.Start()

	accessLog, err := newAccessLogger(cfg)
	must(err)
	defer accessLog.Sync()

	srv := server.New(cfg, handlers.New(p, repo), accessLog)
	logger.Info(ctx, "Server started", "addr", cfg.Addr())

	if err := srv.Run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Server stopped with error", err)
	}

	logger.Info(context.Background(), "Shutting down...")
	<-scheduler.Stop().Done()
	digest.RunDaily(context.Background(), builder, journal, cfg.Journal.RetentionDays)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(shutdownCtx); err != nil {
		log.Printf("trace shutdown: %v", err)
	}
}
