package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"market-sentiment/internal/auditlog"
	"market-sentiment/internal/database"
	"market-sentiment/internal/fetcher"
	"market-sentiment/internal/logger"
	"market-sentiment/internal/pipeline"
	"market-sentiment/internal/providers"
	"market-sentiment/internal/store"
	"market-sentiment/internal/types"
)

func main() {
	// Command-line flags
	configPath := flag.String("config", "config.yaml", "path to config file")
	url := flag.String("url", "", "article URL to analyze (required)")
	symbol := flag.String("symbol", "", "asset symbol (optional, detected from the article otherwise)")
	persist := flag.Bool("persist", false, "write the analysis to the configured database and journal")
	timeout := flag.Duration("timeout", 60*time.Second, "overall time limit")
	flag.Parse()

	if *url == "" {
		fmt.Println("Error: -url is required")
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	// Load configuration
	cfg, err := store.LoadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// A throwaway in-memory database unless the result should be kept
	dsn := ":memory:"
	var journal *auditlog.Journal
	if *persist {
		dsn = cfg.Database.DSN
		journal = auditlog.New(cfg.Journal.Dir)
	}
	db, err := database.Open(dsn)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close(db)

	set, err := providers.Build(ctx, cfg)
	if err != nil {
		fmt.Printf("Error building providers: %v\n", err)
		os.Exit(1)
	}

	f := fetcher.NewFromConfig(cfg)
	defer f.Close()

	p := pipeline.New(pipeline.Deps{
		Classifier:  set.Classifier,
		Features:    set.Features,
		OCR:         set.OCR,
		Fetcher:     f,
		Store:       database.NewRepository(db),
		Journal:     journal,
		MaxInsights: cfg.Analysis.MaxInsights,
		TextCap:     cfg.Analysis.TextCap,
	})

	// Run analysis
	res, err := p.AnalyzeURL(ctx, types.URLRequest{URL: *url, Symbol: *symbol})
	if err != nil {
		fmt.Printf("Error running analysis: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
