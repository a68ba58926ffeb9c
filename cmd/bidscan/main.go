// Command bidscan walks the live auction listings and flags bids and
// buyouts priced below the recorded per-unit sale median.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skmarket/go-auction-history/config"
	"github.com/skmarket/go-auction-history/driver"
	"github.com/skmarket/go-auction-history/evaluator"
	"github.com/skmarket/go-auction-history/pipeline"
)

const statsCacheSize = 4096

func main() {
	_ = godotenv.Load()

	defaultCfg := config.DefaultConfig()
	dataDirDefault := defaultCfg.DataDir
	if value, ok := config.EnvString("CRAWLER_DATA_DIR"); ok {
		dataDirDefault = value
	}

	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Auction house base URL")
	dataDir := flag.String("data-dir", dataDirDefault, "Directory holding the item database")
	maxPages := flag.Int("pages", 0, "Listing pages to scan (0 scans all)")
	minTimeLeft := flag.Int("min-time-left", 0, "Skip listings expiring sooner than this (minutes)")
	outDir := flag.String("out-dir", "", "Directory for CSV exports (defaults to the data directory)")
	headless := flag.Bool("headless", defaultCfg.Headless, "Run the browser headless")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.DataDir = *dataDir
	cfg.Headless = *headless
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	exportDir := *outDir
	if exportDir == "" {
		exportDir = cfg.DataDir
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		slog.Error("creating export directory", slog.Any("error", err))
		os.Exit(1)
	}

	dbPath := filepath.Join(cfg.DataDir, cfg.DatabaseFile)
	db, err := pipeline.LoadDatabase(dbPath)
	if err != nil {
		slog.Error("loading database", slog.Any("error", err))
		os.Exit(1)
	}
	if len(db) == 0 {
		slog.Error("database is empty, run the crawler first", slog.String("path", dbPath))
		os.Exit(1)
	}
	slog.Info("database loaded", slog.String("path", dbPath), slog.Int("items", len(db)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv := driver.NewRod(cfg.UserAgent, cfg.Headless)
	if err := drv.Start(); err != nil {
		slog.Error("starting browser", slog.Any("error", err))
		os.Exit(1)
	}
	defer drv.Close()

	collector := evaluator.NewCollector(cfg, drv, logger)
	listings, err := collector.Collect(ctx, *maxPages)
	if err != nil {
		// Partial scans are still worth scoring.
		slog.Warn("listing walk incomplete", slog.Any("error", err))
	}
	if len(listings) == 0 {
		slog.Error("no listings collected")
		os.Exit(1)
	}

	if *minTimeLeft > 0 {
		kept := listings[:0]
		for _, listing := range listings {
			if listing.TimeLeft >= *minTimeLeft {
				kept = append(kept, listing)
			}
		}
		listings = kept
	}

	eval, err := evaluator.New(db, statsCacheSize)
	if err != nil {
		slog.Error("building evaluator", slog.Any("error", err))
		os.Exit(1)
	}
	recs := eval.EvaluateAll(listings)

	stamp := time.Now().Format("20060102_150405")
	listingsPath := filepath.Join(exportDir, fmt.Sprintf("listings_%s.csv", stamp))
	recsPath := filepath.Join(exportDir, fmt.Sprintf("recommendations_%s.csv", stamp))
	if err := evaluator.WriteListings(listingsPath, listings); err != nil {
		slog.Error("writing listings", slog.Any("error", err))
		os.Exit(1)
	}
	if err := evaluator.WriteRecommendations(recsPath, recs); err != nil {
		slog.Error("writing recommendations", slog.Any("error", err))
		os.Exit(1)
	}

	printSummary(recs, listingsPath, recsPath)
}

func printSummary(recs []evaluator.Recommendation, listingsPath, recsPath string) {
	bids, buyouts, unknown := 0, 0, 0
	for _, rec := range recs {
		switch rec.Action {
		case evaluator.ActionBid:
			bids++
		case evaluator.ActionBuyout:
			buyouts++
		case evaluator.ActionNoHistory:
			unknown++
		}
	}

	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scan complete")
	fmt.Printf("  Listings scored:  %d\n", len(recs))
	fmt.Printf("  Bid targets:      %d\n", bids)
	fmt.Printf("  Buyout targets:   %d\n", buyouts)
	fmt.Printf("  No history:       %d\n", unknown)
	fmt.Printf("  Listings CSV:     %s\n", listingsPath)
	fmt.Printf("  Scores CSV:       %s\n", recsPath)
	fmt.Println(separator)
}

func newLogger(verbose bool) *slog.Logger {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
