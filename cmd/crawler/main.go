package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skmarket/go-auction-history/config"
	"github.com/skmarket/go-auction-history/driver"
	"github.com/skmarket/go-auction-history/models"
	"github.com/skmarket/go-auction-history/pipeline"
	"github.com/skmarket/go-auction-history/scraper"
)

func main() {
	// Optional; real deployments set env directly.
	_ = godotenv.Load()

	defaultCfg := config.DefaultConfig()
	pagesDefault := defaultCfg.TotalPages
	if value, ok, err := config.EnvInt("CRAWLER_PAGES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CRAWLER_PAGES: %v\n", err)
		os.Exit(1)
	} else if ok {
		pagesDefault = value
	}
	workersDefault := defaultCfg.Workers
	if value, ok, err := config.EnvInt("CRAWLER_WORKERS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CRAWLER_WORKERS: %v\n", err)
		os.Exit(1)
	} else if ok {
		workersDefault = value
	}
	dataDirDefault := defaultCfg.DataDir
	if value, ok := config.EnvString("CRAWLER_DATA_DIR"); ok {
		dataDirDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("CRAWLER_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	headlessDefault := defaultCfg.Headless
	if value, ok, err := config.EnvBool("CRAWLER_HEADLESS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CRAWLER_HEADLESS: %v\n", err)
		os.Exit(1)
	} else if ok {
		headlessDefault = value
	}

	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Auction house base URL")
	totalPages := flag.Int("pages", pagesDefault, "Pages to crawl (0 detects the total from the page)")
	workers := flag.Int("workers", workersDefault, "Number of concurrent browser sessions")
	strategy := flag.String("strategy", defaultCfg.Strategy, "Page partition strategy: striped or sequential")
	interval := flag.Int("checkpoint-interval", defaultCfg.CheckpointInterval, "Pages between durable checkpoints")
	pageDelayMs := flag.Int("page-delay", int(defaultCfg.PageDelay/time.Millisecond), "Minimum spacing between page navigations per worker (milliseconds)")
	dataDir := flag.String("data-dir", dataDirDefault, "Directory for the database and snapshots")
	snapshotFmt := flag.String("snapshot-format", defaultCfg.SnapshotFmt, "Snapshot CSV format: basic or full")
	headless := flag.Bool("headless", headlessDefault, "Run the browser headless")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.TotalPages = *totalPages
	cfg.Workers = *workers
	cfg.Strategy = *strategy
	cfg.CheckpointInterval = *interval
	cfg.PageDelay = time.Duration(*pageDelayMs) * time.Millisecond
	cfg.DataDir = *dataDir
	cfg.SnapshotFmt = *snapshotFmt
	cfg.Headless = *headless
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, flushing gathered records")
	}()

	drv := driver.NewRod(cfg.UserAgent, cfg.Headless)
	if err := drv.Start(); err != nil {
		slog.Error("starting browser", slog.Any("error", err))
		os.Exit(1)
	}
	defer drv.Close()

	dbPath := filepath.Join(cfg.DataDir, cfg.DatabaseFile)
	store := pipeline.NewStore()
	if err := store.Load(dbPath); err != nil {
		slog.Error("loading database", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("database loaded",
		slog.String("path", dbPath),
		slog.Int("items", store.Items()),
		slog.Int("records", store.Records()),
	)

	engine := scraper.New(cfg, drv, logger)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(engine.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	snapshots := pipeline.NewSnapshotWriter(cfg.DataDir, cfg.SnapshotFmt)
	agg := pipeline.NewAggregator(store, dbPath, snapshots, cfg.CheckpointInterval, engine.Metrics, logger)

	result, err := engine.Run(ctx, agg)
	if err != nil {
		slog.Error("crawl failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, store.Items(), dbPath)
}

func printSummary(result *models.CrawlResult, items int, dbPath string) {
	duration := result.EndTime.Sub(result.StartTime)
	pagesPerMin := 0.0
	if duration.Minutes() > 0 {
		pagesPerMin = float64(result.PagesScraped) / duration.Minutes()
	}

	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Crawl complete")
	fmt.Printf("  Pages scraped:   %d\n", result.PagesScraped)
	fmt.Printf("  Records:         %d new, %d duplicate\n", result.RecordsIngested, result.DuplicatesDropped)
	fmt.Printf("  Items tracked:   %d\n", items)
	fmt.Printf("  Checkpoints:     %d\n", result.Checkpoints)
	if result.WorkersExhausted > 0 {
		fmt.Printf("  Exhausted:       %d workers hit the end of the listing\n", result.WorkersExhausted)
	}
	if result.WorkersDesynced > 0 {
		fmt.Printf("  Desynced:        %d workers lost page sync\n", result.WorkersDesynced)
	}
	fmt.Printf("  Duration:        %v\n", duration.Round(time.Second))
	fmt.Printf("  Pages/min:       %.1f\n", pagesPerMin)
	fmt.Printf("  Database:        %s\n", dbPath)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
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

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
