// Package scraper implements the partitioned, browser-driven crawl of
// the auction house sale history.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/skmarket/go-auction-history/config"
	"github.com/skmarket/go-auction-history/driver"
	"github.com/skmarket/go-auction-history/models"
	"github.com/skmarket/go-auction-history/parser"
	"github.com/skmarket/go-auction-history/pipeline"
)

// Engine coordinates one crawl run: a static page partition, N workers
// each owning a browser session, and a single aggregator fed through a
// bounded channel.
type Engine struct {
	// Selectors and Poll may be replaced before Run for testing or for
	// site layout changes.
	Selectors Selectors
	Poll      PollPolicy
	Metrics   *Metrics

	cfg    *config.Config
	drv    driver.Driver
	gate   *Gate
	logger *slog.Logger
}

// New builds an engine from a validated config and a started driver.
func New(cfg *config.Config, drv driver.Driver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Selectors: DefaultSelectors(),
		Poll: PollPolicy{
			Attempts: cfg.PollAttempts,
			Interval: cfg.PollInterval,
		},
		Metrics: NewMetrics(),
		cfg:     cfg,
		drv:     drv,
		gate:    NewGate(),
		logger:  logger,
	}
}

// Pause stops all workers before their next navigation. In-flight page
// loads finish normally.
func (e *Engine) Pause() {
	e.gate.Pause()
	e.logger.Info("crawl paused")
}

// Resume releases paused workers.
func (e *Engine) Resume() {
	e.gate.Resume()
	e.logger.Info("crawl resumed")
}

// Run executes the crawl to completion and returns its summary. Worker
// failures degrade throughput but never abort the run; the error return
// covers only run-level failures (page-count detection, a final flush
// that cannot persist, or no worker acquiring a session).
func (e *Engine) Run(ctx context.Context, agg *pipeline.Aggregator) (*models.CrawlResult, error) {
	start := time.Now()

	totalPages := e.cfg.TotalPages
	if totalPages == 0 {
		detected, err := e.detectTotalPages(ctx)
		if err != nil {
			return nil, fmt.Errorf("detect total pages: %w", err)
		}
		totalPages = detected
		e.logger.Info("detected page count", slog.Int("pages", totalPages))
	}

	results := make(chan models.PageBatch, e.cfg.ResultBuffer)
	counters := &runCounters{}

	var wg sync.WaitGroup
	launched := 0
	for id := 1; id <= e.cfg.Workers; id++ {
		targets := Pages(Strategy(e.cfg.Strategy), id, e.cfg.Workers, totalPages)
		if len(targets) == 0 {
			continue
		}
		worker := &Worker{
			id:       id,
			targets:  targets,
			cfg:      e.cfg,
			sel:      e.Selectors,
			drv:      e.drv,
			poll:     e.Poll,
			gate:     e.gate,
			limiter:  e.newLimiter(),
			metrics:  e.Metrics,
			counters: counters,
			logger:   e.logger.With(slog.Int("worker", id)),
			results:  results,
		}
		launched++
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			err := w.Run(ctx)
			if err == nil {
				return
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("worker stopped", slog.Any("cause", err))
				return
			}
			e.Metrics.IncWorkerError(err)
			w.logger.Error("worker aborted", slog.Any("error", err))
		}(worker)
	}
	e.logger.Info("crawl started",
		slog.Int("workers", launched),
		slog.Int("pages", totalPages),
		slog.String("strategy", e.cfg.Strategy),
	)

	go func() {
		wg.Wait()
		close(results)
	}()

	if err := agg.Run(ctx, results); err != nil {
		return nil, fmt.Errorf("aggregate results: %w", err)
	}

	counters.mu.Lock()
	exhausted, desynced, noSession := counters.exhausted, counters.desynced, counters.noSession
	counters.mu.Unlock()
	if launched > 0 && noSession == launched {
		return nil, fmt.Errorf("all %d workers failed to acquire a browser session", launched)
	}

	pages, records, duplicates, checkpoints := agg.Stats()
	result := &models.CrawlResult{
		StartTime:         start,
		EndTime:           time.Now(),
		PagesScraped:      pages,
		RecordsExtracted:  records + duplicates,
		RecordsIngested:   records,
		DuplicatesDropped: duplicates,
		WorkersExhausted:  exhausted,
		WorkersDesynced:   desynced,
		Checkpoints:       checkpoints,
	}
	e.logger.Info("crawl finished",
		slog.Duration("elapsed", result.EndTime.Sub(result.StartTime)),
		slog.Int("pages", result.PagesScraped),
		slog.Int("records", result.RecordsIngested),
		slog.Int("duplicates", result.DuplicatesDropped),
	)
	return result, nil
}

// detectTotalPages opens a short-lived probe session and reads the
// "Page X of Y" indicator. An unreadable indicator fails the run; a
// guessed page count would silently truncate the crawl.
func (e *Engine) detectTotalPages(ctx context.Context) (int, error) {
	session, err := e.drv.OpenSession(ctx)
	if err != nil {
		return 0, ErrNoSession{Err: err}
	}
	defer session.Close()

	if err := session.Navigate(e.cfg.HistoryURL(), e.cfg.InitialTimeout); err != nil {
		return 0, ErrNavigationTimeout{Err: err}
	}
	if err := session.WaitFor(e.Selectors.PageIndicator, e.cfg.ProbeTimeout, driver.StateAttached); err != nil {
		return 0, ErrNavigationTimeout{Err: err}
	}

	el, err := session.Query(e.Selectors.PageIndicator)
	if err != nil {
		return 0, fmt.Errorf("locate page indicator: %w", err)
	}
	if el == nil {
		return 0, fmt.Errorf("page indicator %q not found", e.Selectors.PageIndicator)
	}
	text, err := el.Text()
	if err != nil {
		return 0, fmt.Errorf("read page indicator: %w", err)
	}
	total, ok := parser.ParseTotalPages(text)
	if !ok {
		return 0, fmt.Errorf("page indicator %q does not state a total", text)
	}
	return total, nil
}

func (e *Engine) newLimiter() *rate.Limiter {
	if e.cfg.PageDelay <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(e.cfg.PageDelay), 1)
}
