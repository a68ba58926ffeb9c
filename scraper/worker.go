package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/skmarket/go-auction-history/config"
	"github.com/skmarket/go-auction-history/driver"
	"github.com/skmarket/go-auction-history/models"
)

// A page's rows occasionally render late; re-read before giving up.
const extractAttempts = 3

type runCounters struct {
	mu        sync.Mutex
	exhausted int
	desynced  int
	noSession int
}

// Worker crawls one stripe of the page range with its own isolated
// browser session. Workers share nothing with each other except the
// result channel and the pause gate.
type Worker struct {
	id       int
	targets  []int
	cfg      *config.Config
	sel      Selectors
	drv      driver.Driver
	poll     PollPolicy
	gate     *Gate
	limiter  *rate.Limiter
	metrics  *Metrics
	counters *runCounters
	logger   *slog.Logger
	results  chan<- models.PageBatch
}

// Run visits the worker's target pages in increasing order, pushing one
// batch per confirmed page. It returns nil on completion or exhaustion;
// any error aborts only this worker, never the run.
func (w *Worker) Run(ctx context.Context) error {
	session, err := w.drv.OpenSession(ctx)
	if err != nil {
		w.counters.mu.Lock()
		w.counters.noSession++
		w.counters.mu.Unlock()
		return ErrNoSession{Err: err}
	}
	defer session.Close()

	if err := session.Navigate(w.cfg.HistoryURL(), w.cfg.InitialTimeout); err != nil {
		return ErrNavigationTimeout{Err: err}
	}
	if w.sel.ProgressBar != "" {
		// The loading spinner can outlive the load event.
		if err := session.WaitFor(w.sel.ProgressBar, w.cfg.ExtractTimeout, driver.StateHidden); err != nil {
			w.logger.Debug("loading indicator still visible", slog.Any("error", err))
		}
	}

	nav := NewNavigator(session, w.sel, w.poll, w.logger)
	for _, target := range w.targets {
		if err := w.gate.Wait(ctx); err != nil {
			return err
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		outcome, err := nav.AdvanceTo(ctx, target)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("advance to page %d: %w", target, err)
		}
		switch outcome {
		case NavExhausted:
			w.metrics.IncExhausted()
			w.counters.mu.Lock()
			w.counters.exhausted++
			w.counters.mu.Unlock()
			w.logger.Info("listing exhausted before target",
				slog.Int("confirmed", nav.Confirmed()),
				slog.Int("target", target),
			)
			return nil
		case NavDesynced:
			w.metrics.IncDesynced()
			w.counters.mu.Lock()
			w.counters.desynced++
			w.counters.mu.Unlock()
			return ErrDesync{Confirmed: nav.Confirmed(), Target: target}
		}

		records, skipped, err := w.extract(ctx, session)
		if err != nil {
			return fmt.Errorf("extract page %d: %w", target, err)
		}
		w.metrics.IncPage(len(records), skipped)
		w.logger.Info("scraped page",
			slog.Int("page", target),
			slog.Int("records", len(records)),
			slog.Int("skipped", skipped),
		)

		// An empty batch still counts the page for checkpoint cadence.
		select {
		case w.results <- models.PageBatch{Page: target, Records: records}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (w *Worker) extract(ctx context.Context, session driver.Session) ([]models.SaleRecord, int, error) {
	var lastErr error
	for attempt := 1; attempt <= extractAttempts; attempt++ {
		records, skipped, err := extractRecords(session, w.sel, w.cfg.ExtractTimeout, w.logger)
		if err == nil {
			return records, skipped, nil
		}
		lastErr = err
		w.logger.Debug("extraction attempt failed",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		if attempt < extractAttempts {
			if err := w.poll.sleep(ctx); err != nil {
				return nil, 0, err
			}
		}
	}
	return nil, 0, lastErr
}
