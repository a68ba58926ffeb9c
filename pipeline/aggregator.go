package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skmarket/go-auction-history/models"
)

// Observer receives aggregation events. The crawl engine's Prometheus
// metrics satisfy it; a nil observer is valid.
type Observer interface {
	BatchIngested(records, duplicates int)
	CheckpointSaved(duration time.Duration)
	CheckpointFailed()
}

// Aggregator drains worker batches on a single goroutine and is the
// sole mutator of the dedup store. Merging is commutative and
// idempotent (duplicate triples are dropped), so no cross-worker
// ordering is needed.
type Aggregator struct {
	store     *Store
	dbPath    string
	snapshots *SnapshotWriter
	interval  int
	obs       Observer
	logger    *slog.Logger

	pagesIngested   int
	recordsIngested int
	duplicates      int
	checkpoints     int
	pending         []models.SaleRecord
}

// NewAggregator wires an aggregator around a store. interval is the
// number of ingested pages between durable checkpoints.
func NewAggregator(store *Store, dbPath string, snapshots *SnapshotWriter, interval int, obs Observer, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		store:     store,
		dbPath:    dbPath,
		snapshots: snapshots,
		interval:  interval,
		obs:       obs,
		logger:    logger,
	}
}

// Run consumes batches until the channel closes, checkpointing every
// interval pages, then flushes whatever remains. A failed periodic
// checkpoint is logged and retried at the next cadence point; only a
// failing final flush is surfaced.
// Cancellation stops the workers, not the drain: in-flight batches are
// still merged so nothing already received is lost.
func (a *Aggregator) Run(ctx context.Context, results <-chan models.PageBatch) error {
	for batch := range results {
		a.Ingest(batch)
		if a.pagesIngested%a.interval == 0 {
			if err := a.Checkpoint(); err != nil {
				a.logger.Error("checkpoint failed, prior checkpoint intact",
					slog.Any("error", err),
				)
			}
		}
	}

	if err := a.FinalFlush(); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	return nil
}

// Ingest merges one page batch into the store.
func (a *Aggregator) Ingest(batch models.PageBatch) {
	added := 0
	for _, record := range batch.Records {
		if a.store.Add(record) {
			added++
		} else {
			a.duplicates++
		}
	}
	a.pagesIngested++
	a.recordsIngested += added
	a.pending = append(a.pending, batch.Records...)

	if a.obs != nil {
		a.obs.BatchIngested(len(batch.Records), len(batch.Records)-added)
	}
	a.logger.Debug("ingested page batch",
		slog.Int("page", batch.Page),
		slog.Int("records", len(batch.Records)),
		slog.Int("new", added),
	)
}

// Checkpoint persists the full database atomically and exports the
// records gathered since the last successful checkpoint as a CSV
// snapshot. Pending records are kept on failure so the next checkpoint
// retries them.
func (a *Aggregator) Checkpoint() error {
	start := time.Now()
	if err := SaveDatabase(a.store.Database(), a.dbPath); err != nil {
		if a.obs != nil {
			a.obs.CheckpointFailed()
		}
		return err
	}
	a.checkpoints++

	if a.snapshots != nil && len(a.pending) > 0 {
		path, err := a.snapshots.Write(a.checkpoints, a.pending)
		if err != nil {
			a.logger.Error("snapshot export failed", slog.Any("error", err))
		} else {
			a.logger.Info("snapshot saved", slog.String("path", path))
		}
	}
	a.pending = a.pending[:0]

	if a.obs != nil {
		a.obs.CheckpointSaved(time.Since(start))
	}
	a.logger.Info("database checkpoint saved",
		slog.String("path", a.dbPath),
		slog.Int("items", a.store.Items()),
		slog.Int("records", a.store.Records()),
	)
	return nil
}

// FinalFlush persists everything received after the last cadence point.
func (a *Aggregator) FinalFlush() error {
	return a.Checkpoint()
}

// Stats returns a snapshot of the aggregation counters: pages ingested,
// records added, duplicates dropped and checkpoints written.
func (a *Aggregator) Stats() (pages, records, duplicates, checkpoints int) {
	return a.pagesIngested, a.recordsIngested, a.duplicates, a.checkpoints
}
