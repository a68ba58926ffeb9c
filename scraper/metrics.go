package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawl engine. It also
// satisfies pipeline.Observer so the aggregator reports through it.
type Metrics struct {
	Registry           *prometheus.Registry
	PagesScraped       prometheus.Counter
	RecordsExtracted   prometheus.Counter
	RowsSkipped        prometheus.Counter
	RecordsIngested    prometheus.Counter
	DuplicatesDropped  prometheus.Counter
	WorkerErrors       *prometheus.CounterVec
	WorkersExhausted   prometheus.Counter
	WorkersDesynced    prometheus.Counter
	CheckpointDuration prometheus.Histogram
	CheckpointsFailed  prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_pages_scraped_total",
		Help: "Total pages confirmed and extracted.",
	})
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_records_extracted_total",
		Help: "Total sale records extracted from pages.",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_rows_skipped_total",
		Help: "Total malformed rows skipped during extraction.",
	})
	ingested := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_records_ingested_total",
		Help: "Total new records merged into the database.",
	})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_duplicates_dropped_total",
		Help: "Total records dropped as duplicate (name, timestamp, price) triples.",
	})
	workerErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_worker_errors_total",
			Help: "Total worker aborts by error type.",
		},
		[]string{"error_type"},
	)
	exhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_workers_exhausted_total",
		Help: "Workers that ran out of pages before their last target.",
	})
	desynced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_workers_desynced_total",
		Help: "Workers aborted because navigation never confirmed the target page.",
	})
	checkpointDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crawler_checkpoint_duration_seconds",
		Help:    "Latency of durable database checkpoints.",
		Buckets: prometheus.DefBuckets,
	})
	checkpointsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_checkpoints_failed_total",
		Help: "Checkpoint writes that failed and will be retried.",
	})

	registry.MustRegister(pages, records, skipped, ingested, duplicates,
		workerErrors, exhausted, desynced, checkpointDuration, checkpointsFailed)

	return &Metrics{
		Registry:           registry,
		PagesScraped:       pages,
		RecordsExtracted:   records,
		RowsSkipped:        skipped,
		RecordsIngested:    ingested,
		DuplicatesDropped:  duplicates,
		WorkerErrors:       workerErrors,
		WorkersExhausted:   exhausted,
		WorkersDesynced:    desynced,
		CheckpointDuration: checkpointDuration,
		CheckpointsFailed:  checkpointsFailed,
	}
}

// IncPage records one confirmed, extracted page.
func (m *Metrics) IncPage(records, skipped int) {
	if m == nil {
		return
	}
	m.PagesScraped.Inc()
	m.RecordsExtracted.Add(float64(records))
	m.RowsSkipped.Add(float64(skipped))
}

// IncWorkerError counts a worker abort by classified type.
func (m *Metrics) IncWorkerError(err error) {
	if m == nil {
		return
	}
	m.WorkerErrors.WithLabelValues(errorTypeLabel(err)).Inc()
}

// IncExhausted counts a worker that hit the end of the listing.
func (m *Metrics) IncExhausted() {
	if m == nil {
		return
	}
	m.WorkersExhausted.Inc()
}

// IncDesynced counts a worker aborted by a navigation desync.
func (m *Metrics) IncDesynced() {
	if m == nil {
		return
	}
	m.WorkersDesynced.Inc()
}

// BatchIngested implements pipeline.Observer.
func (m *Metrics) BatchIngested(records, duplicates int) {
	if m == nil {
		return
	}
	m.RecordsIngested.Add(float64(records - duplicates))
	m.DuplicatesDropped.Add(float64(duplicates))
}

// CheckpointSaved implements pipeline.Observer.
func (m *Metrics) CheckpointSaved(duration time.Duration) {
	if m == nil {
		return
	}
	m.CheckpointDuration.Observe(duration.Seconds())
}

// CheckpointFailed implements pipeline.Observer.
func (m *Metrics) CheckpointFailed() {
	if m == nil {
		return
	}
	m.CheckpointsFailed.Inc()
}
