// Package models defines data structures shared by the crawl engine.
package models

import "time"

// SaleRecord is one completed sale extracted from a history table row.
// Timestamp is ISO-8601 when the on-page date/time cells parsed, the raw
// cell text otherwise.
type SaleRecord struct {
	Name      string `csv:"name" json:"name"`
	Quantity  int    `csv:"quantity" json:"quantity"`
	Price     int64  `csv:"price" json:"price"`
	Status    string `csv:"status" json:"status"`
	Timestamp string `csv:"datetime" json:"datetime"`
}

// PricePerUnit returns the per-unit price for stacked sales.
func (r SaleRecord) PricePerUnit() float64 {
	if r.Quantity > 1 {
		return float64(r.Price) / float64(r.Quantity)
	}
	return float64(r.Price)
}

// PageBatch carries every record extracted from one confirmed page. It is
// the unit of transfer between a crawl worker and the aggregator.
type PageBatch struct {
	Page    int
	Records []SaleRecord
}

// SaleEntry is one persisted sale inside the item database.
type SaleEntry struct {
	Price        int64   `json:"price"`
	PricePerUnit float64 `json:"price_per_unit,omitempty"`
	Quantity     int     `json:"quantity,omitempty"`
	Status       string  `json:"status,omitempty"`
	Timestamp    string  `json:"timestamp"`
	Type         string  `json:"type"`
}

// ItemDatabase maps item names to their ordered sale histories. Entries
// are appended in arrival order and never truncated.
type ItemDatabase map[string][]SaleEntry

// CrawlResult summarises a finished crawl run.
type CrawlResult struct {
	StartTime         time.Time
	EndTime           time.Time
	PagesScraped      int
	RecordsExtracted  int
	RecordsIngested   int
	DuplicatesDropped int
	WorkersExhausted  int
	WorkersDesynced   int
	Checkpoints       int
}
