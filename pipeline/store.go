// Package pipeline merges crawled page batches into the historical
// price database and persists it.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/skmarket/go-auction-history/models"
)

// Store owns the canonical item→sale-history mapping. It is mutated by
// exactly one goroutine (the aggregator); nothing here locks.
type Store struct {
	items models.ItemDatabase
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{items: make(models.ItemDatabase)}
}

// Load merges an existing database file into the store so a run extends
// prior history instead of truncating it. A missing file is not an
// error.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read database %s: %w", path, err)
	}

	var existing models.ItemDatabase
	if err := json.Unmarshal(data, &existing); err != nil {
		return fmt.Errorf("parse database %s: %w", path, err)
	}
	for name, history := range existing {
		for _, entry := range history {
			s.add(name, entry)
		}
	}
	return nil
}

// Add appends a sale record to its item's history unless an entry with
// the same (timestamp, price) already exists there. It reports whether
// the record was new.
func (s *Store) Add(record models.SaleRecord) bool {
	entry := models.SaleEntry{
		Price:     record.Price,
		Status:    record.Status,
		Timestamp: record.Timestamp,
		Type:      "sale",
	}
	if record.Quantity > 1 {
		entry.Quantity = record.Quantity
		entry.PricePerUnit = record.PricePerUnit()
	}
	return s.add(record.Name, entry)
}

func (s *Store) add(name string, entry models.SaleEntry) bool {
	history := s.items[name]
	for _, existing := range history {
		if existing.Timestamp == entry.Timestamp && existing.Price == entry.Price {
			return false
		}
	}
	s.items[name] = append(history, entry)
	return true
}

// Items returns the number of distinct item names.
func (s *Store) Items() int {
	return len(s.items)
}

// Records returns the total number of stored sales.
func (s *Store) Records() int {
	total := 0
	for _, history := range s.items {
		total += len(history)
	}
	return total
}

// History returns one item's sales in arrival order.
func (s *Store) History(name string) []models.SaleEntry {
	return s.items[name]
}

// Database exposes the mapping for persistence. Callers must not mutate
// it outside the aggregator goroutine.
func (s *Store) Database() models.ItemDatabase {
	return s.items
}
