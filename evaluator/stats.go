// Package evaluator scores live auction listings against recorded sale
// history.
package evaluator

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/skmarket/go-auction-history/models"
)

// PriceStats summarises the per-unit sale history of one item.
type PriceStats struct {
	Count   int
	Min     float64
	Average float64
	Median  float64
}

// StatsCache computes per-item price statistics lazily over a loaded
// item database. Bid scans revisit the same popular items constantly,
// so computed stats are kept in an LRU.
type StatsCache struct {
	db    models.ItemDatabase
	cache *lru.Cache[string, *PriceStats]
}

// NewStatsCache wraps a database with a stats cache of the given size.
func NewStatsCache(db models.ItemDatabase, size int) (*StatsCache, error) {
	cache, err := lru.New[string, *PriceStats](size)
	if err != nil {
		return nil, fmt.Errorf("create stats cache: %w", err)
	}
	return &StatsCache{db: db, cache: cache}, nil
}

// Get returns the stats for one item name, or false when the database
// holds no history for it.
func (s *StatsCache) Get(name string) (*PriceStats, bool) {
	if stats, ok := s.cache.Get(name); ok {
		return stats, true
	}
	entries := s.db[name]
	if len(entries) == 0 {
		return nil, false
	}
	stats := computeStats(entries)
	s.cache.Add(name, stats)
	return stats, true
}

func computeStats(entries []models.SaleEntry) *PriceStats {
	prices := make([]float64, 0, len(entries))
	sum := 0.0
	for _, entry := range entries {
		price := float64(entry.Price)
		// Stacked sales persist an explicit per-unit price; singles do not.
		if entry.PricePerUnit > 0 {
			price = entry.PricePerUnit
		}
		prices = append(prices, price)
		sum += price
	}
	sort.Float64s(prices)

	stats := &PriceStats{
		Count:   len(prices),
		Min:     prices[0],
		Average: sum / float64(len(prices)),
	}
	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		stats.Median = (prices[mid-1] + prices[mid]) / 2
	} else {
		stats.Median = prices[mid]
	}
	return stats
}
