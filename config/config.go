// Package config holds crawl engine configuration.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Snapshot CSV variants. Basic is the minimal three-column export; full
// adds quantity, per-unit price and sale status.
const (
	SnapshotBasic = "basic"
	SnapshotFull  = "full"
)

// Page partition strategies.
const (
	StrategyStriped    = "striped"
	StrategySequential = "sequential"
)

// Config holds crawler configuration.
type Config struct {
	BaseURL            string
	HistoryPath        string
	TotalPages         int // 0 means detect from the page indicator
	Workers            int
	Strategy           string
	CheckpointInterval int // pages ingested between checkpoints
	ResultBuffer       int

	NavTimeout     time.Duration
	ExtractTimeout time.Duration
	PollAttempts   int
	PollInterval   time.Duration
	PageDelay      time.Duration // minimum spacing between page navigations per worker
	InitialTimeout time.Duration // first navigation to the listing
	ProbeTimeout   time.Duration // total-pages detection

	DataDir      string
	DatabaseFile string
	SnapshotFmt  string

	UserAgent   string
	Headless    bool
	MetricsAddr string
	Verbose     bool
}

// DefaultConfig returns conservative defaults for the auction house.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://www.sk-ah.com",
		HistoryPath:        "/history",
		TotalPages:         0,
		Workers:            20,
		Strategy:           StrategyStriped,
		CheckpointInterval: 40,
		ResultBuffer:       64,
		NavTimeout:         60 * time.Second,
		ExtractTimeout:     8 * time.Second,
		PollAttempts:       10,
		PollInterval:       500 * time.Millisecond,
		PageDelay:          2 * time.Second,
		InitialTimeout:     60 * time.Second,
		ProbeTimeout:       30 * time.Second,
		DataDir:            "sk_market_data",
		DatabaseFile:       "item_database.json",
		SnapshotFmt:        SnapshotBasic,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Headless:           true,
		MetricsAddr:        "",
		Verbose:            false,
	}
}

// HistoryURL returns the absolute URL of the sale history listing.
func (c *Config) HistoryURL() string {
	return c.BaseURL + c.HistoryPath
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.TotalPages < 0 {
		return fmt.Errorf("total pages cannot be negative")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Strategy != StrategyStriped && c.Strategy != StrategySequential {
		return fmt.Errorf("strategy must be %s or %s", StrategyStriped, StrategySequential)
	}
	if c.CheckpointInterval <= 0 {
		return fmt.Errorf("checkpoint interval must be positive")
	}
	if c.ResultBuffer <= 0 {
		return fmt.Errorf("result buffer must be positive")
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.ExtractTimeout <= 0 {
		return fmt.Errorf("extract timeout must be positive")
	}
	if c.PollAttempts <= 0 {
		return fmt.Errorf("poll attempts must be positive")
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll interval cannot be negative")
	}
	if c.PageDelay < 0 {
		return fmt.Errorf("page delay cannot be negative")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if c.DatabaseFile == "" {
		return fmt.Errorf("database file cannot be empty")
	}
	if c.SnapshotFmt != SnapshotBasic && c.SnapshotFmt != SnapshotFull {
		return fmt.Errorf("snapshot format must be %s or %s", SnapshotBasic, SnapshotFull)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
