package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skmarket/go-auction-history/config"
	"github.com/skmarket/go-auction-history/driver"
	"github.com/skmarket/go-auction-history/parser"
	"github.com/skmarket/go-auction-history/scraper"
)

// Selectors locates the moving parts of the live listing table. Cell
// selectors resolve relative to a row element.
type Selectors struct {
	RowTable      string
	Row           string
	NameCell      string
	BidCell       string
	BuyoutCell    string
	TimeCell      string
	NextButton    string
	PageIndicator string
}

// DefaultSelectors matches the current sk-ah.com live listing layout.
func DefaultSelectors() Selectors {
	return Selectors{
		RowTable:      `div[role="table"]`,
		Row:           `tr.border-b`,
		NameCell:      `td:nth-child(1) div.flex.flex-col > span`,
		BidCell:       `td:nth-child(2) div.justify-end`,
		BuyoutCell:    `td:nth-child(3) div.justify-end`,
		TimeCell:      `td:nth-child(4)`,
		NextButton:    `a[aria-label="Next page"]`,
		PageIndicator: `nav[aria-label="pagination"] p`,
	}
}

// Collector walks the live listing pages with a single session. Bid
// scans are short and latency-tolerant, so unlike the history crawl
// they are not partitioned.
type Collector struct {
	Selectors Selectors
	Poll      scraper.PollPolicy

	cfg    *config.Config
	drv    driver.Driver
	logger *slog.Logger
}

// NewCollector builds a collector from a validated config and a started
// driver.
func NewCollector(cfg *config.Config, drv driver.Driver, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		Selectors: DefaultSelectors(),
		Poll: scraper.PollPolicy{
			Attempts: cfg.PollAttempts,
			Interval: cfg.PollInterval,
		},
		cfg:    cfg,
		drv:    drv,
		logger: logger,
	}
}

// Collect reads up to maxPages of live listings; 0 means walk until the
// pagination runs out. Malformed rows are skipped, a desynced page ends
// the walk with whatever was gathered.
func (c *Collector) Collect(ctx context.Context, maxPages int) ([]Listing, error) {
	session, err := c.drv.OpenSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	if err := session.Navigate(c.cfg.BaseURL, c.cfg.InitialTimeout); err != nil {
		return nil, fmt.Errorf("open listing: %w", err)
	}
	if err := session.WaitFor(c.Selectors.RowTable, c.cfg.ProbeTimeout, driver.StateAttached); err != nil {
		return nil, fmt.Errorf("wait for listing table: %w", err)
	}

	nav := scraper.NewNavigator(session, scraper.Selectors{
		NextButton:    c.Selectors.NextButton,
		PageIndicator: c.Selectors.PageIndicator,
	}, c.Poll, c.logger)

	var listings []Listing
	page := 1
	for {
		pageListings, skipped := c.extractPage(session)
		listings = append(listings, pageListings...)
		c.logger.Info("collected listing page",
			slog.Int("page", page),
			slog.Int("listings", len(pageListings)),
			slog.Int("skipped", skipped),
		)

		if maxPages > 0 && page >= maxPages {
			break
		}
		outcome, err := nav.AdvanceTo(ctx, page+1)
		if err != nil {
			return listings, fmt.Errorf("advance to page %d: %w", page+1, err)
		}
		if outcome != scraper.NavConfirmed {
			c.logger.Info("listing walk ended", slog.String("outcome", outcome.String()))
			break
		}
		page++
	}
	return listings, nil
}

func (c *Collector) extractPage(session driver.Session) ([]Listing, int) {
	rows, err := session.QueryAll(c.Selectors.Row)
	if err != nil {
		c.logger.Warn("query listing rows failed", slog.Any("error", err))
		return nil, 0
	}

	var listings []Listing
	skipped := 0
	for i, row := range rows {
		listing, err := c.extractRow(row)
		if err != nil {
			skipped++
			c.logger.Debug("skipping malformed listing row",
				slog.Int("row", i),
				slog.Any("error", err),
			)
			continue
		}
		listings = append(listings, listing)
	}
	return listings, skipped
}

func (c *Collector) extractRow(row driver.Element) (Listing, error) {
	var listing Listing

	nameText, err := rowCellText(row, c.Selectors.NameCell)
	if err != nil {
		return listing, fmt.Errorf("name cell: %w", err)
	}
	name, quantity := parser.SplitNameQuantity(nameText)
	if name == "" {
		return listing, fmt.Errorf("empty item name")
	}

	bidText, err := rowCellText(row, c.Selectors.BidCell)
	if err != nil {
		return listing, fmt.Errorf("bid cell: %w", err)
	}
	bid, err := parser.ParsePrice(bidText)
	if err != nil {
		return listing, err
	}

	// "-" in the buyout cell means the seller set no buyout.
	buyout := int64(0)
	if buyoutText, err := rowCellText(row, c.Selectors.BuyoutCell); err == nil {
		if parsed, err := parser.ParsePrice(buyoutText); err == nil {
			buyout = parsed
		}
	}

	rawTime, _ := rowCellText(row, c.Selectors.TimeCell)

	listing = Listing{
		Name:        name,
		Quantity:    quantity,
		BidPrice:    bid,
		BuyoutPrice: buyout,
		TimeLeft:    parser.ParseTimeLeft(rawTime),
		RawTimeLeft: rawTime,
	}
	return listing, nil
}

func rowCellText(row driver.Element, selector string) (string, error) {
	el, err := row.Query(selector)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", fmt.Errorf("selector %q matched nothing", selector)
	}
	return el.Text()
}
