package scraper

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/skmarket/go-auction-history/driver"
	"github.com/skmarket/go-auction-history/models"
	"github.com/skmarket/go-auction-history/parser"
)

// extractRecords reads every sale row currently rendered. One malformed
// row is skipped, never the rest of the page; a missing table is an
// extraction error for the whole page.
func extractRecords(session driver.Session, sel Selectors, timeout time.Duration, logger *slog.Logger) (records []models.SaleRecord, skipped int, err error) {
	if err := session.WaitFor(sel.RowTable, timeout, driver.StateAttached); err != nil {
		return nil, 0, ErrNavigationTimeout{Err: err}
	}

	rows, err := session.QueryAll(sel.Row)
	if err != nil {
		return nil, 0, ErrExtraction{Err: fmt.Errorf("query rows: %w", err)}
	}

	for i, row := range rows {
		record, err := extractRow(row, sel)
		if err != nil {
			skipped++
			logger.Debug("skipping malformed row",
				slog.Int("row", i),
				slog.Any("error", err),
			)
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

func extractRow(row driver.Element, sel Selectors) (models.SaleRecord, error) {
	var record models.SaleRecord

	nameText, err := cellText(row, sel.NameCell)
	if err != nil {
		return record, fmt.Errorf("name cell: %w", err)
	}
	name, quantity := parser.SplitNameQuantity(nameText)
	if name == "" {
		return record, fmt.Errorf("empty item name")
	}

	priceText, err := cellText(row, sel.PriceCell)
	if err != nil {
		return record, fmt.Errorf("price cell: %w", err)
	}
	price, err := parser.ParsePrice(priceText)
	if err != nil {
		return record, err
	}

	// Date and time render in separate cells; either may be missing on
	// partially painted rows.
	dateText, _ := cellText(row, sel.DateCell)
	timeText, _ := cellText(row, sel.TimeCell)
	timestamp := parser.ParseDateTime(dateText, timeText)
	if timestamp == "" {
		return record, fmt.Errorf("empty datetime")
	}

	status := "Sold"
	if sel.StatusCell != "" {
		if statusText, err := cellText(row, sel.StatusCell); err == nil && statusText != "" {
			status = statusText
		}
	}

	record = models.SaleRecord{
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		Status:    status,
		Timestamp: timestamp,
	}
	return record, nil
}

func cellText(row driver.Element, selector string) (string, error) {
	el, err := row.Query(selector)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", fmt.Errorf("selector %q matched nothing", selector)
	}
	return el.Text()
}
