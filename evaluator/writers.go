package evaluator

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteListings exports collected listings as CSV.
func WriteListings(path string, listings []Listing) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create listings file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	header := []string{"name", "quantity", "bid", "buyout", "time_left_minutes"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write listings header: %w", err)
	}
	for _, listing := range listings {
		row := []string{
			listing.Name,
			strconv.Itoa(listing.Quantity),
			strconv.FormatInt(listing.BidPrice, 10),
			strconv.FormatInt(listing.BuyoutPrice, 10),
			strconv.Itoa(listing.TimeLeft),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write listing: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush listings: %w", err)
	}
	return nil
}

// WriteRecommendations exports scored listings as CSV, skips included
// so the full scan is auditable.
func WriteRecommendations(path string, recs []Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recommendations file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	header := []string{"name", "quantity", "bid", "buyout", "time_left_minutes", "action", "median", "margin"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write recommendations header: %w", err)
	}
	for _, rec := range recs {
		row := []string{
			rec.Name,
			strconv.Itoa(rec.Quantity),
			strconv.FormatInt(rec.BidPrice, 10),
			strconv.FormatInt(rec.BuyoutPrice, 10),
			strconv.Itoa(rec.TimeLeft),
			string(rec.Action),
			strconv.FormatFloat(rec.Median, 'f', 2, 64),
			strconv.FormatFloat(rec.Margin, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write recommendation: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush recommendations: %w", err)
	}
	return nil
}
