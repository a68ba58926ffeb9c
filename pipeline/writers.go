package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/skmarket/go-auction-history/config"
	"github.com/skmarket/go-auction-history/models"
)

// SnapshotWriter exports the records of each checkpoint batch as one
// timestamped CSV file next to the database.
type SnapshotWriter struct {
	dir    string
	format string
	now    func() time.Time
}

// NewSnapshotWriter builds a writer for the given data directory and
// snapshot format (config.SnapshotBasic or config.SnapshotFull).
func NewSnapshotWriter(dir, format string) *SnapshotWriter {
	return &SnapshotWriter{
		dir:    dir,
		format: format,
		now:    time.Now,
	}
}

// Write saves one snapshot file and returns its path.
func (w *SnapshotWriter) Write(batch int, records []models.SaleRecord) (string, error) {
	stamp := w.now().Format("20060102_150405")
	filename := filepath.Join(w.dir, fmt.Sprintf("history_snapshot_batch%d_%s.csv", batch, stamp))
	if err := ensureDir(filename); err != nil {
		return "", err
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(w.header()); err != nil {
		return "", fmt.Errorf("write snapshot header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(w.row(record)); err != nil {
			return "", fmt.Errorf("write snapshot record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush snapshot: %w", err)
	}
	return filename, nil
}

func (w *SnapshotWriter) header() []string {
	if w.format == config.SnapshotFull {
		return []string{"name", "quantity", "price", "price_per_unit", "status", "datetime"}
	}
	return []string{"name", "price", "datetime"}
}

func (w *SnapshotWriter) row(record models.SaleRecord) []string {
	if w.format == config.SnapshotFull {
		return []string{
			record.Name,
			strconv.Itoa(record.Quantity),
			strconv.FormatInt(record.Price, 10),
			strconv.FormatFloat(record.PricePerUnit(), 'f', -1, 64),
			record.Status,
			record.Timestamp,
		}
	}
	return []string{
		record.Name,
		strconv.FormatInt(record.Price, 10),
		record.Timestamp,
	}
}
