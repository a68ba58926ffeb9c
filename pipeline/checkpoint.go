package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skmarket/go-auction-history/models"
)

// SaveDatabase writes the item database durably. The JSON is written to
// a temporary file in the target directory and renamed over the prior
// checkpoint, so a crash mid-write never corrupts the last good one.
func SaveDatabase(db models.ItemDatabase, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	defer func() {
		// Leftover temp files only exist after a failure below.
		_ = os.Remove(tmp.Name())
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(db); err != nil {
		tmp.Close()
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename checkpoint into place: %w", err)
	}
	return nil
}

// LoadDatabase reads a checkpoint file. A missing file yields an empty
// database.
func LoadDatabase(path string) (models.ItemDatabase, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(models.ItemDatabase), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read database %s: %w", path, err)
	}

	var db models.ItemDatabase
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse database %s: %w", path, err)
	}
	return db, nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
