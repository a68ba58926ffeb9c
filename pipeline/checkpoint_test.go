package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skmarket/go-auction-history/models"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "item_database.json")

	db := models.ItemDatabase{
		"Iron Ingot": {
			{Price: 500, Timestamp: "2025-03-14T19:05:32", Type: "sale"},
			{Price: 5000, PricePerUnit: 5, Quantity: 1000, Timestamp: "2025-03-14T20:00:00", Type: "sale"},
		},
	}
	if err := SaveDatabase(db, path); err != nil {
		t.Fatalf("SaveDatabase() = %v", err)
	}

	loaded, err := LoadDatabase(path)
	if err != nil {
		t.Fatalf("LoadDatabase() = %v", err)
	}
	history := loaded["Iron Ingot"]
	if len(history) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(history))
	}
	if history[1].PricePerUnit != 5 || history[1].Quantity != 1000 {
		t.Errorf("stacked entry lost fields: %+v", history[1])
	}
}

func TestSaveDatabaseReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item_database.json")

	first := models.ItemDatabase{"A": {{Price: 1, Timestamp: "t1", Type: "sale"}}}
	if err := SaveDatabase(first, path); err != nil {
		t.Fatal(err)
	}
	second := models.ItemDatabase{"A": {
		{Price: 1, Timestamp: "t1", Type: "sale"},
		{Price: 2, Timestamp: "t2", Type: "sale"},
	}}
	if err := SaveDatabase(second, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadDatabase(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded["A"]) != 2 {
		t.Errorf("checkpoint holds %d entries, want 2", len(loaded["A"]))
	}

	// The rename must not leave temp files behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("temp checkpoint %q left behind", entry.Name())
		}
	}
}

func TestSaveDatabaseSurvivesStaleTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item_database.json")

	// A crash between temp write and rename leaves a file like this.
	stale := filepath.Join(dir, ".item_database.json.tmp-123")
	if err := os.WriteFile(stale, []byte("half-written"), 0o644); err != nil {
		t.Fatal(err)
	}

	db := models.ItemDatabase{"A": {{Price: 1, Timestamp: "t1", Type: "sale"}}}
	if err := SaveDatabase(db, path); err != nil {
		t.Fatalf("SaveDatabase() = %v", err)
	}

	loaded, err := LoadDatabase(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded["A"]) != 1 {
		t.Errorf("checkpoint holds %d entries, want 1", len(loaded["A"]))
	}
}

func TestLoadDatabaseMissingFile(t *testing.T) {
	db, err := LoadDatabase(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadDatabase() = %v, want nil", err)
	}
	if len(db) != 0 {
		t.Error("missing file did not load as an empty database")
	}
}
