// Package testutil provides shared helpers for building dataset fixtures
// in tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dramarec/dramarec/internal/config"
	"github.com/dramarec/dramarec/internal/dataset"
)

// WriteJSON marshals v into dir/name and returns the full path.
func WriteJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	return WriteFile(t, dir, name, raw)
}

// WriteFile writes raw bytes into dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name string, raw []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// NewStore loads a dataset.Store from the given artifact values, each
// marshaled to JSON in a temp dir. A nil value leaves that artifact absent.
func NewStore(t *testing.T, items, enrichment, similarity any) *dataset.Store {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DataConfig{
		ItemsPath:      filepath.Join(dir, "missing-items.json"),
		EnrichmentPath: filepath.Join(dir, "missing-enrichment.json"),
		SimilarityPath: filepath.Join(dir, "missing-similarity.json"),
	}

	if items != nil {
		cfg.ItemsPath = WriteJSON(t, dir, "items.json", items)
	}
	if enrichment != nil {
		cfg.EnrichmentPath = WriteJSON(t, dir, "enrichment.json", enrichment)
	}
	if similarity != nil {
		cfg.SimilarityPath = WriteJSON(t, dir, "similarity.json", similarity)
	}

	return dataset.Load(cfg, zerolog.Nop())
}

// Items builds an item-table artifact from titles, giving every row a
// content_rating so the column is present.
func Items(titles ...string) []map[string]any {
	rows := make([]map[string]any, len(titles))
	for i, title := range titles {
		rows[i] = map[string]any{
			"title":          title,
			"content_rating": "15+",
		}
	}
	return rows
}
