package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dramarec/dramarec/internal/config"
)

// Store holds the three read-only artifacts the service operates on: the
// item table, the enrichment table, and the similarity model. Every
// artifact loads independently; a missing or corrupt file leaves that
// artifact absent and the service runs degraded. Nothing is mutated after
// Load returns, so the Store is safe for concurrent readers.
type Store struct {
	items      *ItemTable
	enrichment *EnrichmentTable
	model      *Model
	logger     zerolog.Logger
}

// Load reads all three artifacts from their configured paths.
func Load(cfg config.DataConfig, logger zerolog.Logger) *Store {
	s := &Store{
		logger: logger.With().Str("component", "dataset").Logger(),
	}

	s.logger.Info().Msg("loading resources")

	s.loadItems(cfg.ItemsPath)
	s.loadEnrichment(cfg.EnrichmentPath)
	s.loadModel(cfg.SimilarityPath)

	return s
}

func (s *Store) loadItems(path string) {
	rows, err := loadRows(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to load item table")
		return
	}

	s.items = NewItemTable(rows)
	rowCount, colCount := s.items.Shape()
	s.logger.Info().
		Str("shape", shapeString(rowCount, colCount)).
		Str("columns", strings.Join(s.items.Columns(), ", ")).
		Msg("loaded item table")
}

func (s *Store) loadEnrichment(path string) {
	rows, err := loadRows(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to load enrichment table")
		return
	}

	s.enrichment = NewEnrichmentTable(rows)
	rowCount, colCount := s.enrichment.Shape()
	s.logger.Info().
		Str("shape", shapeString(rowCount, colCount)).
		Str("columns", strings.Join(s.enrichment.Columns(), ", ")).
		Msg("loaded enrichment table")

	if !s.enrichment.HasColumn("rating") {
		s.logger.Warn().Msg("enrichment table has no rating column")
	}
}

func (s *Store) loadModel(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to load similarity model")
		return
	}

	model, err := ParseModel(raw)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to parse similarity model")
		return
	}

	s.model = model
	if matrix, ok := model.Matrix(); ok {
		s.logger.Info().
			Ints("shape", matrix.Shape()).
			Bool("sparse", matrix.Sparse()).
			Msg("loaded similarity matrix")
	} else {
		s.logger.Warn().Msg("similarity model loaded without similarity_matrix")
	}
}

func loadRows(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rows, nil
}

// Ready reports whether all three artifacts are present. Recommendation
// requests require all of them.
func (s *Store) Ready() bool {
	return s.items != nil && s.enrichment != nil && s.model != nil
}

// Items returns the item table.
func (s *Store) Items() (*ItemTable, bool) {
	return s.items, s.items != nil
}

// Enrichment returns the enrichment table.
func (s *Store) Enrichment() (*EnrichmentTable, bool) {
	return s.enrichment, s.enrichment != nil
}

// Model returns the similarity model.
func (s *Store) Model() (*Model, bool) {
	return s.model, s.model != nil
}

// ItemShape returns the item table's (rows, cols) shape.
func (s *Store) ItemShape() (int, int, bool) {
	if s.items == nil {
		return 0, 0, false
	}
	rows, cols := s.items.Shape()
	return rows, cols, true
}

// HasMatrix reports whether a similarity matrix is loaded.
func (s *Store) HasMatrix() bool {
	return s.model.HasMatrix()
}

// MatrixShape returns the similarity matrix dimensions.
func (s *Store) MatrixShape() ([]int, bool) {
	matrix, ok := s.model.Matrix()
	if !ok {
		return nil, false
	}
	return matrix.Shape(), true
}
