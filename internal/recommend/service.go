package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/dramarec/dramarec/internal/config"
	"github.com/dramarec/dramarec/internal/dataset"
	"github.com/dramarec/dramarec/internal/fuzzy"
)

// Service generates content-based recommendations from the startup-loaded
// similarity matrix.
type Service struct {
	store  *dataset.Store
	cfg    config.RecommendConfig
	logger zerolog.Logger
}

// NewService creates a new recommendation service.
func NewService(store *dataset.Store, cfg config.RecommendConfig, logger zerolog.Logger) *Service {
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = fuzzy.DefaultThreshold
	}
	return &Service{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// scoredItem pairs a similarity score with its positional column index.
type scoredItem struct {
	index int
	score float64
}

// Recommend resolves title against the item table and returns the top n
// neighbors from its similarity row, enriched from the secondary dataset.
// n is clamped only when a maximum is configured; n <= 0 yields an empty
// list.
func (s *Service) Recommend(title string, n int) ([]Recommendation, *Error) {
	if !s.store.Ready() {
		return nil, s.fail(badState("Recommendation system not fully initialized. Required data not loaded."))
	}

	model, _ := s.store.Model()
	matrix, ok := model.Matrix()
	if !ok {
		return nil, s.fail(badConfig("Similarity matrix not found in loaded models."))
	}

	items, _ := s.store.Items()
	if !items.HasColumn("title") {
		return nil, s.fail(internalErr("Item table missing 'title' column."))
	}

	titles := items.Titles()
	match, found := fuzzy.ExtractOne(title, titles)
	if !found {
		return nil, s.fail(notFound(fmt.Sprintf("No match found for '%s' in the dataset.", title)))
	}
	if match.Score < s.cfg.MatchThreshold {
		return nil, s.fail(notFound(fmt.Sprintf(
			"No close match found for '%s'. Closest match: '%s' (Confidence: %d). Try a different title.",
			title, match.Value, match.Score)))
	}

	s.logger.Info().
		Str("query", title).
		Str("matched", match.Value).
		Int("confidence", match.Score).
		Msg("resolved query title")

	posIdx := -1
	for i, t := range titles {
		if t == match.Value {
			posIdx = i
			break
		}
	}
	if posIdx < 0 {
		return nil, s.fail(internalErr(fmt.Sprintf("Matched title '%s' not present in item table.", match.Value)))
	}

	row, err := matrix.Row(posIdx)
	if err != nil {
		if errors.Is(err, dataset.ErrRowOutOfBounds) {
			return nil, s.fail(internalErr(fmt.Sprintf(
				"Index %d out of bounds for similarity matrix (size: %d).", posIdx, matrix.Rows())))
		}
		return nil, s.fail(internalErr(fmt.Sprintf("Error accessing similarity scores: %v", err)))
	}

	scored := make([]scoredItem, len(row))
	for i, score := range row {
		scored[i] = scoredItem{index: i, score: score}
	}
	// Stable sort keeps original column order on score ties, which makes
	// the output deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	// The first entry after sorting is assumed to be the query item itself
	// (self-similarity is maximal) and is dropped by position, not by
	// checking that its index equals posIdx.
	if len(scored) > 0 {
		scored = scored[1:]
	}

	if n > s.cfg.MaxCount && s.cfg.MaxCount > 0 {
		n = s.cfg.MaxCount
	}
	if n < 0 {
		n = 0
	}
	if n < len(scored) {
		scored = scored[:n]
	}

	results := make([]Recommendation, 0, len(scored))
	for _, item := range scored {
		rec := Recommendation{SimilarityScore: item.score}

		itemTitle, ok := items.Title(item.index)
		if !ok {
			continue
		}
		rec.Title = itemTitle

		if contentRating, ok := items.ContentRating(item.index); ok {
			rec.ContentRating = &contentRating
		}

		s.enrich(&rec)
		results = append(results, rec)
	}

	return results, nil
}

// enrich attaches rating, genres and network from the enrichment table via
// a fuzzy title match. A failed match leaves the recommendation bare; it
// never fails the request.
func (s *Service) enrich(rec *Recommendation) {
	enrichment, ok := s.store.Enrichment()
	if !ok {
		return
	}

	match, found := fuzzy.ExtractOne(rec.Title, enrichment.Titles())
	if !found || match.Score < s.cfg.MatchThreshold {
		return
	}

	info, ok := enrichment.Get(match.Value)
	if !ok {
		return
	}

	rec.Rating = info.Rating
	rec.Genres = info.Genres
	rec.OriginalNetwork = info.OriginalNetwork
}

// fail logs a request failure and passes it through unchanged.
func (s *Service) fail(err *Error) *Error {
	s.logger.Error().Int("status", err.Status).Msg(err.Message)
	return err
}
