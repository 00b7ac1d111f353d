package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// ItemTable is the primary dataset of titles being recommended over. Row
// order is aligned with the similarity matrix, so the positional index of a
// row is its row/column index in the matrix.
type ItemTable struct {
	rows    []map[string]any
	columns []string
}

// NewItemTable builds an ItemTable from decoded artifact rows.
func NewItemTable(rows []map[string]any) *ItemTable {
	return &ItemTable{rows: rows, columns: collectColumns(rows)}
}

// Len returns the number of items.
func (t *ItemTable) Len() int {
	return len(t.rows)
}

// Columns returns the column names present across the table, sorted.
func (t *ItemTable) Columns() []string {
	return t.columns
}

// HasColumn reports whether any row carries the named column.
func (t *ItemTable) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Shape returns (rows, columns), mirroring a dataframe shape.
func (t *ItemTable) Shape() (int, int) {
	return len(t.rows), len(t.columns)
}

// Titles returns the title of every row in table order. Rows without a
// string title yield an empty string so positions stay aligned.
func (t *ItemTable) Titles() []string {
	titles := make([]string, len(t.rows))
	for i, row := range t.rows {
		titles[i], _ = row["title"].(string)
	}
	return titles
}

// Title returns the title at positional index i.
func (t *ItemTable) Title(i int) (string, bool) {
	if i < 0 || i >= len(t.rows) {
		return "", false
	}
	title, ok := t.rows[i]["title"].(string)
	return title, ok
}

// ContentRating returns the content_rating at positional index i, if set.
func (t *ItemTable) ContentRating(i int) (string, bool) {
	if i < 0 || i >= len(t.rows) {
		return "", false
	}
	rating, ok := t.rows[i]["content_rating"].(string)
	return rating, ok && rating != ""
}

// EnrichmentInfo carries the optional descriptive attributes attached to a
// recommendation from the enrichment table.
type EnrichmentInfo struct {
	Title           string
	Rating          *float64
	Genres          *string
	OriginalNetwork *string
}

// EnrichmentTable is the secondary dataset providing descriptive metadata,
// joined to the item table by fuzzy title match rather than a stable key.
type EnrichmentTable struct {
	rows    []map[string]any
	columns []string
	byTitle map[string]int // title -> first row index
}

// NewEnrichmentTable builds an EnrichmentTable from decoded artifact rows.
func NewEnrichmentTable(rows []map[string]any) *EnrichmentTable {
	byTitle := make(map[string]int, len(rows))
	for i, row := range rows {
		title, ok := row["title"].(string)
		if !ok {
			continue
		}
		if _, seen := byTitle[title]; !seen {
			byTitle[title] = i
		}
	}
	return &EnrichmentTable{
		rows:    rows,
		columns: collectColumns(rows),
		byTitle: byTitle,
	}
}

// Len returns the number of enrichment rows.
func (t *EnrichmentTable) Len() int {
	return len(t.rows)
}

// Columns returns the column names present across the table, sorted.
func (t *EnrichmentTable) Columns() []string {
	return t.columns
}

// HasColumn reports whether any row carries the named column.
func (t *EnrichmentTable) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Shape returns (rows, columns).
func (t *EnrichmentTable) Shape() (int, int) {
	return len(t.rows), len(t.columns)
}

// Titles returns every title in table order, skipping rows without one.
func (t *EnrichmentTable) Titles() []string {
	titles := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		if title, ok := row["title"].(string); ok {
			titles = append(titles, title)
		}
	}
	return titles
}

// Get returns the enrichment attributes for an exact title. The caller is
// expected to have resolved the title via fuzzy matching first.
func (t *EnrichmentTable) Get(title string) (EnrichmentInfo, bool) {
	idx, ok := t.byTitle[title]
	if !ok {
		return EnrichmentInfo{}, false
	}

	row := t.rows[idx]
	info := EnrichmentInfo{Title: title}

	if rating, ok := toFloat(row["rating"]); ok {
		info.Rating = &rating
	}
	if genres, ok := toGenres(row["genres"]); ok {
		info.Genres = &genres
	}
	if network, ok := row["original_network"].(string); ok && network != "" {
		info.OriginalNetwork = &network
	}

	return info, true
}

func collectColumns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// toGenres normalizes a genres value to a single string. The offline
// pipeline emits either a comma-joined string or a list of genre names.
func toGenres(v any) (string, bool) {
	switch g := v.(type) {
	case string:
		return g, g != ""
	case []any:
		parts := make([]string, 0, len(g))
		for _, item := range g {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	}
	return "", false
}

// shapeString formats a (rows, cols) pair for logging.
func shapeString(rows, cols int) string {
	return fmt.Sprintf("(%d, %d)", rows, cols)
}
