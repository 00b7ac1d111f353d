// Package fuzzy resolves free-text queries to the closest known title.
package fuzzy

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the acceptance cutoff: matches scoring below it are
// treated as "not found" by callers.
const DefaultThreshold = 80

// Match is a resolved candidate with a confidence score in [0, 100].
type Match struct {
	Value string
	Score int
}

// ExtractOne returns the best-scoring candidate for the query. On ties the
// first occurrence in candidate order wins. Returns false only when
// candidates is empty.
func ExtractOne(query string, candidates []string) (Match, bool) {
	if len(candidates) == 0 {
		return Match{}, false
	}

	normQuery := normalize(query)
	queryTokens := sortedTokens(normQuery)

	best := Match{Score: -1}
	for _, candidate := range candidates {
		score := score(normQuery, queryTokens, candidate)
		if score > best.Score {
			best = Match{Value: candidate, Score: score}
		}
	}

	return best, true
}

// score compares a pre-normalized query against a raw candidate, taking the
// better of a plain ratio and a token-sort ratio so word order does not
// penalize otherwise identical titles.
func score(normQuery, queryTokens string, candidate string) int {
	normCandidate := normalize(candidate)
	if normQuery == normCandidate {
		return 100
	}

	plain := ratio(normQuery, normCandidate)
	tokenSort := ratio(queryTokens, sortedTokens(normCandidate))
	if tokenSort > plain {
		return tokenSort
	}
	return plain
}

// ratio is the Levenshtein similarity of two strings scaled to [0, 100].
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}

// normalize lowercases, maps "&" to "and", strips everything but letters,
// digits and spaces, and collapses runs of whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteRune(' ')
		case r > 127:
			// Keep non-ASCII letters (Hangul, CJK) as-is.
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func sortedTokens(normalized string) string {
	tokens := strings.Fields(normalized)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
