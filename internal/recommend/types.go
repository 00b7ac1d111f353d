package recommend

import "net/http"

// Recommendation is a single ranked result. Optional attributes come from
// the item table (content_rating) and the enrichment table (rating, genres,
// original_network) and are omitted when unavailable.
type Recommendation struct {
	Title           string   `json:"title"`
	ContentRating   *string  `json:"content_rating,omitempty"`
	SimilarityScore float64  `json:"similarity_score"`
	Rating          *float64 `json:"rating,omitempty"`
	Genres          *string  `json:"genres,omitempty"`
	OriginalNetwork *string  `json:"original_network,omitempty"`
}

// Error is a terminal request failure carrying the HTTP status the handler
// should return. No error is retried.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func badState(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

func badConfig(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func notFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func internalErr(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}
