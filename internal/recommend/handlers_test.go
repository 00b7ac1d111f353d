package recommend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dramarec/dramarec/internal/testutil"
)

func setupHandlers(t *testing.T, itemCount int) *Handlers {
	t.Helper()

	titles := make([]string, itemCount)
	matrix := make([][]float64, itemCount)
	for i := range titles {
		titles[i] = fmt.Sprintf("Drama Series %c", 'A'+i)
		matrix[i] = make([]float64, itemCount)
		for j := range matrix[i] {
			if i == j {
				matrix[i][j] = 1.0
			} else {
				matrix[i][j] = 1.0 / float64(1+absInt(i-j))
			}
		}
	}

	store := testutil.NewStore(t, testutil.Items(titles...), []map[string]any{}, wrappedMatrix(matrix))
	service := NewService(store, testRecommendConfig(), zerolog.Nop())
	return NewHandlers(service)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func postRecommend(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Recommend(c); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	return rec
}

func TestHandlers_Recommend_MissingTitle(t *testing.T) {
	h := setupHandlers(t, 7)

	for _, body := range []string{`{}`, `{"n_recommendations": 3}`, `{"title": ""}`} {
		rec := postRecommend(t, h, body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d for body %s, want 400", rec.Code, body)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["error"] != "Missing 'title' in request body." {
			t.Errorf("error = %q, want %q", resp["error"], "Missing 'title' in request body.")
		}
	}
}

func TestHandlers_Recommend_MalformedBody(t *testing.T) {
	h := setupHandlers(t, 7)

	rec := postRecommend(t, h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlers_Recommend_DefaultCount(t *testing.T) {
	h := setupHandlers(t, 7)

	rec := postRecommend(t, h, `{"title": "Drama Series A"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var results []Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("len(results) = %d, want default 5", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].SimilarityScore > results[i-1].SimilarityScore {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestHandlers_Recommend_ExplicitCount(t *testing.T) {
	h := setupHandlers(t, 7)

	rec := postRecommend(t, h, `{"title": "Drama Series A", "n_recommendations": 2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var results []Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestHandlers_Recommend_ExplicitZero(t *testing.T) {
	h := setupHandlers(t, 7)

	rec := postRecommend(t, h, `{"title": "Drama Series A", "n_recommendations": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var results []Recommendation
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 for explicit n_recommendations=0", len(results))
	}
}

func TestHandlers_Recommend_NotFoundPassthrough(t *testing.T) {
	h := setupHandlers(t, 7)

	rec := postRecommend(t, h, `{"title": "Zzqx Nonexistent Drama 12345"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp["error"], "Closest match:") {
		t.Errorf("error = %q, want closest-match detail", resp["error"])
	}
}
