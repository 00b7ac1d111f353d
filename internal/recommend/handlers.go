package recommend

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for recommendation requests.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new recommendation handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers recommendation routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/recommend", h.Recommend)
}

// recommendRequest is the POST /recommend payload. NRecommendations is a
// pointer so an explicit 0 is distinguishable from an absent field.
type recommendRequest struct {
	Title            *string `json:"title"`
	NRecommendations *int    `json:"n_recommendations"`
}

// Recommend returns the top-N neighbors for a title.
// POST /recommend
func (h *Handlers) Recommend(c echo.Context) error {
	var req recommendRequest
	if err := c.Bind(&req); err != nil || req.Title == nil || *req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing 'title' in request body."})
	}

	n := h.service.cfg.DefaultCount
	if req.NRecommendations != nil {
		n = *req.NRecommendations
	}

	results, recErr := h.service.Recommend(*req.Title, n)
	if recErr != nil {
		return c.JSON(recErr.Status, map[string]string{"error": recErr.Message})
	}

	return c.JSON(http.StatusOK, results)
}
