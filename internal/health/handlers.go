// Package health exposes the liveness probe. The probe always answers 200;
// callers inspect the body to detect a degraded dataset load.
package health

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dramarec/dramarec/internal/dataset"
)

const notLoaded = "Not loaded"

// Status is the GET /health response body. Shape fields hold either a
// dimension slice or the string "Not loaded".
type Status struct {
	Status                 string `json:"status"`
	ModelLoaded            bool   `json:"model_loaded"`
	DataframeShape         any    `json:"dataframe_shape"`
	SimilarityMatrixLoaded bool   `json:"similarity_matrix_loaded"`
	SimilarityMatrixShape  any    `json:"similarity_matrix_shape"`
}

// Handlers provides HTTP handlers for the health probe.
type Handlers struct {
	store *dataset.Store
}

// NewHandlers creates a new health handlers instance.
func NewHandlers(store *dataset.Store) *Handlers {
	return &Handlers{store: store}
}

// RegisterRoutes registers health routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Check)
}

// Check reports server status and artifact load state.
// GET /health
func (h *Handlers) Check(c echo.Context) error {
	status := Status{
		Status:                "healthy",
		DataframeShape:        notLoaded,
		SimilarityMatrixShape: notLoaded,
	}

	_, itemsLoaded := h.store.Items()
	_, modelLoaded := h.store.Model()
	status.ModelLoaded = itemsLoaded && modelLoaded

	if rows, cols, ok := h.store.ItemShape(); ok {
		status.DataframeShape = []int{rows, cols}
	}

	status.SimilarityMatrixLoaded = h.store.HasMatrix()
	if shape, ok := h.store.MatrixShape(); ok {
		status.SimilarityMatrixShape = shape
	}

	return c.JSON(http.StatusOK, status)
}
