package catalog

import (
	"net/http"

	"github.com/adiwirman/planora/internal/common"
)

// Handler exposes the read-only catalog endpoint for the display layer.
type Handler struct {
	Items Catalog
}

// List handles GET /api/v1/catalog.
func (h Handler) List(w http.ResponseWriter, _ *http.Request) {
	if len(h.Items) == 0 {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not loaded", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Items})
}
