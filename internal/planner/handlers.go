package planner

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adiwirman/planora/internal/common"
	"github.com/adiwirman/planora/internal/plan"
	"github.com/adiwirman/planora/internal/scenario"
)

// Handler exposes the plan endpoints to the display layer.
type Handler struct {
	Svc *Service
}

// Create handles POST /api/v1/plans.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "planner service not configured", nil)
		return
	}
	var cfg plan.Config
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid request body", err.Error())
		return
	}
	sc, err := h.Svc.SolveAllocation(cfg)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": sc})
}

// List handles GET /api/v1/plans.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "planner service not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.ListScenarios()})
}

// Get handles GET /api/v1/plans/{index}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "planner service not configured", nil)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "scenario index must be an integer", nil)
		return
	}
	sc, err := h.Svc.GetScenario(index)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": sc})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
}

func toAppError(err error) *common.AppError {
	switch {
	case errors.Is(err, plan.ErrInfeasible):
		return common.NewAppError("INFEASIBLE", "no order plan satisfies the budget and storage constraints", http.StatusUnprocessableEntity, err)
	case errors.Is(err, scenario.ErrNotFound):
		return common.NewAppError("NOT_FOUND", "scenario not found", http.StatusNotFound, err)
	case errors.Is(err, ErrInvalidConfig):
		return common.NewAppError("VALIDATION", err.Error(), http.StatusBadRequest, err)
	default:
		return common.NewAppError("INTERNAL", "internal error", http.StatusInternalServerError, err)
	}
}
