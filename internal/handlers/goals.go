package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/kmcdade/finboard/internal/store"
)

// GoalsHandler handles savings goal requests.
type GoalsHandler struct {
	logger *common.Logger
	goals  *store.Goals
}

// NewGoalsHandler creates a new goals handler.
func NewGoalsHandler(logger *common.Logger, goals *store.Goals) *GoalsHandler {
	return &GoalsHandler{logger: logger, goals: goals}
}

// goalView decorates a stored goal with its display progress.
type goalView struct {
	models.Goal
	ProgressPct int `json:"progress_pct"`
}

func viewGoals(goals []models.Goal) []goalView {
	out := make([]goalView, len(goals))
	for i, g := range goals {
		out[i] = goalView{Goal: g, ProgressPct: g.ProgressPct()}
	}
	return out
}

// List handles GET /api/goals.
func (h *GoalsHandler) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"goals":       viewGoals(h.goals.Load()),
		"total_saved": h.goals.TotalSaved().StringFixed(2),
	})
}

type goalRequest struct {
	Name          string           `json:"name"`
	TargetAmount  decimal.Decimal  `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      string           `json:"deadline"`
}

// Create handles POST /api/goals.
func (h *GoalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal := models.Goal{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}

	created, err := h.goals.Add(goal)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, goalView{Goal: created, ProgressPct: created.ProgressPct()})
}

// Update handles PUT /api/goals/{id}. The stored amount is written as
// given; only the display percentage is clamped.
func (h *GoalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := goalID(r.URL.Path)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing goal id")
		return
	}

	var req goalRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var updated models.Goal
	if !h.goals.Update(id, func(goal *models.Goal) {
		if req.Name != "" {
			goal.Name = req.Name
		}
		if req.TargetAmount.Sign() > 0 {
			goal.TargetAmount = req.TargetAmount
		}
		if req.CurrentAmount != nil {
			goal.CurrentAmount = *req.CurrentAmount
		}
		if req.Deadline != "" {
			goal.Deadline = req.Deadline
		}
		updated = *goal
	}) {
		WriteError(w, http.StatusNotFound, "goal not found")
		return
	}

	WriteJSON(w, http.StatusOK, goalView{Goal: updated, ProgressPct: updated.ProgressPct()})
}

// Delete handles DELETE /api/goals/{id}.
func (h *GoalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := goalID(r.URL.Path)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing goal id")
		return
	}

	if !h.goals.Delete(id) {
		WriteError(w, http.StatusNotFound, "goal not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type progressRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AddProgress handles POST /api/goals/{id}/progress. The stored amount is
// clamped to the target; overshooting contributions land exactly on it.
func (h *GoalsHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	id := goalID(r.URL.Path)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing goal id")
		return
	}

	var req progressRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount.Sign() <= 0 {
		WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	goal, err := h.goals.QuickAddProgress(id, req.Amount)
	if err != nil {
		if errors.Is(err, store.ErrGoalNotFound) {
			WriteError(w, http.StatusNotFound, "goal not found")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, goalView{Goal: goal, ProgressPct: goal.ProgressPct()})
}

// goalID extracts the goal id from /api/goals/{id} or
// /api/goals/{id}/progress.
func goalID(path string) string {
	id := strings.TrimPrefix(path, "/api/goals/")
	id = strings.TrimSuffix(id, "/progress")
	return strings.Trim(id, "/")
}
