package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/2mOlaf/gamer-gambit/internal/models"

	"github.com/go-chi/chi/v5"
)

type AssignmentStore interface {
	Stats() (models.GameStats, error)
	UserAssignments(userID string) ([]models.Assignment, error)
}

type AssignmentController struct {
	store AssignmentStore
	log   *slog.Logger
}

func NewAssignmentController(store AssignmentStore, log *slog.Logger) *AssignmentController {
	return &AssignmentController{store: store, log: log}
}

type statsResponse struct {
	models.GameStats
	AvailablePct float64 `json:"available_pct"`
	AssignedPct  float64 `json:"assigned_pct"`
	CompletedPct float64 `json:"completed_pct"`
}

// Metrics handles GET /metrics with the review pool counters.
func (c *AssignmentController) Metrics(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.assignments.Metrics"

	st, err := c.store.Stats()
	if err != nil {
		c.log.Error(ErrGetStats.Error(),
			slog.String("operation", op),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetStats.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, c.log, op, http.StatusOK, statsResponse{
		GameStats:    st,
		AvailablePct: st.AvailablePct(),
		AssignedPct:  st.AssignedPct(),
		CompletedPct: st.CompletedPct(),
	})
}

// ByUser handles GET /api/assignments/{userID}.
func (c *AssignmentController) ByUser(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.assignments.ByUser"

	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		http.Error(w, ErrInvalidID.Error(), http.StatusBadRequest)
		return
	}

	list, err := c.store.UserAssignments(userID)
	if err != nil {
		c.log.Error(ErrGetAssigned.Error(),
			slog.String("operation", op),
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		http.Error(w, ErrGetAssigned.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Assignment{}
	}

	writeJSON(w, c.log, op, http.StatusOK, list)
}
