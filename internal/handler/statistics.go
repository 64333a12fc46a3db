package handler

import (
	"context"
	"net/http"

	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// StatisticsService is satisfied by *service.StatisticsService.
type StatisticsService interface {
	Get(ctx context.Context, branchID string) (*service.Statistics, error)
}

// StatisticsHandler serves the admin dashboard figures.
type StatisticsHandler struct {
	svc StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(svc StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{svc: svc}
}

func (h *StatisticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

// Get returns sales statistics over completed orders, for one ?branch= or all.
func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	branch, err := formRef(r.URL.Query().Get("branch"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	stats, err := h.svc.Get(r.Context(), branch)
	if err != nil {
		writeServiceError(w, err, "statistics", "get statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
