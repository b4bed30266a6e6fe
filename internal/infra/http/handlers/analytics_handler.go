package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quizmed/leadgen/internal/infra/cache"
	"github.com/quizmed/leadgen/internal/usecase"
)

// AnalyticsHandler serves the dashboard report through the TTL cache,
// so repeated dashboard loads within a day cost one query total.
type AnalyticsHandler struct {
	AnalyticsUC *usecase.AnalyticsUseCase
	Cache       *cache.Store
}

func NewAnalyticsHandler(analyticsUC *usecase.AnalyticsUseCase, store *cache.Store) *AnalyticsHandler {
	return &AnalyticsHandler{
		AnalyticsUC: analyticsUC,
		Cache:       store,
	}
}

func (h *AnalyticsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	if doctorID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "doctorID is required")
		return
	}

	fetch := func(ctx context.Context) ([]byte, error) {
		report, err := h.AnalyticsUC.Execute(ctx, doctorID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(report)
	}

	var data []byte
	var err error
	if r.URL.Query().Get("refresh") == "true" {
		data, err = h.Cache.Refetch(r.Context(), "analytics_"+doctorID, fetch)
	} else {
		data, err = h.Cache.GetOrFetch(r.Context(), "analytics_"+doctorID, fetch)
	}
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
