package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quizmed/leadgen/internal/infra/integration/shortlink"
)

type ShortlinkHandler struct {
	Client *shortlink.Client
}

func NewShortlinkHandler(client *shortlink.Client) *ShortlinkHandler {
	return &ShortlinkHandler{Client: client}
}

func (h *ShortlinkHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		URL string `json:"url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if input.URL == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "url is required")
		return
	}

	short, err := h.Client.Shorten(r.Context(), input.URL)
	// Every provider down is not worth failing the share flow over; the
	// long URL still works.
	writeJSON(w, http.StatusOK, map[string]any{
		"short_url": short,
		"shortened": err == nil,
	})
}
