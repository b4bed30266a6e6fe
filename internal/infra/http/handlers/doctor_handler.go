package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/cache"
)

type DoctorHandler struct {
	Repo  entity.DoctorRepositoryInterface
	Cache *cache.Store
}

func NewDoctorHandler(repo entity.DoctorRepositoryInterface, store *cache.Store) *DoctorHandler {
	return &DoctorHandler{Repo: repo, Cache: store}
}

func (h *DoctorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	profile, err := h.Repo.FindByID(r.Context(), doctorID)
	if errors.Is(err, entity.ErrDoctorNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "doctor profile not found")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load profile")
		return
	}

	// Credentials never leave the server.
	profile.TwilioToken = ""

	writeJSON(w, http.StatusOK, profile)
}

func (h *DoctorHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")

	var profile entity.DoctorProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if profile.PracticeName == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "practice_name is required")
		return
	}

	profile.AccountID = doctorID

	// HandleGet strips the token, so a round-tripped profile arrives
	// without it. An empty token means keep the stored one.
	if profile.TwilioToken == "" {
		if existing, err := h.Repo.FindByID(r.Context(), doctorID); err == nil {
			profile.TwilioToken = existing.TwilioToken
		}
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	profile.UpdatedAt = time.Now()

	if err := h.Repo.Upsert(r.Context(), &profile); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to save profile")
		return
	}

	// A profile change affects everything the dashboard cached for this
	// doctor.
	if err := h.Cache.InvalidateDoctor(r.Context(), doctorID); err != nil {
		log.Printf("⚠️ cache invalidation failed for doctor %s: %v", doctorID, err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": profile.ID, "status": "saved"})
}
