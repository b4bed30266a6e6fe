package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/database"
)

type ContactHandler struct {
	Repo entity.ContactRepositoryInterface
}

func NewContactHandler(repo entity.ContactRepositoryInterface) *ContactHandler {
	return &ContactHandler{Repo: repo}
}

type createContactRequest struct {
	DoctorID string   `json:"doctor_id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

func (h *ContactHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	contact, err := entity.NewContact(req.DoctorID, req.Name, req.Email, req.Phone)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	contact.Notes = req.Notes
	contact.Tags = req.Tags

	if err := h.Repo.Create(r.Context(), contact); err != nil {
		if errors.Is(err, database.ErrContactExists) {
			writeErrorResponse(w, http.StatusConflict, "CONTACT_EXISTS", "a contact with this email already exists")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to save contact")
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	if doctorID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "doctor_id query parameter is required")
		return
	}

	contacts, err := h.Repo.FindByDoctorID(r.Context(), doctorID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load contacts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts, "count": len(contacts)})
}

func (h *ContactHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "contactID")

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "contact not found")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
