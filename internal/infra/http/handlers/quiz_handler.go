package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/database"
)

type QuizHandler struct {
	Repo entity.CustomQuizRepositoryInterface
}

func NewQuizHandler(repo entity.CustomQuizRepositoryInterface) *QuizHandler {
	return &QuizHandler{Repo: repo}
}

// HandleDefinitions exposes the built-in quiz scoring tables so the
// quiz pages render bands without hardcoding them twice.
func (h *QuizHandler) HandleDefinitions(w http.ResponseWriter, r *http.Request) {
	types := []string{
		entity.QuizTypeNOSE,
		entity.QuizTypeSNOT22,
		entity.QuizTypeSTOPBANG,
		entity.QuizTypeEpworth,
	}

	defs := make([]entity.QuizDefinition, 0, len(types))
	for _, t := range types {
		def, _ := entity.QuizDefinitionFor(t)
		defs = append(defs, def)
	}

	writeJSON(w, http.StatusOK, map[string]any{"quizzes": defs})
}

type createQuizRequest struct {
	DoctorID  string                `json:"doctor_id"`
	Title     string                `json:"title"`
	Questions []string              `json:"questions"`
	MaxAnswer int                   `json:"max_answer"`
	Bands     []entity.SeverityBand `json:"bands"`
}

func (h *QuizHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	quiz, err := entity.NewCustomQuiz(req.DoctorID, req.Title, req.Questions, req.MaxAnswer)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	quiz.Bands = req.Bands

	if err := h.Repo.Create(r.Context(), quiz); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to save quiz")
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	if doctorID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "doctor_id query parameter is required")
		return
	}

	quizzes, err := h.Repo.FindByDoctorID(r.Context(), doctorID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load quizzes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes, "count": len(quizzes)})
}

// HandleGetByShareKey is the public endpoint the patient-facing quiz
// page loads a custom quiz from.
func (h *QuizHandler) HandleGetByShareKey(w http.ResponseWriter, r *http.Request) {
	shareKey := chi.URLParam(r, "shareKey")

	quiz, err := h.Repo.FindByShareKey(r.Context(), shareKey)
	if errors.Is(err, database.ErrQuizNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "quiz not found")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load quiz")
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}
