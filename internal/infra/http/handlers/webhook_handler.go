package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/quizmed/leadgen/internal/infra/http/middleware"
	"github.com/quizmed/leadgen/internal/usecase"
)

// WebhookHandler accepts lead submissions pushed by third-party quiz
// platforms. Their payload nests the patient and keys answers by
// question id, so it gets flattened into the normal intake input.
type WebhookHandler struct {
	SubmitUC *usecase.SubmitLeadUseCase
}

func NewWebhookHandler(submitUC *usecase.SubmitLeadUseCase) *WebhookHandler {
	return &WebhookHandler{SubmitUC: submitUC}
}

type webhookEvent struct {
	Event    string `json:"event"`
	DoctorID string `json:"doctor_id"`
	ShareKey string `json:"share_key"`
	Patient  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"patient"`
	Quiz struct {
		Type    string         `json:"type"`
		Score   *int           `json:"score"`
		Answers map[string]int `json:"answers"`
	} `json:"quiz"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	// Anything that is not a completion is acknowledged and dropped.
	if event.Event != "quiz.completed" && event.Event != "lead.created" {
		w.WriteHeader(http.StatusOK)
		return
	}

	input := usecase.SubmitLeadInput{
		Name:     event.Patient.Name,
		Email:    event.Patient.Email,
		Phone:    event.Patient.Phone,
		QuizType: event.Quiz.Type,
		DoctorID: event.DoctorID,
		Score:    event.Quiz.Score,
		Answers:  flattenAnswers(event.Quiz.Answers),
		ShareKey: event.ShareKey,
		Source:   "webhook",
	}

	output, err := h.SubmitUC.Execute(r.Context(), input)
	if err != nil {
		log.Printf("⚠️ webhook lead rejected: %v", err)
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCaptured(output.Lead.QuizType, output.Lead.Source)
	writeJSON(w, http.StatusOK, output)
}

// flattenAnswers turns {"q1": 3, "q2": 0, ...} into an ordered slice.
// Question keys sort numerically when they follow the qN convention.
func flattenAnswers(answers map[string]int) []int {
	if len(answers) == 0 {
		return nil
	}

	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		ni, erri := strconv.Atoi(trimQ(keys[i]))
		nj, errj := strconv.Atoi(trimQ(keys[j]))
		if erri == nil && errj == nil {
			return ni < nj
		}
		return keys[i] < keys[j]
	})

	flat := make([]int, 0, len(keys))
	for _, k := range keys {
		flat = append(flat, answers[k])
	}
	return flat
}

func trimQ(key string) string {
	if len(key) > 1 && (key[0] == 'q' || key[0] == 'Q') {
		return key[1:]
	}
	return key
}
