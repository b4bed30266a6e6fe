package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/http/middleware"
	"github.com/quizmed/leadgen/internal/usecase"
)

type LeadHandler struct {
	SubmitUC    *usecase.SubmitLeadUseCase
	StatusUC    *usecase.UpdateLeadStatusUseCase
	LeadRepo    usecase.LeadRepositoryInterface
	CommRepo    entity.CommunicationRepositoryInterface
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	submitUC *usecase.SubmitLeadUseCase,
	statusUC *usecase.UpdateLeadStatusUseCase,
	leadRepo usecase.LeadRepositoryInterface,
	commRepo entity.CommunicationRepositoryInterface,
) *LeadHandler {
	return &LeadHandler{
		SubmitUC:    submitUC,
		StatusUC:    statusUC,
		LeadRepo:    leadRepo,
		CommRepo:    commRepo,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// HandleSubmit is the quiz intake endpoint (POST /leads).
func (h *LeadHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.SubmitUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCaptured(output.Lead.QuizType, output.Lead.Source)
	writeJSON(w, http.StatusOK, output)
}

// HandleList returns the doctor's recent leads, newest first
// (GET /leads?doctor_id=...).
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	if doctorID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "doctor_id query parameter is required")
		return
	}

	leads, err := h.LeadRepo.FindByDoctorID(r.Context(), doctorID, 500)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load leads")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}

// HandleUpdateStatus moves a lead through the pipeline
// (PATCH /leads/{leadID}/status).
func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	lead, err := h.StatusUC.Execute(r.Context(), leadID, input.Status)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

// HandleCommunications returns the notification audit trail for one
// lead, oldest first (GET /leads/{leadID}/communications).
func (h *LeadHandler) HandleCommunications(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	if _, err := h.LeadRepo.FindByID(r.Context(), leadID); err != nil {
		writeErrorResponse(w, http.StatusNotFound, "LEAD_NOT_FOUND", "lead not found: "+leadID)
		return
	}

	comms, err := h.CommRepo.FindByLeadID(r.Context(), leadID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load communications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"communications": comms, "count": len(comms)})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
