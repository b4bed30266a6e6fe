package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/integration/twilio"
)

// SMSAdminHandler is the settings-page utility behind "Test my Twilio
// setup": validates the doctor's credentials against the account-info
// endpoint and optionally fires a test SMS.
type SMSAdminHandler struct {
	DoctorRepo entity.DoctorRepositoryInterface
	Twilio     *twilio.Client
}

func NewSMSAdminHandler(doctorRepo entity.DoctorRepositoryInterface, twilioClient *twilio.Client) *SMSAdminHandler {
	return &SMSAdminHandler{
		DoctorRepo: doctorRepo,
		Twilio:     twilioClient,
	}
}

type smsTestRequest struct {
	DoctorID string `json:"doctor_id"`
	To       string `json:"to,omitempty"` // when set, a test SMS goes out after validation
}

type smsTestResponse struct {
	Valid       bool   `json:"valid"`
	AccountName string `json:"account_name,omitempty"`
	TestSent    bool   `json:"test_sent"`
	Message     string `json:"message,omitempty"`
}

func (h *SMSAdminHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	var req smsTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if req.DoctorID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "doctor_id is required")
		return
	}

	doctor, err := h.DoctorRepo.FindByID(r.Context(), req.DoctorID)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "doctor profile not found")
		return
	}

	if !doctor.HasTwilio() {
		writeJSON(w, http.StatusOK, smsTestResponse{
			Valid:   false,
			Message: "Twilio credentials are not configured on this profile",
		})
		return
	}

	info, err := h.Twilio.ValidateCredentials(r.Context(), doctor.TwilioSID, doctor.TwilioToken)
	if err != nil {
		writeJSON(w, http.StatusOK, smsTestResponse{
			Valid:   false,
			Message: err.Error(),
		})
		return
	}

	resp := smsTestResponse{Valid: true, AccountName: info.FriendlyName}

	if req.To != "" {
		_, err := h.Twilio.Send(r.Context(), doctor.TwilioSID, doctor.TwilioToken, doctor.TwilioFrom, req.To,
			"Test message from your lead dashboard. SMS notifications are working.")
		if err != nil {
			resp.Message = "credentials valid but test send failed: " + err.Error()
		} else {
			resp.TestSent = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
