package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/cache"
	"github.com/stretchr/testify/assert"
)

func newDoctorTestRouter(repo *fakeDoctorRepo) *chi.Mux {
	handler := NewDoctorHandler(repo, cache.NewStore(cache.NewMemoryKV()))

	r := chi.NewRouter()
	r.Get("/doctors/{doctorID}", handler.HandleGet)
	r.Put("/doctors/{doctorID}", handler.HandleUpsert)
	return r
}

func seededDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{profiles: map[string]*entity.DoctorProfile{
		"doc-1": {
			ID:           "doc-1",
			AccountID:    "doc-1",
			PracticeName: "Clinica Norte",
			DoctorName:   "Dr. Ana Souza",
			NotifyEmail:  "ana@clinica-norte.com",
			TwilioSID:    "AC123",
			TwilioToken:  "secret-token",
			TwilioFrom:   "+15550001111",
			CreatedAt:    time.Now().Add(-24 * time.Hour),
		},
	}}
}

func TestDoctorGet_StripsTwilioToken(t *testing.T) {
	router := newDoctorTestRouter(seededDoctorRepo())

	req := httptest.NewRequest(http.MethodGet, "/doctors/doc-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-token")

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "twilio_token")
	assert.Equal(t, "AC123", body["twilio_sid"])
}

// A dashboard save is GET then PUT of the same document. The GET
// response has no token, so the PUT must not erase the stored one.
func TestDoctorUpsert_RoundTripKeepsStoredTwilioToken(t *testing.T) {
	repo := seededDoctorRepo()
	router := newDoctorTestRouter(repo)

	getReq := httptest.NewRequest(http.MethodGet, "/doctors/doc-1", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)

	var profile entity.DoctorProfile
	assert.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &profile))
	assert.Empty(t, profile.TwilioToken)

	profile.PracticeName = "Clinica Norte Renovada"
	payload, err := json.Marshal(profile)
	assert.NoError(t, err)

	putReq := httptest.NewRequest(http.MethodPut, "/doctors/doc-1", bytes.NewReader(payload))
	putRec := httptest.NewRecorder()
	router.ServeHTTP(putRec, putReq)
	assert.Equal(t, http.StatusOK, putRec.Code)

	stored := repo.profiles["doc-1"]
	assert.Equal(t, "Clinica Norte Renovada", stored.PracticeName)
	assert.Equal(t, "secret-token", stored.TwilioToken)
	assert.True(t, stored.HasTwilio())
}

func TestDoctorUpsert_NewTokenReplacesStoredOne(t *testing.T) {
	repo := seededDoctorRepo()
	router := newDoctorTestRouter(repo)

	body := `{"practice_name":"Clinica Norte","twilio_sid":"AC123","twilio_token":"rotated-token","twilio_from":"+15550001111"}`
	req := httptest.NewRequest(http.MethodPut, "/doctors/doc-1", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rotated-token", repo.profiles["doc-1"].TwilioToken)
}

func TestDoctorUpsert_RequiresPracticeName(t *testing.T) {
	router := newDoctorTestRouter(seededDoctorRepo())

	req := httptest.NewRequest(http.MethodPut, "/doctors/doc-1", bytes.NewReader([]byte(`{"doctor_name":"Dr. Ana"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_FIELDS")
}
