package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/stretchr/testify/assert"
)

type stubLeadRepo struct {
	leads   []*entity.Lead
	claimed []time.Time
	err     error
}

func (s *stubLeadRepo) ClaimForFollowup(_ context.Context, cutoff time.Time) ([]*entity.Lead, error) {
	s.claimed = append(s.claimed, cutoff)
	return s.leads, s.err
}

type stubDoctorRepo struct {
	profile *entity.DoctorProfile
}

func (s *stubDoctorRepo) FindByID(context.Context, string) (*entity.DoctorProfile, error) {
	if s.profile == nil {
		return nil, entity.ErrDoctorNotFound
	}
	return s.profile, nil
}

type stubCommRepo struct {
	batches [][]*entity.Communication
}

func (s *stubCommRepo) CreateBatch(_ context.Context, comms []*entity.Communication) error {
	s.batches = append(s.batches, comms)
	return nil
}

type stubEmail struct {
	sent []string
	err  error
}

func (s *stubEmail) Send(_ context.Context, to, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, to)
	return "msg-1", nil
}

func staleLead(id string) *entity.Lead {
	return &entity.Lead{
		ID:          id,
		DoctorID:    "doc-1",
		Name:        "Maria Souza",
		Email:       "maria@example.com",
		QuizType:    entity.QuizTypeNOSE,
		Score:       60,
		Status:      entity.LeadStatusNew,
		SubmittedAt: time.Now().Add(-96 * time.Hour),
	}
}

func TestFollowupRun_SendsAndRecords(t *testing.T) {
	leads := &stubLeadRepo{leads: []*entity.Lead{staleLead("l1"), staleLead("l2")}}
	doctors := &stubDoctorRepo{profile: &entity.DoctorProfile{ID: "doc-1", PracticeName: "Clinica Norte"}}
	comms := &stubCommRepo{}
	email := &stubEmail{}

	w := NewFollowupWorker(leads, doctors, comms, email)
	w.run(context.Background())

	assert.Equal(t, []string{"maria@example.com", "maria@example.com"}, email.sent)
	assert.Len(t, comms.batches, 1)
	assert.Len(t, comms.batches[0], 2)
	for _, c := range comms.batches[0] {
		assert.Equal(t, entity.CommKindFollowupEmail, c.Kind)
		assert.Equal(t, entity.CommStatusSent, c.Status)
	}
}

func TestFollowupRun_CutoffHonorsStaleWindow(t *testing.T) {
	leads := &stubLeadRepo{}
	w := NewFollowupWorker(leads, &stubDoctorRepo{}, &stubCommRepo{}, &stubEmail{})

	before := time.Now().Add(-w.staleAfter)
	w.run(context.Background())
	after := time.Now().Add(-w.staleAfter)

	assert.Len(t, leads.claimed, 1)
	cutoff := leads.claimed[0]
	assert.False(t, cutoff.Before(before))
	assert.False(t, cutoff.After(after))
}

func TestFollowupRun_SendFailureLeavesFailedRow(t *testing.T) {
	leads := &stubLeadRepo{leads: []*entity.Lead{staleLead("l1")}}
	comms := &stubCommRepo{}
	email := &stubEmail{err: errors.New("smtp timeout")}

	w := NewFollowupWorker(leads, &stubDoctorRepo{}, comms, email)
	w.run(context.Background())

	assert.Len(t, comms.batches, 1)
	c := comms.batches[0][0]
	assert.Equal(t, entity.CommStatusFailed, c.Status)
	assert.Contains(t, c.ProviderError, "smtp timeout")
}

func TestFollowupRun_NoStaleLeadsWritesNothing(t *testing.T) {
	comms := &stubCommRepo{}
	w := NewFollowupWorker(&stubLeadRepo{}, &stubDoctorRepo{}, comms, &stubEmail{})
	w.run(context.Background())

	assert.Empty(t, comms.batches)
}

func TestFollowupRun_ClaimFailureIsSilent(t *testing.T) {
	leads := &stubLeadRepo{err: errors.New("connection refused")}
	comms := &stubCommRepo{}
	w := NewFollowupWorker(leads, &stubDoctorRepo{}, comms, &stubEmail{})
	w.run(context.Background())

	assert.Empty(t, comms.batches)
}

func TestNoopEmailSender(t *testing.T) {
	_, err := NoopEmailSender{}.Send(context.Background(), "x@y.z", "s", "b")
	assert.Error(t, err)
}
