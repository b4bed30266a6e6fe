package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lead statuses follow the dashboard pipeline.
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusScheduled = "SCHEDULED"
)

type Lead struct {
	ID          string    `json:"id"`
	DoctorID    string    `json:"doctor_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	QuizType    string    `json:"quiz_type"`
	Score       int       `json:"score"`
	Severity    string    `json:"severity,omitempty"`
	Answers     []int     `json:"answers,omitempty"`
	Status      string    `json:"status"` // NEW, CONTACTED, SCHEDULED
	ShareKey    string    `json:"share_key,omitempty"`
	Source      string    `json:"source,omitempty"` // quiz_page, webhook, manual
	FollowedUp  bool      `json:"followed_up"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLead builds a lead in the NEW state with a fresh ID and timestamps.
func NewLead(doctorID, name, email, phone, quizType string, score int, answers []int) (*Lead, error) {
	lead := &Lead{
		ID:          uuid.New().String(),
		DoctorID:    doctorID,
		Name:        name,
		Email:       email,
		Phone:       phone,
		QuizType:    quizType,
		Score:       score,
		Answers:     answers,
		Status:      LeadStatusNew,
		SubmittedAt: time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.DoctorID == "" {
		return errors.New("doctor_id is required")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if l.Phone == "" {
		return errors.New("phone is required")
	}
	if l.QuizType == "" {
		return errors.New("quiz_type is required")
	}
	return nil
}

func IsValidLeadStatus(status string) bool {
	switch status {
	case LeadStatusNew, LeadStatusContacted, LeadStatusScheduled:
		return true
	}
	return false
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByDoctorID(ctx context.Context, doctorID string, limit int) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
