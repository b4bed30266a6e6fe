package usecase

import (
	"context"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/queue"
)

type SubmitLeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	QuizType string `json:"quiz_type"`
	DoctorID string `json:"doctor_id"`
	Score    *int   `json:"score"`

	Answers  []int  `json:"answers,omitempty"`
	ShareKey string `json:"share_key,omitempty"`
	Source   string `json:"source,omitempty"`
}

type SubmitLeadOutput struct {
	Lead *entity.Lead `json:"lead"`
	Msg  string       `json:"msg"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	FindByDoctorID(ctx context.Context, doctorID string, limit int) ([]*entity.Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type DoctorRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.DoctorProfile, error)
}

type CommunicationRepositoryInterface interface {
	CreateBatch(ctx context.Context, comms []*entity.Communication) error
}

type QueueProducerInterface interface {
	PublishLeadNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// EmailService sends one HTML email and returns the provider message id.
type EmailService interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// SMSService sends one SMS using the doctor's own Twilio credentials.
type SMSService interface {
	Send(ctx context.Context, sid, token, from, to, body string) (string, error)
}

// LeadSummarizer produces a short natural-language summary of a lead
// for the doctor alert email.
type LeadSummarizer interface {
	SummarizeLead(ctx context.Context, lead *entity.Lead) (string, error)
}
