package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notification kinds produced by the fan-out.
const (
	CommKindPatientWelcomeSMS   = "patient_welcome_sms"
	CommKindPatientWelcomeEmail = "patient_welcome_email"
	CommKindDoctorAlertSMS      = "doctor_alert_sms"
	CommKindDoctorAlertEmail    = "doctor_alert_email"
	CommKindFollowupEmail       = "followup_email"
)

const (
	CommStatusSent   = "SENT"
	CommStatusFailed = "FAILED"
)

// Communication is one row per attempted notification. Write-only audit
// trail, there is no read-side reconciliation.
type Communication struct {
	ID            string    `json:"id"`
	LeadID        string    `json:"lead_id"`
	Channel       string    `json:"channel"` // sms, email
	Kind          string    `json:"kind"`
	Recipient     string    `json:"recipient,omitempty"`
	Message       string    `json:"message,omitempty"`
	Status        string    `json:"status"` // SENT, FAILED
	ProviderID    string    `json:"provider_id,omitempty"`
	ProviderError string    `json:"provider_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewCommunication(leadID, channel, kind, recipient string) *Communication {
	return &Communication{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Channel:   channel,
		Kind:      kind,
		Recipient: recipient,
		CreatedAt: time.Now(),
	}
}

type CommunicationRepositoryInterface interface {
	CreateBatch(ctx context.Context, comms []*Communication) error
	FindByLeadID(ctx context.Context, leadID string) ([]*Communication, error)
}
