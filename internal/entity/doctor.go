package entity

import (
	"context"
	"errors"
	"time"
)

var ErrDoctorNotFound = errors.New("doctor profile not found")

// DoctorProfile is the account/tenant record owning leads, credentials
// and branding. The dashboard expects at most one profile per account;
// duplicates created by old clients are resolved on read (oldest wins).
type DoctorProfile struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	PracticeName string `json:"practice_name"`
	DoctorName   string `json:"doctor_name"`
	Specialty    string `json:"specialty,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`

	// Notification channels
	NotifyEmail string `json:"notify_email,omitempty"`
	NotifyPhone string `json:"notify_phone,omitempty"`
	EmailPrefix string `json:"email_prefix,omitempty"`

	// Twilio credentials for the doctor's own SMS sender
	TwilioSID   string `json:"twilio_sid,omitempty"`
	TwilioToken string `json:"twilio_token,omitempty"`
	TwilioFrom  string `json:"twilio_from,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTwilio reports whether the profile carries everything needed to
// send SMS on the doctor's behalf.
func (d *DoctorProfile) HasTwilio() bool {
	return d.TwilioSID != "" && d.TwilioToken != "" && d.TwilioFrom != ""
}

type DoctorRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*DoctorProfile, error)
	Upsert(ctx context.Context, profile *DoctorProfile) error
}
