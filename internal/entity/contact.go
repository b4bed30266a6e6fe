package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Contact is a dashboard address book entry, independent of leads.
type Contact struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewContact(doctorID, name, email, phone string) (*Contact, error) {
	if doctorID == "" {
		return nil, errors.New("doctor_id is required")
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	if email == "" && phone == "" {
		return nil, errors.New("email or phone is required")
	}

	return &Contact{
		ID:        uuid.New().String(),
		DoctorID:  doctorID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

type ContactRepositoryInterface interface {
	Create(ctx context.Context, contact *Contact) error
	FindByDoctorID(ctx context.Context, doctorID string) ([]*Contact, error)
	Delete(ctx context.Context, id string) error
}
