package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/quizmed/leadgen/internal/entity"
)

type followupLeadRepo interface {
	ClaimForFollowup(ctx context.Context, cutoff time.Time) ([]*entity.Lead, error)
}

type followupDoctorRepo interface {
	FindByID(ctx context.Context, id string) (*entity.DoctorProfile, error)
}

type followupCommRepo interface {
	CreateBatch(ctx context.Context, comms []*entity.Communication) error
}

// EmailSender is satisfied by both the Resend client and the SMTP sender.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// NoopEmailSender stands in when no email provider is configured, so
// follow-up attempts still leave FAILED audit rows instead of vanishing.
type NoopEmailSender struct{}

func (NoopEmailSender) Send(context.Context, string, string, string) (string, error) {
	return "", fmt.Errorf("no email provider configured")
}

// FollowupWorker nudges patients whose lead sat in NEW for too long.
// Each tick claims the stale leads in one statement and sends one
// follow-up email per lead, best effort.
type FollowupWorker struct {
	leads   followupLeadRepo
	doctors followupDoctorRepo
	comms   followupCommRepo
	email   EmailSender

	staleAfter   time.Duration
	tickInterval time.Duration
}

func NewFollowupWorker(leads followupLeadRepo, doctors followupDoctorRepo, comms followupCommRepo, email EmailSender) *FollowupWorker {
	return &FollowupWorker{
		leads:        leads,
		doctors:      doctors,
		comms:        comms,
		email:        email,
		staleAfter:   72 * time.Hour,
		tickInterval: 1 * time.Hour,
	}
}

func (w *FollowupWorker) Start(ctx context.Context) {
	log.Println("🕒 Follow-up worker started (72h window)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Follow-up worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *FollowupWorker) run(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)

	leads, err := w.leads.ClaimForFollowup(ctx, cutoff)
	if err != nil {
		log.Printf("❌ follow-up claim failed: %v", err)
		return
	}
	if len(leads) == 0 {
		return
	}

	log.Printf("📧 following up %d stale lead(s)", len(leads))

	var comms []*entity.Communication
	for _, lead := range leads {
		comms = append(comms, w.followUp(ctx, lead))
	}

	if err := w.comms.CreateBatch(ctx, comms); err != nil {
		log.Printf("⚠️ failed to record follow-up communications: %v", err)
	}
}

func (w *FollowupWorker) followUp(ctx context.Context, lead *entity.Lead) *entity.Communication {
	practice := "your doctor's office"
	if doctor, err := w.doctors.FindByID(ctx, lead.DoctorID); err == nil {
		practice = doctor.PracticeName
	}

	subject := fmt.Sprintf("Following up on your %s assessment", lead.QuizType)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>A few days ago you completed the %s assessment and scored %d.</p><p>%s would still like to discuss your results. Reply to this email or call the office to schedule a visit.</p>",
		lead.Name, lead.QuizType, lead.Score, practice)

	comm := entity.NewCommunication(lead.ID, "email", entity.CommKindFollowupEmail, lead.Email)
	comm.Message = subject

	providerID, err := w.email.Send(ctx, lead.Email, subject, body)
	if err != nil {
		log.Printf("⚠️ follow-up email failed for lead %s: %v", lead.ID, err)
		comm.Status = entity.CommStatusFailed
		comm.ProviderError = err.Error()
		return comm
	}

	comm.Status = entity.CommStatusSent
	comm.ProviderID = providerID
	return comm
}
