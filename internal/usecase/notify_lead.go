package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/http/middleware"
	"github.com/quizmed/leadgen/internal/infra/queue"
)

// NotifyLeadUseCase runs the four-channel notification fan-out for one
// submitted lead: patient welcome SMS, patient welcome email, doctor
// alert SMS, doctor alert email. Every channel is best effort. A channel
// whose prerequisite config is missing is simply not attempted; a
// provider failure is recorded and never blocks the other channels.
type NotifyLeadUseCase struct {
	DoctorRepo DoctorRepositoryInterface
	CommRepo   CommunicationRepositoryInterface
	Email      EmailService
	SMS        SMSService
	Summarizer LeadSummarizer
}

func NewNotifyLeadUseCase(
	doctorRepo DoctorRepositoryInterface,
	commRepo CommunicationRepositoryInterface,
	email EmailService,
	sms SMSService,
	summarizer LeadSummarizer,
) *NotifyLeadUseCase {
	return &NotifyLeadUseCase{
		DoctorRepo: doctorRepo,
		CommRepo:   commRepo,
		Email:      email,
		SMS:        sms,
		Summarizer: summarizer,
	}
}

// ProcessNotification implements queue.NotificationProcessor.
func (uc *NotifyLeadUseCase) ProcessNotification(ctx context.Context, payload queue.NotificationPayload) error {
	doctor, err := uc.DoctorRepo.FindByID(ctx, payload.DoctorID)
	if err != nil {
		return fmt.Errorf("failed to load doctor profile %s: %w", payload.DoctorID, err)
	}

	var comms []*entity.Communication

	if c := uc.sendPatientWelcomeSMS(ctx, doctor, payload); c != nil {
		comms = append(comms, c)
	}
	if c := uc.sendPatientWelcomeEmail(ctx, doctor, payload); c != nil {
		comms = append(comms, c)
	}
	if c := uc.sendDoctorAlertSMS(ctx, doctor, payload); c != nil {
		comms = append(comms, c)
	}
	if c := uc.sendDoctorAlertEmail(ctx, doctor, payload); c != nil {
		comms = append(comms, c)
	}

	for _, c := range comms {
		middleware.RecordNotification(c.Kind, c.Status)
	}

	if len(comms) == 0 {
		return nil
	}

	// Audit rows are written in one batch after all attempts. Losing
	// them loses history only, not the lead itself.
	if err := uc.CommRepo.CreateBatch(ctx, comms); err != nil {
		log.Printf("⚠️ failed to record %d communications for lead %s: %v", len(comms), payload.LeadID, err)
	}

	return nil
}

func (uc *NotifyLeadUseCase) sendPatientWelcomeSMS(ctx context.Context, doctor *entity.DoctorProfile, p queue.NotificationPayload) *entity.Communication {
	if uc.SMS == nil || !doctor.HasTwilio() || p.Phone == "" {
		return nil
	}

	body := fmt.Sprintf("Hi %s, thanks for completing the %s assessment for %s. We received your results and will reach out shortly.",
		p.Name, p.QuizType, doctor.PracticeName)

	comm := entity.NewCommunication(p.LeadID, "sms", entity.CommKindPatientWelcomeSMS, p.Phone)
	comm.Message = body

	providerID, err := uc.SMS.Send(ctx, doctor.TwilioSID, doctor.TwilioToken, doctor.TwilioFrom, p.Phone, body)
	if err != nil {
		log.Printf("⚠️ patient welcome SMS failed for lead %s: %v", p.LeadID, err)
		middleware.RecordIntegrationError("twilio")
		comm.Status = entity.CommStatusFailed
		comm.ProviderError = err.Error()
		return comm
	}

	comm.Status = entity.CommStatusSent
	comm.ProviderID = providerID
	return comm
}

func (uc *NotifyLeadUseCase) sendPatientWelcomeEmail(ctx context.Context, doctor *entity.DoctorProfile, p queue.NotificationPayload) *entity.Communication {
	if uc.Email == nil || p.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Your %s assessment results from %s", p.QuizType, doctor.PracticeName)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thank you for completing the %s assessment.</p><p>Your score: <strong>%d</strong> (%s).</p><p>%s will review your results and contact you soon.</p>",
		p.Name, p.QuizType, p.Score, p.Severity, doctor.PracticeName)

	comm := entity.NewCommunication(p.LeadID, "email", entity.CommKindPatientWelcomeEmail, p.Email)
	comm.Message = subject

	providerID, err := uc.Email.Send(ctx, p.Email, subject, body)
	if err != nil {
		log.Printf("⚠️ patient welcome email failed for lead %s: %v", p.LeadID, err)
		middleware.RecordIntegrationError("email")
		comm.Status = entity.CommStatusFailed
		comm.ProviderError = err.Error()
		return comm
	}

	comm.Status = entity.CommStatusSent
	comm.ProviderID = providerID
	return comm
}

func (uc *NotifyLeadUseCase) sendDoctorAlertSMS(ctx context.Context, doctor *entity.DoctorProfile, p queue.NotificationPayload) *entity.Communication {
	if uc.SMS == nil || !doctor.HasTwilio() || doctor.NotifyPhone == "" {
		return nil
	}

	body := fmt.Sprintf("New lead: %s scored %d on %s (%s). Check your dashboard.",
		p.Name, p.Score, p.QuizType, p.Severity)

	comm := entity.NewCommunication(p.LeadID, "sms", entity.CommKindDoctorAlertSMS, doctor.NotifyPhone)
	comm.Message = body

	providerID, err := uc.SMS.Send(ctx, doctor.TwilioSID, doctor.TwilioToken, doctor.TwilioFrom, doctor.NotifyPhone, body)
	if err != nil {
		log.Printf("⚠️ doctor alert SMS failed for lead %s: %v", p.LeadID, err)
		middleware.RecordIntegrationError("twilio")
		comm.Status = entity.CommStatusFailed
		comm.ProviderError = err.Error()
		return comm
	}

	comm.Status = entity.CommStatusSent
	comm.ProviderID = providerID
	return comm
}

func (uc *NotifyLeadUseCase) sendDoctorAlertEmail(ctx context.Context, doctor *entity.DoctorProfile, p queue.NotificationPayload) *entity.Communication {
	if uc.Email == nil || doctor.NotifyEmail == "" {
		return nil
	}

	summary := uc.summarize(ctx, p)

	subject := fmt.Sprintf("New %s lead: %s (score %d)", p.QuizType, p.Name, p.Score)
	body := fmt.Sprintf(
		"<p>A new lead just came in.</p><ul><li>Name: %s</li><li>Email: %s</li><li>Phone: %s</li><li>Quiz: %s</li><li>Score: %d (%s)</li><li>Source: %s</li></ul>",
		p.Name, p.Email, p.Phone, p.QuizType, p.Score, p.Severity, p.Source)
	if summary != "" {
		body += "<p><em>" + summary + "</em></p>"
	}

	comm := entity.NewCommunication(p.LeadID, "email", entity.CommKindDoctorAlertEmail, doctor.NotifyEmail)
	comm.Message = subject

	providerID, err := uc.Email.Send(ctx, doctor.NotifyEmail, subject, body)
	if err != nil {
		log.Printf("⚠️ doctor alert email failed for lead %s: %v", p.LeadID, err)
		middleware.RecordIntegrationError("email")
		comm.Status = entity.CommStatusFailed
		comm.ProviderError = err.Error()
		return comm
	}

	comm.Status = entity.CommStatusSent
	comm.ProviderID = providerID
	return comm
}

// summarize asks the LLM for a one-paragraph read of the lead. Any
// failure falls back to the plain template.
func (uc *NotifyLeadUseCase) summarize(ctx context.Context, p queue.NotificationPayload) string {
	if uc.Summarizer == nil {
		return ""
	}

	lead := &entity.Lead{
		ID:       p.LeadID,
		DoctorID: p.DoctorID,
		Name:     p.Name,
		QuizType: p.QuizType,
		Score:    p.Score,
		Severity: p.Severity,
	}

	summary, err := uc.Summarizer.SummarizeLead(ctx, lead)
	if err != nil {
		log.Printf("⚠️ lead summary unavailable for %s: %v", p.LeadID, err)
		middleware.RecordIntegrationError("openrouter")
		return ""
	}
	return summary
}
