package usecase

import (
	"context"
	"log"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/queue"
)

type SubmitLeadUseCase struct {
	LeadRepo   LeadRepositoryInterface
	DoctorRepo DoctorRepositoryInterface
	Producer   QueueProducerInterface
}

func NewSubmitLeadUseCase(
	leadRepo LeadRepositoryInterface,
	doctorRepo DoctorRepositoryInterface,
	producer QueueProducerInterface,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		LeadRepo:   leadRepo,
		DoctorRepo: doctorRepo,
		Producer:   producer,
	}
}

// Execute validates the intake payload, persists the lead and publishes
// the notification job. There is no idempotency key: a resubmission
// creates a second lead, which is the accepted product behavior.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	validationErrors := ValidateSubmitLeadInput(input)
	if len(validationErrors) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: joinValidationErrors(validationErrors),
		}
	}

	if _, err := uc.DoctorRepo.FindByID(ctx, input.DoctorID); err != nil {
		return nil, &DomainError{
			Code:    "DOCTOR_NOT_FOUND",
			Message: "unknown doctor_id: " + input.DoctorID,
		}
	}

	source := input.Source
	if source == "" {
		source = "quiz_page"
	}

	lead, err := entity.NewLead(input.DoctorID, input.Name, input.Email, input.Phone, input.QuizType, *input.Score, input.Answers)
	if err != nil {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		}
	}
	lead.ShareKey = input.ShareKey
	lead.Source = source

	// The client computes the score, but for the standard quizzes we
	// trust our own math over the payload whenever the raw answers came along.
	if def, err := entity.QuizDefinitionFor(input.QuizType); err == nil {
		if len(input.Answers) > 0 {
			if score, err := def.Score(input.Answers); err == nil {
				lead.Score = score
			}
		}
		lead.Severity = def.Severity(lead.Score)
	}

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	// Best effort from here on. The lead is saved; a queue outage must
	// not fail the submission.
	payload := queue.NotificationPayload{
		LeadID:   lead.ID,
		DoctorID: lead.DoctorID,
		Name:     lead.Name,
		Email:    lead.Email,
		Phone:    lead.Phone,
		QuizType: lead.QuizType,
		Score:    lead.Score,
		Severity: lead.Severity,
		Source:   lead.Source,
	}
	if err := uc.Producer.PublishLeadNotification(ctx, payload); err != nil {
		log.Printf("⚠️ lead %s saved but notification publish failed: %v", lead.ID, err)
	}

	return &SubmitLeadOutput{
		Lead: lead,
		Msg:  "Lead captured successfully",
	}, nil
}
