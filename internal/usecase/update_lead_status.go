package usecase

import (
	"context"
	"log"

	"github.com/quizmed/leadgen/internal/entity"
)

type UpdateLeadStatusUseCase struct {
	LeadRepo LeadRepositoryInterface
}

func NewUpdateLeadStatusUseCase(leadRepo LeadRepositoryInterface) *UpdateLeadStatusUseCase {
	return &UpdateLeadStatusUseCase{LeadRepo: leadRepo}
}

// Execute moves a lead through the pipeline. Any of the three statuses
// is accepted as a target; the dashboard allows moving backwards too
// (SCHEDULED back to CONTACTED after a cancellation).
func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, leadID, status string) (*entity.Lead, error) {
	if !entity.IsValidLeadStatus(status) {
		return nil, &DomainError{
			Code:    "INVALID_STATUS",
			Message: "status must be one of NEW, CONTACTED, SCHEDULED",
		}
	}

	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, &DomainError{
			Code:    "LEAD_NOT_FOUND",
			Message: "lead not found: " + leadID,
		}
	}

	if lead.Status == status {
		return lead, nil
	}

	if err := uc.LeadRepo.UpdateStatus(ctx, leadID, status); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to update lead status: " + err.Error(),
		}
	}

	log.Printf("Lead %s moved %s -> %s", leadID, lead.Status, status)
	lead.Status = status
	return lead, nil
}
