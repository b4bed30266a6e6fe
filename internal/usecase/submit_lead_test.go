package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func submitInput() SubmitLeadInput {
	score := 60
	return SubmitLeadInput{
		Name:     "Maria Souza",
		Email:    "maria@example.com",
		Phone:    "11987654321",
		QuizType: entity.QuizTypeNOSE,
		DoctorID: "doc-1",
		Score:    &score,
	}
}

func TestSubmitLead_Success(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	doctorRepo := new(MockDoctorRepository)
	producer := new(MockQueueProducer)

	doctorRepo.On("FindByID", mock.Anything, "doc-1").
		Return(&entity.DoctorProfile{ID: "doc-1", PracticeName: "Clinica Norte"}, nil)
	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)
	producer.On("PublishLeadNotification", mock.Anything, mock.Anything).Return(nil)

	uc := NewSubmitLeadUseCase(leadRepo, doctorRepo, producer)
	out, err := uc.Execute(context.Background(), submitInput())

	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.NotEmpty(t, out.Lead.ID)
	assert.Equal(t, entity.LeadStatusNew, out.Lead.Status)
	assert.Equal(t, "quiz_page", out.Lead.Source)
	assert.Equal(t, 60, out.Lead.Score)
	assert.Equal(t, "severe", out.Lead.Severity)

	leadRepo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestSubmitLead_RescoresFromAnswers(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	doctorRepo := new(MockDoctorRepository)
	producer := new(MockQueueProducer)

	doctorRepo.On("FindByID", mock.Anything, "doc-1").
		Return(&entity.DoctorProfile{ID: "doc-1"}, nil)
	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)
	producer.On("PublishLeadNotification", mock.Anything, mock.Anything).Return(nil)

	input := submitInput()
	// Client claims 60, the raw answers only add up to 2*5 = 10.
	input.Answers = []int{0, 1, 0, 1, 0}

	uc := NewSubmitLeadUseCase(leadRepo, doctorRepo, producer)
	out, err := uc.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 10, out.Lead.Score)
	assert.Equal(t, "mild", out.Lead.Severity)
}

func TestSubmitLead_ValidationError(t *testing.T) {
	uc := NewSubmitLeadUseCase(new(MockLeadRepository), new(MockDoctorRepository), new(MockQueueProducer))

	input := submitInput()
	input.Email = ""
	out, err := uc.Execute(context.Background(), input)

	assert.Nil(t, out)
	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	assert.Contains(t, domainErr.Message, "email")
}

func TestSubmitLead_DoctorNotFound(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	doctorRepo := new(MockDoctorRepository)

	doctorRepo.On("FindByID", mock.Anything, "doc-1").
		Return(nil, entity.ErrDoctorNotFound)

	uc := NewSubmitLeadUseCase(leadRepo, doctorRepo, new(MockQueueProducer))
	out, err := uc.Execute(context.Background(), submitInput())

	assert.Nil(t, out)
	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "DOCTOR_NOT_FOUND", domainErr.Code)
	leadRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitLead_PersistFailure(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	doctorRepo := new(MockDoctorRepository)
	producer := new(MockQueueProducer)

	doctorRepo.On("FindByID", mock.Anything, "doc-1").
		Return(&entity.DoctorProfile{ID: "doc-1"}, nil)
	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).
		Return(errors.New("connection refused"))

	uc := NewSubmitLeadUseCase(leadRepo, doctorRepo, producer)
	out, err := uc.Execute(context.Background(), submitInput())

	assert.Nil(t, out)
	var techErr *TechnicalError
	assert.True(t, errors.As(err, &techErr))
	assert.Equal(t, "DATABASE_ERROR", techErr.Code)
	producer.AssertNotCalled(t, "PublishLeadNotification", mock.Anything, mock.Anything)
}

func TestSubmitLead_PublishFailureStillSucceeds(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	doctorRepo := new(MockDoctorRepository)
	producer := new(MockQueueProducer)

	doctorRepo.On("FindByID", mock.Anything, "doc-1").
		Return(&entity.DoctorProfile{ID: "doc-1"}, nil)
	leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)
	producer.On("PublishLeadNotification", mock.Anything, mock.Anything).
		Return(errors.New("broker unreachable"))

	uc := NewSubmitLeadUseCase(leadRepo, doctorRepo, producer)
	out, err := uc.Execute(context.Background(), submitInput())

	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.NotEmpty(t, out.Lead.ID)
}
