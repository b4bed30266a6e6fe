package usecase

import (
	"context"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/quizmed/leadgen/internal/infra/queue"
	"github.com/stretchr/testify/mock"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByDoctorID(ctx context.Context, doctorID string, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, doctorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockDoctorRepository
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id string) (*entity.DoctorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DoctorProfile), args.Error(1)
}

// MockCommunicationRepository
type MockCommunicationRepository struct {
	mock.Mock

	// Recorded keeps the batches handed to CreateBatch for assertions.
	Recorded [][]*entity.Communication
}

func (m *MockCommunicationRepository) CreateBatch(ctx context.Context, comms []*entity.Communication) error {
	m.Recorded = append(m.Recorded, comms)
	args := m.Called(ctx, comms)
	return args.Error(0)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLeadNotification(ctx context.Context, payload queue.NotificationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.String(0), args.Error(1)
}

// MockSMSService
type MockSMSService struct {
	mock.Mock
}

func (m *MockSMSService) Send(ctx context.Context, sid, token, from, to, body string) (string, error) {
	args := m.Called(ctx, sid, token, from, to, body)
	return args.String(0), args.Error(1)
}

// MockLeadSummarizer
type MockLeadSummarizer struct {
	mock.Mock
}

func (m *MockLeadSummarizer) SummarizeLead(ctx context.Context, lead *entity.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}
