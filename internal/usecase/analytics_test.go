package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizmed/leadgen/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func analyticsLead(status, quizType string, score int, submitted time.Time) *entity.Lead {
	return &entity.Lead{
		ID:          "lead-" + status,
		DoctorID:    "doc-1",
		QuizType:    quizType,
		Score:       score,
		Status:      status,
		SubmittedAt: submitted,
	}
}

func TestBuildAnalyticsReport_StatusDistribution(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	leads := []*entity.Lead{
		analyticsLead(entity.LeadStatusNew, entity.QuizTypeNOSE, 40, now),
		analyticsLead(entity.LeadStatusNew, entity.QuizTypeNOSE, 60, now),
		analyticsLead(entity.LeadStatusContacted, entity.QuizTypeSTOPBANG, 4, now),
		analyticsLead(entity.LeadStatusScheduled, entity.QuizTypeNOSE, 80, now),
	}

	report := BuildAnalyticsReport("doc-1", leads, now)

	assert.Equal(t, 4, report.TotalLeads)
	assert.Equal(t, map[string]int{
		entity.LeadStatusNew:       2,
		entity.LeadStatusContacted: 1,
		entity.LeadStatusScheduled: 1,
	}, report.ByStatus)
	assert.Equal(t, map[string]int{
		entity.QuizTypeNOSE:     3,
		entity.QuizTypeSTOPBANG: 1,
	}, report.ByQuizType)
	assert.InDelta(t, 60.0, report.AvgScoreByQuiz[entity.QuizTypeNOSE], 0.001)
	assert.InDelta(t, 0.25, report.ConversionRate, 0.001)
}

func TestBuildAnalyticsReport_DailyWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	leads := []*entity.Lead{
		analyticsLead(entity.LeadStatusNew, entity.QuizTypeNOSE, 10, now),
		analyticsLead(entity.LeadStatusNew, entity.QuizTypeNOSE, 10, now.AddDate(0, 0, -1)),
		analyticsLead(entity.LeadStatusNew, entity.QuizTypeNOSE, 10, now.AddDate(0, 0, -1)),
		// Outside the 30 day window, still counted in totals.
		analyticsLead(entity.LeadStatusNew, entity.QuizTypeNOSE, 10, now.AddDate(0, 0, -45)),
	}

	report := BuildAnalyticsReport("doc-1", leads, now)

	assert.Len(t, report.DailyCounts, 30)
	assert.Equal(t, "2026-08-01", report.DailyCounts[0].Day)
	assert.Equal(t, "2026-08-30", report.DailyCounts[29].Day)
	assert.Equal(t, 1, report.DailyCounts[29].Count)
	assert.Equal(t, 2, report.DailyCounts[28].Count)
	assert.Equal(t, 0, report.DailyCounts[0].Count)
	assert.Equal(t, 4, report.TotalLeads)
}

func TestBuildAnalyticsReport_Empty(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	report := BuildAnalyticsReport("doc-1", nil, now)

	assert.Equal(t, 0, report.TotalLeads)
	assert.Empty(t, report.ByStatus)
	assert.Zero(t, report.ConversionRate)
	assert.Len(t, report.DailyCounts, 30)
}

func TestAnalyticsUseCase_RepositoryFailure(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	leadRepo.On("FindByDoctorID", mock.Anything, "doc-1", 500).
		Return(nil, errors.New("timeout"))

	uc := NewAnalyticsUseCase(leadRepo)
	report, err := uc.Execute(context.Background(), "doc-1")

	assert.Nil(t, report)
	var techErr *TechnicalError
	assert.True(t, errors.As(err, &techErr))
	assert.Equal(t, "DATABASE_ERROR", techErr.Code)
}
