package usecase

import (
	"context"
	"time"

	"github.com/quizmed/leadgen/internal/entity"
)

// AnalyticsReport is the dashboard summary for one doctor: plain
// aggregation over the fetched lead slice, nothing fancier.
type AnalyticsReport struct {
	DoctorID       string             `json:"doctor_id"`
	TotalLeads     int                `json:"total_leads"`
	ByStatus       map[string]int     `json:"by_status"`
	ByQuizType     map[string]int     `json:"by_quiz_type"`
	AvgScoreByQuiz map[string]float64 `json:"avg_score_by_quiz"`
	DailyCounts    []DailyCount       `json:"daily_counts"`
	ConversionRate float64            `json:"conversion_rate"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

type DailyCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

const analyticsWindowDays = 30
const analyticsLeadLimit = 500

type AnalyticsUseCase struct {
	LeadRepo LeadRepositoryInterface
}

func NewAnalyticsUseCase(leadRepo LeadRepositoryInterface) *AnalyticsUseCase {
	return &AnalyticsUseCase{LeadRepo: leadRepo}
}

func (uc *AnalyticsUseCase) Execute(ctx context.Context, doctorID string) (*AnalyticsReport, error) {
	leads, err := uc.LeadRepo.FindByDoctorID(ctx, doctorID, analyticsLeadLimit)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to load leads: " + err.Error(),
		}
	}

	report := BuildAnalyticsReport(doctorID, leads, time.Now())
	return report, nil
}

// BuildAnalyticsReport aggregates a lead slice into the dashboard
// report. Pure function so the math is trivially testable.
func BuildAnalyticsReport(doctorID string, leads []*entity.Lead, now time.Time) *AnalyticsReport {
	report := &AnalyticsReport{
		DoctorID:       doctorID,
		TotalLeads:     len(leads),
		ByStatus:       make(map[string]int),
		ByQuizType:     make(map[string]int),
		AvgScoreByQuiz: make(map[string]float64),
		GeneratedAt:    now,
	}

	scoreSums := make(map[string]int)
	windowStart := now.AddDate(0, 0, -(analyticsWindowDays - 1))
	dayKey := func(t time.Time) string { return t.Format("2006-01-02") }
	daily := make(map[string]int)

	scheduled := 0
	for _, lead := range leads {
		report.ByStatus[lead.Status]++
		report.ByQuizType[lead.QuizType]++
		scoreSums[lead.QuizType] += lead.Score

		if lead.Status == entity.LeadStatusScheduled {
			scheduled++
		}

		if !lead.SubmittedAt.Before(truncateToDay(windowStart)) {
			daily[dayKey(lead.SubmittedAt)]++
		}
	}

	for quizType, sum := range scoreSums {
		report.AvgScoreByQuiz[quizType] = float64(sum) / float64(report.ByQuizType[quizType])
	}

	// One bucket per day, oldest first, zeroes included so the chart
	// has a continuous x axis.
	for i := 0; i < analyticsWindowDays; i++ {
		day := truncateToDay(windowStart).AddDate(0, 0, i)
		report.DailyCounts = append(report.DailyCounts, DailyCount{
			Day:   dayKey(day),
			Count: daily[dayKey(day)],
		})
	}

	if len(leads) > 0 {
		report.ConversionRate = float64(scheduled) / float64(len(leads))
	}

	return report
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
