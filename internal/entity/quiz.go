package entity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownQuizType = errors.New("unknown quiz type")

// Built-in symptom assessment quizzes.
const (
	QuizTypeNOSE     = "NOSE"      // Nasal Obstruction Symptom Evaluation
	QuizTypeSNOT22   = "SNOT22"    // Sino-Nasal Outcome Test
	QuizTypeSTOPBANG = "STOP_BANG" // Sleep apnea screening
	QuizTypeEpworth  = "EPWORTH"   // Epworth Sleepiness Scale
)

// SeverityBand maps an inclusive score range to a label shown on the
// result page and the doctor alert.
type SeverityBand struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Label string `json:"label"`
}

// QuizDefinition describes how a quiz is scored: number of questions,
// per-answer point range and severity bands over the total.
type QuizDefinition struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Questions  int            `json:"questions"`
	MaxAnswer  int            `json:"max_answer"` // highest value a single answer may take
	Multiplier int            `json:"multiplier"` // applied to the raw sum (NOSE uses 5)
	MaxScore   int            `json:"max_score"`
	Bands      []SeverityBand `json:"bands"`
}

var builtinQuizzes = map[string]QuizDefinition{
	QuizTypeNOSE: {
		Type: QuizTypeNOSE, Name: "NOSE", Questions: 5, MaxAnswer: 4, Multiplier: 5, MaxScore: 100,
		Bands: []SeverityBand{
			{0, 25, "mild"},
			{26, 50, "moderate"},
			{51, 75, "severe"},
			{76, 100, "extreme"},
		},
	},
	QuizTypeSNOT22: {
		Type: QuizTypeSNOT22, Name: "SNOT-22", Questions: 22, MaxAnswer: 5, Multiplier: 1, MaxScore: 110,
		Bands: []SeverityBand{
			{0, 19, "mild"},
			{20, 50, "moderate"},
			{51, 110, "severe"},
		},
	},
	QuizTypeSTOPBANG: {
		Type: QuizTypeSTOPBANG, Name: "STOP-BANG", Questions: 8, MaxAnswer: 1, Multiplier: 1, MaxScore: 8,
		Bands: []SeverityBand{
			{0, 2, "low risk"},
			{3, 4, "intermediate risk"},
			{5, 8, "high risk"},
		},
	},
	QuizTypeEpworth: {
		Type: QuizTypeEpworth, Name: "Epworth", Questions: 8, MaxAnswer: 3, Multiplier: 1, MaxScore: 24,
		Bands: []SeverityBand{
			{0, 10, "normal"},
			{11, 15, "moderate sleepiness"},
			{16, 24, "severe sleepiness"},
		},
	},
}

// QuizDefinitionFor returns the built-in definition for a quiz type.
func QuizDefinitionFor(quizType string) (QuizDefinition, error) {
	def, ok := builtinQuizzes[quizType]
	if !ok {
		return QuizDefinition{}, fmt.Errorf("%w: %s", ErrUnknownQuizType, quizType)
	}
	return def, nil
}

// IsBuiltinQuizType reports whether the type is one of the standard quizzes.
func IsBuiltinQuizType(quizType string) bool {
	_, ok := builtinQuizzes[quizType]
	return ok
}

// Score sums the answers and applies the multiplier. Answers out of
// range or wrong in count are rejected so a tampered client cannot
// inflate a score past MaxScore.
func (d QuizDefinition) Score(answers []int) (int, error) {
	if len(answers) != d.Questions {
		return 0, fmt.Errorf("quiz %s expects %d answers, got %d", d.Type, d.Questions, len(answers))
	}

	sum := 0
	for i, a := range answers {
		if a < 0 || a > d.MaxAnswer {
			return 0, fmt.Errorf("answer %d out of range (0-%d)", i, d.MaxAnswer)
		}
		sum += a
	}

	return sum * d.Multiplier, nil
}

// Severity returns the band label for a score, or "" when the score
// falls outside every band.
func (d QuizDefinition) Severity(score int) string {
	for _, b := range d.Bands {
		if score >= b.Min && score <= b.Max {
			return b.Label
		}
	}
	return ""
}

// CustomQuiz is a doctor-authored quiz stored alongside the built-ins.
type CustomQuiz struct {
	ID        string         `json:"id"`
	DoctorID  string         `json:"doctor_id"`
	Title     string         `json:"title"`
	Questions []string       `json:"questions"`
	MaxAnswer int            `json:"max_answer"`
	Bands     []SeverityBand `json:"bands,omitempty"`
	ShareKey  string         `json:"share_key"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewCustomQuiz(doctorID, title string, questions []string, maxAnswer int) (*CustomQuiz, error) {
	if doctorID == "" {
		return nil, errors.New("doctor_id is required")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if len(questions) == 0 {
		return nil, errors.New("at least one question is required")
	}
	if maxAnswer < 1 {
		maxAnswer = 1
	}

	return &CustomQuiz{
		ID:        uuid.New().String(),
		DoctorID:  doctorID,
		Title:     title,
		Questions: questions,
		MaxAnswer: maxAnswer,
		ShareKey:  uuid.New().String()[:8],
		CreatedAt: time.Now(),
	}, nil
}

// Definition adapts the custom quiz to the scoring model used by the
// built-ins.
func (q *CustomQuiz) Definition() QuizDefinition {
	return QuizDefinition{
		Type:       q.ID,
		Name:       q.Title,
		Questions:  len(q.Questions),
		MaxAnswer:  q.MaxAnswer,
		Multiplier: 1,
		MaxScore:   len(q.Questions) * q.MaxAnswer,
		Bands:      q.Bands,
	}
}

type CustomQuizRepositoryInterface interface {
	Create(ctx context.Context, quiz *CustomQuiz) error
	FindByShareKey(ctx context.Context, shareKey string) (*CustomQuiz, error)
	FindByDoctorID(ctx context.Context, doctorID string) ([]*CustomQuiz, error)
}
