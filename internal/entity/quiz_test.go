package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNOSEScoring(t *testing.T) {
	def, err := QuizDefinitionFor(QuizTypeNOSE)
	assert.NoError(t, err)

	// Five answers 0-4, sum multiplied by 5.
	score, err := def.Score([]int{4, 4, 4, 4, 4})
	assert.NoError(t, err)
	assert.Equal(t, 100, score)

	score, err = def.Score([]int{1, 0, 2, 1, 1})
	assert.NoError(t, err)
	assert.Equal(t, 25, score)

	assert.Equal(t, "mild", def.Severity(25))
	assert.Equal(t, "moderate", def.Severity(30))
	assert.Equal(t, "severe", def.Severity(75))
	assert.Equal(t, "extreme", def.Severity(100))
}

func TestSTOPBANGScoring(t *testing.T) {
	def, err := QuizDefinitionFor(QuizTypeSTOPBANG)
	assert.NoError(t, err)

	score, err := def.Score([]int{1, 1, 1, 0, 0, 0, 0, 0})
	assert.NoError(t, err)
	assert.Equal(t, 3, score)

	assert.Equal(t, "low risk", def.Severity(2))
	assert.Equal(t, "intermediate risk", def.Severity(3))
	assert.Equal(t, "high risk", def.Severity(5))
}

func TestScoreRejectsWrongAnswerCount(t *testing.T) {
	def, _ := QuizDefinitionFor(QuizTypeSNOT22)

	_, err := def.Score([]int{1, 2, 3})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expects 22 answers")
}

func TestScoreRejectsOutOfRangeAnswer(t *testing.T) {
	def, _ := QuizDefinitionFor(QuizTypeNOSE)

	_, err := def.Score([]int{0, 0, 0, 0, 9})
	assert.Error(t, err)

	_, err = def.Score([]int{0, 0, 0, 0, -1})
	assert.Error(t, err)
}

func TestUnknownQuizType(t *testing.T) {
	_, err := QuizDefinitionFor("PHQ9")
	assert.ErrorIs(t, err, ErrUnknownQuizType)
	assert.False(t, IsBuiltinQuizType("PHQ9"))
	assert.True(t, IsBuiltinQuizType(QuizTypeEpworth))
}

func TestCustomQuizDefinition(t *testing.T) {
	quiz, err := NewCustomQuiz("doc-1", "Post-op check", []string{"Pain?", "Swelling?", "Bleeding?"}, 4)
	assert.NoError(t, err)
	assert.NotEmpty(t, quiz.ShareKey)

	def := quiz.Definition()
	assert.Equal(t, 3, def.Questions)
	assert.Equal(t, 12, def.MaxScore)

	score, err := def.Score([]int{4, 4, 4})
	assert.NoError(t, err)
	assert.Equal(t, 12, score)
}

func TestNewCustomQuizValidation(t *testing.T) {
	_, err := NewCustomQuiz("", "Title", []string{"Q1"}, 4)
	assert.Error(t, err)

	_, err = NewCustomQuiz("doc-1", "", []string{"Q1"}, 4)
	assert.Error(t, err)

	_, err = NewCustomQuiz("doc-1", "Title", nil, 4)
	assert.Error(t, err)
}
