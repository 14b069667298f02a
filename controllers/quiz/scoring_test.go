package quizController

import (
	"testing"

	quizModels "lms/models/quiz"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func choiceQuestion(id uint, points int, correctIDs []uint, wrongIDs []uint) quizModels.Question {
	q := quizModels.Question{
		Model:  gorm.Model{ID: id},
		Type:   quizModels.QuestionMultipleChoice,
		Points: points,
	}
	for _, optID := range correctIDs {
		q.Options = append(q.Options, quizModels.QuestionOption{Model: gorm.Model{ID: optID}, IsCorrect: true})
	}
	for _, optID := range wrongIDs {
		q.Options = append(q.Options, quizModels.QuestionOption{Model: gorm.Model{ID: optID}})
	}
	return q
}

func shortAnswerQuestion(id uint, points int) quizModels.Question {
	return quizModels.Question{
		Model:  gorm.Model{ID: id},
		Type:   quizModels.QuestionShortAnswer,
		Points: points,
	}
}

func TestScoreQuizAllCorrect(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 2, []uint{10}, []uint{11, 12}),
		choiceQuestion(2, 3, []uint{20, 21}, []uint{22}),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
		{QuestionID: 2, SelectedOptionIDs: []uint{21, 20}},
	}

	result := ScoreQuiz(questions, 60, answers)

	assert.Equal(t, 5, result.Score)
	assert.Equal(t, 5, result.TotalScore)
	assert.Equal(t, 100.0, result.Percentage)
	assert.True(t, result.Passed)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.False(t, result.NeedsGrading)
	assert.Empty(t, result.Warnings)
}

func TestScoreQuizPartialCredit(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 1, []uint{10}, []uint{11}),
		choiceQuestion(2, 1, []uint{20}, []uint{21}),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
		{QuestionID: 2, SelectedOptionIDs: []uint{21}},
	}

	result := ScoreQuiz(questions, 60, answers)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 50.0, result.Percentage)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.CorrectAnswers)
}

func TestScoreQuizExactSetRequired(t *testing.T) {
	question := choiceQuestion(1, 4, []uint{10, 11}, []uint{12, 13})

	tests := []struct {
		name     string
		selected []uint
		correct  bool
	}{
		{"exact match", []uint{10, 11}, true},
		{"exact match reordered", []uint{11, 10}, true},
		{"subset only", []uint{10}, false},
		{"superset", []uint{10, 11, 12}, false},
		{"disjoint", []uint{12, 13}, false},
		{"duplicates do not help", []uint{10, 10}, false},
		{"duplicate complete set still matches", []uint{10, 10, 11}, true},
		{"empty selection", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreQuiz([]quizModels.Question{question}, 60, []AnswerSubmission{
				{QuestionID: 1, SelectedOptionIDs: tt.selected},
			})
			assert.Equal(t, tt.correct, result.Answers[0].IsCorrect)
		})
	}
}

func TestScoreQuizUnansweredCountsIncorrect(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 1, []uint{10}, []uint{11}),
		choiceQuestion(2, 1, []uint{20}, []uint{21}),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
	}

	result := ScoreQuiz(questions, 60, answers)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 50.0, result.Percentage)
	assert.False(t, result.Answers[1].IsCorrect)
}

func TestScoreQuizNoScorablePoints(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 0, []uint{10}, []uint{11}),
	}

	result := ScoreQuiz(questions, 60, []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
	})

	assert.Equal(t, 0.0, result.Percentage)
	assert.False(t, result.Passed)
	assert.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no scorable points")
}

func TestScoreQuizShortAnswerNeedsGrading(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 2, []uint{10}, []uint{11}),
		shortAnswerQuestion(2, 3),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
		{QuestionID: 2, AnswerText: "a goroutine is a lightweight thread"},
	}

	result := ScoreQuiz(questions, 60, answers)

	// Short answers hold zero points until graded
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 5, result.TotalScore)
	assert.Equal(t, 40.0, result.Percentage)
	assert.True(t, result.NeedsGrading)
	assert.True(t, result.Answers[1].NeedsGrading)
	assert.Equal(t, 0, result.Answers[1].PointsEarned)
}

func TestScoreQuizShortAnswerBlankSkipsGrading(t *testing.T) {
	questions := []quizModels.Question{shortAnswerQuestion(1, 2), choiceQuestion(2, 2, []uint{10}, nil)}

	result := ScoreQuiz(questions, 60, []AnswerSubmission{
		{QuestionID: 2, SelectedOptionIDs: []uint{10}},
	})

	assert.False(t, result.NeedsGrading)
	assert.False(t, result.Answers[0].NeedsGrading)
}

func TestScoreQuizQuestionWithoutCorrectOptions(t *testing.T) {
	// A choice question with no correct option can never be satisfied
	question := choiceQuestion(1, 1, nil, []uint{10, 11})

	result := ScoreQuiz([]quizModels.Question{question}, 60, []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{}},
	})

	assert.False(t, result.Answers[0].IsCorrect)
	assert.Equal(t, 0, result.Score)
}

func TestScoreQuizRoundsToOneDecimal(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 1, []uint{10}, nil),
		choiceQuestion(2, 1, []uint{20}, nil),
		choiceQuestion(3, 1, []uint{30}, nil),
	}
	answers := []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
	}

	result := ScoreQuiz(questions, 30, answers)

	// 1/3 = 33.333... rounds to 33.3
	assert.Equal(t, 33.3, result.Percentage)
	assert.True(t, result.Passed)
}

func TestScoreQuizPassBoundary(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 3, []uint{10}, nil),
		choiceQuestion(2, 2, []uint{20}, nil),
	}

	tests := []struct {
		name         string
		answered     []AnswerSubmission
		passingScore float64
		passed       bool
	}{
		{"exactly at threshold", []AnswerSubmission{{QuestionID: 1, SelectedOptionIDs: []uint{10}}}, 60, true},
		{"just below threshold", []AnswerSubmission{{QuestionID: 2, SelectedOptionIDs: []uint{20}}}, 60, false},
		{"zero threshold always passes", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreQuiz(questions, tt.passingScore, tt.answered)
			assert.Equal(t, tt.passed, result.Passed)
		})
	}
}

func TestUnknownQuestionIDs(t *testing.T) {
	questions := []quizModels.Question{
		choiceQuestion(1, 1, []uint{10}, nil),
		choiceQuestion(2, 1, []uint{20}, nil),
	}

	unknown := UnknownQuestionIDs(questions, []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
		{QuestionID: 99, SelectedOptionIDs: []uint{10}},
		{QuestionID: 7},
	})
	assert.Equal(t, []uint{99, 7}, unknown)

	assert.Empty(t, UnknownQuestionIDs(questions, []AnswerSubmission{
		{QuestionID: 2, SelectedOptionIDs: []uint{20}},
	}))
}

func TestScoreQuizLastAnswerPerQuestionWins(t *testing.T) {
	question := choiceQuestion(1, 1, []uint{10}, []uint{11})

	result := ScoreQuiz([]quizModels.Question{question}, 60, []AnswerSubmission{
		{QuestionID: 1, SelectedOptionIDs: []uint{11}},
		{QuestionID: 1, SelectedOptionIDs: []uint{10}},
	})

	assert.True(t, result.Answers[0].IsCorrect)
	assert.Equal(t, 1, result.CorrectAnswers)
}
