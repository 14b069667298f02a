package quizController

import (
	"testing"
	"time"

	quizModels "lms/models/quiz"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&quizModels.Quiz{},
		&quizModels.Question{},
		&quizModels.QuestionOption{},
		&quizModels.QuizAttempt{},
		&quizModels.QuizAttemptAnswer{},
	)
	require.NoError(t, err)

	return db
}

func seedQuiz(t *testing.T, db *gorm.DB, maxAttempts *int) quizModels.Quiz {
	t.Helper()

	qz := quizModels.Quiz{
		LessonID:     1,
		Title:        "Go basics",
		PassingScore: 60,
		MaxAttempts:  maxAttempts,
		IsActive:     true,
		Questions: []quizModels.Question{
			{
				Text:   "Keyword that starts a goroutine?",
				Type:   quizModels.QuestionMultipleChoice,
				Points: 2,
				Options: []quizModels.QuestionOption{
					{Text: "go", IsCorrect: true},
					{Text: "run"},
				},
			},
			{
				Text:   "Slices are value types.",
				Type:   quizModels.QuestionTrueFalse,
				Points: 1,
				Options: []quizModels.QuestionOption{
					{Text: "True"},
					{Text: "False", IsCorrect: true},
				},
			},
		},
	}
	require.NoError(t, db.Create(&qz).Error)
	return qz
}

func intPtr(v int) *int { return &v }

func TestStartAttemptNumbersSequentially(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(3))

	first, err := startAttempt(db, 1, qz)
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.True(t, first.InProgress())

	// Complete the first so a second may start
	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	result := ScoreQuiz(questions, qz.PassingScore, nil)
	_, wrote, err := completeAttempt(db, first, qz, result)
	require.NoError(t, err)
	assert.True(t, wrote)

	second, err := startAttempt(db, 1, qz)
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)
}

func TestStartAttemptAbandonedConsumesNumberNotAttempt(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(1))

	abandoned, err := startAttempt(db, 1, qz)
	require.NoError(t, err)
	assert.Equal(t, 1, abandoned.AttemptNumber)

	// Abandoned attempts never complete, so the cap is still open
	// and the next start takes the next sequence number.
	next, err := startAttempt(db, 1, qz)
	require.NoError(t, err)
	assert.Equal(t, 2, next.AttemptNumber)
}

func TestStartAttemptRejectsEmptyQuiz(t *testing.T) {
	db := setupTestDb(t)

	empty := quizModels.Quiz{LessonID: 1, Title: "Empty", PassingScore: 60, IsActive: true}
	require.NoError(t, db.Create(&empty).Error)

	_, err := startAttempt(db, 1, empty)
	assert.ErrorIs(t, err, ErrQuizHasNoQuestions)
}

func TestStartAttemptEnforcesLimit(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(1))

	attempt, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	_, _, err = completeAttempt(db, attempt, qz, ScoreQuiz(questions, qz.PassingScore, nil))
	require.NoError(t, err)

	_, err = startAttempt(db, 1, qz)
	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)

	// Another student is unaffected
	other, err := startAttempt(db, 2, qz)
	require.NoError(t, err)
	assert.Equal(t, 1, other.AttemptNumber)
}

func TestStartAttemptUnlimitedWhenNoCap(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, nil)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		attempt, err := startAttempt(db, 1, qz)
		require.NoError(t, err)
		assert.Equal(t, i, attempt.AttemptNumber)
		_, _, err = completeAttempt(db, attempt, qz, ScoreQuiz(questions, qz.PassingScore, nil))
		require.NoError(t, err)
	}

	info, err := getAttemptEligibility(db, 1, qz)
	require.NoError(t, err)
	assert.True(t, info.CanAttempt)
	assert.Nil(t, info.RemainingAttempts)
}

func TestGetAttemptEligibilityCountsCompletedOnly(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(2))

	info, err := getAttemptEligibility(db, 1, qz)
	require.NoError(t, err)
	assert.True(t, info.CanAttempt)
	assert.Equal(t, 2, *info.RemainingAttempts)

	attempt, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	// In-progress attempts do not consume the cap
	info, err = getAttemptEligibility(db, 1, qz)
	require.NoError(t, err)
	assert.Equal(t, 2, *info.RemainingAttempts)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	_, _, err = completeAttempt(db, attempt, qz, ScoreQuiz(questions, qz.PassingScore, nil))
	require.NoError(t, err)

	info, err = getAttemptEligibility(db, 1, qz)
	require.NoError(t, err)
	assert.Equal(t, 1, *info.RemainingAttempts)
}

func TestCompleteAttemptIdempotent(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(3))

	attempt, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)

	var correctGo uint
	for _, opt := range questions[0].Options {
		if opt.IsCorrect {
			correctGo = opt.ID
		}
	}

	winning := ScoreQuiz(questions, qz.PassingScore, []AnswerSubmission{
		{QuestionID: questions[0].ID, SelectedOptionIDs: []uint{correctGo}},
	})
	persisted, wrote, err := completeAttempt(db, attempt, qz, winning)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, 2, persisted.Score)
	assert.Len(t, persisted.Answers, 2)

	// A second submission loses the race and the first result stands.
	losing := ScoreQuiz(questions, qz.PassingScore, nil)
	persisted2, wrote2, err := completeAttempt(db, attempt, qz, losing)
	require.NoError(t, err)
	assert.False(t, wrote2)
	assert.Equal(t, persisted.Score, persisted2.Score)
	assert.Equal(t, persisted.CompletedAt.Unix(), persisted2.CompletedAt.Unix())
	assert.Len(t, persisted2.Answers, 2)
}

func TestCompleteAttemptEnforcesCapAcrossInProgressAttempts(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(1))

	// Two in-progress attempts can coexist under the abandoned-attempt
	// policy, but completing both would breach the cap.
	first, err := startAttempt(db, 1, qz)
	require.NoError(t, err)
	second, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	result := ScoreQuiz(questions, qz.PassingScore, nil)

	_, wrote, err := completeAttempt(db, first, qz, result)
	require.NoError(t, err)
	assert.True(t, wrote)

	_, _, err = completeAttempt(db, second, qz, result)
	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)

	var completed int64
	require.NoError(t, db.Model(&quizModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND completed_at IS NOT NULL", 1, qz.ID).
		Count(&completed).Error)
	assert.Equal(t, int64(1), completed)

	// The rejected attempt is still in progress, not silently completed
	var stale quizModels.QuizAttempt
	require.NoError(t, db.First(&stale, second.ID).Error)
	assert.True(t, stale.InProgress())
}

func TestCompleteAttemptResubmitAtCapReturnsStoredResult(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(1))

	attempt, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	result := ScoreQuiz(questions, qz.PassingScore, nil)

	persisted, wrote, err := completeAttempt(db, attempt, qz, result)
	require.NoError(t, err)
	assert.True(t, wrote)

	// The attempt's own completed row does not trip the cap check; a retry
	// resolves to the stored result instead of an error.
	persisted2, wrote2, err := completeAttempt(db, attempt, qz, result)
	require.NoError(t, err)
	assert.False(t, wrote2)
	assert.Equal(t, persisted.Score, persisted2.Score)
}

func TestCompleteAttemptDerivesTimeTaken(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(1))

	attempt, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	// Backdate the start; elapsed time must come from server timestamps.
	startedAt := time.Now().Add(-90 * time.Second)
	require.NoError(t, db.Model(attempt).Update("started_at", startedAt).Error)
	attempt.StartedAt = startedAt

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	persisted, _, err := completeAttempt(db, attempt, qz, ScoreQuiz(questions, qz.PassingScore, nil))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, persisted.TimeTaken, 90)
	assert.Less(t, persisted.TimeTaken, 100)
}

func TestCompleteAttemptFlagsOverTimeSubmission(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(1))
	qz.TimeLimit = intPtr(1)
	require.NoError(t, db.Model(&quizModels.Quiz{}).Where("id = ?", qz.ID).Update("time_limit", 1).Error)

	attempt, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	// Well past the one minute limit plus the grace period
	startedAt := time.Now().Add(-5 * time.Minute)
	require.NoError(t, db.Model(attempt).Update("started_at", startedAt).Error)
	attempt.StartedAt = startedAt

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	persisted, _, err := completeAttempt(db, attempt, qz, ScoreQuiz(questions, qz.PassingScore, nil))
	require.NoError(t, err)

	assert.True(t, persisted.Flagged)
	assert.NotNil(t, persisted.CompletedAt)
}

func completeWithScore(t *testing.T, db *gorm.DB, qz quizModels.Quiz, userID uint, answers []AnswerSubmission) *quizModels.QuizAttempt {
	t.Helper()

	attempt, err := startAttempt(db, userID, qz)
	require.NoError(t, err)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	persisted, _, err := completeAttempt(db, attempt, qz, ScoreQuiz(questions, qz.PassingScore, answers))
	require.NoError(t, err)
	return persisted
}

func TestResultsLatestBestAndHistory(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(5))

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)

	var correctGo, correctFalse uint
	for _, opt := range questions[0].Options {
		if opt.IsCorrect {
			correctGo = opt.ID
		}
	}
	for _, opt := range questions[1].Options {
		if opt.IsCorrect {
			correctFalse = opt.ID
		}
	}

	// Attempt 1: full marks. Attempt 2: partial. Attempt 3: zero.
	completeWithScore(t, db, qz, 1, []AnswerSubmission{
		{QuestionID: questions[0].ID, SelectedOptionIDs: []uint{correctGo}},
		{QuestionID: questions[1].ID, SelectedOptionIDs: []uint{correctFalse}},
	})
	completeWithScore(t, db, qz, 1, []AnswerSubmission{
		{QuestionID: questions[0].ID, SelectedOptionIDs: []uint{correctGo}},
	})
	completeWithScore(t, db, qz, 1, nil)

	latest, err := latestAttempt(db, 1, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.AttemptNumber)
	assert.Equal(t, 0, latest.Score)

	best, err := bestAttempt(db, 1, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, best.AttemptNumber)
	assert.Equal(t, 3, best.Score)
	assert.True(t, best.Passed)

	history, err := listAttempts(db, 1, qz.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 1, history[0].AttemptNumber)
	assert.Equal(t, 3, history[2].AttemptNumber)
}

func TestBestAttemptTieGoesToEarliest(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(5))

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)

	var correctGo uint
	for _, opt := range questions[0].Options {
		if opt.IsCorrect {
			correctGo = opt.ID
		}
	}

	answers := []AnswerSubmission{{QuestionID: questions[0].ID, SelectedOptionIDs: []uint{correctGo}}}
	completeWithScore(t, db, qz, 1, answers)
	completeWithScore(t, db, qz, 1, answers)

	best, err := bestAttempt(db, 1, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, best.AttemptNumber)
}

func TestResultsNoCompletedAttempts(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(1))

	// An in-progress attempt is not a result
	_, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	_, err = latestAttempt(db, 1, qz.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = bestAttempt(db, 1, qz.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAttemptLifecycleEndToEnd(t *testing.T) {
	db := setupTestDb(t)
	qz := seedQuiz(t, db, intPtr(2))

	attempt, err := startAttempt(db, 1, qz)
	require.NoError(t, err)

	questions, err := loadQuizQuestions(db, qz.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	var correctGo uint
	for _, opt := range questions[0].Options {
		if opt.IsCorrect {
			correctGo = opt.ID
		}
	}

	result := ScoreQuiz(questions, qz.PassingScore, []AnswerSubmission{
		{QuestionID: questions[0].ID, SelectedOptionIDs: []uint{correctGo}},
	})
	assert.Equal(t, 66.7, result.Percentage)
	assert.True(t, result.Passed)

	persisted, wrote, err := completeAttempt(db, attempt, qz, result)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.False(t, persisted.InProgress())
	assert.Equal(t, 66.7, persisted.Percentage)
	assert.Equal(t, 1, persisted.CorrectAnswers)
	require.Len(t, persisted.Answers, 2)

	info, err := getAttemptEligibility(db, 1, qz)
	require.NoError(t, err)
	assert.True(t, info.CanAttempt)
	assert.Equal(t, 1, *info.RemainingAttempts)
}
