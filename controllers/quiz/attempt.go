package quizController

import (
	"encoding/json"
	"errors"
	quizModels "lms/models/quiz"
	"time"

	"gorm.io/gorm"
)

// Domain errors the attempt tracker converts storage conflicts into.
var (
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrQuizHasNoQuestions   = errors.New("quiz has no questions")
)

// Grace period before an over-time submission gets flagged for review
const timeLimitGrace = 60 * time.Second

// AttemptInfo summarizes a student's eligibility to start a new attempt
type AttemptInfo struct {
	CanAttempt        bool `json:"can_attempt"`
	RemainingAttempts *int `json:"remaining_attempts"` // nil = unlimited
	MaxAttempts       *int `json:"max_attempts"`       // nil = unlimited
}

// getAttemptEligibility derives eligibility from the attempt cap and the
// count of completed attempts. Abandoned attempts do not consume attempts.
func getAttemptEligibility(db *gorm.DB, userID uint, qz quizModels.Quiz) (AttemptInfo, error) {
	if qz.MaxAttempts == nil {
		return AttemptInfo{CanAttempt: true}, nil
	}

	var completed int64
	err := db.Model(&quizModels.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND completed_at IS NOT NULL AND is_deleted = false", userID, qz.ID).
		Count(&completed).Error
	if err != nil {
		return AttemptInfo{}, err
	}

	remaining := *qz.MaxAttempts - int(completed)
	if remaining < 0 {
		remaining = 0
	}

	return AttemptInfo{
		CanAttempt:        remaining > 0,
		RemainingAttempts: &remaining,
		MaxAttempts:       qz.MaxAttempts,
	}, nil
}

// startAttempt creates the next attempt for a student. Eligibility is
// re-checked inside the transaction; the unique index on (user_id, quiz_id,
// attempt_number) closes the race where two concurrent starts both read the
// same max attempt number. On a duplicate key the numbering is retried once,
// then the start is rejected.
func startAttempt(db *gorm.DB, userID uint, qz quizModels.Quiz) (*quizModels.QuizAttempt, error) {
	if len(qz.Questions) == 0 {
		return nil, ErrQuizHasNoQuestions
	}

	attempt, err := tryStartAttempt(db, userID, qz)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		attempt, err = tryStartAttempt(db, userID, qz)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAttemptLimitExceeded
		}
	}
	return attempt, err
}

func tryStartAttempt(db *gorm.DB, userID uint, qz quizModels.Quiz) (*quizModels.QuizAttempt, error) {
	var attempt *quizModels.QuizAttempt

	err := db.Transaction(func(tx *gorm.DB) error {
		info, err := getAttemptEligibility(tx, userID, qz)
		if err != nil {
			return err
		}
		if !info.CanAttempt {
			return ErrAttemptLimitExceeded
		}

		// Abandoned attempts still consume sequence numbers, so the next
		// number comes from the max, not the completed count.
		var maxNumber int
		err = tx.Model(&quizModels.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", userID, qz.ID).
			Select("COALESCE(MAX(attempt_number), 0)").
			Scan(&maxNumber).Error
		if err != nil {
			return err
		}

		attempt = &quizModels.QuizAttempt{
			UserID:         userID,
			QuizID:         qz.ID,
			AttemptNumber:  maxNumber + 1,
			StartedAt:      time.Now(),
			TotalQuestions: len(qz.Questions),
		}
		return tx.Create(attempt).Error
	})
	if err != nil {
		return nil, err
	}

	return attempt, nil
}

// completeAttempt persists a scored submission onto an in-progress attempt.
// The update is guarded by "completed_at IS NULL" so exactly one submission
// wins a manual-vs-timer race; the loser gets the winner's persisted row
// back with wrote=false. Calling it again on a completed attempt is a no-op.
//
// The attempt cap is re-verified here: a student holding several in-progress
// attempts could otherwise complete all of them and exceed the cap. Other
// completed attempts count; this attempt's own row does not, so re-submits
// of a completed attempt still resolve to the stored result.
func completeAttempt(db *gorm.DB, attempt *quizModels.QuizAttempt, qz quizModels.Quiz, result ScoreResult) (*quizModels.QuizAttempt, bool, error) {
	completedAt := time.Now()

	// Server-derived elapsed time only; client clocks are advisory.
	timeTaken := int(completedAt.Sub(attempt.StartedAt).Seconds())
	if timeTaken < 0 {
		timeTaken = 0
	}

	flagged := attempt.Flagged
	if qz.TimeLimit != nil {
		limit := time.Duration(*qz.TimeLimit) * time.Minute
		if completedAt.Sub(attempt.StartedAt) > limit+timeLimitGrace {
			flagged = true
		}
	}

	wrote := false
	err := db.Transaction(func(tx *gorm.DB) error {
		if qz.MaxAttempts != nil {
			var completed int64
			err := tx.Model(&quizModels.QuizAttempt{}).
				Where("user_id = ? AND quiz_id = ? AND id <> ? AND completed_at IS NOT NULL AND is_deleted = false",
					attempt.UserID, attempt.QuizID, attempt.ID).
				Count(&completed).Error
			if err != nil {
				return err
			}
			if int(completed) >= *qz.MaxAttempts {
				return ErrAttemptLimitExceeded
			}
		}

		res := tx.Model(&quizModels.QuizAttempt{}).
			Where("id = ? AND completed_at IS NULL", attempt.ID).
			Updates(map[string]interface{}{
				"completed_at":    completedAt,
				"score":           result.Score,
				"total_score":     result.TotalScore,
				"percentage":      result.Percentage,
				"passed":          result.Passed,
				"correct_answers": result.CorrectAnswers,
				"total_questions": result.TotalQuestions,
				"time_taken":      timeTaken,
				"flagged":         flagged,
				"needs_grading":   result.NeedsGrading,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race (or a retry of an already-submitted attempt);
			// the persisted result stands.
			return nil
		}
		wrote = true

		for _, record := range result.Answers {
			selected, err := json.Marshal(record.SelectedOptionIDs)
			if err != nil {
				return err
			}
			answer := quizModels.QuizAttemptAnswer{
				AttemptID:       attempt.ID,
				QuestionID:      record.QuestionID,
				SelectedOptions: selected,
				AnswerText:      record.AnswerText,
				IsCorrect:       record.IsCorrect,
				PointsEarned:    record.PointsEarned,
				NeedsGrading:    record.NeedsGrading,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	var persisted quizModels.QuizAttempt
	if err := db.Preload("Answers").First(&persisted, attempt.ID).Error; err != nil {
		return nil, false, err
	}
	return &persisted, wrote, nil
}

// loadQuizQuestions loads the live questions of a quiz with their options,
// in authored order.
func loadQuizQuestions(db *gorm.DB, quizID uint) ([]quizModels.Question, error) {
	var questions []quizModels.Question
	err := db.Where("quiz_id = ? AND is_deleted = false", quizID).
		Order("order_index asc, id asc").
		Preload("Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_deleted = false").Order("order_index asc, id asc")
		}).
		Find(&questions).Error
	return questions, err
}
