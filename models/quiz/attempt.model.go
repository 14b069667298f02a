package quiz

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is one student's pass at a quiz. The composite unique index on
// (user_id, quiz_id, attempt_number) is what serializes concurrent starts.
type QuizAttempt struct {
	gorm.Model
	UserID        uint       `json:"user_id" gorm:"index;not null;uniqueIndex:idx_attempt_seq"`
	QuizID        uint       `json:"quiz_id" gorm:"index;not null;uniqueIndex:idx_attempt_seq"`
	AttemptNumber int        `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_seq"`
	StartedAt     time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt   *time.Time `json:"completed_at"` // nil while in progress
	Score         int        `json:"score"`        // points earned
	TotalScore    int        `json:"total_score"`  // points possible
	Percentage    float64    `json:"percentage"`
	Passed        bool       `json:"passed" gorm:"default:false"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken     int        `json:"time_taken"` // seconds, server derived
	Flagged       bool       `json:"flagged" gorm:"default:false"` // elapsed time grossly over the limit, or stale
	NeedsGrading  bool       `json:"needs_grading" gorm:"default:false"`
	IsDeleted     bool       `gorm:"default:false"`
	Answers       []QuizAttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}

// InProgress reports whether the attempt has not been submitted yet
func (a QuizAttempt) InProgress() bool {
	return a.CompletedAt == nil
}

// QuizAttemptAnswer is the scored record of one question inside an attempt.
// Correctness and points are always engine-derived, never client-supplied.
type QuizAttemptAnswer struct {
	gorm.Model
	AttemptID       uint           `json:"attempt_id" gorm:"index;not null"`
	QuestionID      uint           `json:"question_id" gorm:"not null"`
	SelectedOptions datatypes.JSON `json:"selected_options"` // array of option IDs
	AnswerText      string         `json:"answer_text" gorm:"type:text"` // short-answer free text
	IsCorrect       bool           `json:"is_correct" gorm:"default:false"`
	PointsEarned    int            `json:"points_earned"`
	NeedsGrading    bool           `json:"needs_grading" gorm:"default:false"`
	IsDeleted       bool           `gorm:"default:false"`
}
