package quiz

import "gorm.io/gorm"

// Question types
const (
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTrueFalse      = "TRUE_FALSE"
	QuestionShortAnswer    = "SHORT_ANSWER"
)

// Quiz represents a timed, scored set of questions attached to a lesson
type Quiz struct {
	gorm.Model
	LessonID     uint       `json:"lesson_id" gorm:"index;not null"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	TimeLimit    *int       `json:"time_limit"`                       // minutes, nil = untimed
	PassingScore float64    `json:"passing_score" gorm:"default:60"`  // percentage 0-100
	MaxAttempts  *int       `json:"max_attempts"`                     // nil = unlimited
	IsActive     bool       `json:"is_active" gorm:"default:false"`
	IsDeleted    bool       `gorm:"default:false"`
	Questions    []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

// Question belongs to a quiz; ordered by OrderIndex
type Question struct {
	gorm.Model
	QuizID     uint             `json:"quiz_id" gorm:"index;not null"`
	Text       string           `json:"text" gorm:"type:text"`
	Type       string           `json:"type" gorm:"default:'MULTIPLE_CHOICE'"` // MULTIPLE_CHOICE, TRUE_FALSE, SHORT_ANSWER
	Points     int              `json:"points" gorm:"default:1"`
	OrderIndex int              `json:"order_index" gorm:"default:0"`
	IsDeleted  bool             `gorm:"default:false"`
	Options    []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// Selectable returns true when the question is auto-scorable from options
func (q Question) Selectable() bool {
	return q.Type == QuestionMultipleChoice || q.Type == QuestionTrueFalse
}

// QuestionOption is one selectable option of a choice question
type QuestionOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
