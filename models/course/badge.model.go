package course

import (
	"time"

	"gorm.io/gorm"
)

// Badge represents an achievement a student can earn
type Badge struct {
	gorm.Model
	Code        string `json:"code" gorm:"uniqueIndex;size:64;not null"` // FIRST_QUIZ_PASS, COURSE_COMPLETE
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	IsDeleted   bool   `gorm:"default:false"`
}

// UserBadge records a badge awarded to a user, at most once per course
type UserBadge struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_badge_course"`
	BadgeID   uint      `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge_course"`
	CourseID  uint      `json:"course_id" gorm:"uniqueIndex:idx_user_badge_course"`
	AwardedAt time.Time `json:"awarded_at"`
	IsDeleted bool      `gorm:"default:false"`
}
