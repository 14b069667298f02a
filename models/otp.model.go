package models

import (
	"time"

	"gorm.io/gorm"
)

type OTP struct {
	gorm.Model
	UserID    uint      `gorm:"not null" json:"user_id"`
	Email     string    `gorm:"size:100;index" json:"email,omitempty"`
	Mobile    string    `gorm:"size:15;index" json:"mobile,omitempty"`
	Code      string    `gorm:"size:6;not null" json:"code"`
	Purpose   string    `gorm:"size:32;default:'EMAIL_VERIFY'" json:"purpose"` // EMAIL_VERIFY, MOBILE_VERIFY, PASSWORD_RESET
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"` // Expiry time for the OTP
	IsUsed    bool      `gorm:"default:false" json:"is_used"`
	IsDeleted bool      `gorm:"default:false"`
}
