package utils

import (
	"lms/config"
	"lms/database"
	quizModels "lms/models/quiz"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeAttemptScheduler sets up the stale attempt sweeper
func InitializeAttemptScheduler() {
	log.Println("[ATTEMPT-SCHEDULER] Initializing stale attempt sweeper...")

	c := cron.New()

	// Run hourly to flag in-progress attempts that were abandoned
	c.AddFunc("0 * * * *", func() {
		log.Println("[ATTEMPT-SCHEDULER] Running stale attempt sweep...")
		FlagStaleAttempts()
	})

	c.Start()
	log.Println("[ATTEMPT-SCHEDULER] Stale attempt sweeper started - runs hourly")
}

// FlagStaleAttempts flags in-progress attempts older than the configured
// threshold for instructor review. Attempts are never auto-completed; a
// flagged attempt stays in progress until the student submits it.
func FlagStaleAttempts() {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.StaleAttemptHours) * time.Hour)

	result := db.Model(&quizModels.QuizAttempt{}).
		Where("completed_at IS NULL AND flagged = false AND is_deleted = false").
		Where("started_at < ?", cutoff).
		Update("flagged", true)

	if result.Error != nil {
		log.Printf("[ATTEMPT-SCHEDULER] Error flagging stale attempts: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[ATTEMPT-SCHEDULER] Flagged %d stale attempts for review", result.RowsAffected)
	}
}
