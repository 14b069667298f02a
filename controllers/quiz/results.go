package quizController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	quizModels "lms/models/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// latestAttempt returns the most recent completed attempt, by sequence number
func latestAttempt(db *gorm.DB, userID, quizID uint) (*quizModels.QuizAttempt, error) {
	var attempt quizModels.QuizAttempt
	err := db.Where("user_id = ? AND quiz_id = ? AND completed_at IS NOT NULL AND is_deleted = false", userID, quizID).
		Order("attempt_number desc").
		Preload("Answers").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// bestAttempt returns the completed attempt with the highest score; ties go
// to the earliest attempt
func bestAttempt(db *gorm.DB, userID, quizID uint) (*quizModels.QuizAttempt, error) {
	var attempt quizModels.QuizAttempt
	err := db.Where("user_id = ? AND quiz_id = ? AND completed_at IS NOT NULL AND is_deleted = false", userID, quizID).
		Order("score desc, attempt_number asc").
		Preload("Answers").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// listAttempts returns all of the student's attempts, ascending by sequence
func listAttempts(db *gorm.DB, userID, quizID uint) ([]quizModels.QuizAttempt, error) {
	var attempts []quizModels.QuizAttempt
	err := db.Where("user_id = ? AND quiz_id = ? AND is_deleted = false", userID, quizID).
		Order("attempt_number asc").
		Find(&attempts).Error
	return attempts, err
}

// GetQuizResults returns the caller's most recent completed attempt
func GetQuizResults(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	attempt, err := latestAttempt(database.Database.Db, userID, uint(quizID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No completed attempts for this quiz!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", attempt)
}

// GetBestResult returns the caller's best completed attempt
func GetBestResult(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	attempt, err := bestAttempt(database.Database.Db, userID, uint(quizID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No completed attempts for this quiz!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Best result fetched successfully!", attempt)
}

// GetQuizAttempts returns the caller's full attempt history for a quiz
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	attempts, err := listAttempts(database.Database.Db, userID, uint(quizID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}
