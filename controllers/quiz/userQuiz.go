package quizController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"
	"lms/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// findActiveQuiz loads an active quiz with its live questions and options
func findActiveQuiz(db *gorm.DB, quizID int) (*quizModels.Quiz, error) {
	var qz quizModels.Quiz
	if err := db.Where("id = ? AND is_deleted = false AND is_active = true", quizID).First(&qz).Error; err != nil {
		return nil, err
	}
	questions, err := loadQuizQuestions(db, qz.ID)
	if err != nil {
		return nil, err
	}
	qz.Questions = questions
	return &qz, nil
}

// quizCourseID resolves the course a quiz belongs to through its lesson
func quizCourseID(db *gorm.DB, qz *quizModels.Quiz) (uint, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = false", qz.LessonID).First(&lesson).Error; err != nil {
		return 0, err
	}
	return lesson.CourseID, nil
}

// ensureEnrolled checks the user has an enrollment in the course
func ensureEnrolled(db *gorm.DB, userID, courseID uint) error {
	var enrollment courseModels.Enrollment
	return db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&enrollment).Error
}

// GetQuizDetail returns the quiz definition (without correctness flags) plus
// the caller's attempt eligibility
func GetQuizDetail(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)
	db := database.Database.Db

	qz, err := findActiveQuiz(db, quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	courseID, err := quizCourseID(db, qz)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if err := ensureEnrolled(db, userID, courseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	info, err := getAttemptEligibility(db, userID, *qz)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}

	// Strip correctness flags before handing questions to a student
	type optionView struct {
		ID   uint   `json:"id"`
		Text string `json:"text"`
	}
	type questionView struct {
		ID      uint         `json:"id"`
		Text    string       `json:"text"`
		Type    string       `json:"type"`
		Points  int          `json:"points"`
		Options []optionView `json:"options"`
	}

	questions := make([]questionView, len(qz.Questions))
	for i, q := range qz.Questions {
		options := make([]optionView, len(q.Options))
		for j, opt := range q.Options {
			options[j] = optionView{ID: opt.ID, Text: opt.Text}
		}
		questions[i] = questionView{ID: q.ID, Text: q.Text, Type: q.Type, Points: q.Points, Options: options}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz": fiber.Map{
			"id":            qz.ID,
			"lesson_id":     qz.LessonID,
			"title":         qz.Title,
			"description":   qz.Description,
			"time_limit":    qz.TimeLimit,
			"passing_score": qz.PassingScore,
			"max_attempts":  qz.MaxAttempts,
			"questions":     questions,
		},
		"attempt_info": info,
	})
}

// StartQuizAttempt starts a new attempt for the caller
func StartQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)
	db := database.Database.Db

	qz, err := findActiveQuiz(db, quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	courseID, err := quizCourseID(db, qz)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if err := ensureEnrolled(db, userID, courseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	attempt, err := startAttempt(db, userID, *qz)
	if err != nil {
		if errors.Is(err, ErrAttemptLimitExceeded) {
			info, _ := getAttemptEligibility(db, userID, *qz)
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached for this quiz!", fiber.Map{
				"attempt_info": info,
			})
		}
		if errors.Is(err, ErrQuizHasNoQuestions) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz has no questions!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attempt started!", attempt)
}

// SubmitQuizAttempt scores and persists the caller's submission. Submitting
// an already-completed attempt returns the stored result unchanged, so
// client retries and timer auto-submits are harmless.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)
	reqData := c.Locals("validatedSubmission").(*QuizSubmission)
	db := database.Database.Db

	qz, err := findActiveQuiz(db, quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	courseID, err := quizCourseID(db, qz)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if err := ensureEnrolled(db, userID, courseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	if unknown := UnknownQuestionIDs(qz.Questions, reqData.Answers); len(unknown) > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Submission references questions not in this quiz!", fiber.Map{
			"unknown_question_ids": unknown,
		})
	}

	// Resolve the attempt being submitted: explicit id, else the latest
	// in-progress attempt, else start one now (eligibility still applies).
	var attempt quizModels.QuizAttempt
	if reqData.AttemptID != 0 {
		if err := db.Where("id = ? AND user_id = ? AND quiz_id = ? AND is_deleted = false", reqData.AttemptID, userID, qz.ID).First(&attempt).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
		}
	} else {
		err := db.Where("user_id = ? AND quiz_id = ? AND completed_at IS NULL AND is_deleted = false", userID, qz.ID).
			Order("attempt_number desc").First(&attempt).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			started, err := startAttempt(db, userID, *qz)
			if err != nil {
				if errors.Is(err, ErrAttemptLimitExceeded) {
					info, _ := getAttemptEligibility(db, userID, *qz)
					return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached for this quiz!", fiber.Map{
						"attempt_info": info,
					})
				}
				if errors.Is(err, ErrQuizHasNoQuestions) {
					return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz has no questions!", nil)
				}
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
			}
			attempt = *started
		} else if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
		}
	}

	result := ScoreQuiz(qz.Questions, qz.PassingScore, reqData.Answers)

	persisted, wrote, err := completeAttempt(db, &attempt, *qz, result)
	if err != nil {
		if errors.Is(err, ErrAttemptLimitExceeded) {
			info, _ := getAttemptEligibility(db, userID, *qz)
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Maximum attempts reached for this quiz!", fiber.Map{
				"attempt_info": info,
			})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	if wrote && persisted.Passed {
		awardQuizBadge(db, &user, courseID)
		utils.SendQuizPassedEmail(user.Email, user.Name, qz.Title, persisted.Percentage)
	}

	message := "Attempt submitted!"
	if !wrote {
		message = "Attempt already submitted!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"attempt":         persisted,
		"score":           persisted.Score,
		"total_score":     persisted.TotalScore,
		"percentage":      persisted.Percentage,
		"passed":          persisted.Passed,
		"correct_answers": persisted.CorrectAnswers,
		"total_questions": persisted.TotalQuestions,
		"time_taken":      persisted.TimeTaken,
		"warnings":        result.Warnings,
	})
}

// awardQuizBadge awards the first-quiz-pass badge for the course, once
func awardQuizBadge(db *gorm.DB, user *models.User, courseID uint) {
	var badge courseModels.Badge
	if err := db.Where("code = ? AND is_deleted = false", "FIRST_QUIZ_PASS").First(&badge).Error; err != nil {
		return
	}

	award := courseModels.UserBadge{
		UserID:    user.ID,
		BadgeID:   badge.ID,
		CourseID:  courseID,
		AwardedAt: time.Now(),
	}
	// Unique index makes re-awards a no-op
	db.Create(&award)
}
