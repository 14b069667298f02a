package quizController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// QuizOptionPayload is one option in a question create/replace payload
type QuizOptionPayload struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuizQuestionPayload replaces a question wholesale; partial option patches
// are not supported, so correctness references can never dangle.
type QuizQuestionPayload struct {
	Text    string              `json:"text"`
	Type    string              `json:"type"`
	Points  int                 `json:"points"`
	Options []QuizOptionPayload `json:"options"`
}

// QuizPayload is the create/update request body for a quiz definition
type QuizPayload struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	TimeLimit    *int                  `json:"time_limit"`
	PassingScore *float64              `json:"passing_score"`
	MaxAttempts  *int                  `json:"max_attempts"`
	IsActive     *bool                 `json:"is_active"`
	Questions    []QuizQuestionPayload `json:"questions"`
}

// GradePayload is the instructor override for a short-answer record
type GradePayload struct {
	QuestionID   uint `json:"question_id"`
	PointsEarned int  `json:"points_earned"`
}

// loadManager returns the caller when they are an instructor or admin
func loadManager(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, errors.New("unauthorized")
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, err
	}

	if user.Role != "INSTRUCTOR" && user.Role != "ADMIN" {
		return nil, errors.New("forbidden")
	}
	return &user, nil
}

// canManageCourse reports whether the user owns the course or is an admin
func canManageCourse(user *models.User, course *courseModels.Course) bool {
	return user.Role == "ADMIN" || course.InstructorID == user.ID
}

// findManagedQuiz loads a quiz (active or not) and checks course ownership
func findManagedQuiz(db *gorm.DB, user *models.User, quizID int) (*quizModels.Quiz, error) {
	var qz quizModels.Quiz
	if err := db.Where("id = ? AND is_deleted = false", quizID).First(&qz).Error; err != nil {
		return nil, err
	}

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = false", qz.LessonID).First(&lesson).Error; err != nil {
		return nil, err
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", lesson.CourseID).First(&course).Error; err != nil {
		return nil, err
	}

	if !canManageCourse(user, &course) {
		return nil, errors.New("forbidden")
	}
	return &qz, nil
}

func insertQuestions(tx *gorm.DB, quizID uint, payload []QuizQuestionPayload) error {
	for i, qp := range payload {
		question := quizModels.Question{
			QuizID:     quizID,
			Text:       qp.Text,
			Type:       qp.Type,
			Points:     qp.Points,
			OrderIndex: i,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for j, op := range qp.Options {
			option := quizModels.QuestionOption{
				QuestionID: question.ID,
				Text:       op.Text,
				IsCorrect:  op.IsCorrect,
				OrderIndex: j,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func removeQuestions(tx *gorm.DB, quizID uint) error {
	var questionIDs []uint
	if err := tx.Model(&quizModels.Question{}).
		Where("quiz_id = ? AND is_deleted = false", quizID).
		Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) == 0 {
		return nil
	}
	if err := tx.Model(&quizModels.QuestionOption{}).
		Where("question_id IN ?", questionIDs).
		Update("is_deleted", true).Error; err != nil {
		return err
	}
	return tx.Model(&quizModels.Question{}).
		Where("quiz_id = ?", quizID).
		Update("is_deleted", true).Error
}

// CreateQuiz creates a quiz with its questions under a lesson
func CreateQuiz(c *fiber.Ctx) error {
	user, err := loadManager(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor or admin only.", nil)
	}

	lessonID := c.Locals("lessonID").(int)
	reqData := c.Locals("validatedQuiz").(*QuizPayload)
	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	qz := quizModels.Quiz{
		LessonID:     lesson.ID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		TimeLimit:    reqData.TimeLimit,
		PassingScore: 60,
	}
	if reqData.PassingScore != nil {
		qz.PassingScore = *reqData.PassingScore
	}
	if reqData.MaxAttempts != nil {
		qz.MaxAttempts = reqData.MaxAttempts
	} else {
		defaultAttempts := 1
		qz.MaxAttempts = &defaultAttempts
	}
	if reqData.IsActive != nil {
		qz.IsActive = *reqData.IsActive
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&qz).Error; err != nil {
			return err
		}
		return insertQuestions(tx, qz.ID, reqData.Questions)
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	questions, _ := loadQuizQuestions(db, qz.ID)
	qz.Questions = questions

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", qz)
}

// UpdateQuiz updates quiz fields; a supplied questions array replaces the
// whole question set
func UpdateQuiz(c *fiber.Ctx) error {
	user, err := loadManager(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor or admin only.", nil)
	}

	quizID := c.Locals("quizID").(int)
	reqData := c.Locals("validatedQuizUpdate").(*QuizPayload)
	db := database.Database.Db

	qz, err := findManagedQuiz(db, user, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	// Update only provided fields
	if reqData.Title != "" {
		qz.Title = reqData.Title
	}
	if reqData.Description != "" {
		qz.Description = reqData.Description
	}
	if reqData.TimeLimit != nil {
		qz.TimeLimit = reqData.TimeLimit
	}
	if reqData.PassingScore != nil {
		qz.PassingScore = *reqData.PassingScore
	}
	if reqData.MaxAttempts != nil {
		qz.MaxAttempts = reqData.MaxAttempts
	}
	if reqData.IsActive != nil {
		qz.IsActive = *reqData.IsActive
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(qz).Error; err != nil {
			return err
		}
		if reqData.Questions == nil {
			return nil
		}
		if err := removeQuestions(tx, qz.ID); err != nil {
			return err
		}
		return insertQuestions(tx, qz.ID, reqData.Questions)
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	questions, _ := loadQuizQuestions(db, qz.ID)
	qz.Questions = questions

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", qz)
}

// DeleteQuiz soft deletes a quiz and its questions. Attempt records are
// kept untouched.
func DeleteQuiz(c *fiber.Ctx) error {
	user, err := loadManager(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor or admin only.", nil)
	}

	quizID := c.Locals("quizID").(int)
	db := database.Database.Db

	qz, err := findManagedQuiz(db, user, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := removeQuestions(tx, qz.ID); err != nil {
			return err
		}
		qz.IsDeleted = true
		return tx.Save(qz).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// ListLessonQuizzes lists all quizzes of a lesson, including inactive ones
func ListLessonQuizzes(c *fiber.Ctx) error {
	user, err := loadManager(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor or admin only.", nil)
	}

	lessonID := c.Locals("lessonID").(int)
	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", lesson.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	var quizzes []quizModels.Quiz
	if err := db.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Order("id asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

// AdminGetQuizAttempts lists all students' attempts for a quiz
func AdminGetQuizAttempts(c *fiber.Ctx) error {
	user, err := loadManager(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor or admin only.", nil)
	}

	quizID := c.Locals("quizID").(int)
	db := database.Database.Db

	if _, err := findManagedQuiz(db, user, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	type AttemptWithUser struct {
		quizModels.QuizAttempt
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}

	var attempts []AttemptWithUser
	err = db.Model(&quizModels.QuizAttempt{}).
		Select("quiz_attempts.*, users.name as user_name, users.email as user_email").
		Joins("JOIN users ON users.id = quiz_attempts.user_id").
		Where("quiz_attempts.quiz_id = ? AND quiz_attempts.is_deleted = ?", quizID, false).
		Order("quiz_attempts.flagged desc, quiz_attempts.created_at desc").
		Scan(&attempts).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}

// GradeAttemptAnswer applies an instructor's manual grade to a short-answer
// record and recomputes the attempt's score
func GradeAttemptAnswer(c *fiber.Ctx) error {
	user, err := loadManager(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor or admin only.", nil)
	}

	attemptID := c.Locals("attemptID").(int)
	reqData := c.Locals("validatedGrade").(*GradePayload)
	db := database.Database.Db

	var attempt quizModels.QuizAttempt
	if err := db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}
	if attempt.InProgress() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attempt has not been submitted yet!", nil)
	}

	qz, err := findManagedQuiz(db, user, int(attempt.QuizID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	var question quizModels.Question
	if err := db.Where("id = ? AND quiz_id = ? AND is_deleted = ?", reqData.QuestionID, qz.ID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}
	if question.Selectable() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only short-answer questions can be graded manually!", nil)
	}
	if reqData.PointsEarned > question.Points {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Points exceed the question's value!", nil)
	}

	var answer quizModels.QuizAttemptAnswer
	if err := db.Where("attempt_id = ? AND question_id = ? AND is_deleted = ?", attempt.ID, question.ID, false).First(&answer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Answer not found on this attempt!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		answer.PointsEarned = reqData.PointsEarned
		answer.IsCorrect = reqData.PointsEarned == question.Points
		answer.NeedsGrading = false
		if err := tx.Save(&answer).Error; err != nil {
			return err
		}
		return recomputeAttemptScore(tx, &attempt, *qz)
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade answer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer graded successfully!", attempt)
}

// recomputeAttemptScore re-derives the attempt totals from its answer records
// after a manual grade
func recomputeAttemptScore(tx *gorm.DB, attempt *quizModels.QuizAttempt, qz quizModels.Quiz) error {
	var answers []quizModels.QuizAttemptAnswer
	if err := tx.Where("attempt_id = ? AND is_deleted = ?", attempt.ID, false).Find(&answers).Error; err != nil {
		return err
	}

	score := 0
	correct := 0
	pending := false
	for _, a := range answers {
		score += a.PointsEarned
		if a.IsCorrect {
			correct++
		}
		if a.NeedsGrading {
			pending = true
		}
	}

	attempt.Score = score
	attempt.CorrectAnswers = correct
	attempt.NeedsGrading = pending
	if attempt.TotalScore > 0 {
		attempt.Percentage = roundPercent(float64(score) / float64(attempt.TotalScore) * 100)
		attempt.Passed = attempt.Percentage >= qz.PassingScore
	}

	return tx.Save(attempt).Error
}
