package quizValidator

import (
	quizController "lms/controllers/quiz"
	"lms/middleware"
	quizModels "lms/models/quiz"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func parseIDParam(c *fiber.Ctx, name string) (int, bool) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetQuiz validates the quiz id path parameter
func GetQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}

// SubmitQuiz validates a quiz submission body
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(quizController.QuizSubmission)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		seen := make(map[uint]bool)
		for i, answer := range reqData.Answers {
			if answer.QuestionID == 0 {
				errors["answers"] = "Each answer must reference a question!"
				break
			}
			if seen[answer.QuestionID] {
				errors["answers"] = "Duplicate answer for the same question!"
				break
			}
			seen[answer.QuestionID] = true

			reqData.Answers[i].AnswerText = strings.TrimSpace(answer.AnswerText)
			if len(answer.SelectedOptionIDs) == 0 && reqData.Answers[i].AnswerText == "" {
				errors["answers"] = "Each answer needs selected options or answer text!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", quizID)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

func validateQuestions(questions []quizController.QuizQuestionPayload, errors map[string]string) {
	if len(questions) == 0 {
		errors["questions"] = "At least one question is required!"
		return
	}

	validTypes := map[string]bool{
		quizModels.QuestionMultipleChoice: true,
		quizModels.QuestionTrueFalse:      true,
		quizModels.QuestionShortAnswer:    true,
	}

	for i := range questions {
		q := &questions[i]
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			errors["questions"] = "Question text is required!"
			return
		}
		if q.Type == "" {
			q.Type = quizModels.QuestionMultipleChoice
		}
		if !validTypes[q.Type] {
			errors["questions"] = "Question type must be MULTIPLE_CHOICE, TRUE_FALSE, or SHORT_ANSWER!"
			return
		}
		if q.Points == 0 {
			q.Points = 1
		}
		if q.Points < 1 {
			errors["questions"] = "Question points must be at least 1!"
			return
		}

		if q.Type == quizModels.QuestionShortAnswer {
			if len(q.Options) > 0 {
				errors["questions"] = "Short-answer questions cannot have options!"
				return
			}
			continue
		}

		if len(q.Options) < 2 {
			errors["questions"] = "Choice questions need at least two options!"
			return
		}
		if q.Type == quizModels.QuestionTrueFalse && len(q.Options) != 2 {
			errors["questions"] = "True/false questions need exactly two options!"
			return
		}

		hasCorrect := false
		for j := range q.Options {
			q.Options[j].Text = strings.TrimSpace(q.Options[j].Text)
			if q.Options[j].Text == "" {
				errors["questions"] = "Option text is required!"
				return
			}
			if q.Options[j].IsCorrect {
				hasCorrect = true
			}
		}
		if !hasCorrect {
			errors["questions"] = "Each choice question needs at least one correct option!"
			return
		}
	}
}

func validateQuizFields(reqData *quizController.QuizPayload, errors map[string]string, requireTitle bool) {
	reqData.Title = strings.TrimSpace(reqData.Title)
	reqData.Description = strings.TrimSpace(reqData.Description)

	if reqData.Title == "" {
		if requireTitle {
			errors["title"] = "Title is required!"
		}
	} else if len(reqData.Title) < 3 {
		errors["title"] = "Title must be at least 3 characters long!"
	}

	if reqData.PassingScore != nil && (*reqData.PassingScore < 0 || *reqData.PassingScore > 100) {
		errors["passing_score"] = "Passing score must be between 0 and 100!"
	}

	if reqData.MaxAttempts != nil && *reqData.MaxAttempts < 1 {
		errors["max_attempts"] = "Maximum attempts must be at least 1!"
	}

	if reqData.TimeLimit != nil && *reqData.TimeLimit < 1 {
		errors["time_limit"] = "Time limit must be at least 1 minute!"
	}
}

// CreateQuiz validates a quiz creation request
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(quizController.QuizPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		validateQuizFields(reqData, errors, true)
		validateQuestions(reqData.Questions, errors)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates a quiz update request
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		reqData := new(quizController.QuizPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		validateQuizFields(reqData, errors, false)
		if reqData.Questions != nil {
			validateQuestions(reqData.Questions, errors)
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", quizID)
		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// LessonQuizzes validates the lesson id path parameter
func LessonQuizzes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// GradeAttempt validates a manual grading request
func GradeAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		attemptID, ok := parseIDParam(c, "attempt_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Attempt ID!", nil)
		}

		reqData := new(quizController.GradePayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.QuestionID == 0 {
			errors["question_id"] = "Question ID is required!"
		}
		if reqData.PointsEarned < 0 {
			errors["points_earned"] = "Points cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("attemptID", attemptID)
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
