package quizRoutes

import (
	controllers "lms/controllers/quiz"
	"lms/middleware"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminQuizRoutes sets up all instructor/admin quiz management routes
func SetupAdminQuizRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	// Quiz CRUD under a lesson
	adminGroup.Post("/lesson/:lesson_id/quiz", middleware.JWTMiddleware, validators.CreateQuiz(), controllers.CreateQuiz)
	adminGroup.Get("/lesson/:lesson_id/quiz/list", middleware.JWTMiddleware, validators.LessonQuizzes(), controllers.ListLessonQuizzes)

	quizGroup := app.Group("/admin/quiz")
	quizGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateQuiz(), controllers.UpdateQuiz)
	quizGroup.Delete("/:id", middleware.JWTMiddleware, validators.GetQuiz(), controllers.DeleteQuiz)
	quizGroup.Get("/:id/attempts", middleware.JWTMiddleware, validators.GetQuiz(), controllers.AdminGetQuizAttempts)

	// Manual grading of short answers
	attemptGroup := app.Group("/admin/attempt")
	attemptGroup.Post("/:attempt_id/grade", middleware.JWTMiddleware, validators.GradeAttempt(), controllers.GradeAttemptAnswer)
}
