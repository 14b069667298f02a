package quizRoutes

import (
	controllers "lms/controllers/quiz"
	"lms/middleware"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up all student-facing quiz routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	// Quiz definition plus the caller's attempt eligibility
	quizGroup.Get("/:id", middleware.JWTMiddleware, validators.GetQuiz(), controllers.GetQuizDetail)

	// Attempt lifecycle
	quizGroup.Post("/:id/start", middleware.JWTMiddleware, validators.GetQuiz(), controllers.StartQuizAttempt)
	quizGroup.Post("/:id/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuizAttempt)

	// Results and history
	quizGroup.Get("/:id/results", middleware.JWTMiddleware, validators.GetQuiz(), controllers.GetQuizResults)
	quizGroup.Get("/:id/best", middleware.JWTMiddleware, validators.GetQuiz(), controllers.GetBestResult)
	quizGroup.Get("/:id/attempts", middleware.JWTMiddleware, validators.GetQuiz(), controllers.GetQuizAttempts)
}
