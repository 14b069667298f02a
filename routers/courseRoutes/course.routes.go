package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment and progress
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)
	courseGroup.Get("/enrollments/list", middleware.JWTMiddleware, controllers.GetEnrollments)
	courseGroup.Get("/lesson/:lesson_id", middleware.JWTMiddleware, validators.LessonID(), controllers.GetLessonContent)
	courseGroup.Post("/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.CompleteLesson(), controllers.MarkLessonComplete)

	// Certificates and badges
	courseGroup.Post("/:id/certificate/request", middleware.JWTMiddleware, validators.CourseID(), controllers.RequestCertificate)
	courseGroup.Get("/certificates/list", middleware.JWTMiddleware, controllers.GetUserCertificates)
	courseGroup.Get("/badges/list", middleware.JWTMiddleware, controllers.GetUserBadges)
}
