package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up instructor and admin course management
// routes. Certificate review and the dashboard additionally require the
// ADMIN role inside their handlers.
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR", "ADMIN"))

	// Courses
	adminGroup.Post("/course", validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Get("/course/list", controllers.AdminGetAllCourses)
	adminGroup.Get("/course/:id", validators.CourseID(), controllers.AdminGetCourseDetails)
	adminGroup.Put("/course/:id", validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/course/:id", validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Post("/course/:id/publish", validators.CourseID(), controllers.AdminPublishCourse)
	adminGroup.Post("/course/:id/thumbnail", validators.CourseID(), controllers.AdminUploadCourseThumbnail)
	adminGroup.Get("/course/:id/enrollments", validators.CourseID(), controllers.AdminGetCourseEnrollments)

	// Modules
	adminGroup.Post("/course/:course_id/module", validators.ModulePayload(), controllers.AdminCreateModule)
	adminGroup.Put("/course/:course_id/module/:module_id", validators.ModulePayload(), controllers.AdminUpdateModule)
	adminGroup.Delete("/course/:course_id/module/:module_id", validators.ModuleID(), controllers.AdminDeleteModule)

	// Lessons
	adminGroup.Post("/course/:course_id/module/:module_id/lesson", validators.LessonPayload(), controllers.AdminCreateLesson)
	adminGroup.Put("/lesson/:lesson_id", validators.LessonPayload(), controllers.AdminUpdateLesson)
	adminGroup.Post("/lesson/:lesson_id/publish", validators.LessonID(), controllers.AdminPublishLesson)
	adminGroup.Delete("/lesson/:lesson_id", validators.LessonID(), controllers.AdminDeleteLesson)

	// Certificates
	adminGroup.Get("/certificate/requests", controllers.AdminGetPendingCertificateRequests)
	adminGroup.Post("/certificate/:request_id/approve", validators.RequestID(), controllers.AdminApproveCertificate)
	adminGroup.Post("/certificate/:request_id/reject", validators.RejectCertificate(), controllers.AdminRejectCertificate)

	// Dashboard
	adminGroup.Get("/dashboard", controllers.AdminGetDashboardStats)
}
