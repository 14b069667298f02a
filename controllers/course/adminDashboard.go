package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminGetCourseEnrollments lists enrolled students for a course
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	user := loadCourseManager(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor or admin only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if !ownsCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not manage this course!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_deleted = ?", course.ID, false)

	var total int64
	query.Count(&total)

	type enrolledStudent struct {
		courseModels.Enrollment
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	var enrollments []courseModels.Enrollment
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	students := make([]enrolledStudent, 0, len(enrollments))
	for _, e := range enrollments {
		var student models.User
		database.Database.Db.Select("name, email").Where("id = ?", e.UserID).First(&student)
		students = append(students, enrolledStudent{
			Enrollment:   e,
			StudentName:  student.Name,
			StudentEmail: student.Email,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollments fetched successfully!", fiber.Map{
		"enrollments": students,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// AdminGetDashboardStats returns platform-wide activity counters
func AdminGetDashboardStats(c *fiber.Ctx) error {
	user := loadCourseManager(c)
	if user == nil || user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	db := database.Database.Db
	today := now.BeginningOfDay()
	weekStart := now.BeginningOfWeek()

	var totalStudents, totalInstructors int64
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "STUDENT", false).Count(&totalStudents)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "INSTRUCTOR", false).Count(&totalInstructors)

	var totalCourses, publishedCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)

	var totalEnrollments, enrollmentsToday, enrollmentsThisWeek, completedEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND created_at >= ?", false, today).Count(&enrollmentsToday)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND created_at >= ?", false, weekStart).Count(&enrollmentsThisWeek)
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, "COMPLETED").Count(&completedEnrollments)

	var totalAttempts, attemptsToday, passedAttempts, flaggedAttempts, attemptsNeedingGrading int64
	db.Model(&quizModels.QuizAttempt{}).Where("completed_at IS NOT NULL").Count(&totalAttempts)
	db.Model(&quizModels.QuizAttempt{}).Where("started_at >= ?", today).Count(&attemptsToday)
	db.Model(&quizModels.QuizAttempt{}).Where("completed_at IS NOT NULL AND passed = ?", true).Count(&passedAttempts)
	db.Model(&quizModels.QuizAttempt{}).Where("flagged = ?", true).Count(&flaggedAttempts)
	db.Model(&quizModels.QuizAttempt{}).Where("needs_grading = ?", true).Count(&attemptsNeedingGrading)

	passRate := 0.0
	if totalAttempts > 0 {
		passRate = float64(passedAttempts) / float64(totalAttempts) * 100
	}

	var pendingCertificates, issuedCertificates int64
	db.Model(&courseModels.CertificateRequest{}).Where("status = ? AND is_deleted = ?", "PENDING", false).Count(&pendingCertificates)
	db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false).Count(&issuedCertificates)

	stats := fiber.Map{
		"generated_at":             time.Now(),
		"total_students":           totalStudents,
		"total_instructors":        totalInstructors,
		"total_courses":            totalCourses,
		"published_courses":        publishedCourses,
		"total_enrollments":        totalEnrollments,
		"enrollments_today":        enrollmentsToday,
		"enrollments_this_week":    enrollmentsThisWeek,
		"completed_enrollments":    completedEnrollments,
		"quiz_attempts_total":      totalAttempts,
		"quiz_attempts_today":      attemptsToday,
		"quiz_pass_rate":           passRate,
		"flagged_attempts":         flaggedAttempts,
		"attempts_needing_grading": attemptsNeedingGrading,
		"pending_certificates":     pendingCertificates,
		"issued_certificates":      issuedCertificates,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}
