package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollInCourse enrolls the caller into a published course
func EnrollInCourse(c *fiber.Ctx) error {
	user := loadUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ? AND status = ?", courseID, false, true, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not open for enrollment!", nil)
	}

	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", existing)
	}

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", course.ID, false, true).
		Count(&totalLessons)

	enrollment := courseModels.Enrollment{
		UserID:       user.ID,
		CourseID:     course.ID,
		Status:       "ENROLLED",
		TotalLessons: int(totalLessons),
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollments lists the caller's enrollments
func GetEnrollments(c *fiber.Ctx) error {
	user := loadUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
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
		Where("user_id = ? AND is_deleted = ?", user.ID, false)

	var total int64
	query.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type enrollmentView struct {
		courseModels.Enrollment
		CourseTitle string `json:"course_title"`
	}

	views := make([]enrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Select("title").Where("id = ?", e.CourseID).First(&course)
		views = append(views, enrollmentView{Enrollment: e, CourseTitle: course.Title})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": views,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// MarkLessonComplete records lesson completion and rolls up course progress
func MarkLessonComplete(c *fiber.Ctx) error {
	user := loadUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, lesson.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var existing courseModels.LessonCompletion
	if err := database.Database.Db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", user.ID, lesson.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson already completed!", enrollment)
	}

	completion := courseModels.LessonCompletion{
		UserID:   user.ID,
		CourseID: lesson.CourseID,
		LessonID: lesson.ID,
		Status:   "COMPLETED",
	}
	if err := database.Database.Db.Create(&completion).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark lesson complete!", nil)
	}

	if err := updateEnrollmentProgress(database.Database.Db, &enrollment); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked complete!", enrollment)
}

// updateEnrollmentProgress recomputes completion counts and percentage
// from the published lessons of the course.
func updateEnrollmentProgress(db *gorm.DB, enrollment *courseModels.Enrollment) error {
	var totalLessons int64
	db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true).
		Count(&totalLessons)

	var completedLessons int64
	db.Model(&courseModels.LessonCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", enrollment.UserID, enrollment.CourseID, false).
		Count(&completedLessons)

	enrollment.TotalLessons = int(totalLessons)
	enrollment.CompletedLessons = int(completedLessons)

	if totalLessons == 0 {
		enrollment.Progress = 0
	} else {
		enrollment.Progress = float64(completedLessons) / float64(totalLessons) * 100
	}

	if enrollment.Progress >= 100 {
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			completedAt := time.Now()
			enrollment.CompletedAt = &completedAt
		}
	} else if completedLessons > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	if err := db.Save(enrollment).Error; err != nil {
		return err
	}

	if enrollment.Status == "COMPLETED" {
		awardCourseBadge(db, enrollment.UserID, enrollment.CourseID)
	}
	return nil
}

// awardCourseBadge grants COURSE_COMPLETE for the course. The unique
// index makes re-awards a no-op.
func awardCourseBadge(db *gorm.DB, userID, courseID uint) {
	var badge courseModels.Badge
	if err := db.Where("code = ? AND is_deleted = ?", "COURSE_COMPLETE", false).First(&badge).Error; err != nil {
		return
	}

	award := courseModels.UserBadge{
		UserID:    userID,
		BadgeID:   badge.ID,
		CourseID:  courseID,
		AwardedAt: time.Now(),
	}
	db.Create(&award)
}
