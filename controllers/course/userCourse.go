package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	quizModels "lms/models/quiz"

	"github.com/gofiber/fiber/v2"
)

func loadUser(c *fiber.Ctx) *models.User {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return nil
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return nil
	}
	return &user
}

// GetAllCourses lists published courses for students
func GetAllCourses(c *fiber.Ctx) error {
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

	query := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ? AND status = ?", false, true, "ACTIVE")

	var total int64
	query.Count(&total)

	var courses []courseModels.Course
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

type lessonSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	OrderIndex  int    `json:"order_index"`
	Completed   bool   `json:"completed"`
}

type moduleSummary struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	OrderIndex  int             `json:"order_index"`
	Lessons     []lessonSummary `json:"lessons"`
}

// GetCourseDetails returns a published course with its modules and lessons
func GetCourseDetails(c *fiber.Ctx) error {
	user := loadUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("order_index ASC").Find(&modules)

	completed := map[uint]bool{}
	var completions []courseModels.LessonCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).Find(&completions)
	for _, lc := range completions {
		completed[lc.LessonID] = true
	}

	out := make([]moduleSummary, 0, len(modules))
	for _, m := range modules {
		var lessons []courseModels.Lesson
		database.Database.Db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", m.ID, false, true).
			Order("order_index ASC").Find(&lessons)

		ms := moduleSummary{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			OrderIndex:  m.OrderIndex,
			Lessons:     make([]lessonSummary, 0, len(lessons)),
		}
		for _, l := range lessons {
			ms.Lessons = append(ms.Lessons, lessonSummary{
				ID:          l.ID,
				Title:       l.Title,
				Description: l.Description,
				ContentType: l.ContentType,
				OrderIndex:  l.OrderIndex,
				Completed:   completed[l.ID],
			})
		}
		out = append(out, ms)
	}

	var enrollment courseModels.Enrollment
	enrolled := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
		First(&enrollment).Error == nil

	data := fiber.Map{
		"course":   course,
		"modules":  out,
		"enrolled": enrolled,
	}
	if enrolled {
		data["enrollment"] = enrollment
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", data)
}

// GetLessonContent returns full lesson content for an enrolled student
func GetLessonContent(c *fiber.Ctx) error {
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

	data := fiber.Map{"lesson": lesson}

	if lesson.ContentType == "QUIZ" {
		var quiz quizModels.Quiz
		if err := database.Database.Db.Where("lesson_id = ? AND is_deleted = ? AND is_active = ?", lesson.ID, false, true).First(&quiz).Error; err == nil {
			data["quiz_id"] = quiz.ID
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson content fetched successfully!", data)
}
