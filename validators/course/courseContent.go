package courseValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var lessonContentTypes = map[string]bool{
	"TEXT":  true,
	"VIDEO": true,
	"QUIZ":  true,
}

// LessonPayload validates lesson create/update bodies
func LessonPayload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if courseID, ok := parseIDParam(c, "course_id"); ok {
			c.Locals("courseID", courseID)
			moduleID, ok := parseIDParam(c, "module_id")
			if !ok {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
			}
			c.Locals("moduleID", moduleID)
		} else {
			lessonID, ok := parseIDParam(c, "lesson_id")
			if !ok {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
			}
			c.Locals("lessonID", lessonID)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ContentType string `json:"content_type"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.ContentType = strings.ToUpper(strings.TrimSpace(reqData.ContentType))

		if c.Method() == fiber.MethodPost {
			if len(reqData.Title) < 3 {
				errors["title"] = "Title must be at least 3 characters long!"
			}
			if !lessonContentTypes[reqData.ContentType] {
				errors["content_type"] = "Content type must be TEXT, VIDEO or QUIZ!"
			}
		} else if reqData.ContentType != "" && !lessonContentTypes[reqData.ContentType] {
			errors["content_type"] = "Content type must be TEXT, VIDEO or QUIZ!"
		}

		if reqData.ContentType == "VIDEO" && strings.TrimSpace(reqData.VideoURL) == "" {
			errors["video_url"] = "Video lessons need a video URL!"
		}
		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}
