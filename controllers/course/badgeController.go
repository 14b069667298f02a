package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

var defaultBadges = []courseModels.Badge{
	{Code: "FIRST_QUIZ_PASS", Name: "First Quiz Passed", Description: "Awarded for passing your first quiz in a course."},
	{Code: "COURSE_COMPLETE", Name: "Course Completed", Description: "Awarded for completing all lessons of a course."},
}

// EnsureDefaultBadges seeds the badge catalog on startup
func EnsureDefaultBadges() {
	for _, badge := range defaultBadges {
		var existing courseModels.Badge
		if err := database.Database.Db.Where("code = ?", badge.Code).First(&existing).Error; err != nil {
			database.Database.Db.Create(&badge)
		}
	}
}

// GetUserBadges lists badges earned by the caller
func GetUserBadges(c *fiber.Ctx) error {
	user := loadUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var awards []courseModels.UserBadge
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Order("awarded_at DESC").Find(&awards).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	type badgeView struct {
		courseModels.UserBadge
		Code        string `json:"code"`
		Name        string `json:"name"`
		Description string `json:"description"`
		IconURL     string `json:"icon_url"`
	}

	views := make([]badgeView, 0, len(awards))
	for _, award := range awards {
		var badge courseModels.Badge
		database.Database.Db.Where("id = ?", award.BadgeID).First(&badge)
		views = append(views, badgeView{
			UserBadge:   award,
			Code:        badge.Code,
			Name:        badge.Name,
			Description: badge.Description,
			IconURL:     badge.IconURL,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", views)
}
