// handlers/checkin.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"parlez/middleware"
)

// CheckIn records today's visit and returns the updated streak. A second
// call the same day gets a 409.
func CheckIn(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	info, err := eng.CheckIn(userID)
	if err != nil {
		return fail(c, err)
	}

	// A long streak may have just crossed a badge threshold.
	badges, err := eng.EvaluateBadges(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"current_streak": info.CurrentStreak,
		"max_streak":     info.MaxStreak,
		"points_awarded": info.PointsAwarded,
		"new_badges":     badges,
	})
}

// GetCheckInInfo is the read-only streak view.
func GetCheckInInfo(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	info, err := eng.GetCheckInInfo(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"current_streak":   info.CurrentStreak,
		"max_streak":       info.MaxStreak,
		"checked_in_today": info.CheckedInToday,
		"dates":            info.Dates,
	})
}
