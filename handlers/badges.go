// handlers/badges.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"parlez/middleware"
)

// GetBadges returns the whole catalog annotated with earned state.
func GetBadges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	badges, err := eng.UserBadges(userID)
	if err != nil {
		return fail(c, err)
	}

	earned := 0
	for _, b := range badges {
		if b.Earned {
			earned++
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"badges":  badges,
		"total":   len(badges),
		"earned":  earned,
	})
}

// CheckBadges re-evaluates every threshold rule now and awards whatever
// newly qualifies.
func CheckBadges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	awarded, err := eng.EvaluateBadges(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"new_badges": awarded,
	})
}
