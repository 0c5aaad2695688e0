// handlers/mistakes.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"parlez/middleware"
)

// GetMistakes lists the mistake book, worst offenders first. Pass
// ?unreviewed=true for only the pending ones.
func GetMistakes(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	unreviewedOnly := c.QueryBool("unreviewed", false)
	mistakes, err := eng.Mistakes(userID, unreviewedOnly)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"mistakes": mistakes,
		"count":    len(mistakes),
	})
}

// ReviewMistake marks one mistake reviewed. The review bonus is granted on
// the first call only; repeating it is a harmless no-op.
func ReviewMistake(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	questionID := c.Params("questionId")
	m, err := eng.MarkReviewed(userID, questionID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"mistake": m,
	})
}
