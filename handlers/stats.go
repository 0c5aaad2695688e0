// handlers/stats.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"parlez/middleware"
)

// GetLearningStats returns the dashboard aggregate.
func GetLearningStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	stats, err := eng.GetLearningStats(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

type CounterRequest struct {
	Count int `json:"count"`
}

// RecordVocabulary is called by the course-content collaborator when the
// learner finishes a vocabulary section.
func RecordVocabulary(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	req := CounterRequest{Count: 1}
	_ = c.BodyParser(&req)

	badges, err := eng.RecordVocabulary(userID, req.Count)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"new_badges": badges,
	})
}

// RecordConversation is called by the tutor-chat collaborator after each
// exchange with the learner.
func RecordConversation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	req := CounterRequest{Count: 1}
	_ = c.BodyParser(&req)

	badges, err := eng.RecordConversation(userID, req.Count)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"new_badges": badges,
	})
}
