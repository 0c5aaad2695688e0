// handlers/points.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"parlez/middleware"
)

type AddPointsRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

// GetPoints returns the two running totals with the day rollover applied.
func GetPoints(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	points, err := eng.GetPoints(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"total":   points.Total,
		"today":   points.Today,
	})
}

// AddPoints applies one point delta on behalf of a collaborator.
func AddPoints(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req AddPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	points, err := eng.AddPoints(userID, req.Amount, req.Reason)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"amount":  req.Amount,
		"total":   points.Total,
		"today":   points.Today,
	})
}

// GetPointsHistory lists the most recent ledger entries, newest first.
func GetPointsHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	entries, err := eng.PointsHistory(userID, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"history": entries,
		"count":   len(entries),
	})
}
