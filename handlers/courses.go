// handlers/courses.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"parlez/engine"
	"parlez/middleware"
)

// GetCourses returns the catalog with unlock flags and progress.
func GetCourses(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	courses, err := eng.CourseList(userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"courses": courses,
	})
}

// GetCourseProgress returns the record for one course; a course the learner
// never touched reads as not-started.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	progress, err := eng.GetProgress(userID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"progress": progress,
	})
}

// UpdateCourseProgress applies one progress patch.
func UpdateCourseProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var upd engine.ProgressUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	progress, badges, err := eng.UpdateProgress(userID, c.Params("id"), upd)
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{
		"success":    true,
		"progress":   progress,
		"new_badges": badges,
	}
	if progress.Completed {
		if next, ok := eng.Courses().Next(progress.CourseID); ok {
			response["unlocked_course"] = next
		}
	}

	return c.JSON(response)
}

// ResetCourseProgress is the explicit reset: deletes the record, returning
// the course to not-started.
func ResetCourseProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	if err := eng.ResetProgress(userID, c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}
