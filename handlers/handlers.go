// handlers/handlers.go - package wiring and error mapping
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"parlez/content"
	"parlez/engine"
)

var (
	eng     *engine.Engine
	library *content.Library
)

// Init wires the handler package to the engine and the loaded course
// content. Called once from main before the routes are registered.
func Init(e *engine.Engine, lib *content.Library) {
	eng = e
	library = lib
}

// fail maps an engine error onto the response. Validation, conflict and
// not-found surface verbatim; anything else is a storage failure and stays
// generic.
func fail(c *fiber.Ctx, err error) error {
	status := 500
	message := "Something went wrong. Please try again."

	switch {
	case errors.Is(err, engine.ErrValidation):
		status, message = 400, err.Error()
	case errors.Is(err, engine.ErrNotFound):
		status, message = 404, err.Error()
	case errors.Is(err, engine.ErrConflict):
		status, message = 409, err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
