// handlers/evaluate.go - exercise evaluation sessions
package handlers

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"parlez/engine"
	"parlez/middleware"
)

// Evaluation sessions are transient: they hold the previous per-question
// statuses that make re-grading idempotent. Points, mistakes and progress
// are the durable output. A session is dropped when its course completes;
// abandoned ones age out after sessionTTL.
const sessionTTL = 2 * time.Hour

type session struct {
	*engine.Session
	lastUsed time.Time
}

var (
	sessionsMu sync.Mutex
	sessions   = make(map[string]*session)
)

// pruneSessions drops sessions idle past the TTL. Callers hold sessionsMu.
func pruneSessions(now time.Time) {
	for id, s := range sessions {
		if now.Sub(s.lastUsed) > sessionTTL {
			delete(sessions, id)
		}
	}
}

// StartSession opens an evaluation session for one course.
func StartSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	courseID := c.Params("id")
	course, ok := library.ByID(courseID)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Unknown course"})
	}
	if course.Key == nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Course has no exercises"})
	}

	sess, err := eng.NewSession(userID, courseID, course.Key)
	if err != nil {
		return fail(c, err)
	}

	id := uuid.New().String()
	sessionsMu.Lock()
	pruneSessions(time.Now())
	sessions[id] = &session{Session: sess, lastUsed: time.Now()}
	sessionsMu.Unlock()

	return c.JSON(fiber.Map{
		"success":         true,
		"session_id":      id,
		"total_questions": course.Key.Total(),
	})
}

type EvaluateRequest struct {
	SessionID string        `json:"session_id"`
	Inputs    engine.Inputs `json:"inputs"`
}

// Evaluate grades the learner's current inputs. Re-submitting unchanged
// answers changes nothing; once every question is attempted the course
// progress is updated and may complete.
func Evaluate(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	sessionsMu.Lock()
	sess, ok := sessions[req.SessionID]
	if ok {
		sess.lastUsed = time.Now()
	}
	sessionsMu.Unlock()
	if !ok || sess.UserID != userID || sess.CourseID != c.Params("id") {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Unknown session"})
	}

	result, err := eng.Evaluate(sess.Session, req.Inputs)
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{
		"success": true,
		"result":  result,
	}

	if result.FullyAttempted {
		score := result.Score
		progress, badges, err := eng.UpdateProgress(userID, sess.CourseID, engine.ProgressUpdate{
			Score:     &score,
			Completed: true,
		})
		if err != nil {
			return fail(c, err)
		}
		response["progress"] = progress
		response["new_badges"] = badges

		if progress.Completed {
			if next, ok := eng.Courses().Next(sess.CourseID); ok {
				response["unlocked_course"] = next
			}
			sessionsMu.Lock()
			delete(sessions, req.SessionID)
			sessionsMu.Unlock()
		}
	}

	return c.JSON(response)
}

// GetCourseContent serves the lesson markdown; rendering is the
// presentation layer's problem.
func GetCourseContent(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	course, ok := library.ByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Unknown course"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"course_id":   course.ID,
		"title":       course.Title,
		"markdown":    course.Markdown,
		"vocab_count": course.VocabCount,
	})
}
