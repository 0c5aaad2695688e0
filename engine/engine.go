// engine/engine.go - the learning-progress & gamification engine
package engine

import (
	"time"

	"parlez/catalog"
)

// Point values granted by the engine. Badge bonuses come from the badge
// catalog instead.
const (
	PointsCorrectAnswer  = 5
	PointsWrongAnswer    = -2
	PointsDailyCheckIn   = 10
	PointsReviewMistake  = 5
	PointsCompleteLesson = 20
)

// CheckInHistoryDays caps how many calendar days of check-ins are retained.
const CheckInHistoryDays = 90

// CompletionScore is the minimum score for a course to complete.
const CompletionScore = 60

// AwardEvent describes a grant the presentation layer may want to surface
// live (badge toasts, point popups).
type AwardEvent struct {
	Type    string `json:"type"` // "badge" or "points"
	BadgeID string `json:"badge_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Points  int    `json:"points"`
	Reason  string `json:"reason,omitempty"`
}

// Engine applies the gamification rules on top of a Store. The same engine
// drives both deployment shapes; only the Store differs.
type Engine struct {
	store   Store
	courses *catalog.Courses
	badges  *catalog.Badges

	// Clock is the time source; tests override it to cross day boundaries.
	Clock func() time.Time

	// Notify, when set, receives award events after a successful commit.
	Notify func(userID uint, ev AwardEvent)
}

func New(store Store, courses *catalog.Courses, badges *catalog.Badges) *Engine {
	return &Engine{
		store:   store,
		courses: courses,
		badges:  badges,
		Clock:   time.Now,
	}
}

func (e *Engine) Courses() *catalog.Courses {
	return e.courses
}

func (e *Engine) Badges() *catalog.Badges {
	return e.badges
}

func (e *Engine) notify(userID uint, ev AwardEvent) {
	if e.Notify != nil {
		e.Notify(userID, ev)
	}
}
