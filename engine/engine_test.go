package engine_test

import (
	"testing"
	"time"

	"parlez/catalog"
	"parlez/engine"
	"parlez/localstore"
)

// fakeClock lets tests walk across day boundaries deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *fakeClock) AdvanceDays(n int) {
	c.now = c.now.AddDate(0, 0, n)
}

// newTestEngine builds an engine over a throwaway file store with the real
// catalogs and a controllable clock.
func newTestEngine(t *testing.T) (*engine.Engine, *fakeClock) {
	t.Helper()

	store, err := localstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	courses, err := catalog.LoadCourses()
	if err != nil {
		t.Fatalf("load courses: %v", err)
	}
	badges, err := catalog.LoadBadges()
	if err != nil {
		t.Fatalf("load badges: %v", err)
	}

	clk := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	eng := engine.New(store, courses, badges)
	eng.Clock = clk.Now
	return eng, clk
}

// completeCourse drives one course to a completed state via the progress API.
func completeCourse(t *testing.T, eng *engine.Engine, userID uint, courseID string, score int) {
	t.Helper()
	_, _, err := eng.UpdateProgress(userID, courseID, engine.ProgressUpdate{
		Score:     &score,
		Completed: true,
	})
	if err != nil {
		t.Fatalf("complete %s: %v", courseID, err)
	}
}
