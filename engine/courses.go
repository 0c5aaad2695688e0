// engine/courses.go - CourseProgressStore
package engine

import (
	"errors"

	"parlez/catalog"
	"parlez/models"
)

// ProgressUpdate is the patch applied by one learning interaction. Score
// only overwrites when higher, TimeSpent accumulates, exercise ids append
// uniquely, and Completed requests the one-way false→true transition (which
// only fires once the score reaches the completion threshold).
type ProgressUpdate struct {
	Score              *int     `json:"score,omitempty"`
	TimeSpent          int      `json:"time_spent,omitempty"`
	ExercisesCompleted []string `json:"exercises_completed,omitempty"`
	Completed          bool     `json:"completed,omitempty"`
}

// CourseStatus is one row of the course list view: the catalog entry, the
// derived unlock flag and the learner's progress (zero-valued when the
// course was never touched).
type CourseStatus struct {
	catalog.Course
	Unlocked bool                   `json:"unlocked"`
	Progress *models.CourseProgress `json:"progress,omitempty"`
}

// UpdateProgress creates the per-course record on first interaction and
// applies the patch under the monotonicity rules. On the completion
// transition it grants the lesson bonus and re-evaluates badges in the same
// transaction.
func (e *Engine) UpdateProgress(userID uint, courseID string, upd ProgressUpdate) (*models.CourseProgress, []catalog.Badge, error) {
	if _, ok := e.courses.ByID(courseID); !ok {
		return nil, nil, ErrUnknownCourse
	}
	if upd.Score != nil && (*upd.Score < 0 || *upd.Score > 100) {
		return nil, nil, validationf("score must be between 0 and 100")
	}
	if upd.TimeSpent < 0 {
		return nil, nil, validationf("time spent must not be negative")
	}

	var (
		progress  *models.CourseProgress
		awarded   []catalog.Badge
		completed bool
	)

	err := e.store.Atomic(func(s Store) error {
		unlocked, err := e.isUnlockedTx(s, userID, courseID)
		if err != nil {
			return err
		}
		if !unlocked {
			return ErrCourseLocked
		}

		now := e.Clock()

		progress, err = s.Progress(userID, courseID)
		switch {
		case errors.Is(err, ErrNotFound):
			started := now
			progress = &models.CourseProgress{
				UserID:    userID,
				CourseID:  courseID,
				Started:   true,
				StartedAt: &started,
			}
		case err != nil:
			return err
		}

		progress.Attempts++
		progress.LastAttempt = now
		progress.TimeSpent += upd.TimeSpent

		if upd.Score != nil && *upd.Score > progress.Score {
			progress.Score = *upd.Score
		}

		if len(upd.ExercisesCompleted) > 0 {
			existing := progress.Exercises()
			seen := make(map[string]bool, len(existing))
			for _, id := range existing {
				seen[id] = true
			}
			for _, id := range upd.ExercisesCompleted {
				if id != "" && !seen[id] {
					existing = append(existing, id)
					seen[id] = true
				}
			}
			progress.SetExercises(existing)
		}

		if upd.Completed && !progress.Completed && progress.Score >= CompletionScore {
			progress.Completed = true
			done := now
			progress.CompletedAt = &done
			completed = true
		}

		if err := s.SaveProgress(progress); err != nil {
			return err
		}

		if completed {
			course, _ := e.courses.ByID(courseID)
			if _, err := e.addPointsTx(s, userID, PointsCompleteLesson, "completed "+course.Title); err != nil {
				return err
			}
			awarded, err = e.evaluateBadgesTx(s, userID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if completed {
		e.notify(userID, AwardEvent{Type: "points", Points: PointsCompleteLesson, Reason: "course completed"})
	}
	for _, b := range awarded {
		e.notify(userID, AwardEvent{Type: "badge", BadgeID: b.ID, Name: b.Name, Points: b.Points})
	}
	return progress, awarded, nil
}

// GetProgress returns the record for one course, or a zero-valued
// not-started record when the learner never touched it.
func (e *Engine) GetProgress(userID uint, courseID string) (*models.CourseProgress, error) {
	if _, ok := e.courses.ByID(courseID); !ok {
		return nil, ErrUnknownCourse
	}

	progress, err := e.store.Progress(userID, courseID)
	if errors.Is(err, ErrNotFound) {
		return &models.CourseProgress{UserID: userID, CourseID: courseID}, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// ResetProgress is the explicit reset: it deletes the whole record, taking
// the course back to not-started. Dependent courses re-lock because the
// unlock flag is derived, not stored.
func (e *Engine) ResetProgress(userID uint, courseID string) error {
	if _, ok := e.courses.ByID(courseID); !ok {
		return ErrUnknownCourse
	}
	return e.store.Atomic(func(s Store) error {
		return s.DeleteProgress(userID, courseID)
	})
}

// IsCourseUnlocked reports whether the learner may enter a course: the
// first course always, every other one once its prerequisite is completed.
func (e *Engine) IsCourseUnlocked(userID uint, courseID string) (bool, error) {
	if _, ok := e.courses.ByID(courseID); !ok {
		return false, ErrUnknownCourse
	}
	return e.isUnlockedTx(e.store, userID, courseID)
}

func (e *Engine) isUnlockedTx(s Store, userID uint, courseID string) (bool, error) {
	course, _ := e.courses.ByID(courseID)
	if course.Prerequisite == "" {
		return true, nil
	}

	prereq, err := s.Progress(userID, course.Prerequisite)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return prereq.Completed, nil
}

// CourseList returns the whole catalog with unlock flags and progress.
func (e *Engine) CourseList(userID uint) ([]CourseStatus, error) {
	all, err := e.store.AllProgress(userID)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[string]*models.CourseProgress, len(all))
	for i := range all {
		byCourse[all[i].CourseID] = &all[i]
	}

	courses := e.courses.All()
	out := make([]CourseStatus, 0, len(courses))
	for _, c := range courses {
		status := CourseStatus{Course: c, Unlocked: c.Prerequisite == ""}
		if !status.Unlocked {
			if prereq, ok := byCourse[c.Prerequisite]; ok && prereq.Completed {
				status.Unlocked = true
			}
		}
		if p, ok := byCourse[c.ID]; ok {
			status.Progress = p
		}
		out = append(out, status)
	}
	return out, nil
}
