package engine_test

import (
	"errors"
	"testing"

	"parlez/engine"
)

func intp(v int) *int { return &v }

func TestUpdateProgressCreatesRecord(t *testing.T) {
	eng, _ := newTestEngine(t)

	progress, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{
		Score:     intp(40),
		TimeSpent: 120,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !progress.Started || progress.StartedAt == nil {
		t.Error("expected started record")
	}
	if progress.Score != 40 || progress.TimeSpent != 120 || progress.Attempts != 1 {
		t.Errorf("got score=%d time=%d attempts=%d", progress.Score, progress.TimeSpent, progress.Attempts)
	}
	if progress.Completed {
		t.Error("completed without reaching the threshold")
	}
}

func TestScoreOnlyImproves(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{Score: intp(80)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	progress, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{Score: intp(50), TimeSpent: 60})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if progress.Score != 80 {
		t.Errorf("got score %d, want 80 kept", progress.Score)
	}
	if progress.Attempts != 2 {
		t.Errorf("got attempts %d, want 2", progress.Attempts)
	}
	if progress.TimeSpent != 60 {
		t.Errorf("got time %d, want 60", progress.TimeSpent)
	}
}

func TestCompletionNeedsThresholdScore(t *testing.T) {
	eng, _ := newTestEngine(t)

	progress, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{
		Score:     intp(engine.CompletionScore - 1),
		Completed: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if progress.Completed {
		t.Error("completed below the threshold")
	}

	progress, _, err = eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{
		Score:     intp(engine.CompletionScore),
		Completed: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !progress.Completed || progress.CompletedAt == nil {
		t.Error("expected completion at the threshold")
	}
}

func TestCompletionGrantsLessonBonusOnce(t *testing.T) {
	eng, _ := newTestEngine(t)

	completeCourse(t, eng, 1, "salutations", 80)
	first, err := eng.GetPoints(1)
	if err != nil {
		t.Fatalf("get points: %v", err)
	}

	// A later update on the completed course never re-grants the bonus.
	if _, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{Score: intp(90), Completed: true}); err != nil {
		t.Fatalf("update: %v", err)
	}
	second, err := eng.GetPoints(1)
	if err != nil {
		t.Fatalf("get points: %v", err)
	}
	if second.Total != first.Total {
		t.Errorf("points moved from %d to %d on repeat completion", first.Total, second.Total)
	}
}

func TestExercisesAppendUniquely(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{
		ExercisesCompleted: []string{"ex1", "ex2"},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	progress, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{
		ExercisesCompleted: []string{"ex2", "ex3", ""},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got := progress.Exercises()
	want := []string{"ex1", "ex2", "ex3"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUpdateProgressValidation(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{Score: intp(101)}); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("score 101: got %v, want ErrValidation", err)
	}
	if _, _, err := eng.UpdateProgress(1, "salutations", engine.ProgressUpdate{TimeSpent: -1}); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("negative time: got %v, want ErrValidation", err)
	}
	if _, _, err := eng.UpdateProgress(1, "no-such-course", engine.ProgressUpdate{}); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("unknown course: got %v, want ErrNotFound", err)
	}
}

func TestLockedCourseRejectsProgress(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, _, err := eng.UpdateProgress(1, "nombres", engine.ProgressUpdate{Score: intp(50)})
	if !errors.Is(err, engine.ErrCourseLocked) {
		t.Fatalf("got %v, want ErrCourseLocked", err)
	}

	completeCourse(t, eng, 1, "salutations", 80)
	if _, _, err := eng.UpdateProgress(1, "nombres", engine.ProgressUpdate{Score: intp(50)}); err != nil {
		t.Fatalf("after unlock: %v", err)
	}
}

func TestGetProgressForUntouchedCourse(t *testing.T) {
	eng, _ := newTestEngine(t)

	progress, err := eng.GetProgress(1, "salutations")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if progress.Started || progress.Completed || progress.Score != 0 {
		t.Errorf("expected zero-valued record, got %+v", progress)
	}
	if _, err := eng.GetProgress(1, "no-such-course"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestResetProgressRelocksDependents(t *testing.T) {
	eng, _ := newTestEngine(t)

	completeCourse(t, eng, 1, "salutations", 100)
	unlocked, err := eng.IsCourseUnlocked(1, "nombres")
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if !unlocked {
		t.Fatal("nombres should be unlocked")
	}

	if err := eng.ResetProgress(1, "salutations"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	progress, err := eng.GetProgress(1, "salutations")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if progress.Started {
		t.Error("reset course still started")
	}
	unlocked, err = eng.IsCourseUnlocked(1, "nombres")
	if err != nil {
		t.Fatalf("unlocked: %v", err)
	}
	if unlocked {
		t.Error("nombres should re-lock after the prerequisite reset")
	}
}

func TestCourseListDerivesUnlockFlags(t *testing.T) {
	eng, _ := newTestEngine(t)

	list, err := eng.CourseList(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("empty catalog")
	}
	if !list[0].Unlocked {
		t.Error("first course must start unlocked")
	}
	for _, c := range list[1:] {
		if c.Unlocked {
			t.Errorf("course %s unlocked with no progress", c.ID)
		}
	}

	completeCourse(t, eng, 1, "salutations", 80)
	list, err = eng.CourseList(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !list[1].Unlocked {
		t.Errorf("course %s should unlock after its prerequisite", list[1].ID)
	}
	if list[0].Progress == nil || !list[0].Progress.Completed {
		t.Error("completed progress missing from the list")
	}
}
