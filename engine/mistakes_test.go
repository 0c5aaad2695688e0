package engine_test

import (
	"errors"
	"testing"
	"time"

	"parlez/engine"
	"parlez/models"
)

func wrongAnswer(qid, given string) engine.MistakePayload {
	return engine.MistakePayload{
		QuestionID:    qid,
		ExerciseType:  engine.ExerciseFill,
		Question:      "Comment dit-on « hello » ?",
		UserAnswer:    given,
		CorrectAnswer: "bonjour",
	}
}

func TestRecordMistakeEscalates(t *testing.T) {
	eng, clk := newTestEngine(t)

	for _, given := range []string{"salut", "coucou", "allo"} {
		if _, err := eng.RecordMistake(1, wrongAnswer("q1", given)); err != nil {
			t.Fatalf("record: %v", err)
		}
		clk.Advance(time.Minute)
	}

	mistakes, err := eng.Mistakes(1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mistakes) != 1 {
		t.Fatalf("got %d entries, want 1 upserted", len(mistakes))
	}
	m := mistakes[0]
	if m.WrongCount != 3 {
		t.Errorf("got wrong count %d, want 3", m.WrongCount)
	}
	if m.UserAnswer != "allo" {
		t.Errorf("got answer %q, want the latest", m.UserAnswer)
	}
	if m.Reviewed {
		t.Error("fresh mistake marked reviewed")
	}
}

func TestRecordMistakeClearsReviewedFlag(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.RecordMistake(1, wrongAnswer("q1", "salut")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := eng.MarkReviewed(1, "q1"); err != nil {
		t.Fatalf("review: %v", err)
	}

	m, err := eng.RecordMistake(1, wrongAnswer("q1", "coucou"))
	if err != nil {
		t.Fatalf("record again: %v", err)
	}
	if m.Reviewed || m.ReviewedAt != nil {
		t.Error("new wrong answer should clear the reviewed state")
	}
}

func TestMarkReviewedGrantsBonusOnce(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.RecordMistake(1, wrongAnswer("q1", "salut")); err != nil {
		t.Fatalf("record: %v", err)
	}

	m, err := eng.MarkReviewed(1, "q1")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !m.Reviewed || m.ReviewedAt == nil {
		t.Error("expected reviewed state")
	}
	summary, _ := eng.GetPoints(1)
	if summary.Total != engine.PointsReviewMistake {
		t.Errorf("got %d points, want %d", summary.Total, engine.PointsReviewMistake)
	}

	// Reviewing again is a quiet no-op.
	if _, err := eng.MarkReviewed(1, "q1"); err != nil {
		t.Fatalf("second review: %v", err)
	}
	summary, _ = eng.GetPoints(1)
	if summary.Total != engine.PointsReviewMistake {
		t.Errorf("bonus granted twice: %d", summary.Total)
	}
}

func TestMarkReviewedUnknownQuestion(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.MarkReviewed(1, "no-such"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if _, err := eng.MarkReviewed(1, ""); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestMistakesOrderedByWorstFirst(t *testing.T) {
	eng, clk := newTestEngine(t)

	if _, err := eng.RecordMistake(1, wrongAnswer("q1", "a")); err != nil {
		t.Fatalf("record: %v", err)
	}
	clk.Advance(time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := eng.RecordMistake(1, wrongAnswer("q2", "b")); err != nil {
			t.Fatalf("record: %v", err)
		}
		clk.Advance(time.Minute)
	}

	mistakes, err := eng.Mistakes(1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mistakes) != 2 || mistakes[0].QuestionID != "q2" {
		t.Errorf("got order %v, want q2 first", questionIDs(mistakes))
	}
}

func TestMistakesUnreviewedFilter(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.RecordMistake(1, wrongAnswer("q1", "a")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := eng.RecordMistake(1, wrongAnswer("q2", "b")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := eng.MarkReviewed(1, "q1"); err != nil {
		t.Fatalf("review: %v", err)
	}

	unreviewed, err := eng.Mistakes(1, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unreviewed) != 1 || unreviewed[0].QuestionID != "q2" {
		t.Errorf("got %v, want only q2", questionIDs(unreviewed))
	}
}

func questionIDs(mistakes []models.Mistake) []string {
	ids := make([]string, len(mistakes))
	for i, m := range mistakes {
		ids[i] = m.QuestionID
	}
	return ids
}
