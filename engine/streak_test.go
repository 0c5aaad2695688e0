package engine_test

import (
	"errors"
	"testing"

	"parlez/engine"
)

func TestCheckInStartsStreak(t *testing.T) {
	eng, _ := newTestEngine(t)

	info, err := eng.CheckIn(1)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if info.CurrentStreak != 1 || info.MaxStreak != 1 {
		t.Errorf("got streak=%d max=%d, want 1/1", info.CurrentStreak, info.MaxStreak)
	}
	if !info.CheckedInToday {
		t.Error("expected CheckedInToday")
	}
	if info.PointsAwarded != engine.PointsDailyCheckIn {
		t.Errorf("got %d points, want %d", info.PointsAwarded, engine.PointsDailyCheckIn)
	}
}

func TestCheckInTwicePerDayRejected(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.CheckIn(1); err != nil {
		t.Fatalf("first check in: %v", err)
	}
	_, err := eng.CheckIn(1)
	if !errors.Is(err, engine.ErrAlreadyCheckedIn) {
		t.Fatalf("got %v, want ErrAlreadyCheckedIn", err)
	}

	// The rejected attempt must not award points or move the streak.
	summary, err := eng.GetPoints(1)
	if err != nil {
		t.Fatalf("get points: %v", err)
	}
	if summary.Total != engine.PointsDailyCheckIn {
		t.Errorf("got %d points, want %d", summary.Total, engine.PointsDailyCheckIn)
	}
	info, err := eng.GetCheckInInfo(1)
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if info.CurrentStreak != 1 {
		t.Errorf("got streak=%d, want 1", info.CurrentStreak)
	}
}

func TestStreakContinuesAndBreaks(t *testing.T) {
	eng, clk := newTestEngine(t)

	// Monday and Tuesday build a streak of 2.
	for day := 0; day < 2; day++ {
		if _, err := eng.CheckIn(1); err != nil {
			t.Fatalf("check in day %d: %v", day, err)
		}
		clk.AdvanceDays(1)
	}
	info, err := eng.GetCheckInInfo(1)
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if info.CurrentStreak != 2 || info.MaxStreak != 2 {
		t.Fatalf("got streak=%d max=%d, want 2/2", info.CurrentStreak, info.MaxStreak)
	}

	// Skipping Wednesday restarts the streak on Thursday; the best streak
	// is remembered.
	clk.AdvanceDays(1)
	info, err = eng.CheckIn(1)
	if err != nil {
		t.Fatalf("check in after gap: %v", err)
	}
	if info.CurrentStreak != 1 {
		t.Errorf("got streak=%d, want 1 after a missed day", info.CurrentStreak)
	}
	if info.MaxStreak != 2 {
		t.Errorf("got max=%d, want 2", info.MaxStreak)
	}
}

func TestCheckInHistoryTrimmed(t *testing.T) {
	eng, clk := newTestEngine(t)

	for day := 0; day < engine.CheckInHistoryDays+10; day++ {
		if _, err := eng.CheckIn(1); err != nil {
			t.Fatalf("check in day %d: %v", day, err)
		}
		clk.AdvanceDays(1)
	}

	info, err := eng.GetCheckInInfo(1)
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if len(info.Dates) != engine.CheckInHistoryDays {
		t.Errorf("got %d dates, want %d", len(info.Dates), engine.CheckInHistoryDays)
	}
	// The streak itself is not bounded by the retained window.
	if info.CurrentStreak != engine.CheckInHistoryDays+10 {
		t.Errorf("got streak=%d, want %d", info.CurrentStreak, engine.CheckInHistoryDays+10)
	}
}

func TestCheckInIsolatedPerUser(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.CheckIn(1); err != nil {
		t.Fatalf("check in: %v", err)
	}
	info, err := eng.GetCheckInInfo(2)
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if info.CheckedInToday || info.CurrentStreak != 0 {
		t.Errorf("user 2 inherited user 1's check-in: %+v", info)
	}
}
