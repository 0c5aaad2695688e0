package localstore_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"parlez/engine"
	"parlez/localstore"
	"parlez/models"
)

func openStore(t *testing.T, dir string) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestStateSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	err := s.Atomic(func(tx engine.Store) error {
		if err := tx.SavePointsAccount(&models.PointsAccount{UserID: 1, TotalPoints: 42, DailyPoints: 7}); err != nil {
			return err
		}
		return tx.AddCheckInDate(1, "2025-03-10")
	})
	if err != nil {
		t.Fatalf("atomic: %v", err)
	}

	s = openStore(t, dir)
	acct, err := s.PointsAccount(1)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.TotalPoints != 42 || acct.DailyPoints != 7 {
		t.Errorf("got %+v", acct)
	}
	dates, err := s.CheckInDates(1)
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if len(dates) != 1 || dates[0] != "2025-03-10" {
		t.Errorf("got %v", dates)
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	err := s.Atomic(func(tx engine.Store) error {
		return tx.SavePointsAccount(&models.PointsAccount{UserID: 1, TotalPoints: 10})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("boom")
	err = s.Atomic(func(tx engine.Store) error {
		if err := tx.SavePointsAccount(&models.PointsAccount{UserID: 1, TotalPoints: 999}); err != nil {
			return err
		}
		if err := tx.AddCheckInDate(1, "2025-03-10"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}

	// In-memory state restored.
	acct, err := s.PointsAccount(1)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acct.TotalPoints != 10 {
		t.Errorf("got %d, want the pre-transaction 10", acct.TotalPoints)
	}
	dates, _ := s.CheckInDates(1)
	if len(dates) != 0 {
		t.Errorf("check-in survived a rollback: %v", dates)
	}

	// Nothing from the failed transaction reached the disk either.
	s = openStore(t, dir)
	acct, err = s.PointsAccount(1)
	if err != nil {
		t.Fatalf("account after reopen: %v", err)
	}
	if acct.TotalPoints != 10 {
		t.Errorf("failed transaction flushed to disk: %d", acct.TotalPoints)
	}
}

func TestCorruptFileResetsOnlyThatKey(t *testing.T) {
	dir := t.TempDir()
	s := openStore(t, dir)

	err := s.Atomic(func(tx engine.Store) error {
		if err := tx.SavePointsAccount(&models.PointsAccount{UserID: 1, TotalPoints: 10}); err != nil {
			return err
		}
		return tx.SaveCounters(&models.UserCounters{UserID: 1, CurrentStreak: 4})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "accounts.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	s = openStore(t, dir)
	if _, err := s.PointsAccount(1); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("corrupt accounts should reset empty, got %v", err)
	}
	counters, err := s.Counters(1)
	if err != nil {
		t.Fatalf("counters lost with the corrupt accounts file: %v", err)
	}
	if counters.CurrentStreak != 4 {
		t.Errorf("got %+v", counters)
	}
	if _, err := os.Stat(filepath.Join(dir, "accounts.json")); !os.IsNotExist(err) {
		t.Error("corrupt file should be removed")
	}
}

func TestDuplicateBadgeConflicts(t *testing.T) {
	s := openStore(t, t.TempDir())

	badge := &models.UserBadge{UserID: 1, BadgeID: "streak_3", EarnedAt: time.Now()}
	if err := s.SaveUserBadge(badge); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := s.SaveUserBadge(&models.UserBadge{UserID: 1, BadgeID: "streak_3", EarnedAt: time.Now()})
	if !errors.Is(err, engine.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}

	// Same badge for another user is fine.
	if err := s.SaveUserBadge(&models.UserBadge{UserID: 2, BadgeID: "streak_3", EarnedAt: time.Now()}); err != nil {
		t.Errorf("other user: %v", err)
	}
}

func TestDuplicateCheckInDateConflicts(t *testing.T) {
	s := openStore(t, t.TempDir())

	if err := s.AddCheckInDate(1, "2025-03-10"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddCheckInDate(1, "2025-03-10"); !errors.Is(err, engine.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
}

func TestTrimCheckInDatesKeepsNewest(t *testing.T) {
	s := openStore(t, t.TempDir())

	days := []string{"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04"}
	for _, d := range days {
		if err := s.AddCheckInDate(1, d); err != nil {
			t.Fatalf("add %s: %v", d, err)
		}
	}
	if err := s.TrimCheckInDates(1, 2); err != nil {
		t.Fatalf("trim: %v", err)
	}

	dates, err := s.CheckInDates(1)
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if len(dates) != 2 || dates[0] != "2025-03-03" || dates[1] != "2025-03-04" {
		t.Errorf("got %v, want the two newest", dates)
	}
}

func TestMistakesSortedWorstFirst(t *testing.T) {
	s := openStore(t, t.TempDir())
	now := time.Now()

	seed := []models.Mistake{
		{UserID: 1, QuestionID: "mild", WrongCount: 1, LastAttempt: now},
		{UserID: 1, QuestionID: "worst", WrongCount: 5, LastAttempt: now.Add(-time.Hour)},
		{UserID: 1, QuestionID: "recent", WrongCount: 1, LastAttempt: now.Add(time.Hour)},
	}
	for i := range seed {
		if err := s.SaveMistake(&seed[i]); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	mistakes, err := s.Mistakes(1, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"worst", "recent", "mild"}
	for i, id := range want {
		if mistakes[i].QuestionID != id {
			t.Fatalf("position %d: got %s, want %s", i, mistakes[i].QuestionID, id)
		}
	}
}

func TestPointsHistoryPerUser(t *testing.T) {
	s := openStore(t, t.TempDir())

	for i, userID := range []uint{1, 2, 1} {
		entry := &models.PointsHistoryEntry{UserID: userID, Amount: i + 1, Reason: "seed", CreatedAt: time.Now()}
		if err := s.AppendPointsHistory(entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := s.PointsHistory(1, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 || entries[0].Amount != 3 || entries[1].Amount != 1 {
		t.Errorf("got %+v", entries)
	}
}

func TestDeleteProgress(t *testing.T) {
	s := openStore(t, t.TempDir())

	if err := s.SaveProgress(&models.CourseProgress{UserID: 1, CourseID: "salutations", Score: 80}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.DeleteProgress(1, "salutations"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Progress(1, "salutations"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	// Deleting a missing record is not an error.
	if err := s.DeleteProgress(1, "salutations"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}
