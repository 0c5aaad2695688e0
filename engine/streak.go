// engine/streak.go - StreakTracker
package engine

import (
	"errors"

	"parlez/models"
)

// CheckInInfo is the streak state a view renders.
type CheckInInfo struct {
	CurrentStreak  int      `json:"current_streak"`
	MaxStreak      int      `json:"max_streak"`
	CheckedInToday bool     `json:"checked_in_today"`
	Dates          []string `json:"dates"`
	PointsAwarded  int      `json:"points_awarded,omitempty"`
}

// CheckIn records today's visit. One check-in per calendar day: a second
// call the same day returns ErrAlreadyCheckedIn with no state change. The
// streak continues when yesterday is present, otherwise it restarts at 1;
// there is no separate "streak broken" signal.
func (e *Engine) CheckIn(userID uint) (*CheckInInfo, error) {
	var info *CheckInInfo

	err := e.store.Atomic(func(s Store) error {
		today := DayKey(e.Clock())

		dates, err := s.CheckInDates(userID)
		if err != nil {
			return err
		}
		for _, d := range dates {
			if d == today {
				return ErrAlreadyCheckedIn
			}
		}

		counters, err := e.countersTx(s, userID)
		if err != nil {
			return err
		}

		yesterday := PrevDayKey(today)
		continued := false
		for _, d := range dates {
			if d == yesterday {
				continued = true
				break
			}
		}
		if continued {
			counters.CurrentStreak++
		} else {
			counters.CurrentStreak = 1
		}
		if counters.CurrentStreak > counters.MaxStreak {
			counters.MaxStreak = counters.CurrentStreak
		}
		counters.LastCheckIn = today

		if err := s.AddCheckInDate(userID, today); err != nil {
			return err
		}
		if err := s.TrimCheckInDates(userID, CheckInHistoryDays); err != nil {
			return err
		}
		if err := s.SaveCounters(counters); err != nil {
			return err
		}
		if _, err := e.addPointsTx(s, userID, PointsDailyCheckIn, "daily check-in"); err != nil {
			return err
		}

		dates = append(dates, today)
		if len(dates) > CheckInHistoryDays {
			dates = dates[len(dates)-CheckInHistoryDays:]
		}

		info = &CheckInInfo{
			CurrentStreak:  counters.CurrentStreak,
			MaxStreak:      counters.MaxStreak,
			CheckedInToday: true,
			Dates:          dates,
			PointsAwarded:  PointsDailyCheckIn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.notify(userID, AwardEvent{Type: "points", Points: PointsDailyCheckIn, Reason: "daily check-in"})
	return info, nil
}

// GetCheckInInfo is the read-only view of the streak state.
func (e *Engine) GetCheckInInfo(userID uint) (*CheckInInfo, error) {
	dates, err := e.store.CheckInDates(userID)
	if err != nil {
		return nil, err
	}

	counters, err := e.countersTx(e.store, userID)
	if err != nil {
		return nil, err
	}

	today := DayKey(e.Clock())
	checked := false
	for _, d := range dates {
		if d == today {
			checked = true
			break
		}
	}

	return &CheckInInfo{
		CurrentStreak:  counters.CurrentStreak,
		MaxStreak:      counters.MaxStreak,
		CheckedInToday: checked,
		Dates:          dates,
	}, nil
}

// countersTx loads the per-user counters row, creating an empty one in
// memory when absent.
func (e *Engine) countersTx(s Store, userID uint) (*models.UserCounters, error) {
	counters, err := s.Counters(userID)
	if errors.Is(err, ErrNotFound) {
		return &models.UserCounters{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return counters, nil
}
