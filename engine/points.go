// engine/points.go - PointsLedger
package engine

import (
	"errors"

	"parlez/models"
)

// PointsSummary is what callers see: the two totals with the day-rollover
// rule already applied.
type PointsSummary struct {
	Total int `json:"total"`
	Today int `json:"today"`
}

// AddPoints applies one point delta and appends a history entry. The daily
// total resets when the account was last touched on an earlier calendar day;
// the grand total never resets.
func (e *Engine) AddPoints(userID uint, amount int, reason string) (*PointsSummary, error) {
	if reason == "" {
		return nil, validationf("points reason is required")
	}

	var summary *PointsSummary
	err := e.store.Atomic(func(s Store) error {
		var err error
		summary, err = e.addPointsTx(s, userID, amount, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// addPointsTx is the in-transaction form used by compound operations
// (check-in, review bonus, badge award) so the grant commits or rolls back
// with them.
func (e *Engine) addPointsTx(s Store, userID uint, amount int, reason string) (*PointsSummary, error) {
	now := e.Clock()

	acct, err := s.PointsAccount(userID)
	switch {
	case errors.Is(err, ErrNotFound):
		acct = &models.PointsAccount{UserID: userID}
	case err != nil:
		return nil, err
	default:
		if !SameDay(acct.LastUpdated, now) {
			acct.DailyPoints = 0
		}
	}

	acct.TotalPoints += amount
	acct.DailyPoints += amount
	acct.LastUpdated = now

	if err := s.SavePointsAccount(acct); err != nil {
		return nil, err
	}

	entry := &models.PointsHistoryEntry{
		UserID:    userID,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: now,
	}
	if err := s.AppendPointsHistory(entry); err != nil {
		return nil, err
	}

	return &PointsSummary{Total: acct.TotalPoints, Today: acct.DailyPoints}, nil
}

// GetPoints reads the totals. The rollover is presentation-only here: a GET
// on a new day reports today=0 but does not touch the stored row.
func (e *Engine) GetPoints(userID uint) (*PointsSummary, error) {
	acct, err := e.store.PointsAccount(userID)
	if errors.Is(err, ErrNotFound) {
		return &PointsSummary{}, nil
	}
	if err != nil {
		return nil, err
	}

	today := acct.DailyPoints
	if !SameDay(acct.LastUpdated, e.Clock()) {
		today = 0
	}
	return &PointsSummary{Total: acct.TotalPoints, Today: today}, nil
}

// PointsHistory returns the most recent entries, newest first.
func (e *Engine) PointsHistory(userID uint, limit int) ([]models.PointsHistoryEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return e.store.PointsHistory(userID, limit)
}
