// engine/store.go - persistence port implemented by database and localstore
package engine

import (
	"parlez/models"
)

// Store is the persistence port the engine runs against. Two adapters
// implement it: the GORM/PostgreSQL one for the server deployment and the
// JSON-file one for the offline client. Compound mutations run inside
// Atomic; on error every effect of the callback is rolled back.
//
// Lookup methods return ErrNotFound (wrapped) when no row exists.
type Store interface {
	Atomic(fn func(Store) error) error

	PointsAccount(userID uint) (*models.PointsAccount, error)
	SavePointsAccount(acct *models.PointsAccount) error
	AppendPointsHistory(entry *models.PointsHistoryEntry) error
	PointsHistory(userID uint, limit int) ([]models.PointsHistoryEntry, error)

	Mistake(userID uint, questionID string) (*models.Mistake, error)
	SaveMistake(m *models.Mistake) error
	Mistakes(userID uint, unreviewedOnly bool) ([]models.Mistake, error)

	CheckInDates(userID uint) ([]string, error)
	AddCheckInDate(userID uint, day string) error
	TrimCheckInDates(userID uint, keep int) error

	Counters(userID uint) (*models.UserCounters, error)
	SaveCounters(c *models.UserCounters) error

	HasBadge(userID uint, badgeID string) (bool, error)
	SaveUserBadge(b *models.UserBadge) error
	UserBadges(userID uint) ([]models.UserBadge, error)

	Progress(userID uint, courseID string) (*models.CourseProgress, error)
	SaveProgress(p *models.CourseProgress) error
	AllProgress(userID uint) ([]models.CourseProgress, error)
	DeleteProgress(userID uint, courseID string) error
}
