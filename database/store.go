// database/store.go - engine.Store adapter over gorm
package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"parlez/engine"
	"parlez/models"
)

// Store adapts a gorm connection to the engine's persistence port. Atomic
// runs the callback inside one transaction, so a compound mutation (badge +
// points + history, check-in + streak + points, ...) commits or rolls back
// as a whole. Per-row locking serializes same-user operations; two
// simultaneous check-ins resolve as one success and one conflict.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Atomic(fn func(engine.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// mapErr translates gorm errors into the engine taxonomy.
func mapErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, engine.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, engine.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func (s *Store) PointsAccount(userID uint) (*models.PointsAccount, error) {
	var acct models.PointsAccount
	if err := s.db.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		return nil, mapErr(err, "points account")
	}
	return &acct, nil
}

func (s *Store) SavePointsAccount(acct *models.PointsAccount) error {
	if acct.ID == 0 {
		return mapErr(s.db.Create(acct).Error, "create points account")
	}
	return mapErr(s.db.Save(acct).Error, "save points account")
}

func (s *Store) AppendPointsHistory(entry *models.PointsHistoryEntry) error {
	return mapErr(s.db.Create(entry).Error, "append points history")
}

func (s *Store) PointsHistory(userID uint, limit int) ([]models.PointsHistoryEntry, error) {
	var entries []models.PointsHistoryEntry
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, mapErr(err, "points history")
	}
	return entries, nil
}

func (s *Store) Mistake(userID uint, questionID string) (*models.Mistake, error) {
	var m models.Mistake
	if err := s.db.Where("user_id = ? AND question_id = ?", userID, questionID).First(&m).Error; err != nil {
		return nil, mapErr(err, "mistake")
	}
	return &m, nil
}

func (s *Store) SaveMistake(m *models.Mistake) error {
	if m.ID == 0 {
		return mapErr(s.db.Create(m).Error, "create mistake")
	}
	return mapErr(s.db.Save(m).Error, "save mistake")
}

func (s *Store) Mistakes(userID uint, unreviewedOnly bool) ([]models.Mistake, error) {
	query := s.db.Where("user_id = ?", userID)
	if unreviewedOnly {
		query = query.Where("reviewed = ?", false)
	}

	var mistakes []models.Mistake
	err := query.Order("wrong_count DESC, last_attempt DESC").Find(&mistakes).Error
	if err != nil {
		return nil, mapErr(err, "mistakes")
	}
	return mistakes, nil
}

func (s *Store) CheckInDates(userID uint) ([]string, error) {
	var dates []string
	err := s.db.Model(&models.CheckIn{}).
		Where("user_id = ?", userID).
		Order("checkin_date ASC").
		Pluck("checkin_date", &dates).Error
	if err != nil {
		return nil, mapErr(err, "check-in dates")
	}
	return dates, nil
}

func (s *Store) AddCheckInDate(userID uint, day string) error {
	checkin := models.CheckIn{UserID: userID, Date: day}
	return mapErr(s.db.Create(&checkin).Error, "add check-in")
}

func (s *Store) TrimCheckInDates(userID uint, keep int) error {
	dates, err := s.CheckInDates(userID)
	if err != nil {
		return err
	}
	if len(dates) <= keep {
		return nil
	}

	cutoff := dates[len(dates)-keep]
	err = s.db.Where("user_id = ? AND checkin_date < ?", userID, cutoff).
		Delete(&models.CheckIn{}).Error
	return mapErr(err, "trim check-ins")
}

func (s *Store) Counters(userID uint) (*models.UserCounters, error) {
	var c models.UserCounters
	if err := s.db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, mapErr(err, "user counters")
	}
	return &c, nil
}

func (s *Store) SaveCounters(c *models.UserCounters) error {
	if c.ID == 0 {
		return mapErr(s.db.Create(c).Error, "create user counters")
	}
	return mapErr(s.db.Save(c).Error, "save user counters")
}

func (s *Store) HasBadge(userID uint, badgeID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, mapErr(err, "badge lookup")
	}
	return count > 0, nil
}

func (s *Store) SaveUserBadge(b *models.UserBadge) error {
	return mapErr(s.db.Create(b).Error, "award badge")
}

func (s *Store) UserBadges(userID uint) ([]models.UserBadge, error) {
	var badges []models.UserBadge
	err := s.db.Where("user_id = ?", userID).Order("earned_at DESC").Find(&badges).Error
	if err != nil {
		return nil, mapErr(err, "user badges")
	}
	return badges, nil
}

func (s *Store) Progress(userID uint, courseID string) (*models.CourseProgress, error) {
	var p models.CourseProgress
	if err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&p).Error; err != nil {
		return nil, mapErr(err, "course progress")
	}
	return &p, nil
}

func (s *Store) SaveProgress(p *models.CourseProgress) error {
	if p.ID == 0 {
		return mapErr(s.db.Create(p).Error, "create course progress")
	}
	return mapErr(s.db.Save(p).Error, "save course progress")
}

func (s *Store) AllProgress(userID uint) ([]models.CourseProgress, error) {
	var progress []models.CourseProgress
	err := s.db.Where("user_id = ?", userID).Find(&progress).Error
	if err != nil {
		return nil, mapErr(err, "all course progress")
	}
	return progress, nil
}

func (s *Store) DeleteProgress(userID uint, courseID string) error {
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.CourseProgress{}).Error
	return mapErr(err, "delete course progress")
}
