// models/checkin.go
package models

// CheckIn is one calendar day of presence for a user. Date uses the
// "2006-01-02" day-key format in the reference timezone (UTC).
type CheckIn struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_checkin_date" json:"user_id"`
	Date   string `gorm:"column:checkin_date;not null;size:10;uniqueIndex:idx_user_checkin_date" json:"date"`
}

func (CheckIn) TableName() string {
	return "user_checkins"
}

// UserCounters carries the per-user aggregates that are not derivable from
// other rows: streak state plus the collaborator-reported vocabulary and
// conversation counts the badge rules read.
type UserCounters struct {
	ID                 uint   `gorm:"primaryKey" json:"-"`
	UserID             uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	CurrentStreak      int    `gorm:"default:0" json:"current_streak"`
	MaxStreak          int    `gorm:"default:0" json:"max_streak"`
	LastCheckIn        string `gorm:"size:10" json:"last_check_in"`
	WordsLearned       int    `gorm:"default:0" json:"words_learned"`
	ConversationRounds int    `gorm:"default:0" json:"conversation_rounds"`
}

func (UserCounters) TableName() string {
	return "user_counters"
}
