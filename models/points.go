// models/points.go
package models

import (
	"time"
)

// PointsAccount holds the two running totals for a user. DailyPoints is only
// meaningful for the calendar day of LastUpdated; a read or write on a later
// day treats it as zero before applying anything.
type PointsAccount struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPoints int       `gorm:"default:0" json:"total_points"`
	DailyPoints int       `gorm:"default:0" json:"daily_points"`
	LastUpdated time.Time `json:"last_updated"`
}

func (PointsAccount) TableName() string {
	return "user_points"
}

// PointsHistoryEntry is append-only; entries are never mutated.
type PointsHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"not null;size:200" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (PointsHistoryEntry) TableName() string {
	return "points_history"
}
