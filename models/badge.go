// models/badge.go
package models

import (
	"time"
)

// UserBadge records a one-time award. Unique per (user, badge), never
// revoked even if the qualifying stat later drops below its threshold.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID  string    `gorm:"not null;size:50;uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
