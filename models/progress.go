// models/progress.go
package models

import (
	"encoding/json"
	"time"
)

// CourseProgress is the per-course record for one user. Score only moves up,
// TimeSpent only accumulates and Completed is a one-way transition; the only
// way back to not-started is deleting the whole row.
type CourseProgress struct {
	ID                 uint       `gorm:"primaryKey" json:"-"`
	UserID             uint       `gorm:"not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID           string     `gorm:"not null;size:50;uniqueIndex:idx_user_course" json:"course_id"`
	Started            bool       `gorm:"default:false" json:"started"`
	Completed          bool       `gorm:"default:false" json:"completed"`
	Score              int        `gorm:"default:0" json:"score"`
	Attempts           int        `gorm:"default:0" json:"attempts"`
	TimeSpent          int        `gorm:"default:0" json:"time_spent"` // in seconds
	ExercisesCompleted string     `gorm:"type:text" json:"-"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	LastAttempt        time.Time  `json:"last_attempt"`
}

func (CourseProgress) TableName() string {
	return "user_progress"
}

// Exercises decodes the completed-exercise list. A corrupt or empty value
// reads as no exercises rather than an error.
func (p *CourseProgress) Exercises() []string {
	if p.ExercisesCompleted == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(p.ExercisesCompleted), &ids); err != nil {
		return nil
	}
	return ids
}

func (p *CourseProgress) SetExercises(ids []string) {
	if len(ids) == 0 {
		p.ExercisesCompleted = ""
		return
	}
	raw, _ := json.Marshal(ids)
	p.ExercisesCompleted = string(raw)
}
