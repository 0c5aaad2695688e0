// models/mistake.go
package models

import (
	"time"
)

// Mistake tracks wrong attempts for one question. Every new wrong answer
// bumps WrongCount and clears Reviewed; an explicit review flips Reviewed
// back to true.
type Mistake struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionID    string     `gorm:"not null;size:200;uniqueIndex:idx_user_question" json:"question_id"`
	ExerciseType  string     `gorm:"size:20" json:"exercise_type"`
	Question      string     `gorm:"type:text" json:"question"`
	UserAnswer    string     `gorm:"type:text" json:"user_answer"`
	CorrectAnswer string     `gorm:"type:text" json:"correct_answer"`
	WrongCount    int        `gorm:"default:1" json:"wrong_count"`
	Reviewed      bool       `gorm:"default:false" json:"reviewed"`
	LastAttempt   time.Time  `json:"last_attempt"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

func (Mistake) TableName() string {
	return "user_mistakes"
}
