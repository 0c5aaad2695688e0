// engine/mistakes.go - MistakeBook
package engine

import (
	"errors"

	"parlez/models"
)

// MistakePayload carries what gets remembered about a wrong answer.
type MistakePayload struct {
	QuestionID    string `json:"question_id"`
	ExerciseType  string `json:"exercise_type"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// RecordMistake upserts the mistake for one question: first wrong answer
// creates it with WrongCount=1, later ones bump the count and clear the
// reviewed flag.
func (e *Engine) RecordMistake(userID uint, payload MistakePayload) (*models.Mistake, error) {
	if payload.QuestionID == "" {
		return nil, validationf("question id is required")
	}

	var m *models.Mistake
	err := e.store.Atomic(func(s Store) error {
		var err error
		m, err = e.recordMistakeTx(s, userID, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (e *Engine) recordMistakeTx(s Store, userID uint, payload MistakePayload) (*models.Mistake, error) {
	now := e.Clock()

	m, err := s.Mistake(userID, payload.QuestionID)
	switch {
	case errors.Is(err, ErrNotFound):
		m = &models.Mistake{
			UserID:        userID,
			QuestionID:    payload.QuestionID,
			ExerciseType:  payload.ExerciseType,
			Question:      payload.Question,
			CorrectAnswer: payload.CorrectAnswer,
			WrongCount:    1,
		}
	case err != nil:
		return nil, err
	default:
		m.WrongCount++
		m.Reviewed = false
		m.ReviewedAt = nil
	}

	m.UserAnswer = payload.UserAnswer
	m.LastAttempt = now

	if err := s.SaveMistake(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarkReviewed flips the reviewed flag and grants the review bonus. Calling
// it again while the record is still reviewed is a no-op: no error, no
// second grant.
func (e *Engine) MarkReviewed(userID uint, questionID string) (*models.Mistake, error) {
	if questionID == "" {
		return nil, validationf("question id is required")
	}

	var m *models.Mistake
	granted := false

	err := e.store.Atomic(func(s Store) error {
		var err error
		m, err = s.Mistake(userID, questionID)
		if err != nil {
			return err
		}
		if m.Reviewed {
			return nil
		}

		now := e.Clock()
		m.Reviewed = true
		m.ReviewedAt = &now
		if err := s.SaveMistake(m); err != nil {
			return err
		}

		if _, err := e.addPointsTx(s, userID, PointsReviewMistake, "mistake reviewed"); err != nil {
			return err
		}
		granted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if granted {
		e.notify(userID, AwardEvent{Type: "points", Points: PointsReviewMistake, Reason: "mistake reviewed"})
	}
	return m, nil
}

// Mistakes lists the book, worst offenders first (wrong count, then most
// recent attempt).
func (e *Engine) Mistakes(userID uint, unreviewedOnly bool) ([]models.Mistake, error) {
	return e.store.Mistakes(userID, unreviewedOnly)
}
