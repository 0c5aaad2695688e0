// engine/badges.go - BadgeEngine
package engine

import (
	"time"

	"parlez/catalog"
	"parlez/models"
)

// Stats is the aggregate the badge rules are evaluated against. It is
// recomputed from the authoritative rows on every evaluation rather than
// cached durably.
type Stats struct {
	CurrentStreak      int `json:"current_streak"`
	MaxStreak          int `json:"max_streak"`
	WordsLearned       int `json:"words_learned"`
	ConversationRounds int `json:"conversation_rounds"`
	CoursesCompleted   int `json:"courses_completed"`
	PerfectCourses     int `json:"perfect_courses"`
	CompletedToday     int `json:"completed_today"`
}

// BadgeStatus pairs a catalog entry with its earned state for one user.
type BadgeStatus struct {
	catalog.Badge
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// ComputeStats rebuilds the aggregate for one user.
func (e *Engine) ComputeStats(userID uint) (*Stats, error) {
	return e.computeStatsTx(e.store, userID)
}

func (e *Engine) computeStatsTx(s Store, userID uint) (*Stats, error) {
	counters, err := e.countersTx(s, userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.AllProgress(userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		CurrentStreak:      counters.CurrentStreak,
		MaxStreak:          counters.MaxStreak,
		WordsLearned:       counters.WordsLearned,
		ConversationRounds: counters.ConversationRounds,
	}

	today := DayKey(e.Clock())
	for _, p := range progress {
		if !p.Completed {
			continue
		}
		stats.CoursesCompleted++
		if p.Score >= 100 {
			stats.PerfectCourses++
		}
		if p.CompletedAt != nil && DayKey(*p.CompletedAt) == today {
			stats.CompletedToday++
		}
	}

	return stats, nil
}

// EvaluateBadges checks every catalog rule against the current stats and
// awards whatever newly qualifies. Each award happens exactly once per
// (user, badge) and grants the badge bonus in the same transaction. Already
// awarded badges are never revoked.
func (e *Engine) EvaluateBadges(userID uint) ([]catalog.Badge, error) {
	var awarded []catalog.Badge

	err := e.store.Atomic(func(s Store) error {
		var err error
		awarded, err = e.evaluateBadgesTx(s, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, b := range awarded {
		e.notify(userID, AwardEvent{Type: "badge", BadgeID: b.ID, Name: b.Name, Points: b.Points})
	}
	return awarded, nil
}

func (e *Engine) evaluateBadgesTx(s Store, userID uint) ([]catalog.Badge, error) {
	stats, err := e.computeStatsTx(s, userID)
	if err != nil {
		return nil, err
	}

	var awarded []catalog.Badge
	for _, b := range e.badges.All() {
		if !qualifies(b, stats) {
			continue
		}

		earned, err := s.HasBadge(userID, b.ID)
		if err != nil {
			return nil, err
		}
		if earned {
			continue
		}

		ub := &models.UserBadge{UserID: userID, BadgeID: b.ID, EarnedAt: e.Clock()}
		if err := s.SaveUserBadge(ub); err != nil {
			return nil, err
		}
		if _, err := e.addPointsTx(s, userID, b.Points, "badge: "+b.Name); err != nil {
			return nil, err
		}
		awarded = append(awarded, b)
	}

	return awarded, nil
}

func qualifies(b catalog.Badge, stats *Stats) bool {
	switch b.Rule {
	case catalog.RuleStreak:
		return stats.CurrentStreak >= b.Threshold
	case catalog.RuleWords:
		return stats.WordsLearned >= b.Threshold
	case catalog.RuleConversations:
		return stats.ConversationRounds >= b.Threshold
	case catalog.RulePerfect:
		return stats.PerfectCourses >= b.Threshold
	case catalog.RuleFirstLesson:
		return stats.CoursesCompleted >= b.Threshold
	case catalog.RuleDailyLessons:
		return stats.CompletedToday >= b.Threshold
	}
	return false
}

// UserBadges returns the whole catalog annotated with earned state.
func (e *Engine) UserBadges(userID uint) ([]BadgeStatus, error) {
	earned, err := e.store.UserBadges(userID)
	if err != nil {
		return nil, err
	}

	earnedAt := make(map[string]time.Time, len(earned))
	for _, ub := range earned {
		earnedAt[ub.BadgeID] = ub.EarnedAt
	}

	all := e.badges.All()
	out := make([]BadgeStatus, 0, len(all))
	for _, b := range all {
		status := BadgeStatus{Badge: b}
		if at, ok := earnedAt[b.ID]; ok {
			status.Earned = true
			at := at
			status.EarnedAt = &at
		}
		out = append(out, status)
	}
	return out, nil
}

// RecordVocabulary bumps the learned-word counter reported by the course
// content collaborator and re-checks the word badges.
func (e *Engine) RecordVocabulary(userID uint, words int) ([]catalog.Badge, error) {
	if words <= 0 {
		return nil, validationf("word count must be positive")
	}
	return e.bumpCounter(userID, func(c *models.UserCounters) {
		c.WordsLearned += words
	})
}

// RecordConversation bumps the tutor conversation-round counter and
// re-checks the conversation badges.
func (e *Engine) RecordConversation(userID uint, rounds int) ([]catalog.Badge, error) {
	if rounds <= 0 {
		return nil, validationf("round count must be positive")
	}
	return e.bumpCounter(userID, func(c *models.UserCounters) {
		c.ConversationRounds += rounds
	})
}

func (e *Engine) bumpCounter(userID uint, apply func(*models.UserCounters)) ([]catalog.Badge, error) {
	var awarded []catalog.Badge

	err := e.store.Atomic(func(s Store) error {
		counters, err := e.countersTx(s, userID)
		if err != nil {
			return err
		}
		apply(counters)
		if err := s.SaveCounters(counters); err != nil {
			return err
		}

		awarded, err = e.evaluateBadgesTx(s, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, b := range awarded {
		e.notify(userID, AwardEvent{Type: "badge", BadgeID: b.ID, Name: b.Name, Points: b.Points})
	}
	return awarded, nil
}
