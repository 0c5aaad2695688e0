// engine/stats.go - learning stats aggregate for the dashboard view
package engine

// LearningStats is the read-only aggregate the dashboard renders. It is
// recomputed from the authoritative rows on every call.
type LearningStats struct {
	Points             PointsSummary `json:"points"`
	CurrentStreak      int           `json:"current_streak"`
	MaxStreak          int           `json:"max_streak"`
	BadgesEarned       int           `json:"badges_earned"`
	MistakesUnreviewed int           `json:"mistakes_unreviewed"`
	CoursesCompleted   int           `json:"courses_completed"`
	CoursesTotal       int           `json:"courses_total"`
	TimeSpent          int           `json:"time_spent"` // in seconds
	WordsLearned       int           `json:"words_learned"`
	ConversationRounds int           `json:"conversation_rounds"`
}

func (e *Engine) GetLearningStats(userID uint) (*LearningStats, error) {
	points, err := e.GetPoints(userID)
	if err != nil {
		return nil, err
	}

	stats, err := e.ComputeStats(userID)
	if err != nil {
		return nil, err
	}

	badges, err := e.store.UserBadges(userID)
	if err != nil {
		return nil, err
	}

	mistakes, err := e.store.Mistakes(userID, true)
	if err != nil {
		return nil, err
	}

	progress, err := e.store.AllProgress(userID)
	if err != nil {
		return nil, err
	}
	timeSpent := 0
	for _, p := range progress {
		timeSpent += p.TimeSpent
	}

	return &LearningStats{
		Points:             *points,
		CurrentStreak:      stats.CurrentStreak,
		MaxStreak:          stats.MaxStreak,
		BadgesEarned:       len(badges),
		MistakesUnreviewed: len(mistakes),
		CoursesCompleted:   stats.CoursesCompleted,
		CoursesTotal:       e.courses.Len(),
		TimeSpent:          timeSpent,
		WordsLearned:       stats.WordsLearned,
		ConversationRounds: stats.ConversationRounds,
	}, nil
}
