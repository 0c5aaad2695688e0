// catalog/badges.go - static badge catalog
package catalog

import (
	"fmt"
)

// Badge rule kinds. Each compares one aggregate stat against Threshold.
const (
	RuleStreak        = "streak"         // current streak days
	RuleWords         = "words"          // vocabulary entries learned
	RuleConversations = "conversations"  // tutor conversation rounds
	RulePerfect       = "perfect_score"  // courses finished with score 100
	RuleFirstLesson   = "first_lesson"   // courses completed
	RuleDailyLessons  = "daily_lessons"  // courses completed today
)

// Badge is a static catalog entry. Points is the one-time bonus granted on
// award.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Rule        string `json:"-"`
	Threshold   int    `json:"-"`
}

type Badges struct {
	ordered []Badge
	byID    map[string]Badge
}

var defaultBadges = []Badge{
	{ID: "streak_3", Name: "Bien Parti", Description: "Check in 3 days in a row", Icon: "🔥", Points: 15, Rule: RuleStreak, Threshold: 3},
	{ID: "streak_7", Name: "Une Semaine", Description: "Check in 7 days in a row", Icon: "📅", Points: 35, Rule: RuleStreak, Threshold: 7},
	{ID: "streak_30", Name: "Un Mois Entier", Description: "Check in 30 days in a row", Icon: "🏆", Points: 150, Rule: RuleStreak, Threshold: 30},
	{ID: "words_100", Name: "Cent Mots", Description: "Learn 100 vocabulary words", Icon: "📖", Points: 50, Rule: RuleWords, Threshold: 100},
	{ID: "chat_50", Name: "Causeur", Description: "Exchange 50 rounds with the tutor", Icon: "💬", Points: 50, Rule: RuleConversations, Threshold: 50},
	{ID: "perfect_score", Name: "Sans Faute", Description: "Finish a course with a perfect score", Icon: "⭐", Points: 30, Rule: RulePerfect, Threshold: 1},
	{ID: "first_lesson", Name: "Premier Pas", Description: "Complete your first course", Icon: "🎓", Points: 10, Rule: RuleFirstLesson, Threshold: 1},
	{ID: "fast_learner", Name: "Esprit Vif", Description: "Complete 3 courses in one day", Icon: "⚡", Points: 40, Rule: RuleDailyLessons, Threshold: 3},
}

// LoadBadges validates and freezes the default catalog.
func LoadBadges() (*Badges, error) {
	return NewBadges(defaultBadges)
}

func NewBadges(list []Badge) (*Badges, error) {
	byID := make(map[string]Badge, len(list))
	for _, b := range list {
		if b.ID == "" || b.Rule == "" {
			return nil, fmt.Errorf("badge %q: id and rule are required", b.ID)
		}
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate badge id %q", b.ID)
		}
		if b.Threshold <= 0 {
			return nil, fmt.Errorf("badge %q: threshold must be positive", b.ID)
		}
		if b.Points < 0 {
			return nil, fmt.Errorf("badge %q: points must not be negative", b.ID)
		}
		byID[b.ID] = b
	}

	ordered := make([]Badge, len(list))
	copy(ordered, list)

	return &Badges{ordered: ordered, byID: byID}, nil
}

func (b *Badges) All() []Badge {
	out := make([]Badge, len(b.ordered))
	copy(out, b.ordered)
	return out
}

func (b *Badges) ByID(id string) (Badge, bool) {
	badge, ok := b.byID[id]
	return badge, ok
}
