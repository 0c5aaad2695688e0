// localstore/store.go - JSON-file persistence for the offline client
package localstore

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"parlez/engine"
	"parlez/models"
)

// data is the whole local state, one file per subsystem key (the
// localStorage layout of the original client).
type data struct {
	Accounts map[string]models.PointsAccount `json:"accounts"`
	History  []models.PointsHistoryEntry     `json:"history"`
	Mistakes []models.Mistake                `json:"mistakes"`
	CheckIns map[string][]string             `json:"checkins"`
	Counters map[string]models.UserCounters  `json:"counters"`
	Badges   []models.UserBadge              `json:"badges"`
	Progress []models.CourseProgress         `json:"progress"`
}

// Store implements engine.Store over JSON files in a directory. It is meant
// for the single-user offline client: operations are synchronous, compound
// mutations roll back in memory on error and only a successful Atomic run
// touches the disk. A file that fails to parse is discarded and that
// subsystem restarts empty; the rest of the state survives.
type Store struct {
	mu   sync.Mutex
	dir  string
	d    *data
	root bool
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local store dir: %w", err)
	}

	s := &Store{dir: dir, d: &data{}, root: true}
	s.loadKey("accounts", &s.d.Accounts)
	s.loadKey("history", &s.d.History)
	s.loadKey("mistakes", &s.d.Mistakes)
	s.loadKey("checkins", &s.d.CheckIns)
	s.loadKey("counters", &s.d.Counters)
	s.loadKey("badges", &s.d.Badges)
	s.loadKey("progress", &s.d.Progress)

	if s.d.Accounts == nil {
		s.d.Accounts = map[string]models.PointsAccount{}
	}
	if s.d.CheckIns == nil {
		s.d.CheckIns = map[string][]string{}
	}
	if s.d.Counters == nil {
		s.d.Counters = map[string]models.UserCounters{}
	}
	return s, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// loadKey reads one subsystem file. Corrupt JSON resets just that key.
func (s *Store) loadKey(key string, v interface{}) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		log.Printf("local store: cannot read %s: %v", key, err)
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("local store: %s is corrupt, resetting: %v", key, err)
		os.Remove(s.path(key))
	}
}

func (s *Store) saveKey(key string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), raw, 0o644)
}

func (s *Store) flush() error {
	for key, v := range map[string]interface{}{
		"accounts": s.d.Accounts,
		"history":  s.d.History,
		"mistakes": s.d.Mistakes,
		"checkins": s.d.CheckIns,
		"counters": s.d.Counters,
		"badges":   s.d.Badges,
		"progress": s.d.Progress,
	} {
		if err := s.saveKey(key, v); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) lock() func() {
	if !s.root {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Atomic runs fn against the in-memory state; on error the state is
// restored from a snapshot and nothing reaches the disk.
func (s *Store) Atomic(fn func(engine.Store) error) error {
	if !s.root {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := json.Marshal(s.d)
	if err != nil {
		return err
	}

	child := &Store{dir: s.dir, d: s.d}
	if err := fn(child); err != nil {
		restored := &data{}
		if uerr := json.Unmarshal(snapshot, restored); uerr == nil {
			*s.d = *restored
		}
		return err
	}
	return s.flush()
}

func ukey(userID uint) string {
	return fmt.Sprintf("%d", userID)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, engine.ErrNotFound)
}

func (s *Store) PointsAccount(userID uint) (*models.PointsAccount, error) {
	defer s.lock()()
	acct, ok := s.d.Accounts[ukey(userID)]
	if !ok {
		return nil, notFound("points account")
	}
	out := acct
	return &out, nil
}

func (s *Store) SavePointsAccount(acct *models.PointsAccount) error {
	defer s.lock()()
	s.d.Accounts[ukey(acct.UserID)] = *acct
	return nil
}

func (s *Store) AppendPointsHistory(entry *models.PointsHistoryEntry) error {
	defer s.lock()()
	entry.ID = uint(len(s.d.History) + 1)
	s.d.History = append(s.d.History, *entry)
	return nil
}

func (s *Store) PointsHistory(userID uint, limit int) ([]models.PointsHistoryEntry, error) {
	defer s.lock()()
	var out []models.PointsHistoryEntry
	for i := len(s.d.History) - 1; i >= 0 && len(out) < limit; i-- {
		if s.d.History[i].UserID == userID {
			out = append(out, s.d.History[i])
		}
	}
	return out, nil
}

func (s *Store) Mistake(userID uint, questionID string) (*models.Mistake, error) {
	defer s.lock()()
	for i := range s.d.Mistakes {
		m := s.d.Mistakes[i]
		if m.UserID == userID && m.QuestionID == questionID {
			out := m
			return &out, nil
		}
	}
	return nil, notFound("mistake")
}

func (s *Store) SaveMistake(m *models.Mistake) error {
	defer s.lock()()
	for i := range s.d.Mistakes {
		if s.d.Mistakes[i].UserID == m.UserID && s.d.Mistakes[i].QuestionID == m.QuestionID {
			m.ID = s.d.Mistakes[i].ID
			s.d.Mistakes[i] = *m
			return nil
		}
	}
	m.ID = uint(len(s.d.Mistakes) + 1)
	s.d.Mistakes = append(s.d.Mistakes, *m)
	return nil
}

func (s *Store) Mistakes(userID uint, unreviewedOnly bool) ([]models.Mistake, error) {
	defer s.lock()()
	var out []models.Mistake
	for _, m := range s.d.Mistakes {
		if m.UserID != userID {
			continue
		}
		if unreviewedOnly && m.Reviewed {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WrongCount != out[j].WrongCount {
			return out[i].WrongCount > out[j].WrongCount
		}
		return out[i].LastAttempt.After(out[j].LastAttempt)
	})
	return out, nil
}

func (s *Store) CheckInDates(userID uint) ([]string, error) {
	defer s.lock()()
	dates := s.d.CheckIns[ukey(userID)]
	out := make([]string, len(dates))
	copy(out, dates)
	sort.Strings(out)
	return out, nil
}

func (s *Store) AddCheckInDate(userID uint, day string) error {
	defer s.lock()()
	key := ukey(userID)
	for _, d := range s.d.CheckIns[key] {
		if d == day {
			return fmt.Errorf("check-in for %s: %w", day, engine.ErrConflict)
		}
	}
	s.d.CheckIns[key] = append(s.d.CheckIns[key], day)
	return nil
}

func (s *Store) TrimCheckInDates(userID uint, keep int) error {
	defer s.lock()()
	key := ukey(userID)
	dates := s.d.CheckIns[key]
	if len(dates) <= keep {
		return nil
	}
	sort.Strings(dates)
	s.d.CheckIns[key] = dates[len(dates)-keep:]
	return nil
}

func (s *Store) Counters(userID uint) (*models.UserCounters, error) {
	defer s.lock()()
	c, ok := s.d.Counters[ukey(userID)]
	if !ok {
		return nil, notFound("user counters")
	}
	out := c
	return &out, nil
}

func (s *Store) SaveCounters(c *models.UserCounters) error {
	defer s.lock()()
	s.d.Counters[ukey(c.UserID)] = *c
	return nil
}

func (s *Store) HasBadge(userID uint, badgeID string) (bool, error) {
	defer s.lock()()
	for _, b := range s.d.Badges {
		if b.UserID == userID && b.BadgeID == badgeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveUserBadge(b *models.UserBadge) error {
	defer s.lock()()
	for _, existing := range s.d.Badges {
		if existing.UserID == b.UserID && existing.BadgeID == b.BadgeID {
			return fmt.Errorf("badge %s already earned: %w", b.BadgeID, engine.ErrConflict)
		}
	}
	b.ID = uint(len(s.d.Badges) + 1)
	s.d.Badges = append(s.d.Badges, *b)
	return nil
}

func (s *Store) UserBadges(userID uint) ([]models.UserBadge, error) {
	defer s.lock()()
	var out []models.UserBadge
	for _, b := range s.d.Badges {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) Progress(userID uint, courseID string) (*models.CourseProgress, error) {
	defer s.lock()()
	for i := range s.d.Progress {
		p := s.d.Progress[i]
		if p.UserID == userID && p.CourseID == courseID {
			out := p
			return &out, nil
		}
	}
	return nil, notFound("course progress")
}

func (s *Store) SaveProgress(p *models.CourseProgress) error {
	defer s.lock()()
	for i := range s.d.Progress {
		if s.d.Progress[i].UserID == p.UserID && s.d.Progress[i].CourseID == p.CourseID {
			p.ID = s.d.Progress[i].ID
			s.d.Progress[i] = *p
			return nil
		}
	}
	p.ID = uint(len(s.d.Progress) + 1)
	s.d.Progress = append(s.d.Progress, *p)
	return nil
}

func (s *Store) AllProgress(userID uint) ([]models.CourseProgress, error) {
	defer s.lock()()
	var out []models.CourseProgress
	for _, p := range s.d.Progress {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) DeleteProgress(userID uint, courseID string) error {
	defer s.lock()()
	for i := range s.d.Progress {
		if s.d.Progress[i].UserID == userID && s.d.Progress[i].CourseID == courseID {
			s.d.Progress = append(s.d.Progress[:i], s.d.Progress[i+1:]...)
			return nil
		}
	}
	return nil
}
