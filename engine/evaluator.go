// engine/evaluator.go - AnswerEvaluator
package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/closestmatch"
)

// Per-question statuses. A status transition is the only thing that fires
// side effects; re-grading an unchanged answer is a no-op.
type Status string

const (
	StatusUnanswered Status = "unanswered"
	StatusCorrect    Status = "correct"
	StatusIncorrect  Status = "incorrect"
)

// Exercise kinds matching the three answer-key groups.
const (
	ExerciseFill   = "fill"
	ExerciseChoice = "choice"
	ExerciseMatch  = "match"
)

// AnswerKey is the parsed per-course key: fill-in and choice answers keyed
// by question letter, match answers keyed by digit.
type AnswerKey struct {
	Fill   map[string]string
	Choice map[string]string
	Match  map[string]string
}

// Total counts the questions the key covers.
func (k *AnswerKey) Total() int {
	return len(k.Fill) + len(k.Choice) + len(k.Match)
}

// ParseAnswerKey parses the embedded course annotation: the text after the
// "answer:" marker, three semicolon-separated groups in fixed order (fill,
// choice, match). Fill and choice entries are letter.value pairs, match
// entries are digit-LETTER pairs. Pairs are separated by commas.
//
//	answer: a.Paris, b.chat; a.B, b.A; 1-C, 2-A
func ParseAnswerKey(annotation string) (*AnswerKey, error) {
	text := strings.TrimSpace(annotation)
	if idx := strings.Index(strings.ToLower(text), "answer"); idx >= 0 {
		text = text[idx+len("answer"):]
		text = strings.TrimLeft(text, " \t:")
	}
	if text == "" {
		return nil, validationf("empty answer annotation")
	}

	groups := strings.Split(text, ";")
	if len(groups) > 3 {
		return nil, validationf("answer annotation has %d groups, want at most 3", len(groups))
	}

	key := &AnswerKey{
		Fill:   map[string]string{},
		Choice: map[string]string{},
		Match:  map[string]string{},
	}

	for i, group := range groups {
		for _, pair := range strings.Split(group, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}

			var sep string
			dst := key.Fill
			switch i {
			case 0:
				sep = "."
			case 1:
				sep, dst = ".", key.Choice
			case 2:
				sep, dst = "-", key.Match
			}

			parts := strings.SplitN(pair, sep, 2)
			if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
				return nil, validationf("malformed answer pair %q", pair)
			}
			dst[strings.ToLower(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
		}
	}

	if key.Total() == 0 {
		return nil, validationf("answer annotation has no questions")
	}
	return key, nil
}

// Inputs is the learner's current state of the whole exercise sheet, keyed
// the same way as the answer key. Absent or empty entries are unanswered.
type Inputs struct {
	Fill   map[string]string `json:"fill,omitempty"`
	Choice map[string]string `json:"choice,omitempty"`
	Match  map[string]string `json:"match,omitempty"`
}

// QuestionResult is the graded state of one question after an evaluation
// pass. Suggestion is only set for newly incorrect fill-in answers that are
// close to some accepted answer.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	Status     Status `json:"status"`
	Suggestion string `json:"suggestion,omitempty"`
}

// EvalResult is one evaluation pass over the whole sheet.
type EvalResult struct {
	Questions      []QuestionResult `json:"questions"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Score          int              `json:"score"`
	FullyAttempted bool             `json:"fully_attempted"`
	PointsDelta    int              `json:"points_delta"`
}

// Session tracks previous per-question statuses for one learner working
// through one course, which is what makes evaluation idempotent. Sessions
// are transient; points, mistakes and progress are the durable output.
//
// mu serializes evaluation passes: a double-submit must see the statuses
// the first pass committed, or both passes would fire the same effects.
type Session struct {
	UserID   uint
	CourseID string
	Key      *AnswerKey

	mu       sync.Mutex
	statuses map[string]Status
	matcher  *closestmatch.ClosestMatch
}

// NewSession opens an evaluation session against a course's answer key.
func (e *Engine) NewSession(userID uint, courseID string, key *AnswerKey) (*Session, error) {
	if key == nil || key.Total() == 0 {
		return nil, validationf("course has no answer key")
	}
	unlocked, err := e.IsCourseUnlocked(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, ErrCourseLocked
	}

	sess := &Session{
		UserID:   userID,
		CourseID: courseID,
		Key:      key,
		statuses: map[string]Status{},
	}

	if len(key.Fill) > 0 {
		values := make([]string, 0, len(key.Fill))
		for _, v := range key.Fill {
			values = append(values, v)
		}
		sess.matcher = closestmatch.New(values, []int{2})
	}
	return sess, nil
}

// Evaluate grades the learner's current inputs against the key. Only status
// transitions have effects: a first correct grants points, a new incorrect
// answer costs points and lands in the mistake book, clearing an answer has
// no point effect. All effects of one pass commit atomically.
func (e *Engine) Evaluate(sess *Session, inputs Inputs) (*EvalResult, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	type effect struct {
		points  int
		reason  string
		mistake *MistakePayload
	}

	result := &EvalResult{TotalQuestions: sess.Key.Total()}
	next := make(map[string]Status, sess.Key.Total())
	var effects []effect

	grade := func(kind string, answers, given map[string]string) {
		for _, k := range sortedKeys(answers) {
			qid := fmt.Sprintf("%s#%s.%s", sess.CourseID, kind, k)
			raw := strings.TrimSpace(given[k])

			status := StatusUnanswered
			if raw != "" {
				if Normalize(raw) == Normalize(answers[k]) {
					status = StatusCorrect
				} else {
					status = StatusIncorrect
				}
			}
			next[qid] = status

			qr := QuestionResult{QuestionID: qid, Kind: kind, Key: k, Status: status}

			prev, ok := sess.statuses[qid]
			if !ok {
				prev = StatusUnanswered
			}
			if status != prev {
				switch status {
				case StatusCorrect:
					effects = append(effects, effect{points: PointsCorrectAnswer, reason: "correct answer"})
				case StatusIncorrect:
					eff := effect{points: PointsWrongAnswer, reason: "wrong answer"}
					if prev != StatusIncorrect {
						eff.mistake = &MistakePayload{
							QuestionID:    qid,
							ExerciseType:  kind,
							Question:      fmt.Sprintf("%s %s (%s)", sess.CourseID, k, kind),
							UserAnswer:    raw,
							CorrectAnswer: answers[k],
						}
					}
					effects = append(effects, eff)
				}
			}

			if status == StatusIncorrect && kind == ExerciseFill && sess.matcher != nil {
				if hint := sess.matcher.Closest(raw); hint != "" && Normalize(hint) != Normalize(raw) {
					qr.Suggestion = hint
				}
			}

			if status == StatusCorrect {
				result.CorrectCount++
			}
			result.Questions = append(result.Questions, qr)
		}
	}

	grade(ExerciseFill, sess.Key.Fill, inputs.Fill)
	grade(ExerciseChoice, sess.Key.Choice, inputs.Choice)
	grade(ExerciseMatch, sess.Key.Match, inputs.Match)

	if len(effects) > 0 {
		err := e.store.Atomic(func(s Store) error {
			for _, eff := range effects {
				if _, err := e.addPointsTx(s, sess.UserID, eff.points, eff.reason); err != nil {
					return err
				}
				if eff.mistake != nil {
					if _, err := e.recordMistakeTx(s, sess.UserID, *eff.mistake); err != nil {
						return err
					}
				}
				result.PointsDelta += eff.points
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Commit statuses only after the effects are durable, so a storage
	// failure leaves the session re-gradeable.
	sess.statuses = next

	result.FullyAttempted = true
	for _, qr := range result.Questions {
		if qr.Status == StatusUnanswered {
			result.FullyAttempted = false
			break
		}
	}
	if result.TotalQuestions > 0 {
		result.Score = int(math.Round(100 * float64(result.CorrectCount) / float64(result.TotalQuestions)))
	}
	return result, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
