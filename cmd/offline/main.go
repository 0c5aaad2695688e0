// cmd/offline/main.go - local single-user client
//
// Runs the learning engine against a directory of JSON files instead of
// Postgres, so the lessons work without a server:
//
//	go run ./cmd/offline checkin
//	go run ./cmd/offline answer salutations fill.a=bonjour choice.a=b
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"parlez/catalog"
	"parlez/content"
	"parlez/engine"
	"parlez/localstore"
)

// localUserID is the single implicit learner of an offline data directory.
const localUserID uint = 1

func main() {
	dataDir := flag.String("data", defaultDataDir(), "directory for local progress files")
	contentDir := flag.String("content", "./content/courses", "directory with lesson markdown")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	courses, err := catalog.LoadCourses()
	if err != nil {
		log.Fatalf("invalid course catalog: %v", err)
	}
	badges, err := catalog.LoadBadges()
	if err != nil {
		log.Fatalf("invalid badge catalog: %v", err)
	}
	library, err := content.Load(*contentDir, courses)
	if err != nil {
		log.Fatalf("failed to load course content: %v", err)
	}

	store, err := localstore.Open(*dataDir)
	if err != nil {
		log.Fatalf("failed to open local store at %s: %v", *dataDir, err)
	}

	eng := engine.New(store, courses, badges)
	eng.Notify = func(_ uint, ev engine.AwardEvent) {
		if ev.Type == "badge" {
			fmt.Printf("🏅 Badge earned: %s\n", ev.Name)
		}
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(eng, library, cmd, args); err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func run(eng *engine.Engine, library *content.Library, cmd string, args []string) error {
	switch cmd {
	case "checkin":
		return doCheckIn(eng)
	case "points":
		return doPoints(eng)
	case "history":
		return doHistory(eng)
	case "courses":
		return doCourses(eng)
	case "mistakes":
		return doMistakes(eng)
	case "review":
		if len(args) != 1 {
			return fmt.Errorf("usage: review <questionID>")
		}
		return doReview(eng, args[0])
	case "answer":
		if len(args) < 2 {
			return fmt.Errorf("usage: answer <courseID> <kind.key=value>...")
		}
		return doAnswer(eng, library, args[0], args[1:])
	case "stats":
		return doStats(eng)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func doCheckIn(eng *engine.Engine) error {
	info, err := eng.CheckIn(localUserID)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Checked in. Streak: %d day(s), best %d. +%d points\n",
		info.CurrentStreak, info.MaxStreak, info.PointsAwarded)
	if _, err := eng.EvaluateBadges(localUserID); err != nil {
		return err
	}
	return nil
}

func doPoints(eng *engine.Engine) error {
	summary, err := eng.GetPoints(localUserID)
	if err != nil {
		return err
	}
	fmt.Printf("Points: %d total, %d today\n", summary.Total, summary.Today)
	return nil
}

func doHistory(eng *engine.Engine) error {
	entries, err := eng.PointsHistory(localUserID, 50)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No points history yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %+d  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Amount, e.Reason)
	}
	return nil
}

func doCourses(eng *engine.Engine) error {
	list, err := eng.CourseList(localUserID)
	if err != nil {
		return err
	}
	for _, c := range list {
		state := "🔒"
		if c.Unlocked {
			state = "  "
		}
		line := fmt.Sprintf("%s %-15s %s (%s)", state, c.ID, c.Title, c.Level)
		if c.Progress != nil {
			line += fmt.Sprintf("  score %d, attempts %d", c.Progress.Score, c.Progress.Attempts)
			if c.Progress.Completed {
				line += " ✅"
			}
		}
		fmt.Println(line)
	}
	return nil
}

func doMistakes(eng *engine.Engine) error {
	mistakes, err := eng.Mistakes(localUserID, false)
	if err != nil {
		return err
	}
	if len(mistakes) == 0 {
		fmt.Println("Mistake book is empty. Bien joué!")
		return nil
	}
	for _, m := range mistakes {
		mark := " "
		if m.Reviewed {
			mark = "✓"
		}
		fmt.Printf("[%s] %s  wrong %dx  you: %q  correct: %q\n",
			mark, m.QuestionID, m.WrongCount, m.UserAnswer, m.CorrectAnswer)
	}
	return nil
}

func doReview(eng *engine.Engine, questionID string) error {
	m, err := eng.MarkReviewed(localUserID, questionID)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Reviewed %s (the answer was %q)\n", m.QuestionID, m.CorrectAnswer)
	return nil
}

// doAnswer grades one pass of answers against the course's key. Answers are
// given as kind.key=value, e.g. fill.a=bonjour or match.1=A.
func doAnswer(eng *engine.Engine, library *content.Library, courseID string, pairs []string) error {
	course, ok := library.ByID(courseID)
	if !ok || course.Key == nil {
		return fmt.Errorf("no exercises for course %q", courseID)
	}

	inputs, err := parseInputs(pairs)
	if err != nil {
		return err
	}

	sess, err := eng.NewSession(localUserID, courseID, course.Key)
	if err != nil {
		return err
	}
	result, err := eng.Evaluate(sess, *inputs)
	if err != nil {
		return err
	}

	for _, q := range result.Questions {
		switch q.Status {
		case engine.StatusCorrect:
			fmt.Printf("  ✅ %s.%s\n", q.Kind, q.Key)
		case engine.StatusIncorrect:
			line := fmt.Sprintf("  ❌ %s.%s", q.Kind, q.Key)
			if q.Suggestion != "" {
				line += fmt.Sprintf("  (did you mean %q?)", q.Suggestion)
			}
			fmt.Println(line)
		default:
			fmt.Printf("  ·  %s.%s unanswered\n", q.Kind, q.Key)
		}
	}
	fmt.Printf("Score: %d/100 (%d of %d correct)\n", result.Score, result.CorrectCount, result.TotalQuestions)

	if result.FullyAttempted {
		progress, _, err := eng.UpdateProgress(localUserID, courseID, engine.ProgressUpdate{
			Score:     &result.Score,
			Completed: true,
		})
		if err != nil {
			return err
		}
		if progress.Completed {
			fmt.Printf("🎉 Course %q completed!\n", courseID)
			if next, ok := eng.Courses().Next(courseID); ok {
				fmt.Printf("🔓 Unlocked: %s (%s)\n", next.Title, next.Level)
			}
		}
	}
	return nil
}

func doStats(eng *engine.Engine) error {
	stats, err := eng.GetLearningStats(localUserID)
	if err != nil {
		return err
	}
	fmt.Printf("Points:        %d (%d today)\n", stats.Points.Total, stats.Points.Today)
	fmt.Printf("Streak:        %d (best %d)\n", stats.CurrentStreak, stats.MaxStreak)
	fmt.Printf("Courses:       %d/%d completed\n", stats.CoursesCompleted, stats.CoursesTotal)
	fmt.Printf("Badges:        %d\n", stats.BadgesEarned)
	fmt.Printf("To review:     %d mistakes\n", stats.MistakesUnreviewed)
	fmt.Printf("Words learned: %d\n", stats.WordsLearned)
	fmt.Printf("Time spent:    %dm\n", stats.TimeSpent/60)
	return nil
}

// parseInputs splits kind.key=value arguments into the three answer maps.
func parseInputs(pairs []string) (*engine.Inputs, error) {
	inputs := &engine.Inputs{
		Fill:   map[string]string{},
		Choice: map[string]string{},
		Match:  map[string]string{},
	}
	for _, p := range pairs {
		eq := strings.IndexByte(p, '=')
		dot := strings.IndexByte(p, '.')
		if eq < 0 || dot < 0 || dot > eq {
			return nil, fmt.Errorf("bad answer %q, want kind.key=value", p)
		}
		kind, key, value := p[:dot], p[dot+1:eq], p[eq+1:]
		switch kind {
		case "fill":
			inputs.Fill[key] = value
		case "choice":
			inputs.Choice[key] = value
		case "match":
			inputs.Match[key] = value
		default:
			return nil, fmt.Errorf("unknown exercise kind %q", kind)
		}
	}
	return inputs, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".parlez"
	}
	return home + string(os.PathSeparator) + ".parlez"
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: offline [-data DIR] [-content DIR] <command>

Commands:
  checkin                         record today's visit
  points                          show point totals
  history                         show recent point history
  courses                         list courses with progress
  answer <course> <k.key=v>...    grade answers for a course
  mistakes                        list the mistake book
  review <questionID>             mark one mistake as reviewed
  stats                           show the learning summary`)
}
