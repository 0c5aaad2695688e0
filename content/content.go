// content/content.go - course content loading
package content

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"parlez/catalog"
	"parlez/engine"
)

// Course is one loaded lesson: the catalog entry, its markdown body, the
// parsed answer key and the number of vocabulary entries it teaches.
type Course struct {
	catalog.Course
	Markdown   string
	Key        *engine.AnswerKey
	VocabCount int
}

// Library holds the loaded content for the whole catalog.
type Library struct {
	byID map[string]*Course
}

// answerRe matches the embedded answer annotation, an HTML comment starting
// with the "answer" marker.
var answerRe = regexp.MustCompile(`(?s)<!--\s*(answer\s*:.*?)\s*-->`)

// vocabRe matches one vocabulary bullet ("- **mot** — translation").
var vocabRe = regexp.MustCompile(`(?m)^-\s+\*\*[^*]+\*\*`)

// Load reads <id>.md for every catalog course from dir. A missing or
// keyless file leaves the course loaded without exercises; the course list
// still renders, there is just nothing to grade.
func Load(dir string, courses *catalog.Courses) (*Library, error) {
	lib := &Library{byID: map[string]*Course{}}

	for _, c := range courses.All() {
		loaded := &Course{Course: c}
		lib.byID[c.ID] = loaded

		raw, err := os.ReadFile(filepath.Join(dir, c.ID+".md"))
		if os.IsNotExist(err) {
			log.Printf("content: no lesson file for course %q", c.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read course %q: %w", c.ID, err)
		}

		loaded.Markdown = string(raw)
		loaded.VocabCount = len(vocabRe.FindAllString(loaded.Markdown, -1))

		m := answerRe.FindStringSubmatch(loaded.Markdown)
		if m == nil {
			log.Printf("content: course %q has no answer annotation", c.ID)
			continue
		}

		key, err := engine.ParseAnswerKey(m[1])
		if err != nil {
			return nil, fmt.Errorf("course %q: %w", c.ID, err)
		}
		loaded.Key = key
	}

	log.Printf("✅ Loaded content for %d courses", courses.Len())
	return lib, nil
}

// ByID returns one loaded course.
func (l *Library) ByID(id string) (*Course, bool) {
	c, ok := l.byID[id]
	return c, ok
}

// ParseOne loads a single markdown document that is not part of the catalog
// (used by the offline client for ad-hoc lesson files).
func ParseOne(path string) (*engine.AnswerKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := answerRe.FindStringSubmatch(string(raw))
	if m == nil {
		return nil, fmt.Errorf("%s: no answer annotation", filepath.Base(path))
	}
	return engine.ParseAnswerKey(strings.TrimSpace(m[1]))
}
