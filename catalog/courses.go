// catalog/courses.go - static course catalog with prerequisite chain
package catalog

import (
	"fmt"
)

// Course is one entry of the fixed, ordered course list. Prerequisite is the
// id of the course that must be completed first; empty for the first course.
type Course struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Level        string `json:"level"`
	Prerequisite string `json:"prerequisite,omitempty"`
}

// Courses is the validated catalog, frozen after Load.
type Courses struct {
	ordered []Course
	byID    map[string]Course
}

var defaultCourses = []Course{
	{ID: "salutations", Title: "Les Salutations", Level: "A1"},
	{ID: "nombres", Title: "Les Nombres", Level: "A1", Prerequisite: "salutations"},
	{ID: "famille", Title: "La Famille", Level: "A1", Prerequisite: "nombres"},
	{ID: "nourriture", Title: "La Nourriture", Level: "A2", Prerequisite: "famille"},
	{ID: "voyage", Title: "Le Voyage", Level: "A2", Prerequisite: "nourriture"},
	{ID: "passe-compose", Title: "Le Passé Composé", Level: "B1", Prerequisite: "voyage"},
}

// LoadCourses validates and freezes the default catalog.
func LoadCourses() (*Courses, error) {
	return NewCourses(defaultCourses)
}

// NewCourses validates an ordered course list: ids unique, the first course
// has no prerequisite, every other prerequisite names an earlier course.
func NewCourses(list []Course) (*Courses, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("course catalog is empty")
	}

	byID := make(map[string]Course, len(list))
	for i, c := range list {
		if c.ID == "" {
			return nil, fmt.Errorf("course %d has no id", i)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", c.ID)
		}
		if i == 0 && c.Prerequisite != "" {
			return nil, fmt.Errorf("first course %q must not have a prerequisite", c.ID)
		}
		if i > 0 {
			if c.Prerequisite == "" {
				return nil, fmt.Errorf("course %q has no prerequisite", c.ID)
			}
			if _, ok := byID[c.Prerequisite]; !ok {
				return nil, fmt.Errorf("course %q: prerequisite %q does not precede it", c.ID, c.Prerequisite)
			}
		}
		byID[c.ID] = c
	}

	ordered := make([]Course, len(list))
	copy(ordered, list)

	return &Courses{ordered: ordered, byID: byID}, nil
}

// All returns the catalog in order.
func (c *Courses) All() []Course {
	out := make([]Course, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByID looks up one course; the bool is false for unknown ids.
func (c *Courses) ByID(id string) (Course, bool) {
	course, ok := c.byID[id]
	return course, ok
}

// Next returns the course whose prerequisite is the given id, if any.
func (c *Courses) Next(id string) (Course, bool) {
	for _, course := range c.ordered {
		if course.Prerequisite == id {
			return course, true
		}
	}
	return Course{}, false
}

func (c *Courses) Len() int {
	return len(c.ordered)
}
