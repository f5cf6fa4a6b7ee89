package course

import (
	"fmt"
	"sync"
	"time"
)

// Point is a cell coordinate on a course.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Course is a static level template.
type Course struct {
	Name           string  `json:"name" yaml:"name"`
	Level          int     `json:"level" yaml:"level"`
	Width          int     `json:"width" yaml:"width"`
	Height         int     `json:"height" yaml:"height"`
	MaxTrailLength int     `json:"max_trail_length" yaml:"max_trail_length"`
	MaxPlayers     int     `json:"max_players" yaml:"max_players"`
	Obstructions   []Point `json:"obstructions,omitempty" yaml:"obstructions"`
	Walls          []Point `json:"walls,omitempty" yaml:"walls"`
}

// InBounds reports whether p lies on the course grid.
func (c Course) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < c.Width && p.Y < c.Height
}

// PlayableArea returns the number of cells inside the border ring.
func (c Course) PlayableArea() int {
	return (c.Width - 2) * (c.Height - 2)
}

func (c Course) clone() Course {
	out := c
	out.Obstructions = append([]Point(nil), c.Obstructions...)
	out.Walls = append([]Point(nil), c.Walls...)
	return out
}

// Catalog is an immutable, ordered set of courses.
type Catalog struct {
	courses []Course
}

// NewCatalog builds the built-in courses, using seed for the randomized
// layout, followed by any extra courses. Extra courses are validated and
// renumbered so levels stay contiguous.
func NewCatalog(seed int64, extra ...Course) (*Catalog, error) {
	courses := builtin(seed)
	for i, c := range extra {
		if err := Validate(c); err != nil {
			return nil, fmt.Errorf("extra course %d: %w", i+1, err)
		}
		c = c.clone()
		c.Level = len(courses) + 1
		courses = append(courses, c)
	}
	return &Catalog{courses: courses}, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog of built-in courses, seeded from
// the clock on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = &Catalog{courses: builtin(time.Now().UnixNano())}
	})
	return defaultCatalog
}

// All returns the courses ordered by level.
func (c *Catalog) All() []Course {
	out := make([]Course, len(c.courses))
	for i, course := range c.courses {
		out[i] = course.clone()
	}
	return out
}

// Len returns the number of courses in the catalog.
func (c *Catalog) Len() int {
	return len(c.courses)
}

// Get returns the course for a 1-indexed level, clamping out-of-range levels
// to the first or last course.
func (c *Catalog) Get(level int) Course {
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(c.courses)-1 {
		idx = len(c.courses) - 1
	}
	return c.courses[idx].clone()
}
