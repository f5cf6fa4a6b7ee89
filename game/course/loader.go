package course

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// courseFile is the on-disk form of a course. Cells may be listed explicitly
// or drawn as a layout where '#' is a wall and 'X' an obstruction; any other
// character is open floor.
type courseFile struct {
	Course `yaml:",inline"`
	Layout []string `yaml:"layout"`
}

// LoadFile reads and validates a single YAML course definition.
func LoadFile(path string) (Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Course{}, fmt.Errorf("failed to read course file: %w", err)
	}

	var f courseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Course{}, fmt.Errorf("failed to parse course %s: %w", filepath.Base(path), err)
	}

	c := f.Course
	if len(f.Layout) > 0 {
		if c.Height == 0 {
			c.Height = len(f.Layout)
		}
		for y, row := range f.Layout {
			if c.Width < len(row) {
				c.Width = len(row)
			}
			for x, ch := range row {
				switch ch {
				case '#':
					c.Walls = append(c.Walls, Point{x, y})
				case 'X':
					c.Obstructions = append(c.Obstructions, Point{x, y})
				}
			}
		}
	}

	if err := Validate(c); err != nil {
		return Course{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// LoadDir loads every *.yaml / *.yml file in dir, ordered by file name.
func LoadDir(dir string) ([]Course, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read course directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	courses := make([]Course, 0, len(names))
	for _, name := range names {
		c, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}
