// Command validate checks the YAML course definitions in a directory
// (default "courses", or the first argument). For each file it checks:
//   - YAML structure and the course rules (name, size, trail length, players)
//   - every spawn slot the course uses is open floor, as is the cell ahead
//   - all used spawn slots share one connected region
//   - each spawn's region has room for a full trail
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/tronarena/game/course"
	"github.com/wricardo/mcp-training/tronarena/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the course unusable; Notes are informational or warnings.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

// validateCourse loads and validates a single course file.
func validateCourse(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	c, err := course.LoadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Notes = append(result.Notes, fmt.Sprintf("✓ %s: %dx%d, trail %d, up to %d players",
		c.Name, c.Width, c.Height, c.MaxTrailLength, c.MaxPlayers))

	errs, notes := validateSpawns(c)
	result.Errors = append(result.Errors, errs...)
	result.Notes = append(result.Notes, notes...)
	if len(errs) > 0 {
		result.Valid = false
	}
	return result
}

// validateSpawns places a full roster on the course and inspects every
// spawn slot.
func validateSpawns(c course.Course) (errs, notes []string) {
	g := engine.New(c)
	for i := 0; i < c.MaxPlayers; i++ {
		g.AddPlayer(fmt.Sprintf("player%d", i+1))
	}

	labels, sizes := g.Regions()
	regions := make(map[int]bool)
	for i := 0; i < g.NumPlayers(); i++ {
		p, _ := g.Player(i)
		pos := p.Position

		if g.Cell(pos.X, pos.Y) != engine.Empty {
			errs = append(errs, fmt.Sprintf("spawn %d at (%d, %d) is blocked", i+1, pos.X, pos.Y))
			continue
		}
		dx, dy := p.Direction.Delta()
		if g.Cell(pos.X+dx, pos.Y+dy) != engine.Empty {
			errs = append(errs, fmt.Sprintf("spawn %d at (%d, %d) faces a blocked cell heading %s",
				i+1, pos.X, pos.Y, p.Direction.Compass()))
		}

		region := labels[pos.Y][pos.X]
		regions[region] = true
		area := sizes[region-1]
		if area < c.MaxTrailLength {
			notes = append(notes, fmt.Sprintf("⚠ spawn %d can reach only %d cells, less than the trail length %d",
				i+1, area, c.MaxTrailLength))
		}
	}

	if len(regions) > 1 {
		notes = append(notes, "⚠ spawn slots are split across disconnected regions")
	} else if len(errs) == 0 {
		notes = append(notes, fmt.Sprintf("✓ all %d spawn slots are open and connected", g.NumPlayers()))
	}
	return errs, notes
}

// main validates every course file in the directory, printing a concise
// report and exiting with non-zero status if any are invalid.
func main() {
	dir := "courses"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			fmt.Printf("Error finding course files: %v\n", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		fmt.Printf("No course files found in %s\n", dir)
		return
	}

	allValid := true
	for _, file := range files {
		result := validateCourse(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
		for _, note := range result.Notes {
			fmt.Println("  " + note)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All courses are valid!")
	} else {
		fmt.Println("❌ Some courses have errors")
		os.Exit(1)
	}
}
