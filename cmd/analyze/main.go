// Command analyze prints quick, human-readable heuristics about the course
// catalog: dimensions, open floor, how crowded a full match gets and how much
// of the floor the players' trails can cover. Extra YAML courses are read
// from the directory given as the first argument.
package main

import (
	"fmt"
	"os"

	"github.com/wricardo/mcp-training/tronarena/game/course"
	"github.com/wricardo/mcp-training/tronarena/game/engine"
)

// Analysis holds the derived numbers for one course.
type Analysis struct {
	Name          string
	Level         int
	Width, Height int
	OpenCells     int
	Blocked       int
	Players       int
	TrailLength   int
	// SpawnAreas is the open region reachable from each spawn slot.
	SpawnAreas []int
}

// Density is the share of the playable area taken by walls and obstructions.
func (a Analysis) Density() float64 {
	playable := (a.Width - 2) * (a.Height - 2)
	if playable <= 0 {
		return 0
	}
	return float64(a.Blocked) / float64(playable)
}

// TrailCoverage is the share of open floor a full roster of maximum-length
// trails would occupy.
func (a Analysis) TrailCoverage() float64 {
	if a.OpenCells == 0 {
		return 0
	}
	return float64(a.Players*a.TrailLength) / float64(a.OpenCells)
}

// SmallestSpawnArea returns the most confined spawn's region size.
func (a Analysis) SmallestSpawnArea() int {
	if len(a.SpawnAreas) == 0 {
		return 0
	}
	smallest := a.SpawnAreas[0]
	for _, area := range a.SpawnAreas[1:] {
		if area < smallest {
			smallest = area
		}
	}
	return smallest
}

func analyzeCourse(c course.Course) Analysis {
	g := engine.New(c)
	for i := 0; i < c.MaxPlayers; i++ {
		g.AddPlayer(fmt.Sprintf("player%d", i+1))
	}

	a := Analysis{
		Name:        c.Name,
		Level:       c.Level,
		Width:       c.Width,
		Height:      c.Height,
		OpenCells:   g.CountCells(engine.Empty),
		Blocked:     g.CountCells(engine.Obstruction),
		Players:     c.MaxPlayers,
		TrailLength: c.MaxTrailLength,
	}
	// Border walls are not part of the playable area.
	a.Blocked += g.CountCells(engine.Wall) - 2*(c.Width+c.Height) + 4

	for i := 0; i < g.NumPlayers(); i++ {
		p, _ := g.Player(i)
		a.SpawnAreas = append(a.SpawnAreas, g.ReachableArea(p.Position))
	}
	return a
}

func printAnalysis(a Analysis) {
	fmt.Printf("\n=== Level %d: %s ===\n", a.Level, a.Name)
	fmt.Printf("Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Printf("Open Cells: %d\n", a.OpenCells)
	fmt.Printf("Blocked Cells: %d (%.1f%% of playable area)\n", a.Blocked, a.Density()*100)
	fmt.Printf("Players: %d, Max Trail: %d\n", a.Players, a.TrailLength)
	fmt.Printf("Open Cells per Player: %d\n", a.OpenCells/max(1, a.Players))
	fmt.Printf("Trail Coverage at Full Length: %.1f%%\n", a.TrailCoverage()*100)

	if a.TrailCoverage() > 0.5 {
		fmt.Printf("⚠️  WARNING: full-length trails would cover more than half the floor\n")
	}
	if smallest := a.SmallestSpawnArea(); smallest < a.TrailLength {
		fmt.Printf("⚠️  WARNING: a spawn can reach only %d cells, less than the trail length\n", smallest)
	} else {
		fmt.Printf("✅ Every spawn has room for a full trail\n")
	}
}

func main() {
	var extra []course.Course
	if len(os.Args) > 1 {
		loaded, err := course.LoadDir(os.Args[1])
		if err != nil {
			fmt.Printf("Error loading courses: %v\n", err)
			os.Exit(1)
		}
		extra = loaded
	}

	catalog, err := course.NewCatalog(1, extra...)
	if err != nil {
		fmt.Printf("Error building catalog: %v\n", err)
		os.Exit(1)
	}

	for _, c := range catalog.All() {
		printAnalysis(analyzeCourse(c))
	}
}
