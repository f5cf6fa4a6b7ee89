package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookLines(t *testing.T, g *Game, index, radius int) []string {
	t.Helper()
	out := g.Look(index, radius)
	require.NotEmpty(t, out)
	return strings.Split(out, "\n")
}

func TestLookHeader(t *testing.T) {
	g := newTestGame(t, testCourse(20, 20, 5), "alice", "bob")
	g.Start()
	g.Step()

	lines := lookLines(t, g, 0, 3)
	assert.Equal(t, "Your light-cycle 'alice' is at (4, 3) heading EAST.", lines[0])
	assert.Equal(t, "Status: ALIVE", lines[1])
	assert.Equal(t, "Distance traveled: 1. Tick: 1.", lines[2])
	assert.Equal(t, "Players alive: 2/2", lines[3])
	assert.Equal(t, "Grid (7x7 view centered on you):", lines[4])
}

func TestLookGrid(t *testing.T) {
	c := testCourse(20, 20, 5)
	c.Obstructions = append(c.Obstructions, coursePoint(5, 2))
	g := newTestGame(t, c, "alice", "bob")
	place(g, 1, 6, 5, Up)
	g.Start()
	g.Step()

	lines := lookLines(t, g, 0, 3)
	grid := lines[5:12]
	assert.Equal(t, []string{
		"# # # # # # #",
		". . . . . . .",
		". . . . X . .",
		". . | @ . . .",
		". . . . . 2 .",
		". . . . . 2 .",
		". . . . . . .",
	}, grid)

	assert.Contains(t, lines, lookLegend)
	assert.Contains(t, lines, "Safe moves: left, straight, right")
	assert.Contains(t, lines, "Player 'bob': ALIVE (manhattan distance: 3)")
}

func TestLookOffGridRendersWall(t *testing.T) {
	g := newTestGame(t, testCourse(20, 20, 5), "alice", "bob")
	g.Start()

	lines := lookLines(t, g, 0, 5)
	assert.Equal(t, "Grid (11x11 view centered on you):", lines[4])
	// Rows above the grid and the top border are all walls.
	for _, row := range lines[5:8] {
		assert.Equal(t, strings.TrimSpace(strings.Repeat("# ", 11)), row)
	}
	assert.True(t, strings.HasPrefix(lines[10], "# # # . . @"), lines[10])
}

func TestLookCrashedPlayer(t *testing.T) {
	g := newTestGame(t, testCourse(20, 20, 5), "alice", "bob", "carol")
	place(g, 0, 1, 5, Left)
	g.Start()
	g.Step()

	out := g.Look(0, 2)
	assert.Contains(t, out, "Status: CRASHED. Game over for you.")
	assert.NotContains(t, out, "Safe moves")
	assert.Contains(t, out, "Players alive: 2/3")

	bobView := g.Look(1, 2)
	assert.Contains(t, bobView, "Player 'alice': CRASHED")
	assert.Contains(t, bobView, "Player 'carol': ALIVE")
}

func TestLookUnknownPlayer(t *testing.T) {
	g := newTestGame(t, testCourse(20, 20, 5), "alice")
	assert.Equal(t, "Unknown player.", g.Look(3, 7))
}

func TestPossibleSteers(t *testing.T) {
	g := newTestGame(t, testCourse(20, 20, 5), "alice", "bob")
	place(g, 0, 1, 1, Up)
	g.Start()

	assert.Equal(t, []Steer{SteerRight}, g.PossibleSteers(0))
	assert.Equal(t, []Steer{SteerLeft, SteerStraight, SteerRight}, g.PossibleSteers(1))
	assert.Nil(t, g.PossibleSteers(9))

	g.Step()
	assert.Nil(t, g.PossibleSteers(0), "crashed players have no moves")
}

func TestManhattanDistance(t *testing.T) {
	assert.Equal(t, 0, ManhattanDistance(Position{2, 2}, Position{2, 2}))
	assert.Equal(t, 7, ManhattanDistance(Position{1, 1}, Position{4, 5}))
	assert.Equal(t, 7, ManhattanDistance(Position{4, 5}, Position{1, 1}))
}

func TestReachableArea(t *testing.T) {
	c := testCourse(10, 10, 5)
	// Wall off column 4 completely, splitting the 8x8 interior into 3x8 and 4x8.
	for y := 1; y < 9; y++ {
		c.Walls = append(c.Walls, coursePoint(4, y))
	}
	g := New(c)

	assert.Equal(t, 24, g.ReachableArea(Position{2, 2}))
	assert.Equal(t, 32, g.ReachableArea(Position{6, 6}))
	assert.Equal(t, 0, g.ReachableArea(Position{4, 4}), "wall")
	assert.Equal(t, 0, g.ReachableArea(Position{-1, 4}), "off grid")

	open := New(testCourse(10, 10, 5))
	assert.Equal(t, open.CountCells(Empty), open.ReachableArea(Position{5, 5}))
}

func TestRegions(t *testing.T) {
	c := testCourse(11, 10, 5)
	// Column 5 splits the 9x8 interior into two 4x8 halves of equal size.
	for y := 1; y < 9; y++ {
		c.Walls = append(c.Walls, coursePoint(5, y))
	}
	g := New(c)

	labels, sizes := g.Regions()
	require.Len(t, sizes, 2)
	assert.Equal(t, []int{32, 32}, sizes)
	assert.Equal(t, 0, labels[0][0], "border")
	assert.Equal(t, 0, labels[4][5], "wall")
	assert.NotZero(t, labels[2][2])
	assert.NotZero(t, labels[6][8])
	assert.NotEqual(t, labels[2][2], labels[6][8])
	assert.Equal(t, labels[1][1], labels[8][4])

	_, openSizes := New(testCourse(10, 10, 5)).Regions()
	assert.Equal(t, []int{64}, openSizes)
}
