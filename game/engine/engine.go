package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/tronarena/game/course"
)

// Game is one match on a single course.
type Game struct {
	id      string
	grid    [][]Cell
	width   int
	height  int
	players []*Player
	status  Status
	tick    int
	winner  int // -1 when unset

	maxTrail    int
	courseName  string
	courseLevel int

	createdAt  time.Time
	finishedAt time.Time

	now func() time.Time
}

// New creates a match for the course: a wall border, then obstructions, then
// walls, which win where they overlap. The match waits for players.
func New(c course.Course) *Game {
	grid := make([][]Cell, c.Height)
	for y := range grid {
		grid[y] = make([]Cell, c.Width)
	}

	for x := 0; x < c.Width; x++ {
		grid[0][x] = Wall
		grid[c.Height-1][x] = Wall
	}
	for y := 0; y < c.Height; y++ {
		grid[y][0] = Wall
		grid[y][c.Width-1] = Wall
	}

	for _, p := range c.Obstructions {
		if c.InBounds(p) {
			grid[p.Y][p.X] = Obstruction
		}
	}
	for _, p := range c.Walls {
		if c.InBounds(p) {
			grid[p.Y][p.X] = Wall
		}
	}

	g := &Game{
		id:          uuid.NewString(),
		grid:        grid,
		width:       c.Width,
		height:      c.Height,
		status:      WaitingForPlayers,
		winner:      -1,
		maxTrail:    c.MaxTrailLength,
		courseName:  c.Name,
		courseLevel: c.Level,
		now:         func() time.Time { return time.Now().UTC() },
	}
	g.createdAt = g.now()
	return g
}

type spawn struct {
	pos Position
	dir Direction
}

// spawnPoints lists the eight slots: corners set back 3 cells, then edge
// midpoints, each facing inwards.
func (g *Game) spawnPoints() []spawn {
	w, h := g.width, g.height
	return []spawn{
		{Position{3, 3}, Right},
		{Position{w - 4, h - 4}, Left},
		{Position{w - 4, 3}, Down},
		{Position{3, h - 4}, Up},
		{Position{w / 2, 3}, Down},
		{Position{3, h / 2}, Right},
		{Position{w - 4, h / 2}, Left},
		{Position{w / 2, h - 4}, Up},
	}
}

// AddPlayer places a player on the next free spawn slot and returns its
// index. It returns false once all slots are taken. Course capacity is the
// caller's concern.
func (g *Game) AddPlayer(name string) (int, bool) {
	spawns := g.spawnPoints()
	idx := len(g.players)
	if idx >= len(spawns) {
		return 0, false
	}

	s := spawns[idx]
	g.players = append(g.players, &Player{
		Name:      name,
		Position:  s.pos,
		Direction: s.dir,
		Alive:     true,
	})
	return idx, true
}

// Start moves a waiting match to Running and marks every player's starting
// cell with its trail.
func (g *Game) Start() {
	if g.status != WaitingForPlayers {
		return
	}
	g.status = Running
	for i, p := range g.players {
		if g.inBounds(p.Position.X, p.Position.Y) {
			g.grid[p.Position.Y][p.Position.X] = TrailOf(i)
		}
	}
}

// Steer queues an action for the next Step. Dead players and unknown
// indexes are ignored; a later call replaces an earlier one.
func (g *Game) Steer(index int, action Steer) {
	if index < 0 || index >= len(g.players) {
		return
	}
	if p := g.players[index]; p.Alive {
		p.Pending = action
	}
}

// ID returns the match identifier.
func (g *Game) ID() string { return g.id }

// Status returns the lifecycle state.
func (g *Game) Status() Status { return g.status }

// Tick returns the number of completed steps.
func (g *Game) Tick() int { return g.tick }

// Width returns the grid width.
func (g *Game) Width() int { return g.width }

// Height returns the grid height.
func (g *Game) Height() int { return g.height }

// CourseName returns the name of the course being played.
func (g *Game) CourseName() string { return g.courseName }

// CourseLevel returns the level of the course being played.
func (g *Game) CourseLevel() int { return g.courseLevel }

// MaxTrailLength returns the per-player trail cap.
func (g *Game) MaxTrailLength() int { return g.maxTrail }

// CreatedAt returns when the match was created.
func (g *Game) CreatedAt() time.Time { return g.createdAt }

// FinishedAt returns when the match finished, or the zero time.
func (g *Game) FinishedAt() time.Time { return g.finishedAt }

// Winner returns the winning player index, if any.
func (g *Game) Winner() (int, bool) {
	return g.winner, g.winner >= 0
}

// NumPlayers returns how many players joined.
func (g *Game) NumPlayers() int { return len(g.players) }

// Player returns a copy of the player at index.
func (g *Game) Player(index int) (Player, bool) {
	if index < 0 || index >= len(g.players) {
		return Player{}, false
	}
	p := *g.players[index]
	p.Trail = append([]Position(nil), p.Trail...)
	return p, true
}

// AliveCount returns the number of players still racing.
func (g *Game) AliveCount() int {
	n := 0
	for _, p := range g.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// Cell returns the content at x,y. Coordinates off the grid read as Wall.
func (g *Game) Cell(x, y int) Cell {
	if !g.inBounds(x, y) {
		return Wall
	}
	return g.grid[y][x]
}

func (g *Game) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}
