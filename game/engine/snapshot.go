package engine

import "time"

// PlayerView is the public part of a player.
type PlayerView struct {
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Alive     bool      `json:"alive"`
	Direction Direction `json:"direction"`
	Distance  int       `json:"distance"`
	Score     int       `json:"score"`
}

// Snapshot is the outbound view of a match used by spectators and the
// finished-match archive. Grid cells carry Cell codes.
type Snapshot struct {
	ID          string       `json:"id"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Grid        [][]int      `json:"grid"`
	Players     []PlayerView `json:"players"`
	Status      Status       `json:"status"`
	Tick        int          `json:"tick"`
	CourseName  string       `json:"course_name"`
	CourseLevel int          `json:"course_level"`
	Winner      *int         `json:"winner"`
	CreatedAt   string       `json:"created_at"`
	FinishedAt  *string      `json:"finished_at"`
}

// WinnerView returns the winning player, if any.
func (s Snapshot) WinnerView() (PlayerView, bool) {
	if s.Winner == nil || *s.Winner < 0 || *s.Winner >= len(s.Players) {
		return PlayerView{}, false
	}
	return s.Players[*s.Winner], true
}

// Snapshot captures the current state of the match.
func (g *Game) Snapshot() Snapshot {
	grid := make([][]int, g.height)
	for y, row := range g.grid {
		codes := make([]int, len(row))
		for x, cell := range row {
			codes[x] = cell.Code()
		}
		grid[y] = codes
	}

	players := make([]PlayerView, len(g.players))
	for i, p := range g.players {
		players[i] = PlayerView{
			Index:     i,
			Name:      p.Name,
			X:         p.Position.X,
			Y:         p.Position.Y,
			Alive:     p.Alive,
			Direction: p.Direction,
			Distance:  p.Distance,
			Score:     p.Score,
		}
	}

	s := Snapshot{
		ID:          g.id,
		Width:       g.width,
		Height:      g.height,
		Grid:        grid,
		Players:     players,
		Status:      g.status,
		Tick:        g.tick,
		CourseName:  g.courseName,
		CourseLevel: g.courseLevel,
		CreatedAt:   g.createdAt.Format(time.RFC3339),
	}
	if w, ok := g.Winner(); ok {
		s.Winner = &w
	}
	if !g.finishedAt.IsZero() {
		f := g.finishedAt.Format(time.RFC3339)
		s.FinishedAt = &f
	}
	return s
}
