package engine

import (
	"fmt"
	"strconv"
	"strings"
)

const lookLegend = "Legend: @ = you, | = your trail, 1-9 = other players/trails, # = wall, X = obstruction, . = empty"

// Look renders the (2*radius+1)-square window centred on a player along with
// its status and the Manhattan distance to every other player.
func (g *Game) Look(index, radius int) string {
	if index < 0 || index >= len(g.players) {
		return "Unknown player."
	}
	if radius < 0 {
		radius = 0
	}
	me := g.players[index]

	var b strings.Builder
	fmt.Fprintf(&b, "Your light-cycle '%s' is at (%d, %d) heading %s.\n",
		me.Name, me.Position.X, me.Position.Y, me.Direction.Compass())
	if me.Alive {
		b.WriteString("Status: ALIVE\n")
	} else {
		b.WriteString("Status: CRASHED. Game over for you.\n")
	}
	fmt.Fprintf(&b, "Distance traveled: %d. Tick: %d.\n", me.Distance, g.tick)
	fmt.Fprintf(&b, "Players alive: %d/%d\n", g.AliveCount(), len(g.players))

	size := radius*2 + 1
	fmt.Fprintf(&b, "Grid (%dx%d view centered on you):\n", size, size)
	for dy := -radius; dy <= radius; dy++ {
		row := make([]string, 0, size)
		for dx := -radius; dx <= radius; dx++ {
			row = append(row, g.symbolAt(index, me.Position.X+dx, me.Position.Y+dy))
		}
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(lookLegend)
	b.WriteByte('\n')

	if me.Alive && g.status == Running {
		safe := g.PossibleSteers(index)
		if len(safe) == 0 {
			b.WriteString("Safe moves: none\n")
		} else {
			names := make([]string, len(safe))
			for i, s := range safe {
				names[i] = string(s)
			}
			fmt.Fprintf(&b, "Safe moves: %s\n", strings.Join(names, ", "))
		}
	}

	for i, p := range g.players {
		if i == index {
			continue
		}
		state := "ALIVE"
		if !p.Alive {
			state = "CRASHED"
		}
		fmt.Fprintf(&b, "Player '%s': %s (manhattan distance: %d)\n",
			p.Name, state, ManhattanDistance(me.Position, p.Position))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (g *Game) symbolAt(viewer, x, y int) string {
	me := g.players[viewer]
	if x == me.Position.X && y == me.Position.Y {
		return "@"
	}
	if !g.inBounds(x, y) {
		return "#"
	}

	cell := g.grid[y][x]
	switch {
	case cell == Empty:
		return "."
	case cell == Wall:
		return "#"
	case cell == Obstruction:
		return "X"
	case cell.Owner() == viewer:
		return "|"
	default:
		return strconv.Itoa(cell.Owner()%9 + 1)
	}
}

// PossibleSteers returns the actions whose next cell is open on the current
// grid. It does not predict other players' moves.
func (g *Game) PossibleSteers(index int) []Steer {
	if index < 0 || index >= len(g.players) || !g.players[index].Alive {
		return nil
	}
	p := g.players[index]

	var out []Steer
	for _, s := range []Steer{SteerLeft, SteerStraight, SteerRight} {
		dx, dy := s.Apply(p.Direction).Delta()
		if !g.Cell(p.Position.X+dx, p.Position.Y+dy).Lethal() {
			out = append(out, s)
		}
	}
	return out
}
