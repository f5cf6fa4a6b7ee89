package engine

// Step advances a running match by one tick. Every alive player applies its
// queued action, then all players move at once: collisions are judged against
// the grid as it stood before anyone moved, so evaluation order never
// matters. It is a no-op unless the match is Running.
func (g *Game) Step() {
	if g.status != Running {
		return
	}

	g.tick++

	dest := make([]Position, len(g.players))
	for i, p := range g.players {
		if !p.Alive {
			dest[i] = p.Position
			continue
		}
		if p.Pending != "" {
			p.Direction = p.Pending.Apply(p.Direction)
			p.Pending = ""
		}
		dx, dy := p.Direction.Delta()
		dest[i] = Position{p.Position.X + dx, p.Position.Y + dy}
	}

	killed := g.resolveCollisions(dest)

	for i, p := range g.players {
		if !p.Alive {
			continue
		}
		if killed[i] {
			p.Alive = false
			p.Pending = ""
			continue
		}
		g.advance(i, dest[i])
	}

	g.checkFinish()
}

// resolveCollisions marks every alive player whose destination is off the
// grid, non-empty on the pre-move grid, or shared with another alive player.
func (g *Game) resolveCollisions(dest []Position) []bool {
	killed := make([]bool, len(g.players))

	claims := make(map[Position]int, len(g.players))
	for i, p := range g.players {
		if p.Alive {
			claims[dest[i]]++
		}
	}

	for i, p := range g.players {
		if !p.Alive {
			continue
		}
		d := dest[i]
		switch {
		case !g.inBounds(d.X, d.Y):
			killed[i] = true
		case g.grid[d.Y][d.X].Lethal():
			killed[i] = true
		case claims[d] > 1:
			killed[i] = true
		}
	}
	return killed
}

// advance moves player i to to, extending its trail and evicting the oldest
// cell once the trail exceeds the cap. An evicted cell is cleared only while
// it still carries this player's marker.
func (g *Game) advance(i int, to Position) {
	p := g.players[i]
	marker := TrailOf(i)

	p.Trail = append(p.Trail, p.Position)
	for len(p.Trail) > g.maxTrail {
		old := p.Trail[0]
		p.Trail = p.Trail[1:]
		if g.inBounds(old.X, old.Y) && g.grid[old.Y][old.X] == marker {
			g.grid[old.Y][old.X] = Empty
		}
	}

	p.Position = to
	p.Distance++
	g.grid[to.Y][to.X] = marker
}

// checkFinish applies the win and draw rules. A lone survivor only wins a
// match that started with at least two players.
func (g *Game) checkFinish() {
	alive := -1
	count := 0
	for i, p := range g.players {
		if p.Alive {
			alive = i
			count++
		}
	}

	switch {
	case count == 0:
		g.finish()
	case count == 1 && len(g.players) >= 2:
		g.winner = alive
		w := g.players[alive]
		w.Score = winScore(w.Distance, g.tick)
		g.finish()
	}
}

func (g *Game) finish() {
	g.status = Finished
	g.finishedAt = g.now()
}

// winScore is 100 plus distance plus a speed bonus of 1000/ticks capped at 200.
func winScore(distance, ticks int) int {
	if ticks < 1 {
		ticks = 1
	}
	bonus := speedBonusNum / ticks
	if bonus > maxSpeedBonus {
		bonus = maxSpeedBonus
	}
	return baseWinScore + distance + bonus
}
