// Package engine provides the match simulation for the light-cycle arena.
//
// The engine package implements:
//   - Grid construction from a course (border, obstructions, walls)
//   - Spawn placement for up to eight cycles
//   - The synchronized tick: every alive cycle moves one cell per Step
//   - Joint collision resolution against the pre-move grid
//   - Bounded trails and their eviction
//   - Win, draw and scoring rules
//   - Text views for agents and snapshots for spectators
//
// Core Types:
//
// Game is one authoritative match. It is the only mutator of its grid and
// players and is not safe for concurrent use; the session manager serializes
// access to it. Snapshot is the outbound, JSON-friendly view of a Game.
//
// Usage:
//
//	g := engine.New(catalog.Get(1))
//	a, _ := g.AddPlayer("alice")
//	b, _ := g.AddPlayer("bob")
//	g.Start()
//
//	g.Steer(a, engine.SteerLeft)
//	g.Step()
//	fmt.Println(g.Look(b, 7))
//
// Game Rules:
//
// Cycles never stop. Each tick a cycle may turn left or right before moving
// forward one cell. Entering a wall, an obstruction, any trail (including its
// own) or leaving the board is fatal, as is two cycles entering the same cell
// in the same tick. The last cycle alive wins; if everyone crashes the match
// is a draw.
package engine
