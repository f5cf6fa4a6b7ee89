package engine

import (
	"fmt"
	"strings"
)

// Cell is the content of one grid square. Values below trailBase are terrain;
// trailBase+i is the trail of player i. The numeric value doubles as the
// outbound grid code.
type Cell int

const (
	Empty Cell = iota
	Wall
	Obstruction

	trailBase
)

const (
	// MaxPlayers is the number of spawn slots on any grid.
	MaxPlayers = 8

	// DefaultLookRadius is the view radius used by agents.
	DefaultLookRadius = 7

	baseWinScore  = 100
	maxSpeedBonus = 200
	speedBonusNum = 1000
)

// TrailOf returns the trail marker for the player at index.
func TrailOf(index int) Cell {
	return trailBase + Cell(index)
}

// IsTrail reports whether c is a trail marker.
func (c Cell) IsTrail() bool {
	return c >= trailBase
}

// Owner returns the player index of a trail cell, or -1.
func (c Cell) Owner() int {
	if !c.IsTrail() {
		return -1
	}
	return int(c - trailBase)
}

// Lethal reports whether entering c ends a cycle.
func (c Cell) Lethal() bool {
	return c != Empty
}

// Code returns the numeric grid code: 0 empty, 1 wall, 2 obstruction,
// 3+index trail.
func (c Cell) Code() int {
	return int(c)
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is the facing of a cycle.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// TurnLeft rotates 90 degrees counter-clockwise.
func (d Direction) TurnLeft() Direction {
	switch d {
	case Up:
		return Left
	case Left:
		return Down
	case Down:
		return Right
	default:
		return Up
	}
}

// TurnRight rotates 90 degrees clockwise.
func (d Direction) TurnRight() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	default:
		return Up
	}
}

// Delta returns the one-cell step for d. Y grows downwards.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// Compass returns the heading name shown to players.
func (d Direction) Compass() string {
	switch d {
	case Up:
		return "NORTH"
	case Down:
		return "SOUTH"
	case Left:
		return "WEST"
	default:
		return "EAST"
	}
}

// Steer is a turn command.
type Steer string

const (
	SteerLeft     Steer = "left"
	SteerRight    Steer = "right"
	SteerStraight Steer = "straight"
)

// ParseSteer parses a case-insensitive steer token.
func ParseSteer(s string) (Steer, error) {
	switch Steer(strings.ToLower(strings.TrimSpace(s))) {
	case SteerLeft:
		return SteerLeft, nil
	case SteerRight:
		return SteerRight, nil
	case SteerStraight:
		return SteerStraight, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Apply returns the facing after steering d.
func (s Steer) Apply(d Direction) Direction {
	switch s {
	case SteerLeft:
		return d.TurnLeft()
	case SteerRight:
		return d.TurnRight()
	default:
		return d
	}
}

// Status is the lifecycle state of a match.
type Status string

const (
	WaitingForPlayers Status = "waiting_for_players"
	Running           Status = "running"
	Finished          Status = "finished"
)

// Label returns the upper-case status used in text reports.
func (s Status) Label() string {
	switch s {
	case WaitingForPlayers:
		return "WAITING"
	case Running:
		return "RUNNING"
	default:
		return "FINISHED"
	}
}

// Player is one cycle in a match.
type Player struct {
	Name      string
	Position  Position
	Direction Direction
	Alive     bool
	// Trail holds previously occupied cells, oldest first.
	Trail    []Position
	Distance int
	Score    int
	Pending  Steer
}
