package service

import (
	"github.com/wricardo/mcp-training/tronarena/game/course"
	"github.com/wricardo/mcp-training/tronarena/game/engine"
)

// CourseInfo summarizes a course for listings.
type CourseInfo struct {
	Level          int    `json:"level"`
	Name           string `json:"name"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	MaxTrailLength int    `json:"max_trail_length"`
	MaxPlayers     int    `json:"max_players"`
	PlayableArea   int    `json:"playable_area"`
	Walls          int    `json:"walls"`
	Obstructions   int    `json:"obstructions"`
}

// NewCourseInfo builds the listing entry for c.
func NewCourseInfo(c course.Course) *CourseInfo {
	return &CourseInfo{
		Level:          c.Level,
		Name:           c.Name,
		Width:          c.Width,
		Height:         c.Height,
		MaxTrailLength: c.MaxTrailLength,
		MaxPlayers:     c.MaxPlayers,
		PlayableArea:   c.PlayableArea(),
		Walls:          len(c.Walls),
		Obstructions:   len(c.Obstructions),
	}
}

// GamesResponse lists live and archived matches.
type GamesResponse struct {
	Active   []engine.Snapshot `json:"active"`
	Finished []engine.Snapshot `json:"finished"`
}
