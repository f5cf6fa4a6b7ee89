package course

import (
	"errors"
	"fmt"
)

const (
	// MinSize leaves room for the spawn points set back 3 cells from the border.
	MinSize = 10
	MaxSize = 200

	// MaxSpawns is the number of spawn slots a match grid provides.
	MaxSpawns = 2 * 4
)

var ErrInvalidCourse = errors.New("invalid course")

// Validate checks a course for structural correctness. Walls and obstructions
// outside the grid are tolerated; they are skipped when a grid is stamped.
func Validate(c Course) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCourse)
	}
	if c.Width < MinSize || c.Width > MaxSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidCourse, MinSize, MaxSize, c.Width)
	}
	if c.Height < MinSize || c.Height > MaxSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidCourse, MinSize, MaxSize, c.Height)
	}
	if c.MaxTrailLength < 1 {
		return fmt.Errorf("%w: max_trail_length must be at least 1, got %d", ErrInvalidCourse, c.MaxTrailLength)
	}
	if c.MaxPlayers < 2 || c.MaxPlayers > MaxSpawns {
		return fmt.Errorf("%w: max_players must be between 2 and %d, got %d", ErrInvalidCourse, MaxSpawns, c.MaxPlayers)
	}
	return nil
}
