package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var allDirections = []Direction{Up, Down, Left, Right}

func TestTurnCycles(t *testing.T) {
	assert.Equal(t, Left, Up.TurnLeft())
	assert.Equal(t, Down, Left.TurnLeft())
	assert.Equal(t, Right, Down.TurnLeft())
	assert.Equal(t, Up, Right.TurnLeft())

	assert.Equal(t, Right, Up.TurnRight())
	assert.Equal(t, Down, Right.TurnRight())
	assert.Equal(t, Left, Down.TurnRight())
	assert.Equal(t, Up, Left.TurnRight())
}

func TestTurnIdentities(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := rapid.SampledFrom(allDirections).Draw(t, "direction")

		if got := d.TurnLeft().TurnLeft().TurnLeft().TurnLeft(); got != d {
			t.Fatalf("four left turns from %s gave %s", d, got)
		}
		if got := d.TurnLeft().TurnRight(); got != d {
			t.Fatalf("left then right from %s gave %s", d, got)
		}
		if got := d.TurnRight().TurnLeft(); got != d {
			t.Fatalf("right then left from %s gave %s", d, got)
		}
		if got := SteerStraight.Apply(d); got != d {
			t.Fatalf("straight changed %s to %s", d, got)
		}
	})
}

func TestDirectionDelta(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy int
		name   string
	}{
		{Up, 0, -1, "NORTH"},
		{Down, 0, 1, "SOUTH"},
		{Left, -1, 0, "WEST"},
		{Right, 1, 0, "EAST"},
	}
	for _, tt := range tests {
		dx, dy := tt.dir.Delta()
		assert.Equal(t, tt.dx, dx, tt.dir)
		assert.Equal(t, tt.dy, dy, tt.dir)
		assert.Equal(t, tt.name, tt.dir.Compass())
	}
}

func TestParseSteer(t *testing.T) {
	for in, want := range map[string]Steer{
		"left":       SteerLeft,
		"RIGHT":      SteerRight,
		" Straight ": SteerStraight,
	} {
		got, err := ParseSteer(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "up", "forward", "lef"} {
		_, err := ParseSteer(bad)
		assert.Error(t, err, bad)
	}
}

func TestCellCodes(t *testing.T) {
	assert.Equal(t, 0, Empty.Code())
	assert.Equal(t, 1, Wall.Code())
	assert.Equal(t, 2, Obstruction.Code())
	assert.Equal(t, 3, TrailOf(0).Code())
	assert.Equal(t, 10, TrailOf(7).Code())

	assert.False(t, Wall.IsTrail())
	assert.Equal(t, -1, Obstruction.Owner())
	assert.Equal(t, 5, TrailOf(5).Owner())

	assert.False(t, Empty.Lethal())
	assert.True(t, Wall.Lethal())
	assert.True(t, Obstruction.Lethal())
	assert.True(t, TrailOf(0).Lethal())
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "WAITING", WaitingForPlayers.Label())
	assert.Equal(t, "RUNNING", Running.Label())
	assert.Equal(t, "FINISHED", Finished.Label())
}
