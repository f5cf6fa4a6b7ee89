package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalogOrder(t *testing.T) {
	catalog, err := NewCatalog(1)
	require.NoError(t, err)

	courses := catalog.All()
	require.Len(t, courses, 5)

	names := []string{"Open Arena", "The Maze", "Narrow Corridors", "The Gauntlet", "Chaos"}
	for i, c := range courses {
		assert.Equal(t, names[i], c.Name)
		assert.Equal(t, i+1, c.Level)
		assert.NoError(t, Validate(c), c.Name)
	}
}

func TestBuiltinCourseParameters(t *testing.T) {
	catalog, err := NewCatalog(1)
	require.NoError(t, err)

	tests := []struct {
		level, width, height, trail, players int
	}{
		{1, 30, 30, 50, 4},
		{2, 40, 35, 80, 4},
		{3, 50, 22, 100, 4},
		{4, 60, 40, 150, 6},
		{5, 80, 80, 300, 8},
	}
	for _, tt := range tests {
		c := catalog.Get(tt.level)
		assert.Equal(t, tt.width, c.Width, c.Name)
		assert.Equal(t, tt.height, c.Height, c.Name)
		assert.Equal(t, tt.trail, c.MaxTrailLength, c.Name)
		assert.Equal(t, tt.players, c.MaxPlayers, c.Name)
	}
}

func TestGetClampsLevel(t *testing.T) {
	catalog, err := NewCatalog(1)
	require.NoError(t, err)

	assert.Equal(t, "Open Arena", catalog.Get(0).Name)
	assert.Equal(t, "Open Arena", catalog.Get(-3).Name)
	assert.Equal(t, "Chaos", catalog.Get(5).Name)
	assert.Equal(t, "Chaos", catalog.Get(99).Name)
}

func TestCatalogIsImmutable(t *testing.T) {
	catalog, err := NewCatalog(1)
	require.NoError(t, err)

	maze := catalog.Get(2)
	wallCount := len(maze.Walls)
	maze.Walls[0] = Point{-1, -1}
	maze.Walls = nil

	again := catalog.Get(2)
	assert.Len(t, again.Walls, wallCount)
	assert.NotEqual(t, Point{-1, -1}, again.Walls[0])

	all := catalog.All()
	all[0].Name = "changed"
	assert.Equal(t, "Open Arena", catalog.Get(1).Name)
}

func TestChaosIsSeeded(t *testing.T) {
	a, err := NewCatalog(42)
	require.NoError(t, err)
	b, err := NewCatalog(42)
	require.NoError(t, err)

	assert.Equal(t, a.Get(5).Walls, b.Get(5).Walls)
	assert.NotEmpty(t, a.Get(5).Walls)
	for _, p := range a.Get(5).Walls {
		assert.True(t, a.Get(5).InBounds(p), "wall %v out of bounds", p)
	}
}

func TestGauntletObstructionBlocks(t *testing.T) {
	c := theGauntlet()
	// 9 columns (5..53 step 6) x 5 rows (5..29 step 6) of 2x2 blocks.
	assert.Len(t, c.Obstructions, 9*5*4)
	assert.Contains(t, c.Obstructions, Point{5, 5})
	assert.Contains(t, c.Obstructions, Point{6, 6})
}

func TestValidate(t *testing.T) {
	valid := Course{Name: "ok", Width: 20, Height: 20, MaxTrailLength: 10, MaxPlayers: 2}
	assert.NoError(t, Validate(valid))

	tests := map[string]func(c *Course){
		"missing name":   func(c *Course) { c.Name = "" },
		"too narrow":     func(c *Course) { c.Width = MinSize - 1 },
		"too tall":       func(c *Course) { c.Height = MaxSize + 1 },
		"no trail":       func(c *Course) { c.MaxTrailLength = 0 },
		"one player":     func(c *Course) { c.MaxPlayers = 1 },
		"too many seats": func(c *Course) { c.MaxPlayers = MaxSpawns + 1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.ErrorIs(t, Validate(c), ErrInvalidCourse)
		})
	}
}

func TestNewCatalogAppendsExtraCourses(t *testing.T) {
	extra := Course{Name: "Bonus", Level: 42, Width: 12, Height: 12, MaxTrailLength: 5, MaxPlayers: 2}
	catalog, err := NewCatalog(1, extra)
	require.NoError(t, err)

	require.Equal(t, 6, catalog.Len())
	assert.Equal(t, "Bonus", catalog.Get(6).Name)
	assert.Equal(t, 6, catalog.Get(6).Level)

	_, err = NewCatalog(1, Course{Name: "broken"})
	assert.ErrorIs(t, err, ErrInvalidCourse)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_drawn.yaml"), []byte(`
name: Drawn
max_trail_length: 20
max_players: 2
layout:
  - "############"
  - "#..........#"
  - "#..X.......#"
  - "#....##....#"
  - "#..........#"
  - "#..........#"
  - "#..........#"
  - "#..........#"
  - "#..........#"
  - "############"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_listed.yml"), []byte(`
name: Listed
width: 16
height: 14
max_trail_length: 30
max_players: 3
walls:
  - {x: 5, y: 5}
obstructions:
  - {x: 7, y: 7}
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	courses, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, "Listed", courses[0].Name)
	assert.Equal(t, []Point{{5, 5}}, courses[0].Walls)
	assert.Equal(t, []Point{{7, 7}}, courses[0].Obstructions)

	drawn := courses[1]
	assert.Equal(t, "Drawn", drawn.Name)
	assert.Equal(t, 12, drawn.Width)
	assert.Equal(t, 10, drawn.Height)
	assert.Contains(t, drawn.Obstructions, Point{3, 2})
	assert.Contains(t, drawn.Walls, Point{5, 3})
	assert.Contains(t, drawn.Walls, Point{6, 3})
}

func TestLoadDirRejectsInvalidCourse(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.yaml"), []byte("name: Tiny\nwidth: 3\nheight: 3\n"), 0644))

	_, err := LoadDir(dir)
	assert.ErrorIs(t, err, ErrInvalidCourse)

	_, err = LoadDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
