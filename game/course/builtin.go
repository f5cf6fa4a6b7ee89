package course

import "math/rand"

func builtin(seed int64) []Course {
	return []Course{
		openArena(),
		theMaze(),
		narrowCorridors(),
		theGauntlet(),
		chaos(seed),
	}
}

func openArena() Course {
	return Course{
		Name:           "Open Arena",
		Level:          1,
		Width:          30,
		Height:         30,
		MaxTrailLength: 50,
		MaxPlayers:     4,
	}
}

func theMaze() Course {
	var walls []Point
	for x := 8; x < 22; x++ {
		walls = append(walls, Point{x, 10}, Point{x, 25})
	}
	for y := 10; y < 20; y++ {
		walls = append(walls, Point{15, y})
	}
	for y := 5; y < 15; y++ {
		walls = append(walls, Point{25, y})
	}
	for y := 20; y < 30; y++ {
		walls = append(walls, Point{8, y})
	}

	return Course{
		Name:           "The Maze",
		Level:          2,
		Width:          40,
		Height:         35,
		MaxTrailLength: 80,
		MaxPlayers:     4,
		Walls:          walls,
	}
}

func narrowCorridors() Course {
	var walls []Point
	// Two divider rows, each with a single gap.
	for x := 0; x < 50; x++ {
		if x < 10 || x > 15 {
			walls = append(walls, Point{x, 7})
		}
		if x < 30 || x > 40 {
			walls = append(walls, Point{x, 14})
		}
	}

	return Course{
		Name:           "Narrow Corridors",
		Level:          3,
		Width:          50,
		Height:         22,
		MaxTrailLength: 100,
		MaxPlayers:     4,
		Walls:          walls,
	}
}

func theGauntlet() Course {
	var obstructions []Point
	for x := 5; x < 55; x += 6 {
		for y := 5; y < 35; y += 6 {
			obstructions = append(obstructions,
				Point{x, y}, Point{x + 1, y},
				Point{x, y + 1}, Point{x + 1, y + 1},
			)
		}
	}

	return Course{
		Name:           "The Gauntlet",
		Level:          4,
		Width:          60,
		Height:         40,
		MaxTrailLength: 150,
		MaxPlayers:     6,
		Obstructions:   obstructions,
	}
}

func chaos(seed int64) Course {
	rng := rand.New(rand.NewSource(seed))
	var walls []Point

	for i := 0; i < 30; i++ {
		sx := 5 + rng.Intn(65)
		sy := 5 + rng.Intn(65)
		horizontal := rng.Intn(2) == 0
		length := 3 + rng.Intn(7)

		for j := 0; j < length; j++ {
			p := Point{sx, sy + j}
			if horizontal {
				p = Point{sx + j, sy}
			}
			if p.X < 79 && p.Y < 79 {
				walls = append(walls, p)
			}
		}
	}

	return Course{
		Name:           "Chaos",
		Level:          5,
		Width:          80,
		Height:         80,
		MaxTrailLength: 300,
		MaxPlayers:     8,
		Walls:          walls,
	}
}
