// Package course provides the level catalog for the light-cycle arena.
//
// A Course is a static board template: dimensions, interior walls and
// obstructions, the per-player trail cap and how many cycles may race on it.
// The catalog is ordered by difficulty and addressed by level (1-indexed).
//
// Built-in Courses:
//
//   - Open Arena (level 1): empty 30x30 board, 4 players
//   - The Maze (level 2): wall segments on a 40x35 board, 4 players
//   - Narrow Corridors (level 3): two divider rows with gaps, 4 players
//   - The Gauntlet (level 4): 2x2 obstruction blocks on a 60x40 grid, 6 players
//   - Chaos (level 5): 30 random wall segments on an 80x80 board, 8 players
//
// Additional courses can be supplied as YAML files and are appended after the
// built-ins when the catalog is constructed. A Catalog is never modified after
// construction, so it may be shared between goroutines without locking.
//
// Usage:
//
//	extra, err := course.LoadDir("courses")
//	if err != nil {
//		log.Fatal(err)
//	}
//	catalog, err := course.NewCatalog(time.Now().UnixNano(), extra...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	c := catalog.Get(3) // Narrow Corridors
package course
