package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// CountCells counts the cells of a given kind in the grid.
func (g *Game) CountCells(kind Cell) int {
	count := 0
	for _, row := range g.grid {
		for _, cell := range row {
			if cell == kind {
				count++
			}
		}
	}
	return count
}

// ReachableArea counts the empty cells connected to from by orthogonal
// steps, including from itself when it is empty.
func (g *Game) ReachableArea(from Position) int {
	if !g.inBounds(from.X, from.Y) || g.grid[from.Y][from.X] != Empty {
		return 0
	}
	labels := make([][]int, g.height)
	for y := range labels {
		labels[y] = make([]int, g.width)
	}
	return g.fill(labels, from, 1)
}

// Regions labels every empty cell with the id of its connected region,
// starting at 1. Blocked cells are 0. sizes[id-1] is the cell count of
// region id.
func (g *Game) Regions() (labels [][]int, sizes []int) {
	labels = make([][]int, g.height)
	for y := range labels {
		labels[y] = make([]int, g.width)
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.grid[y][x] != Empty || labels[y][x] != 0 {
				continue
			}
			sizes = append(sizes, g.fill(labels, Position{x, y}, len(sizes)+1))
		}
	}
	return labels, sizes
}

// fill marks the empty region around from with id and returns its size.
func (g *Game) fill(labels [][]int, from Position, id int) int {
	labels[from.Y][from.X] = id
	queue := []Position{from}
	count := 0

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		count++
		for _, d := range []Direction{Up, Down, Left, Right} {
			dx, dy := d.Delta()
			x, y := p.X+dx, p.Y+dy
			if !g.inBounds(x, y) || labels[y][x] != 0 || g.grid[y][x] != Empty {
				continue
			}
			labels[y][x] = id
			queue = append(queue, Position{x, y})
		}
	}
	return count
}
