package grid

// Reachable returns every coordinate connected to from through passable
// cells, in BFS discovery order starting with from itself. A Blocked or
// out-of-range origin yields nil.
//
// Time:   O(rows·cols).
// Memory: O(rows·cols) for visited flags and output.
func (g *Grid) Reachable(from Coordinate) []Coordinate {
	if !g.InBounds(from) || g.cells[g.index(from)].Kind == Blocked {
		return nil
	}

	seen := make([]bool, len(g.cells))
	seen[g.index(from)] = true
	queue := []Coordinate{from}

	for qi := 0; qi < len(queue); qi++ {
		for _, n := range g.Neighbors(queue[qi]) {
			ni := g.index(n)
			if !seen[ni] {
				seen[ni] = true
				queue = append(queue, n)
			}
		}
	}
	return queue
}
