package grid

import (
	"fmt"
)

// neighborOffsets is the fixed expansion order: north, south, west, east.
// Search tie-breaking depends on it, so it must not change.
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// New constructs a rows×cols grid with every cell Traversable.
// Returns ErrEmptyGrid if either dimension is smaller than one.
// Complexity: O(rows×cols) time and memory.
func New(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: rows=%d, cols=%d", ErrEmptyGrid, rows, cols)
	}

	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols), // zero Cell is Traversable
	}, nil
}

// FromCells constructs a grid from a non-empty, rectangular 2D slice.
// It deep-copies the input so later changes to cells do not leak in.
// Returns ErrEmptyGrid, ErrNonRectangular or ErrEmptyLabel.
func FromCells(cells [][]Cell) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	rows, cols := len(cells), len(cells[0])
	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNonRectangular, r, len(row), cols)
		}
	}

	g := &Grid{rows: rows, cols: cols, cells: make([]Cell, 0, rows*cols)}
	for r, row := range cells {
		for c, cell := range row {
			if cell.Kind == SlotOccupied && cell.Label == "" {
				return nil, fmt.Errorf("%w: at %d,%d", ErrEmptyLabel, r, c)
			}
			if cell.Kind != SlotOccupied {
				cell.Label = ""
			}
			g.cells = append(g.cells, cell)
		}
	}

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Version returns a counter that increases on every effective mutation.
// Two reads returning the same value saw the same cell states.
func (g *Grid) Version() uint64 { return g.version }

// InBounds reports whether c lies within [0,rows)×[0,cols).
// Complexity: O(1).
func (g *Grid) InBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// CheckBounds returns a wrapped ErrOutOfBounds when c is outside the grid.
func (g *Grid) CheckBounds(c Coordinate) error {
	if g.InBounds(c) {
		return nil
	}
	return fmt.Errorf("%w: %s not in %dx%d grid", ErrOutOfBounds, c, g.rows, g.cols)
}

// index maps (r,c) to its row-major position.
func (g *Grid) index(c Coordinate) int {
	return c.Row*g.cols + c.Col
}

// coordinate converts a row-major index back to (r,c).
func (g *Grid) coordinate(idx int) Coordinate {
	return Coordinate{Row: idx / g.cols, Col: idx % g.cols}
}

// At returns the state of the cell at c.
func (g *Grid) At(c Coordinate) (Cell, error) {
	if err := g.CheckBounds(c); err != nil {
		return Cell{}, err
	}
	return g.cells[g.index(c)], nil
}

// Set replaces the cell at c. The caller must pre-validate c with InBounds;
// an out-of-range coordinate panics. The version is bumped only when the
// stored state actually changes.
func (g *Grid) Set(c Coordinate, cell Cell) {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("grid: Set(%s) outside %dx%d grid", c, g.rows, g.cols))
	}
	if cell.Kind != SlotOccupied {
		cell.Label = ""
	}
	i := g.index(c)
	if g.cells[i] == cell {
		return
	}
	g.cells[i] = cell
	g.version++
}

// Neighbors returns the in-bounds, non-Blocked orthogonal neighbours of c in
// the order north, south, west, east.
// Complexity: O(1).
func (g *Grid) Neighbors(c Coordinate) []Coordinate {
	out := make([]Coordinate, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		n := Coordinate{Row: c.Row + d[0], Col: c.Col + d[1]}
		if !g.InBounds(n) || g.cells[g.index(n)].Kind == Blocked {
			continue
		}
		out = append(out, n)
	}
	return out
}

// FindLabel scans the grid in row-major order and returns the first slot
// holding label.
func (g *Grid) FindLabel(label string) (Coordinate, bool) {
	if label == "" {
		return Coordinate{}, false
	}
	for i, cell := range g.cells {
		if cell.Kind == SlotOccupied && cell.Label == label {
			return g.coordinate(i), true
		}
	}
	return Coordinate{}, false
}

// Labels maps every stored label to its first row-major location.
func (g *Grid) Labels() map[string]Coordinate {
	out := make(map[string]Coordinate)
	for i, cell := range g.cells {
		if cell.Kind != SlotOccupied {
			continue
		}
		if _, seen := out[cell.Label]; !seen {
			out[cell.Label] = g.coordinate(i)
		}
	}
	return out
}

// Slots returns, in row-major order, every coordinate whose cell has kind k.
func (g *Grid) Slots(k Kind) []Coordinate {
	var out []Coordinate
	for i, cell := range g.cells {
		if cell.Kind == k {
			out = append(out, g.coordinate(i))
		}
	}
	return out
}

// Count returns how many cells have kind k.
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, cell := range g.cells {
		if cell.Kind == k {
			n++
		}
	}
	return n
}

// ResetSlots empties every occupied slot and returns how many were cleared.
// Blocked and Traversable cells are left untouched.
func (g *Grid) ResetSlots() int {
	cleared := 0
	for i := range g.cells {
		if g.cells[i].Kind == SlotOccupied {
			g.cells[i] = EmptySlot()
			cleared++
		}
	}
	if cleared > 0 {
		g.version++
	}
	return cleared
}

// Clone returns a deep copy carrying the same version.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)

	return &Grid{rows: g.rows, cols: g.cols, cells: cells, version: g.version}
}
