package grid

import "fmt"

// Layout markers. Any other non-empty string in a layout is a product label.
const (
	MarkerAisle     = "p"
	MarkerWall      = "W"
	MarkerEmptySlot = "0"

	// Accepted on input only.
	markerWallAlt      = "w"
	markerContainerAlt = "c"
)

// IsMarker reports whether s is reserved by the layout format and therefore
// cannot be used as a product label.
func IsMarker(s string) bool {
	switch s {
	case MarkerAisle, MarkerWall, MarkerEmptySlot, markerWallAlt, markerContainerAlt:
		return true
	}
	return false
}

// DecodeLayout builds a grid from rows of string markers.
// Returns ErrEmptyGrid, ErrNonRectangular or ErrUnknownMarker.
func DecodeLayout(layout [][]string) (*Grid, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	cells := make([][]Cell, len(layout))
	for r, row := range layout {
		cells[r] = make([]Cell, len(row))
		for c, marker := range row {
			cell, err := decodeMarker(marker)
			if err != nil {
				return nil, fmt.Errorf("%w at %d,%d", err, r, c)
			}
			cells[r][c] = cell
		}
	}
	return FromCells(cells)
}

func decodeMarker(m string) (Cell, error) {
	switch m {
	case MarkerAisle:
		return Open(), nil
	case MarkerWall, markerWallAlt:
		return Wall(), nil
	case MarkerEmptySlot, markerContainerAlt:
		return EmptySlot(), nil
	case "":
		return Cell{}, fmt.Errorf("%w: empty string", ErrUnknownMarker)
	default:
		return Occupied(m), nil
	}
}

// Layout encodes the grid as rows of string markers.
func (g *Grid) Layout() [][]string {
	out := make([][]string, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = make([]string, g.cols)
		for c := 0; c < g.cols; c++ {
			out[r][c] = encodeMarker(g.cells[r*g.cols+c])
		}
	}
	return out
}

func encodeMarker(cell Cell) string {
	switch cell.Kind {
	case Blocked:
		return MarkerWall
	case SlotEmpty:
		return MarkerEmptySlot
	case SlotOccupied:
		return cell.Label
	default:
		return MarkerAisle
	}
}

// String renders the layout one row per line, cells separated by spaces.
func (g *Grid) String() string {
	var b []byte
	for r, row := range g.Layout() {
		if r > 0 {
			b = append(b, '\n')
		}
		for c, m := range row {
			if c > 0 {
				b = append(b, ' ')
			}
			b = append(b, m...)
		}
	}
	return string(b)
}
