package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for grid operations.
var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("grid: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrOutOfBounds indicates a coordinate outside the grid.
	ErrOutOfBounds = errors.New("grid: coordinate out of bounds")
	// ErrEmptyLabel indicates an occupied slot without a product label.
	ErrEmptyLabel = errors.New("grid: occupied slot requires a label")
	// ErrUnknownMarker indicates a layout cell that cannot be decoded.
	ErrUnknownMarker = errors.New("grid: unknown layout marker")
)

// Coordinate addresses a cell by row and column.
type Coordinate struct {
	Row, Col int
}

// At is shorthand for Coordinate{Row: row, Col: col}.
func At(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

// Manhattan returns |Δrow| + |Δcol|.
func (c Coordinate) Manhattan(o Coordinate) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

// String renders the coordinate as "r,c".
func (c Coordinate) String() string {
	return strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col)
}

// MarshalJSON encodes the coordinate as a [row, col] pair.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

// UnmarshalJSON decodes a [row, col] pair.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("grid: coordinate must be a [row, col] array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("grid: coordinate must have exactly 2 elements, got %d", len(pair))
	}
	c.Row, c.Col = pair[0], pair[1]

	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Kind is the state of a single cell.
type Kind uint8

const (
	// Traversable is an aisle: walkable, never assignable.
	Traversable Kind = iota
	// Blocked is a wall: never walkable, never assignable.
	Blocked
	// SlotEmpty is a storage slot with no product.
	SlotEmpty
	// SlotOccupied is a storage slot holding exactly one product label.
	SlotOccupied
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Traversable:
		return "traversable"
	case Blocked:
		return "blocked"
	case SlotEmpty:
		return "slot-empty"
	case SlotOccupied:
		return "slot-occupied"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Cell is one grid cell. Label is set only when Kind is SlotOccupied.
type Cell struct {
	Kind  Kind
	Label string
}

// Open returns a Traversable cell.
func Open() Cell { return Cell{Kind: Traversable} }

// Wall returns a Blocked cell.
func Wall() Cell { return Cell{Kind: Blocked} }

// EmptySlot returns a SlotEmpty cell.
func EmptySlot() Cell { return Cell{Kind: SlotEmpty} }

// Occupied returns a SlotOccupied cell holding label.
func Occupied(label string) Cell { return Cell{Kind: SlotOccupied, Label: label} }

// Passable reports whether a mover may step onto the cell.
func (c Cell) Passable() bool { return c.Kind != Blocked }

// IsSlot reports whether the cell is a storage slot, empty or not.
func (c Cell) IsSlot() bool { return c.Kind == SlotEmpty || c.Kind == SlotOccupied }

// Grid is a rows×cols occupancy matrix. Dimensions never change after
// construction; cells[r*cols+c] holds the state of (r,c).
type Grid struct {
	rows, cols int
	cells      []Cell
	version    uint64
}
