package placement

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/warepath/grid"
)

// Sentinel errors for slot assignment.
var (
	// ErrNilGrid indicates Assign was called without a grid.
	ErrNilGrid = errors.New("placement: grid is nil")
	// ErrOutOfBounds indicates an anchor outside the grid.
	ErrOutOfBounds = fmt.Errorf("placement: anchor %w", grid.ErrOutOfBounds)
)

// Placement records where one product went.
type Placement struct {
	Label     string          `json:"product"`
	Frequency int             `json:"frequency"`
	Slot      grid.Coordinate `json:"slot"`
	Distance  int             `json:"distance"`
}

// Report summarises one Assign run.
type Report struct {
	// Placements in assignment order (highest frequency first).
	Placements []Placement
	// Unassigned lists products that found no slot, in rank order.
	Unassigned []string
	// Saturated is true when Unassigned is non-empty.
	Saturated bool
	// Cleared is how many occupied slots the reset step emptied.
	Cleared int
	// WeightedDistance is Σ frequency × distance to the anchor.
	WeightedDistance int
	// MeanDistance is the frequency-weighted mean anchor distance.
	MeanDistance float64
}

// Options configures an Assigner.
type Options struct {
	Anchor grid.Coordinate
}

// Option is a functional option for New.
type Option func(*Options)

// WithAnchor sets the reference point slots are ranked against.
func WithAnchor(c grid.Coordinate) Option {
	return func(o *Options) { o.Anchor = c }
}

// Assigner places products on a grid nearest-first by frequency.
type Assigner struct {
	opts Options
}

// New returns an Assigner anchored at the origin unless overridden.
func New(opts ...Option) *Assigner {
	cfg := Options{Anchor: grid.At(0, 0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Assigner{opts: cfg}
}

// Anchor returns the configured anchor.
func (a *Assigner) Anchor() grid.Coordinate { return a.opts.Anchor }

// Assign resets g and writes every product of table into an empty slot.
// The grid is mutated in place and is not rolled back on a partial result.
func (a *Assigner) Assign(g *grid.Grid, table FrequencyTable) (Report, error) {
	if g == nil {
		return Report{}, ErrNilGrid
	}
	anchor := a.opts.Anchor
	if !g.InBounds(anchor) {
		return Report{}, fmt.Errorf("%w: %s not in %dx%d grid", ErrOutOfBounds, anchor, g.Rows(), g.Cols())
	}

	// 1) Reset occupied slots; walls are never touched.
	rep := Report{Cleared: g.ResetSlots()}

	// 2) Rank slots by distance to the anchor. Slots() is row-major and the
	//    sort is stable, so equal distances keep row-major order.
	slots := g.Slots(grid.SlotEmpty)
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Manhattan(anchor) < slots[j].Manhattan(anchor)
	})

	// 3) Rank products by descending frequency, stable on table order.
	products := table.Entries()
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Frequency > products[j].Frequency
	})

	// 4) Nearest remaining slot per product.
	dists := make([]float64, 0, len(products))
	weights := make([]float64, 0, len(products))
	for i, p := range products {
		if i >= len(slots) {
			rep.Unassigned = append(rep.Unassigned, p.Label)
			continue
		}
		slot := slots[i]
		g.Set(slot, grid.Occupied(p.Label))

		d := slot.Manhattan(anchor)
		rep.Placements = append(rep.Placements, Placement{
			Label:     p.Label,
			Frequency: p.Frequency,
			Slot:      slot,
			Distance:  d,
		})
		rep.WeightedDistance += p.Frequency * d
		dists = append(dists, float64(d))
		weights = append(weights, float64(p.Frequency))
	}
	rep.Saturated = len(rep.Unassigned) > 0
	rep.MeanDistance = weightedMean(dists, weights)

	return rep, nil
}

// weightedMean falls back to the plain mean when every weight is zero.
func weightedMean(x, w []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range w {
		total += v
	}
	if total == 0 {
		return stat.Mean(x, nil)
	}
	return stat.Mean(x, w)
}
