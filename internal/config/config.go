package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/katalvlaran/warepath/astar"
	"github.com/katalvlaran/warepath/builder"
	"github.com/katalvlaran/warepath/grid"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the resolved service configuration.
type Config struct {
	Listen      string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	Grid      GridConfig
	Search    SearchConfig
	Placement PlacementConfig
	Docks     []grid.Coordinate
	Sessions  SessionsConfig
}

// GridConfig controls the generated grid of new sessions.
type GridConfig struct {
	Size               int
	BlockedProbability float64
	Layout             string
	Seed               int64 // 0 picks a time-based seed
}

// SearchConfig controls path queries.
type SearchConfig struct {
	Termination   string
	Traversal     string
	CacheSize     int
	MaxExpansions int
}

// PlacementConfig controls slot assignment.
type PlacementConfig struct {
	Anchor grid.Coordinate
}

// SessionsConfig bounds the session store.
type SessionsConfig struct {
	Max int
}

// Defaults returns the configuration used when no file is given. The grid
// mirrors the 5x5 demo floor with walls on 30% of cells.
func Defaults() Config {
	return Config{
		Listen:      ":8080",
		LogLevel:    "info",
		LogFormat:   "text",
		CORSOrigins: []string{"http://localhost:3000"},
		Grid: GridConfig{
			Size:               5,
			BlockedProbability: builder.DefaultOpenBlockedProbability,
			Layout:             builder.LayoutOpen.String(),
		},
		Search: SearchConfig{
			Termination:   astar.ExactGoal.String(),
			Traversal:     astar.AllOpen.String(),
			CacheSize:     1024,
			MaxExpansions: 0,
		},
		Sessions: SessionsConfig{Max: 64},
	}
}

// fileConfig mirrors the HCL schema. Pointer fields distinguish "absent"
// from an explicit zero.
type fileConfig struct {
	Listen      *string  `hcl:"listen,optional"`
	LogLevel    *string  `hcl:"log_level,optional"`
	LogFormat   *string  `hcl:"log_format,optional"`
	CORSOrigins []string `hcl:"cors_origins,optional"`
	Docks       [][]int  `hcl:"docks,optional"`

	Grid      *gridBlock      `hcl:"grid,block"`
	Search    *searchBlock    `hcl:"search,block"`
	Placement *placementBlock `hcl:"placement,block"`
	Sessions  *sessionsBlock  `hcl:"sessions,block"`
}

type gridBlock struct {
	Size               *int     `hcl:"size,optional"`
	BlockedProbability *float64 `hcl:"blocked_probability,optional"`
	Layout             *string  `hcl:"layout,optional"`
	Seed               *int64   `hcl:"seed,optional"`
}

type searchBlock struct {
	Termination   *string `hcl:"termination,optional"`
	Traversal     *string `hcl:"traversal,optional"`
	CacheSize     *int    `hcl:"cache_size,optional"`
	MaxExpansions *int    `hcl:"max_expansions,optional"`
}

type placementBlock struct {
	Anchor []int `hcl:"anchor,optional"`
}

type sessionsBlock struct {
	Max *int `hcl:"max,optional"`
}

// Load reads and validates the HCL file at path, exposing the process
// environment as env.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(src, path, environ())
}

// Parse decodes HCL source on top of Defaults and validates the result.
func Parse(src []byte, filename string, env map[string]string) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("config: failed to parse %s: %w", filename, diags)
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalContext(env), &fc); diags.HasErrors() {
		return Config{}, fmt.Errorf("config: failed to decode %s: %w", filename, diags)
	}

	cfg := Defaults()
	if err := fc.apply(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vals[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(vals) > 0 {
		envVal = cty.ObjectVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
	}
}

func environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			out[k] = v
		}
	}
	return out
}

func (fc *fileConfig) apply(cfg *Config) error {
	setString(&cfg.Listen, fc.Listen)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if fc.CORSOrigins != nil {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	if fc.Docks != nil {
		cfg.Docks = make([]grid.Coordinate, 0, len(fc.Docks))
		for i, d := range fc.Docks {
			c, err := pair(d)
			if err != nil {
				return fmt.Errorf("%w: docks[%d]: %v", ErrInvalid, i, err)
			}
			cfg.Docks = append(cfg.Docks, c)
		}
	}

	if b := fc.Grid; b != nil {
		setInt(&cfg.Grid.Size, b.Size)
		if b.BlockedProbability != nil {
			cfg.Grid.BlockedProbability = *b.BlockedProbability
		} else if b.Layout != nil {
			// an aisle floor without an explicit probability gets its own default
			if l, err := builder.ParseLayout(*b.Layout); err == nil && l == builder.LayoutAisles {
				cfg.Grid.BlockedProbability = builder.DefaultAislesBlockedProbability
			}
		}
		setString(&cfg.Grid.Layout, b.Layout)
		if b.Seed != nil {
			cfg.Grid.Seed = *b.Seed
		}
	}
	if b := fc.Search; b != nil {
		setString(&cfg.Search.Termination, b.Termination)
		setString(&cfg.Search.Traversal, b.Traversal)
		setInt(&cfg.Search.CacheSize, b.CacheSize)
		setInt(&cfg.Search.MaxExpansions, b.MaxExpansions)
	}
	if b := fc.Placement; b != nil && b.Anchor != nil {
		c, err := pair(b.Anchor)
		if err != nil {
			return fmt.Errorf("%w: placement.anchor: %v", ErrInvalid, err)
		}
		cfg.Placement.Anchor = c
	}
	if b := fc.Sessions; b != nil {
		setInt(&cfg.Sessions.Max, b.Max)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func pair(v []int) (grid.Coordinate, error) {
	if len(v) != 2 {
		return grid.Coordinate{}, fmt.Errorf("want [row, col], got %d values", len(v))
	}
	return grid.At(v[0], v[1]), nil
}

// Validate checks every field and the anchor and docks against the grid size.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen must not be empty", ErrInvalid)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q must be 'debug', 'info', 'warn', or 'error'", ErrInvalid, c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: log_format %q must be 'text' or 'json'", ErrInvalid, c.LogFormat)
	}
	if c.Grid.Size < 1 {
		return fmt.Errorf("%w: grid.size must be at least 1, got %d", ErrInvalid, c.Grid.Size)
	}
	if p := c.Grid.BlockedProbability; p < 0 || p > 1 {
		return fmt.Errorf("%w: grid.blocked_probability %v not in [0,1]", ErrInvalid, p)
	}
	if _, err := builder.ParseLayout(c.Grid.Layout); err != nil {
		return fmt.Errorf("%w: grid.layout: %v", ErrInvalid, err)
	}
	if _, err := astar.ParseTermination(c.Search.Termination); err != nil {
		return fmt.Errorf("%w: search.termination: %v", ErrInvalid, err)
	}
	if _, err := astar.ParseTraversal(c.Search.Traversal); err != nil {
		return fmt.Errorf("%w: search.traversal: %v", ErrInvalid, err)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("%w: search.cache_size must be non-negative", ErrInvalid)
	}
	if c.Search.MaxExpansions < 0 {
		return fmt.Errorf("%w: search.max_expansions must be non-negative", ErrInvalid)
	}
	if c.Sessions.Max < 1 {
		return fmt.Errorf("%w: sessions.max must be at least 1", ErrInvalid)
	}
	if !c.inGrid(c.Placement.Anchor) {
		return fmt.Errorf("%w: placement.anchor %s outside %dx%d grid", ErrInvalid, c.Placement.Anchor, c.Grid.Size, c.Grid.Size)
	}
	for _, d := range c.Docks {
		if !c.inGrid(d) {
			return fmt.Errorf("%w: dock %s outside %dx%d grid", ErrInvalid, d, c.Grid.Size, c.Grid.Size)
		}
	}
	return nil
}

func (c Config) inGrid(p grid.Coordinate) bool {
	return p.Row >= 0 && p.Row < c.Grid.Size && p.Col >= 0 && p.Col < c.Grid.Size
}

// Layout returns the parsed grid layout. Call after Validate.
func (c Config) Layout() builder.Layout {
	l, _ := builder.ParseLayout(c.Grid.Layout)
	return l
}

// Termination returns the parsed termination mode. Call after Validate.
func (c Config) Termination() astar.Termination {
	t, _ := astar.ParseTermination(c.Search.Termination)
	return t
}

// Traversal returns the parsed traversal policy. Call after Validate.
func (c Config) Traversal() astar.Traversal {
	t, _ := astar.ParseTraversal(c.Search.Traversal)
	return t
}
