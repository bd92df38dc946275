package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/warepath/astar"
	"github.com/katalvlaran/warepath/builder"
	"github.com/katalvlaran/warepath/grid"
	"github.com/katalvlaran/warepath/internal/cli"
	"github.com/katalvlaran/warepath/internal/config"
)

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, []string{"-h"}))
	assert.Contains(t, out.String(), "Usage")
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, []string{"-log-format", "xml"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := run(ctx, &out, []string{"-listen", "127.0.0.1:0", "-seed", "1", "-log-format", "json"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Warehouse service listening.")
}

func TestWarehouseConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Grid.Layout = "aisles"
	cfg.Search.Termination = "adjacent"
	cfg.Search.Traversal = "aisles"
	cfg.Docks = []grid.Coordinate{grid.At(0, 1)}

	wc := warehouseConfig(&cfg)
	assert.Equal(t, builder.LayoutAisles, wc.Layout)
	assert.Equal(t, astar.AdjacentToGoal, wc.Termination)
	assert.Equal(t, astar.AislesOnly, wc.Traversal)
	assert.Equal(t, cfg.Docks, wc.Docks)
	assert.Equal(t, cfg.Search.CacheSize, wc.CacheSize)
}
