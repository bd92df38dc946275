// SPDX-License-Identifier: MIT
// Package: warepath/builder
//
// Package builder generates warehouse grids for demos and tests.
//
// Layouts:
//   - LayoutOpen: every cell is walkable storage floor (SlotEmpty) unless a
//     Bernoulli(p) draw turns it into a wall. Default p = 0.3.
//   - LayoutAisles: cells at (even row, even col) are containers (SlotEmpty);
//     every other cell is an aisle (Traversable) that becomes a wall with
//     probability p. Containers are never walled. Default p = 0.1.
//
// Determinism:
//   - Cells are visited in row-major order and each candidate cell consumes
//     exactly one draw, so a fixed seed always yields the same grid.
//   - WithKeepClear cells still consume their draw; only the outcome is forced.
//
// The output is an ordinary *grid.Grid; search and placement make no
// assumptions about how it was produced.
package builder
