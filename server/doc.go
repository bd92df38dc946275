// Package server exposes a warehouse.Store over HTTP/JSON.
//
// Coordinates travel as [row, col] arrays and grids as rows of layout
// markers ("p" aisle, "W" wall, "0" empty slot, anything else a product
// label). Requests select a session with the X-Warehouse-Session header and
// fall back to the default session without it.
package server
