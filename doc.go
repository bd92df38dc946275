// Package warepath models a warehouse floor as a grid and answers two
// questions about it: where each product should be stored so that frequently
// picked products sit closest to the dock, and what the shortest walkable
// route to a stored product is.
//
// Packages:
//
//	grid/      - occupancy grid, coordinates, tagged cells, layout codec
//	astar/     - A* search with termination modes, traversal policies and a versioned cache
//	placement/ - ordered frequency tables and nearest-first slot assignment
//	builder/   - seeded random grid generation (open floor and aisle layouts)
//	warehouse/ - free-function facade, synchronized Warehouse and session Store
//	server/    - HTTP/JSON API with CORS, request logging and /metrics
//	cmd/warehoused - the service binary
//
// Quick start:
//
//	g, _ := warehouse.GenerateGrid(5, 0.3, builder.WithSeed(1))
//	table, _ := placement.NewFrequencyTable(
//		placement.Entry{Label: "milk", Frequency: 10},
//		placement.Entry{Label: "eggs", Frequency: 5},
//	)
//	g, report, _ := warehouse.ResetAndAssign(g, table)
//	goal, _ := warehouse.Locate(g, "eggs")
//	res, _ := warehouse.FindPath(ctx, g, grid.At(0, 0), goal)
package warepath
