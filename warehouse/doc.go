// Package warehouse ties grid generation, slot assignment and routing
// together.
//
// The free functions (GenerateGrid, ResetAndAssign, FindPath, FindPaths,
// Locate) operate on a caller-owned *grid.Grid and add no locking. A
// Warehouse holds one grid behind a mutex together with a path cache, so a
// single instance can serve concurrent requests. A Store keeps one Warehouse
// per session.
package warehouse
