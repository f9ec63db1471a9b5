// Package layout holds the mutable per-cell assignment the search engine
// works on: every board cell is either Fixed (pre-placed piece or tunnel
// plant, never changing) or Open (undecided until the search assigns a
// placeable piece, possibly Empty).
//
// The structure is built once per solve from a validated level.Level and
// then mutated incrementally — Assign and Clear are O(1) and keep the
// tracks-used counter current, so backtracking never copies the board.
// Clone exists solely for parallel workers, which each own a copy.
//
// Cells are addressed with 1-indexed level.Cell coordinates and stored
// row-major, matching the rest of the module.
package layout
