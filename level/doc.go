// Package level models one grid-rail puzzle instance: board dimensions,
// the piece budget and time horizon, trains and decoys, pre-placed pieces,
// and every stateful mechanic (tunnel pairs, gates, activation tiles,
// dynamic switches, stations, semaphores).
//
// A Level is a plain immutable value: external loaders (JSON, dzn, …)
// construct it, Validate checks it once, and the solver never mutates it.
// Coordinates are 1-indexed, row-major, origin top-left, matching the
// historical level data format.
//
// Validate enforces the MalformedLevel taxonomy: every structural
// violation (out-of-bounds cell, switch without three connectable
// neighbors, unknown station owner, …) is reported through a sentinel
// error before any search starts. A Level that passes Validate is safe
// for layout.New and sim.Run without further checks.
package level
