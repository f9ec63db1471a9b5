// Package railgrid solves grid-rail routing puzzles: given a board with
// pre-placed special tiles (switches, tunnels, gates, stations, semaphores),
// a set of trains that must reach the target in strict order, and a budget
// of track pieces, it searches for a layout of the open cells that drives
// every train home — and then minimizes the number of tracks used and the
// finish time.
//
// 🚂 What is railgrid?
//
//	A deterministic, dependency-light solver core that combines:
//		• Piece catalog: pure connectivity rules for ~35 track tile types
//		• Level model: immutable, validated description of one puzzle
//		• Layout state: incremental, undoable cell assignment for search
//		• Movement simulator: tick-exact multi-train state machine
//		  (gate parity, switch toggling, tunnels, station dwell, semaphores)
//		• Feasibility checker: budget, arrival order, station completeness
//		• Search engine: branch-and-bound with connectivity pruning,
//		  incumbent tightening and an optional parallel portfolio split
//
// ✨ Why choose railgrid?
//
//   - Reproducible – identical inputs yield byte-identical traces
//   - Rock-solid guarantees – strict sentinel errors, no hidden I/O
//   - Pure Go core – no cgo; all file/CLI/visual concerns live outside
//   - Replayable – every solve emits a tick-by-tick machine-checkable trace
//
// Everything is organized under five subpackages:
//
//	piece/  — tile types, directions, and the entry→exit connectivity table
//	level/  — puzzle instance model and structural validation
//	layout/ — per-cell track assignment (fixed vs. open) for the search
//	sim/    — deterministic movement simulator and mechanics state
//	solve/  — feasibility rules and the branch-and-bound layout search
//
// Quick ASCII example (1×5 corridor, budget 4):
//
//	   ►  ·  ·  ·  ◎
//
//	► = train start (heading right), ◎ = target, · = open cell.
//	The solver fills the four open cells with STRAIGHT_RL and reports
//	arrival at tick 4 with 4 tracks used.
//
// Start with solve.Solve, or run sim.Run directly on a complete layout.
//
//	go get github.com/katalvlaran/railgrid
package railgrid
