// Package solve — feasibility checking and exact layout search.
//
// The solver answers the central question of a level: does a placement of
// track pieces on the open cells exist so that every train reaches its
// target in order, within the tick horizon and the track budget?
//
//   - Check wraps one simulation run with the global acceptance rules
//     that per-tick behavior cannot express: the track budget, strictly
//     increasing arrival order, station completeness, and dual-target
//     ordering. All of its failure reasons are branch-local error values
//     consumed by the search.
//
//   - Solve runs a depth-first Branch-and-Bound over the undecided open
//     cells with an explicit frame stack, deterministic branching, and a
//     soft time budget. Variable ordering grows outward from anchors
//     (fixed pieces and decided cells); value ordering tries pieces
//     consistent with a decided neighbor before Empty, flipping to
//     Empty-first once an incumbent exists and tracks are being
//     minimized. Cells unreachable within the horizon are auto-filled
//     with Empty before the search starts.
//
//   - The objective is lexicographic: fewest tracks, then smallest
//     makespan (largest arrival tick). On a new incumbent with t tracks
//     the budget bound tightens so that only completions with ≤ t tracks
//     survive, with makespan breaking ties at equality.
//
//   - Optional parallelism splits the root cell's candidate pieces
//     across errgroup workers, each searching its own Layout clone. The
//     only shared state is the incumbent, updated under a mutex with an
//     only-shrink rule; a stale bound read costs redundant work, never
//     correctness.
//
// Cancellation is cooperative via Options.Ctx and Options.TimeLimit with
// sparse deadline checks; an interrupted search still reports the best
// incumbent found.
package solve
