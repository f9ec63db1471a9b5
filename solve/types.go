// Package solve — options, verdicts, results, and sentinel errors.
package solve

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/railgrid/layout"
	"github.com/katalvlaran/railgrid/sim"
)

// Sentinel errors for the feasibility checker. Together with the sim
// package's ErrBlocked, ErrDeadlock and ErrCollision they form the full
// set of branch-local rejection reasons; none of them is fatal to a
// search.
var (
	// ErrNilInput indicates a nil level or layout.
	ErrNilInput = errors.New("solve: nil level or layout")
	// ErrBudgetExceeded indicates a layout using more placed tracks than
	// the level allows.
	ErrBudgetExceeded = errors.New("solve: track budget exceeded")
	// ErrOrderViolation indicates arrival ticks out of train order, or an
	// ordered target pair visited in the wrong sequence.
	ErrOrderViolation = errors.New("solve: arrival or target order violated")
	// ErrStationIncomplete indicates a station cell its owner never
	// visited over the whole run.
	ErrStationIncomplete = errors.New("solve: station obligations unmet")
)

// Verdict classifies the outcome of a search.
type Verdict uint8

const (
	// Unknown: the search was cut short before finding a layout or
	// proving none exists.
	Unknown Verdict = iota
	// Feasible: at least one accepted layout was found.
	Feasible
	// Unsat: the tree was exhausted without an accepted layout.
	Unsat
)

// String returns a short name for the verdict.
func (v Verdict) String() string {
	switch v {
	case Feasible:
		return "feasible"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Feasibility is the positive answer of Check: the replay trace plus the
// two objective measures the search optimizes.
type Feasibility struct {
	// Trace is the simulation replay of the accepted layout.
	Trace sim.Trace

	// TracksUsed counts placed (non-fixed, non-Empty) pieces.
	TracksUsed int

	// Makespan is the largest arrival tick across the trains.
	Makespan int
}

// Options tunes one Solve invocation.
type Options struct {
	// Ctx cancels the search cooperatively; nil means context.Background().
	Ctx context.Context

	// TimeLimit is a soft deadline; 0 disables it. Checked sparsely, so
	// overruns are bounded by a few node expansions.
	TimeLimit time.Duration

	// Parallel is the number of root-split workers; values below 2 keep
	// the search sequential.
	Parallel int

	// MinimizeTracks selects the lexicographic objective (fewest tracks,
	// then smallest makespan). When false the search exhausts the same
	// tree but ranks incumbents by makespan alone, for levels whose
	// budget is considered fixed.
	MinimizeTracks bool
}

// DefaultOptions returns the standard configuration: sequential,
// track-minimizing, no deadline.
func DefaultOptions() Options {
	return Options{Parallel: 1, MinimizeTracks: true}
}

// Result is the outcome of a Solve run.
type Result struct {
	// Verdict classifies the outcome; the remaining fields are only
	// meaningful when it is Feasible.
	Verdict Verdict

	// Layout is the best accepted layout found.
	Layout *layout.Layout

	// Trace replays the best layout with full frame recording.
	Trace sim.Trace

	// TracksUsed and Makespan are the objective values of Layout.
	TracksUsed int
	Makespan   int

	// Proven reports whether the search exhausted the tree: a Feasible
	// result is optimal and an Unsat result is a proof. A cut-short
	// search leaves it false.
	Proven bool
}
