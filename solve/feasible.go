// Package solve — the feasibility checker (acceptance rules around one
// simulation run).
package solve

import (
	"github.com/katalvlaran/railgrid/layout"
	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
	"github.com/katalvlaran/railgrid/sim"
)

// checker bundles the level with its prebuilt simulation tables so the
// search can re-check thousands of layouts without rebuilding them.
type checker struct {
	lvl *level.Level
	s   *sim.Sim

	// switches lists the fixed switch placements once, in declaration
	// order; switchArms re-walks it on every leaf.
	switches []level.PlacedPiece
}

func newChecker(lvl *level.Level) (*checker, error) {
	s, err := sim.New(lvl)
	if err != nil {
		return nil, err
	}

	c := &checker{lvl: lvl, s: s}
	for _, pp := range lvl.Placed {
		if piece.IsSwitch(pp.Piece) {
			c.switches = append(c.switches, pp)
		}
	}

	return c, nil
}

// Check decides whether ly is an accepted solution of lvl: within the
// track budget, switch arms fully connected, simulation successful,
// arrivals strictly in train order, every station visited, and ordered
// target pairs visited in sequence.
//
// The level is validated through sim.New; a malformed level surfaces its
// validation sentinel. All other failures are branch-local.
func Check(lvl *level.Level, ly *layout.Layout) (Feasibility, error) {
	if lvl == nil || ly == nil {
		return Feasibility{}, ErrNilInput
	}
	c, err := newChecker(lvl)
	if err != nil {
		return Feasibility{}, err
	}

	return c.check(ly, sim.Options{RecordFrames: true})
}

func (c *checker) check(ly *layout.Layout, simOpts sim.Options) (Feasibility, error) {
	// Budget is layout-only: cheapest rule first.
	if ly.TracksUsed() > c.lvl.MaxTracks {
		return Feasibility{}, ErrBudgetExceeded
	}
	if err := c.switchArms(ly); err != nil {
		return Feasibility{}, err
	}

	tr, err := c.s.Run(ly, simOpts)
	if err != nil {
		return Feasibility{}, err
	}

	// Sequential arrival: train k strictly before train k+1.
	makespan := 0
	for k, at := range tr.Arrivals {
		if k > 0 && at <= tr.Arrivals[k-1] {
			return Feasibility{}, ErrOrderViolation
		}
		if at > makespan {
			makespan = at
		}
	}

	// Station completeness is enforced at the target boundary for trains;
	// re-validated here across all owners, decoys included.
	for i := range tr.Final.StationVisited {
		if !tr.Final.StationVisited[i] {
			return Feasibility{}, ErrStationIncomplete
		}
	}

	// Ordered pairs: the first target's visit must precede the second's
	// for every train.
	if len(c.lvl.Targets) == 2 && c.lvl.OrderedTargets {
		for k := range tr.TargetTicks {
			first, second := tr.TargetTicks[k][0], tr.TargetTicks[k][1]
			if first == 0 || second != 0 && second < first {
				return Feasibility{}, ErrOrderViolation
			}
		}
	}

	return Feasibility{Trace: tr, TracksUsed: ly.TracksUsed(), Makespan: makespan}, nil
}

// switchArms re-applies the switch rule over decided cells: every arm of
// a fixed switch must point at a piece connecting back. The level-load
// half already covered fixed neighbors; this half covers search
// decisions.
func (c *checker) switchArms(ly *layout.Layout) error {
	for _, sw := range c.switches {
		for _, side := range piece.Dirs() {
			if !piece.Connects(sw.Piece, side) {
				continue
			}
			n := sw.Cell.Add(side)
			if ly.IsFixed(n) || !ly.Decided(n) {
				continue // load-time checked, or still open
			}
			if !piece.Connects(ly.At(n), side.Opposite()) {
				return level.ErrSwitchNeighbors
			}
		}
	}

	return nil
}
