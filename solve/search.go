// Package solve — Branch-and-Bound layout search.
//
// Solve enumerates assignments of track pieces to the undecided open
// cells via a depth-first Branch-and-Bound with deterministic branching
// and a soft time budget.
//
// Rationale (succinct):
//  1. Strict input shape is enforced once (level validation inside
//     sim.New); the hot loop works on a Layout with O(1) assign/clear
//     and a prebuilt row-major cell order.
//  2. Horizon auto-fill: open cells no vehicle can reach within the tick
//     horizon cannot affect feasibility, so they are fixed to Empty up
//     front and removed from the branching order. Reachability is a
//     plain grid BFS from all starts with tunnel mouths as extra edges
//     and rocks as walls.
//  3. Variable ordering: among undecided cells, anchored ones (adjacent
//     to a fixed piece or a decided cell) branch first, in row-major
//     order. This grows connected track outward from the starts and
//     targets, the most constrained region, for earlier pruning.
//  4. Value ordering: pieces consistent with at least one decided or
//     fixed neighbor before Empty; once an incumbent exists and tracks
//     are minimized, Empty first. Candidate ties break on piece order,
//     keeping runs reproducible.
//  5. Pruning: a piece whose arm points off-board or at a fixed piece
//     that cannot connect back is rejected locally; a switch arm decided
//     to a non-connecting piece likewise; placements beyond the track
//     bound (budget, or incumbent tracks when minimizing) are skipped.
//     Full simulation runs only on complete layouts.
//  6. Explicit frame stack instead of recursion: board-sized search
//     depth would otherwise be at the mercy of goroutine stack growth,
//     and an explicit stack makes the root split for the parallel
//     portfolio trivial.
//  7. Soft time limit and context cancellation: rare checks (every 1024
//     node events) keep overhead negligible; a cut search reports the
//     incumbent with Proven=false.
//
// Complexity: worst case O((|pieces|+1)^open) node expansions, each O(1)
// amortized plus a simulation per leaf; memory O(open) per worker.
package solve

import (
	"context"
	"errors"
	"time"

	"github.com/katalvlaran/railgrid/layout"
	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
	"github.com/katalvlaran/railgrid/sim"
)

// errCut is the internal signal that a worker stopped on the deadline or
// context, not by exhausting its subtree.
var errCut = errors.New("solve: search cut short")

// engine holds the read-only search data shared by all workers. Mutable
// per-worker state (the layout, the frame stack, the step counter) lives
// in the worker; the incumbent carries its own lock.
type engine struct {
	lvl      *level.Level
	c        *checker
	minimize bool

	useDeadline bool
	deadline    time.Time
	ctx         context.Context

	// order lists the branchable open cells row-major, after auto-fill.
	order []level.Cell

	inc *incumbent
}

// frame is one level of the explicit search stack: a cell, its candidate
// pieces in decision order, and the index of the candidate currently
// assigned (−1 before the first).
type frame struct {
	cell  level.Cell
	cands []piece.Piece
	next  int
}

// Solve searches for the best accepted layout of lvl under opts.
//
// A malformed level returns its validation sentinel. Otherwise the error
// is nil and Result carries the outcome: Feasible with the optimal
// layout (Proven) or the best incumbent (cut short), Unsat for an
// exhausted tree, Unknown for a cut search with no incumbent.
func Solve(lvl *level.Level, opts Options) (Result, error) {
	if lvl == nil {
		return Result{}, ErrNilInput
	}
	c, err := newChecker(lvl)
	if err != nil {
		return Result{}, err
	}

	e := &engine{
		lvl:      lvl,
		c:        c,
		minimize: opts.MinimizeTracks,
		ctx:      opts.Ctx,
		inc:      &incumbent{},
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	if opts.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(opts.TimeLimit)
	}

	base, err := layout.New(lvl)
	if err != nil {
		return Result{}, err
	}
	e.autoFill(base)

	serr := e.run(base, opts.Parallel)

	return e.result(serr == nil)
}

// run dispatches between the sequential search and the root-split
// portfolio.
func (e *engine) run(base *layout.Layout, workers int) error {
	if workers > 1 {
		return e.searchParallel(base, workers)
	}

	return e.search(base)
}

// result assembles the final Result from the incumbent, replaying the
// winning layout once with full frame recording.
func (e *engine) result(proven bool) (Result, error) {
	ly, tracks, makespan, found := e.inc.best()
	if !found {
		v := Unknown
		if proven {
			v = Unsat
		}

		return Result{Verdict: v, Proven: proven}, nil
	}

	// The incumbent already passed this exact simulation inside the
	// checker; a failing replay means the engine lost determinism.
	tr, err := e.c.s.Run(ly, sim.Options{RecordFrames: true})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Verdict:    Feasible,
		Layout:     ly,
		Trace:      tr,
		TracksUsed: tracks,
		Makespan:   makespan,
		Proven:     proven,
	}, nil
}

// autoFill fixes Empty on every open cell outside the horizon-reachable
// region and records the remaining cells as the branching order.
func (e *engine) autoFill(base *layout.Layout) {
	reach := e.reachable()
	open := base.OpenCells()
	e.order = make([]level.Cell, 0, len(open))
	for _, c := range open {
		if reach[c] {
			e.order = append(e.order, c)
			continue
		}
		_ = base.Assign(c, piece.Empty)
	}
}

// reachable runs a grid BFS from every vehicle start, bounded by the
// tick horizon. Adjacency is the four orthogonal neighbors minus rocks,
// plus the tunnel mouth-to-mouth hops.
func (e *engine) reachable() map[level.Cell]bool {
	fixed := e.lvl.FixedPieces()
	horizon := e.lvl.Horizon()

	tunnel := make(map[level.Cell]level.Cell, 2*len(e.lvl.Tunnels))
	for _, t := range e.lvl.Tunnels {
		tunnel[t.A.Cell] = t.B.Cell
		tunnel[t.B.Cell] = t.A.Cell
	}

	dist := make(map[level.Cell]int, e.lvl.Width*e.lvl.Height)
	queue := make([]level.Cell, 0, len(e.lvl.Trains)+len(e.lvl.Decoys))
	enqueue := func(c level.Cell, d int) {
		if !e.lvl.InBounds(c) || fixed[c] == piece.Rock {
			return
		}
		if _, seen := dist[c]; seen {
			return
		}
		dist[c] = d
		queue = append(queue, c)
	}
	for _, s := range e.lvl.Trains {
		enqueue(s.Cell, 0)
	}
	for _, s := range e.lvl.Decoys {
		enqueue(s.Cell, 0)
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		d := dist[c]
		if d >= horizon {
			continue
		}
		for _, side := range piece.Dirs() {
			enqueue(c.Add(side), d+1)
		}
		if far, ok := tunnel[c]; ok {
			enqueue(far, d+1)
		}
	}

	reach := make(map[level.Cell]bool, len(dist))
	for c := range dist {
		reach[c] = true
	}

	return reach
}

// search runs the sequential depth-first loop on ly, which it owns and
// mutates. Returns nil on an exhausted subtree, errCut on cancellation.
func (e *engine) search(ly *layout.Layout) error {
	var (
		stack = make([]frame, 0, len(e.order))
		steps int
	)
	for {
		if e.cut(&steps) {
			return errCut
		}

		cell, ok := e.pickCell(ly)
		if !ok {
			// Leaf: every branchable cell decided.
			e.evaluate(ly)
			if !e.advance(ly, &stack) {
				return nil
			}
			continue
		}

		stack = append(stack, frame{cell: cell, cands: e.candidates(ly, cell), next: -1})
		if !e.advance(ly, &stack) {
			return nil
		}
	}
}

// cut performs a rare deadline/context test (every 1024 node events).
func (e *engine) cut(steps *int) bool {
	*steps++
	if (*steps & 1023) != 0 {
		return false
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		return true
	}

	return e.ctx.Err() != nil
}

// advance moves the frame on top of the stack to its next viable
// candidate, popping exhausted frames. It returns false when the stack
// is empty, i.e. the subtree is exhausted.
func (e *engine) advance(ly *layout.Layout, stack *[]frame) bool {
	for len(*stack) > 0 {
		top := &(*stack)[len(*stack)-1]
		if top.next >= 0 {
			_ = ly.Clear(top.cell)
		}
		top.next++
		for top.next < len(top.cands) {
			p := top.cands[top.next]
			if e.viable(ly, top.cell, p) {
				_ = ly.Assign(top.cell, p)

				return true
			}
			top.next++
		}
		*stack = (*stack)[:len(*stack)-1]
	}

	return false
}

// pickCell chooses the next undecided cell: anchored cells first, then
// row-major order.
func (e *engine) pickCell(ly *layout.Layout) (level.Cell, bool) {
	var (
		fallback level.Cell
		haveAny  bool
	)
	for _, c := range e.order {
		if ly.Decided(c) {
			continue
		}
		if e.anchored(ly, c) {
			return c, true
		}
		if !haveAny {
			fallback, haveAny = c, true
		}
	}

	return fallback, haveAny
}

// anchored reports whether c touches a fixed piece or a decided cell.
func (e *engine) anchored(ly *layout.Layout, c level.Cell) bool {
	for _, side := range piece.Dirs() {
		n := c.Add(side)
		if !ly.InBounds(n) {
			continue
		}
		if ly.IsFixed(n) || ly.Decided(n) {
			return true
		}
	}

	return false
}

// candidates builds the decision order for c: consistent tracks before
// Empty, or Empty first once an incumbent exists under minimization.
// Track candidates beyond the current bound are omitted entirely.
func (e *engine) candidates(ly *layout.Layout, c level.Cell) []piece.Piece {
	bound := e.trackBound()
	if ly.TracksUsed() >= bound {
		return []piece.Piece{piece.Empty}
	}

	tracks := piece.PlaceableTracks()
	cands := make([]piece.Piece, 0, len(tracks)+1)
	emptyFirst := e.minimize && e.inc.found()
	if emptyFirst {
		cands = append(cands, piece.Empty)
	}
	// Neighbor-consistent pieces first, the rest after; ties keep piece
	// order for determinism.
	for _, p := range tracks {
		if e.consistent(ly, c, p) {
			cands = append(cands, p)
		}
	}
	for _, p := range tracks {
		if !e.consistent(ly, c, p) {
			cands = append(cands, p)
		}
	}
	if !emptyFirst {
		cands = append(cands, piece.Empty)
	}

	return cands
}

// trackBound is the number of tracks a completed layout may use: the
// level budget, tightened to one below the incumbent when minimizing.
func (e *engine) trackBound() int {
	bound := e.lvl.MaxTracks
	if !e.minimize {
		return bound
	}
	if tracks, found := e.inc.tracks(); found && tracks <= bound {
		bound = tracks // reaching it is allowed; ties break on makespan
	}

	return bound
}

// viable applies the local pruning rules to placing p on c.
func (e *engine) viable(ly *layout.Layout, c level.Cell, p piece.Piece) bool {
	for _, side := range piece.Dirs() {
		n := c.Add(side)

		// Arms must stay on the board and must not collide with a fixed
		// piece that cannot connect back.
		if piece.Connects(p, side) {
			if !ly.InBounds(n) {
				return false
			}
			if ly.IsFixed(n) && !piece.Connects(ly.At(n), side.Opposite()) {
				return false
			}
		}

		// Switch rule: a fixed switch arm pointing at c requires p to
		// connect back, so Empty (or a mismatched track) is rejected the
		// moment the arm's neighbor is decided.
		if ly.InBounds(n) && ly.IsFixed(n) {
			q := ly.At(n)
			if piece.IsSwitch(q) && piece.Connects(q, side.Opposite()) && !piece.Connects(p, side) {
				return false
			}
		}
	}

	return true
}

// consistent reports whether p connects to at least one decided or fixed
// neighbor of c that connects back.
func (e *engine) consistent(ly *layout.Layout, c level.Cell, p piece.Piece) bool {
	for _, side := range piece.Dirs() {
		if !piece.Connects(p, side) {
			continue
		}
		n := c.Add(side)
		if !ly.InBounds(n) {
			continue
		}
		if (ly.IsFixed(n) || ly.Decided(n)) && piece.Connects(ly.At(n), side.Opposite()) {
			return true
		}
	}

	return false
}

// evaluate runs the full checker on a complete layout and offers any
// accepted solution to the incumbent.
func (e *engine) evaluate(ly *layout.Layout) {
	f, err := e.c.check(ly, sim.Options{})
	if err != nil {
		return // branch-local rejection
	}
	e.inc.offer(ly, f.TracksUsed, f.Makespan, e.minimize)
}
