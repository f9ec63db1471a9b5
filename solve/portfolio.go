// Package solve — shared incumbent and the root-split parallel
// portfolio.
package solve

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/railgrid/layout"
)

// incumbent is the only state shared between search workers: the best
// accepted layout so far with its objective values. Updates follow an
// only-shrink rule, so stale reads by workers merely cost redundant
// exploration.
type incumbent struct {
	mu       sync.Mutex
	ok       bool
	ly       *layout.Layout
	nTracks  int
	makespan int
}

// offer installs (a clone of) ly if it improves on the current best
// under the chosen objective order.
func (in *incumbent) offer(ly *layout.Layout, tracks, makespan int, minimize bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.ok && !better(tracks, makespan, in.nTracks, in.makespan, minimize) {
		return
	}
	in.ok = true
	in.ly = ly.Clone()
	in.nTracks = tracks
	in.makespan = makespan
}

// better is the strict objective order: lexicographic (tracks, makespan)
// when minimizing tracks, (makespan, tracks) otherwise.
func better(t1, m1, t2, m2 int, minimize bool) bool {
	if minimize {
		return t1 < t2 || t1 == t2 && m1 < m2
	}

	return m1 < m2 || m1 == m2 && t1 < t2
}

// found reports whether any solution has been accepted yet.
func (in *incumbent) found() bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.ok
}

// tracks returns the incumbent's track count.
func (in *incumbent) tracks() (int, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.nTracks, in.ok
}

// best returns the incumbent layout and objectives.
func (in *incumbent) best() (*layout.Layout, int, int, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.ly, in.nTracks, in.makespan, in.ok
}

// searchParallel splits the first branching cell's candidates across
// workers, each searching its own Layout clone. The subtrees are
// disjoint, so workers only meet at the incumbent.
func (e *engine) searchParallel(base *layout.Layout, workers int) error {
	cell, ok := e.pickCell(base)
	if !ok {
		// Nothing to branch on: the layer of fixed pieces already decides
		// the board.
		e.evaluate(base)

		return nil
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, p := range e.candidates(base, cell) {
		if !e.viable(base, cell, p) {
			continue
		}
		p := p
		g.Go(func() error {
			ly := base.Clone()
			if err := ly.Assign(cell, p); err != nil {
				return err
			}

			return e.search(ly)
		})
	}

	return g.Wait()
}
