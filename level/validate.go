// Package level — structural validation.
//
// Validate implements the MalformedLevel taxonomy: it is the single fatal
// gate between loading and solving. Checks are staged from cheap shape
// guards to cross-referencing rules, and each stage reports through a
// sentinel from types.go; callers compare with errors.Is.
//
// Design principles:
//   - Deterministic, side-effect free; no logging, no panics on user data.
//   - O(cells + mechanics) time; one map allocation for occupancy.
//   - Everything checked here exactly once, never re-checked per search node
//     (the per-candidate switch-neighbor re-check in solve covers decided
//     open cells, which cannot exist yet at load time).
package level

import "github.com/katalvlaran/railgrid/piece"

// Validate checks the level's structural integrity. It returns nil when
// the level is well-formed, otherwise the sentinel of the first violated
// rule. A nil error guarantees that layout.New and sim.Run cannot fail on
// structural grounds.
func (l *Level) Validate() error {
	// Stage 1: shape and scalar budgets.
	if l.Width < 1 || l.Height < 1 || l.MaxTicks < 0 || l.MaxTracks < 0 {
		return ErrBadShape
	}
	if len(l.Trains) == 0 {
		return ErrNoTrains
	}
	if len(l.Targets) < 1 || len(l.Targets) > 2 {
		return ErrTargetCount
	}
	if l.OrderedTargets && len(l.Targets) != 2 {
		return ErrTargetCount
	}

	// Stage 2: every referenced cell must be on the board.
	if err := l.checkBounds(); err != nil {
		return err
	}

	// Stage 3: placements and tunnel plants must not collide.
	fixed, err := l.checkOccupancy()
	if err != nil {
		return err
	}

	// Stage 4: vehicle starts are distinct.
	if err = l.checkStarts(); err != nil {
		return err
	}

	// Stage 5: mechanic ids and cross-references.
	if err = l.checkMechanics(fixed); err != nil {
		return err
	}

	// Stage 6: every fixed switch has three connectable neighbors.
	return l.checkSwitchNeighbors(fixed)
}

// checkBounds verifies board membership for every referenced cell.
func (l *Level) checkBounds() error {
	for _, c := range l.Targets {
		if !l.InBounds(c) {
			return ErrCellOutOfBounds
		}
	}
	for _, s := range l.Trains {
		if !l.InBounds(s.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, s := range l.Decoys {
		if !l.InBounds(s.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, p := range l.Placed {
		if !l.InBounds(p.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, t := range l.Tunnels {
		if !l.InBounds(t.A.Cell) || !l.InBounds(t.B.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, g := range l.Gates {
		if !l.InBounds(g.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, a := range l.Activations {
		if !l.InBounds(a.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, d := range l.DSwitches {
		if !l.InBounds(d.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, s := range l.Stations {
		if !l.InBounds(s.Cell) {
			return ErrCellOutOfBounds
		}
	}
	for _, s := range l.Semaphores {
		if !l.InBounds(s.Cell) {
			return ErrCellOutOfBounds
		}
	}

	return nil
}

// checkOccupancy builds the fixed cell→piece map, rejecting Empty
// placements, free-standing tunnel pieces, and double occupancy.
func (l *Level) checkOccupancy() (map[Cell]piece.Piece, error) {
	fixed := make(map[Cell]piece.Piece, len(l.Placed)+2*len(l.Tunnels))
	for _, p := range l.Placed {
		// Tunnels enter the board only through tunnel pairs; Empty is a
		// search decision, not a placement.
		if p.Piece == piece.Empty || piece.IsTunnel(p.Piece) {
			return nil, ErrBadPlacement
		}
		if _, dup := fixed[p.Cell]; dup {
			return nil, ErrBadPlacement
		}
		fixed[p.Cell] = p.Piece
	}
	for _, t := range l.Tunnels {
		if t.A.Cell == t.B.Cell {
			return nil, ErrTunnelConflict
		}
		for _, end := range []TunnelEnd{t.A, t.B} {
			if _, dup := fixed[end.Cell]; dup {
				return nil, ErrTunnelConflict
			}
			fixed[end.Cell] = end.Mouth()
		}
	}

	return fixed, nil
}

// checkStarts rejects two vehicles spawning on the same cell.
func (l *Level) checkStarts() error {
	seen := make(map[Cell]bool, len(l.Trains)+len(l.Decoys))
	for _, s := range l.Trains {
		if seen[s.Cell] {
			return ErrDuplicateStart
		}
		seen[s.Cell] = true
	}
	for _, s := range l.Decoys {
		if seen[s.Cell] {
			return ErrDuplicateStart
		}
		seen[s.Cell] = true
	}

	return nil
}

// checkMechanics validates ids and the cross-references between stateful
// elements: dswitch registrations sit on DSWITCH pieces (and vice versa),
// stations name existing vehicles, semaphores guard an adjacent dswitch.
func (l *Level) checkMechanics(fixed map[Cell]piece.Piece) error {
	for _, g := range l.Gates {
		if g.ID < 1 {
			return ErrBadID
		}
	}
	for _, a := range l.Activations {
		if a.ID < 1 {
			return ErrBadID
		}
	}

	// DSwitch registrations ↔ DSWITCH pieces must match 1:1.
	registered := make(map[Cell]bool, len(l.DSwitches))
	for _, d := range l.DSwitches {
		if d.ID < 1 {
			return ErrBadID
		}
		if !piece.IsDSwitch(fixed[d.Cell]) || registered[d.Cell] {
			return ErrDSwitchPiece
		}
		registered[d.Cell] = true
	}
	for c, p := range fixed {
		if piece.IsDSwitch(p) && !registered[c] {
			return ErrDSwitchPiece
		}
	}

	// Stations: owner must resolve to a train or decoy; one station cell
	// per (cell, owner).
	seen := make(map[Station]bool, len(l.Stations))
	for _, s := range l.Stations {
		switch {
		case s.Owner > 0 && s.Owner <= len(l.Trains):
		case s.Owner < 0 && -s.Owner <= len(l.Decoys):
		default:
			return ErrStationOwner
		}
		if seen[s] {
			return ErrStationOwner
		}
		seen[s] = true
	}

	// Semaphores: the guarded id must belong to a dswitch on an
	// orthogonally adjacent cell.
	for _, s := range l.Semaphores {
		if s.SwitchID < 1 {
			return ErrBadID
		}
		adjacent := false
		for _, d := range l.DSwitches {
			if d.ID != s.SwitchID {
				continue
			}
			dr := s.Cell.Row - d.Cell.Row
			dc := s.Cell.Col - d.Cell.Col
			if dr*dr+dc*dc == 1 {
				adjacent = true
				break
			}
		}
		if !adjacent {
			return ErrSemaphoreSwitch
		}
	}

	return nil
}

// checkSwitchNeighbors applies the load-time half of the switch rule: each
// arm of a fixed switch must point at an in-bounds cell that is either
// still open or fixed to a piece connecting back. The per-candidate half
// (covering search-decided cells) lives in solve.
func (l *Level) checkSwitchNeighbors(fixed map[Cell]piece.Piece) error {
	for c, p := range fixed {
		if !piece.IsSwitch(p) {
			continue
		}
		for _, side := range piece.Dirs() {
			if !piece.Connects(p, side) {
				continue
			}
			n := c.Add(side)
			if !l.InBounds(n) {
				return ErrSwitchNeighbors
			}
			if q, isFixed := fixed[n]; isFixed && !piece.Connects(q, side.Opposite()) {
				return ErrSwitchNeighbors
			}
		}
	}

	return nil
}
