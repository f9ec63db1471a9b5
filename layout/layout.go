// Package layout — board assignment state.
//
// Rationale (succinct):
//  1. The search mutates one shared Layout along its DFS; a flat row-major
//     slice with O(1) Assign/Clear keeps node cost constant.
//  2. Fixed cells (placements + tunnel plants) are sealed at construction;
//     any attempt to touch them is a programming error surfaced as a
//     sentinel, never a silent overwrite.
//  3. TracksUsed is maintained incrementally so the budget prune in solve
//     is a single comparison.
//
// Complexity: construction O(W×H); all accessors and mutators O(1);
// OpenCells O(W×H) with one allocation.
package layout

import (
	"errors"

	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
)

// Sentinel errors for layout operations.
var (
	// ErrNilLevel indicates a nil level was passed to New.
	ErrNilLevel = errors.New("layout: level is nil")
	// ErrNotOpen indicates an Assign/Clear on a fixed or out-of-bounds cell.
	ErrNotOpen = errors.New("layout: cell is not open")
	// ErrNotPlaceable indicates an Assign of a non-placeable piece.
	ErrNotPlaceable = errors.New("layout: piece is not placeable")
)

// cellState is one board cell: its piece and whether the value is sealed
// (fixed) or merely decided by the search.
type cellState struct {
	piece   piece.Piece
	fixed   bool
	decided bool
}

// Layout is the per-search assignment of pieces to board cells.
// It is not safe for concurrent mutation; parallel workers use Clone.
type Layout struct {
	width, height int
	cells         []cellState
	tracksUsed    int
	undecided     int
}

// New builds a Layout from a validated level: fixed cells are sealed with
// their pieces, all remaining cells start open and undecided.
func New(lvl *level.Level) (*Layout, error) {
	if lvl == nil {
		return nil, ErrNilLevel
	}
	ly := &Layout{
		width:  lvl.Width,
		height: lvl.Height,
		cells:  make([]cellState, lvl.Width*lvl.Height),
	}
	for c, p := range lvl.FixedPieces() {
		ly.cells[ly.index(c)] = cellState{piece: p, fixed: true, decided: true}
	}
	for i := range ly.cells {
		if !ly.cells[i].fixed {
			ly.undecided++
		}
	}

	return ly, nil
}

// index maps a 1-indexed cell to its row-major slice position.
func (ly *Layout) index(c level.Cell) int {
	return (c.Row-1)*ly.width + (c.Col - 1)
}

// cell converts a row-major slice position back to a 1-indexed Cell.
func (ly *Layout) cell(idx int) level.Cell {
	return level.Cell{Row: idx/ly.width + 1, Col: idx%ly.width + 1}
}

// InBounds reports whether c lies on the board.
func (ly *Layout) InBounds(c level.Cell) bool {
	return c.Row >= 1 && c.Row <= ly.height && c.Col >= 1 && c.Col <= ly.width
}

// At returns the piece currently on c. Undecided cells read as Empty;
// use Decided to distinguish "decided Empty" from "not yet decided".
func (ly *Layout) At(c level.Cell) piece.Piece {
	if !ly.InBounds(c) {
		return piece.Empty
	}

	return ly.cells[ly.index(c)].piece
}

// IsFixed reports whether c is sealed by the level model.
func (ly *Layout) IsFixed(c level.Cell) bool {
	return ly.InBounds(c) && ly.cells[ly.index(c)].fixed
}

// Decided reports whether c carries a committed value (fixed or assigned).
func (ly *Layout) Decided(c level.Cell) bool {
	return ly.InBounds(c) && ly.cells[ly.index(c)].decided
}

// Complete reports whether every open cell has been decided.
func (ly *Layout) Complete() bool { return ly.undecided == 0 }

// TracksUsed returns the count of open cells assigned a non-empty piece.
// Fixed pieces never count against the budget.
func (ly *Layout) TracksUsed() int { return ly.tracksUsed }

// OpenCells returns every non-fixed cell in row-major order.
// The slice is freshly allocated; the search owns it afterwards.
func (ly *Layout) OpenCells() []level.Cell {
	open := make([]level.Cell, 0, len(ly.cells))
	for i := range ly.cells {
		if !ly.cells[i].fixed {
			open = append(open, ly.cell(i))
		}
	}

	return open
}

// Assign decides the piece on an open cell. Re-assigning a decided open
// cell is allowed and adjusts the track counter (the search does this when
// revisiting a frame); fixed cells are rejected with ErrNotOpen.
func (ly *Layout) Assign(c level.Cell, p piece.Piece) error {
	if !ly.InBounds(c) {
		return ErrNotOpen
	}
	if !piece.Placeable(p) {
		return ErrNotPlaceable
	}
	s := &ly.cells[ly.index(c)]
	if s.fixed {
		return ErrNotOpen
	}
	if s.decided {
		if s.piece != piece.Empty {
			ly.tracksUsed--
		}
	} else {
		s.decided = true
		ly.undecided--
	}
	s.piece = p
	if p != piece.Empty {
		ly.tracksUsed++
	}

	return nil
}

// Clear reverts an open cell to undecided (the backtracking inverse of
// Assign). Clearing an already-undecided cell is a no-op.
func (ly *Layout) Clear(c level.Cell) error {
	if !ly.InBounds(c) {
		return ErrNotOpen
	}
	s := &ly.cells[ly.index(c)]
	if s.fixed {
		return ErrNotOpen
	}
	if s.decided {
		if s.piece != piece.Empty {
			ly.tracksUsed--
		}
		s.piece = piece.Empty
		s.decided = false
		ly.undecided++
	}

	return nil
}

// Clone returns an independent deep copy for a parallel worker.
func (ly *Layout) Clone() *Layout {
	dup := &Layout{
		width:      ly.width,
		height:     ly.height,
		cells:      make([]cellState, len(ly.cells)),
		tracksUsed: ly.tracksUsed,
		undecided:  ly.undecided,
	}
	copy(dup.cells, ly.cells)

	return dup
}
