package layout_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/railgrid/layout"
	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
)

// twoByThree builds a 3×2 level with one fixed rock and one fixed straight.
func twoByThree(t *testing.T) *level.Level {
	t.Helper()
	l := &level.Level{
		Width: 3, Height: 2, MaxTracks: 4,
		Targets: []level.Cell{{Row: 1, Col: 3}},
		Trains:  []level.Start{{Cell: level.Cell{Row: 1, Col: 1}, Heading: piece.Right}},
		Placed: []level.PlacedPiece{
			{Cell: level.Cell{Row: 1, Col: 3}, Piece: piece.StraightRL},
			{Cell: level.Cell{Row: 2, Col: 2}, Piece: piece.Rock},
		},
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	return l
}

func TestNew(t *testing.T) {
	if _, err := layout.New(nil); !errors.Is(err, layout.ErrNilLevel) {
		t.Fatalf("New(nil) error = %v; want ErrNilLevel", err)
	}

	ly, err := layout.New(twoByThree(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ly.Complete() {
		t.Error("fresh layout with open cells reports Complete")
	}
	if got := len(ly.OpenCells()); got != 4 {
		t.Errorf("OpenCells = %d; want 4 (6 cells − 2 fixed)", got)
	}
	if !ly.IsFixed(level.Cell{Row: 2, Col: 2}) || ly.At(level.Cell{Row: 2, Col: 2}) != piece.Rock {
		t.Error("fixed rock not sealed")
	}
	if ly.Decided(level.Cell{Row: 1, Col: 1}) {
		t.Error("open cell reports decided before any assignment")
	}
}

func TestAssignClear(t *testing.T) {
	ly, err := layout.New(twoByThree(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := level.Cell{Row: 1, Col: 1}

	if err = ly.Assign(c, piece.StraightRL); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if ly.TracksUsed() != 1 || !ly.Decided(c) || ly.At(c) != piece.StraightRL {
		t.Errorf("after Assign: tracks=%d at=%v decided=%v", ly.TracksUsed(), ly.At(c), ly.Decided(c))
	}

	// Re-assigning swaps the piece without double counting.
	if err = ly.Assign(c, piece.CornerDR); err != nil {
		t.Fatalf("re-Assign: %v", err)
	}
	if ly.TracksUsed() != 1 {
		t.Errorf("re-assign double counted: tracks=%d", ly.TracksUsed())
	}

	// Deciding Empty is free.
	if err = ly.Assign(c, piece.Empty); err != nil {
		t.Fatalf("Assign Empty: %v", err)
	}
	if ly.TracksUsed() != 0 || !ly.Decided(c) {
		t.Errorf("decided Empty: tracks=%d decided=%v", ly.TracksUsed(), ly.Decided(c))
	}

	if err = ly.Clear(c); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if ly.Decided(c) || ly.TracksUsed() != 0 {
		t.Errorf("after Clear: decided=%v tracks=%d", ly.Decided(c), ly.TracksUsed())
	}
}

func TestAssign_Rejections(t *testing.T) {
	ly, err := layout.New(twoByThree(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err = ly.Assign(level.Cell{Row: 2, Col: 2}, piece.StraightRL); !errors.Is(err, layout.ErrNotOpen) {
		t.Errorf("Assign to fixed cell error = %v; want ErrNotOpen", err)
	}
	if err = ly.Assign(level.Cell{Row: 9, Col: 9}, piece.Empty); !errors.Is(err, layout.ErrNotOpen) {
		t.Errorf("Assign out of bounds error = %v; want ErrNotOpen", err)
	}
	if err = ly.Assign(level.Cell{Row: 1, Col: 1}, piece.SwitchLRD); !errors.Is(err, layout.ErrNotPlaceable) {
		t.Errorf("Assign switch error = %v; want ErrNotPlaceable", err)
	}
	if err = ly.Clear(level.Cell{Row: 2, Col: 2}); !errors.Is(err, layout.ErrNotOpen) {
		t.Errorf("Clear fixed cell error = %v; want ErrNotOpen", err)
	}
}

func TestComplete(t *testing.T) {
	ly, err := layout.New(twoByThree(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, c := range ly.OpenCells() {
		if err = ly.Assign(c, piece.Empty); err != nil {
			t.Fatalf("Assign(%v): %v", c, err)
		}
	}
	if !ly.Complete() {
		t.Error("all cells decided but Complete() == false")
	}
}

func TestClone_Independent(t *testing.T) {
	ly, err := layout.New(twoByThree(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := level.Cell{Row: 1, Col: 1}
	if err = ly.Assign(c, piece.StraightRL); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	dup := ly.Clone()
	if err = dup.Assign(c, piece.Empty); err != nil {
		t.Fatalf("Assign on clone: %v", err)
	}
	if ly.At(c) != piece.StraightRL || ly.TracksUsed() != 1 {
		t.Error("mutating the clone leaked into the original")
	}
	if dup.TracksUsed() != 0 {
		t.Errorf("clone tracks = %d; want 0", dup.TracksUsed())
	}
}
