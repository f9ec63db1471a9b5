package level_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
)

// corridor returns a minimal valid 1×5 level: one train heading right,
// target at the far end, budget 4.
func corridor() *level.Level {
	return &level.Level{
		Width:     5,
		Height:    1,
		MaxTracks: 4,
		Targets:   []level.Cell{{Row: 1, Col: 5}},
		Trains:    []level.Start{{Cell: level.Cell{Row: 1, Col: 1}, Heading: piece.Right}},
		Placed: []level.PlacedPiece{
			{Cell: level.Cell{Row: 1, Col: 5}, Piece: piece.StraightRL},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, corridor().Validate(), "minimal corridor level must validate")
}

func TestValidate_ShapeAndScalars(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*level.Level)
		want   error
	}{
		{"ZeroWidth", func(l *level.Level) { l.Width = 0 }, level.ErrBadShape},
		{"NegativeTracks", func(l *level.Level) { l.MaxTracks = -1 }, level.ErrBadShape},
		{"NegativeTicks", func(l *level.Level) { l.MaxTicks = -1 }, level.ErrBadShape},
		{"NoTrains", func(l *level.Level) { l.Trains = nil }, level.ErrNoTrains},
		{"NoTargets", func(l *level.Level) { l.Targets = nil }, level.ErrTargetCount},
		{"ThreeTargets", func(l *level.Level) {
			l.Targets = []level.Cell{{Row: 1, Col: 3}, {Row: 1, Col: 4}, {Row: 1, Col: 5}}
		}, level.ErrTargetCount},
		{"OrderedSingleTarget", func(l *level.Level) { l.OrderedTargets = true }, level.ErrTargetCount},
		{"TrainOffBoard", func(l *level.Level) {
			l.Trains[0].Cell = level.Cell{Row: 2, Col: 1}
		}, level.ErrCellOutOfBounds},
		{"TargetOffBoard", func(l *level.Level) {
			l.Targets[0] = level.Cell{Row: 1, Col: 6}
		}, level.ErrCellOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := corridor()
			tc.mutate(l)
			assert.ErrorIs(t, l.Validate(), tc.want)
		})
	}
}

func TestValidate_Placements(t *testing.T) {
	l := corridor()
	l.Placed = append(l.Placed, level.PlacedPiece{Cell: level.Cell{Row: 1, Col: 2}, Piece: piece.Empty})
	assert.ErrorIs(t, l.Validate(), level.ErrBadPlacement, "Empty is a decision, not a placement")

	l = corridor()
	l.Placed = append(l.Placed, level.PlacedPiece{Cell: level.Cell{Row: 1, Col: 2}, Piece: piece.TunnelL})
	assert.ErrorIs(t, l.Validate(), level.ErrBadPlacement, "tunnels enter only via pairs")

	l = corridor()
	l.Placed = append(l.Placed, level.PlacedPiece{Cell: level.Cell{Row: 1, Col: 5}, Piece: piece.Rock})
	assert.ErrorIs(t, l.Validate(), level.ErrBadPlacement, "double occupancy")

	l = corridor()
	l.Decoys = []level.Start{{Cell: level.Cell{Row: 1, Col: 1}, Heading: piece.Left}}
	assert.ErrorIs(t, l.Validate(), level.ErrDuplicateStart)
}

func TestValidate_Tunnels(t *testing.T) {
	base := func() *level.Level {
		l := corridor()
		l.Width, l.MaxTracks = 6, 6
		l.Targets = []level.Cell{{Row: 1, Col: 6}}
		l.Placed = []level.PlacedPiece{{Cell: level.Cell{Row: 1, Col: 6}, Piece: piece.StraightRL}}

		return l
	}

	l := base()
	l.Tunnels = []level.TunnelPair{{
		A: level.TunnelEnd{Cell: level.Cell{Row: 1, Col: 3}, Exit: piece.Left},
		B: level.TunnelEnd{Cell: level.Cell{Row: 1, Col: 4}, Exit: piece.Right},
	}}
	require.NoError(t, l.Validate())
	fixed := l.FixedPieces()
	assert.Equal(t, piece.TunnelL, fixed[level.Cell{Row: 1, Col: 3}], "mouth planted from exit dir")
	assert.Equal(t, piece.TunnelR, fixed[level.Cell{Row: 1, Col: 4}])

	l = base()
	l.Tunnels = []level.TunnelPair{{
		A: level.TunnelEnd{Cell: level.Cell{Row: 1, Col: 3}, Exit: piece.Left},
		B: level.TunnelEnd{Cell: level.Cell{Row: 1, Col: 3}, Exit: piece.Right},
	}}
	assert.ErrorIs(t, l.Validate(), level.ErrTunnelConflict, "degenerate pair")

	l = base()
	l.Tunnels = []level.TunnelPair{{
		A: level.TunnelEnd{Cell: level.Cell{Row: 1, Col: 6}, Exit: piece.Left},
		B: level.TunnelEnd{Cell: level.Cell{Row: 1, Col: 4}, Exit: piece.Right},
	}}
	assert.ErrorIs(t, l.Validate(), level.ErrTunnelConflict, "overlaps a placement")
}

func TestValidate_Mechanics(t *testing.T) {
	l := corridor()
	l.Gates = []level.Gate{{Cell: level.Cell{Row: 1, Col: 3}, ID: 0}}
	assert.ErrorIs(t, l.Validate(), level.ErrBadID)

	l = corridor()
	l.Stations = []level.Station{{Cell: level.Cell{Row: 1, Col: 2}, Owner: 2}}
	assert.ErrorIs(t, l.Validate(), level.ErrStationOwner, "train 2 does not exist")

	l = corridor()
	l.Stations = []level.Station{{Cell: level.Cell{Row: 1, Col: 2}, Owner: -1}}
	assert.ErrorIs(t, l.Validate(), level.ErrStationOwner, "decoy 1 does not exist")

	l = corridor()
	l.Stations = []level.Station{
		{Cell: level.Cell{Row: 1, Col: 2}, Owner: 1},
		{Cell: level.Cell{Row: 1, Col: 2}, Owner: 1},
	}
	assert.ErrorIs(t, l.Validate(), level.ErrStationOwner, "duplicate station cell")

	// A dswitch registration must sit on a DSWITCH piece.
	l = corridor()
	l.DSwitches = []level.DSwitch{{Cell: level.Cell{Row: 1, Col: 5}, ID: 1}}
	assert.ErrorIs(t, l.Validate(), level.ErrDSwitchPiece)
}

func TestValidate_SwitchNeighbors(t *testing.T) {
	// A switch in the middle of a 3×3 board has all three arm neighbors
	// open: valid.
	l := &level.Level{
		Width: 3, Height: 3, MaxTracks: 6,
		Targets: []level.Cell{{Row: 1, Col: 3}},
		Trains:  []level.Start{{Cell: level.Cell{Row: 3, Col: 1}, Heading: piece.Right}},
		Placed: []level.PlacedPiece{
			{Cell: level.Cell{Row: 2, Col: 2}, Piece: piece.SwitchLRD},
			{Cell: level.Cell{Row: 1, Col: 3}, Piece: piece.StraightRL},
		},
	}
	require.NoError(t, l.Validate())

	// Pull the switch to the left edge: its Left arm leaves the board.
	l.Placed[0].Cell = level.Cell{Row: 2, Col: 1}
	assert.ErrorIs(t, l.Validate(), level.ErrSwitchNeighbors)

	// Back in the middle, but a Rock blocks the Down arm.
	l.Placed[0].Cell = level.Cell{Row: 2, Col: 2}
	l.Placed = append(l.Placed, level.PlacedPiece{Cell: level.Cell{Row: 3, Col: 2}, Piece: piece.Rock})
	assert.ErrorIs(t, l.Validate(), level.ErrSwitchNeighbors)
}

func TestValidate_Semaphores(t *testing.T) {
	mk := func() *level.Level {
		return &level.Level{
			Width: 3, Height: 3, MaxTracks: 6,
			Targets: []level.Cell{{Row: 1, Col: 3}},
			Trains:  []level.Start{{Cell: level.Cell{Row: 3, Col: 1}, Heading: piece.Right}},
			Placed: []level.PlacedPiece{
				{Cell: level.Cell{Row: 2, Col: 2}, Piece: piece.DSwitchLRD},
				{Cell: level.Cell{Row: 1, Col: 3}, Piece: piece.StraightRL},
			},
			DSwitches: []level.DSwitch{{Cell: level.Cell{Row: 2, Col: 2}, ID: 7}},
		}
	}

	l := mk()
	l.Semaphores = []level.Semaphore{{Cell: level.Cell{Row: 2, Col: 3}, SwitchID: 7}}
	assert.NoError(t, l.Validate())

	l = mk()
	l.Semaphores = []level.Semaphore{{Cell: level.Cell{Row: 1, Col: 1}, SwitchID: 7}}
	assert.ErrorIs(t, l.Validate(), level.ErrSemaphoreSwitch, "not adjacent")

	l = mk()
	l.Semaphores = []level.Semaphore{{Cell: level.Cell{Row: 2, Col: 3}, SwitchID: 9}}
	assert.ErrorIs(t, l.Validate(), level.ErrSemaphoreSwitch, "unknown switch id")
}

func TestHorizon_Default(t *testing.T) {
	l := corridor()
	assert.Equal(t, 5, l.Horizon(), "defaults to Width*Height")
	l.MaxTicks = 12
	assert.Equal(t, 12, l.Horizon())
}
