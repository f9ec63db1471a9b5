package piece_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/railgrid/piece"
)

//----------------------------------------------------------------------------//
// Dir Tests
//----------------------------------------------------------------------------//

// TestDir_OppositeAndDelta verifies direction arithmetic and round-trips.
func TestDir_OppositeAndDelta(t *testing.T) {
	for _, d := range piece.Dirs() {
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite(Opposite(%v)) != %v", d, d)
		}
		dr, dc := d.Delta()
		or, oc := d.Opposite().Delta()
		if dr+or != 0 || dc+oc != 0 {
			t.Errorf("Delta(%v) and Delta(opposite) do not cancel", d)
		}
	}
}

// TestDir_ParseRoundTrip checks String/ParseDir agreement.
func TestDir_ParseRoundTrip(t *testing.T) {
	for _, d := range piece.Dirs() {
		got, err := piece.ParseDir(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDir(%q) = %v, %v; want %v, nil", d.String(), got, err, d)
		}
	}
	if _, err := piece.ParseDir("NORTH"); !errors.Is(err, piece.ErrUnknownDir) {
		t.Errorf("ParseDir(NORTH) error = %v; want ErrUnknownDir", err)
	}
}

//----------------------------------------------------------------------------//
// ExitFrom Tests
//----------------------------------------------------------------------------//

// TestExitFrom_PlainTrack checks straights and corners route symmetrically.
func TestExitFrom_PlainTrack(t *testing.T) {
	cases := []struct {
		name  string
		p     piece.Piece
		entry piece.Dir
		exit  piece.Dir
		ok    bool
	}{
		{"StraightRL_L", piece.StraightRL, piece.Left, piece.Right, true},
		{"StraightRL_R", piece.StraightRL, piece.Right, piece.Left, true},
		{"StraightRL_T", piece.StraightRL, piece.Top, 0, false},
		{"StraightTD_T", piece.StraightTD, piece.Top, piece.Down, true},
		{"CornerDR_D", piece.CornerDR, piece.Down, piece.Right, true},
		{"CornerDR_R", piece.CornerDR, piece.Right, piece.Down, true},
		{"CornerDR_L", piece.CornerDR, piece.Left, 0, false},
		{"CornerTL_T", piece.CornerTL, piece.Top, piece.Left, true},
		{"Empty", piece.Empty, piece.Left, 0, false},
		{"Rock", piece.Rock, piece.Left, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Plain track must ignore the toggle bit.
			for _, bit := range []bool{false, true} {
				exit, ok := piece.ExitFrom(tc.p, tc.entry, bit)
				if ok != tc.ok || (ok && exit != tc.exit) {
					t.Errorf("ExitFrom(%v,%v,%v) = %v,%v; want %v,%v",
						tc.p, tc.entry, bit, exit, ok, tc.exit, tc.ok)
				}
			}
		})
	}
}

// TestExitFrom_SwitchRouting checks the far/shared/branch contract for all
// three switch families across all eight geometries.
func TestExitFrom_SwitchRouting(t *testing.T) {
	families := []struct {
		name string
		base piece.Piece
	}{
		{"static", piece.SwitchLRD},
		{"dynamic", piece.DSwitchLRD},
		{"exit", piece.ESwitchLRD},
	}
	for _, fam := range families {
		for geom := piece.Piece(0); geom < 8; geom++ {
			p := fam.base + geom
			far, shared, branch, ok := piece.SwitchArms(p)
			if !ok {
				t.Fatalf("SwitchArms(%v) not a switch", p)
			}

			// Entry through the far or branch arm always exits shared.
			for _, entry := range []piece.Dir{far, branch} {
				for _, bit := range []bool{false, true} {
					exit, eok := piece.ExitFrom(p, entry, bit)
					if !eok || exit != shared {
						t.Errorf("%v: ExitFrom(entry=%v,bit=%v) = %v,%v; want %v,true",
							p, entry, bit, exit, eok, shared)
					}
				}
			}

			// Entry through shared: bit 0 → far; bit 1 → branch for the
			// stateful families, far for static switches.
			exit0, _ := piece.ExitFrom(p, shared, false)
			exit1, _ := piece.ExitFrom(p, shared, true)
			if exit0 != far {
				t.Errorf("%v: shared entry, bit 0 → %v; want %v", p, exit0, far)
			}
			wantToggled := branch
			if fam.name == "static" {
				wantToggled = far
			}
			if exit1 != wantToggled {
				t.Errorf("%v: shared entry, bit 1 → %v; want %v", p, exit1, wantToggled)
			}

			// The fourth side is never connected.
			for _, d := range piece.Dirs() {
				if d != far && d != shared && d != branch {
					if _, eok := piece.ExitFrom(p, d, false); eok {
						t.Errorf("%v: unexpected entry through %v", p, d)
					}
				}
			}
		}
	}
}

// TestExitFrom_Tunnels checks that a tunnel admits only its mouth side.
func TestExitFrom_Tunnels(t *testing.T) {
	for _, p := range []piece.Piece{piece.TunnelL, piece.TunnelR, piece.TunnelD, piece.TunnelT} {
		mouth, ok := piece.TunnelMouth(p)
		if !ok {
			t.Fatalf("TunnelMouth(%v) not a tunnel", p)
		}
		for _, d := range piece.Dirs() {
			_, eok := piece.ExitFrom(p, d, false)
			if eok != (d == mouth) {
				t.Errorf("%v: ExitFrom entry %v ok=%v; mouth is %v", p, d, eok, mouth)
			}
		}
	}
}

//----------------------------------------------------------------------------//
// Derived Predicate Tests
//----------------------------------------------------------------------------//

// TestCanEnterExitAgree verifies that a side usable to exit must also be
// usable to enter, for every piece and direction.
func TestCanEnterExitAgree(t *testing.T) {
	for p := piece.Empty; int(p) < piece.NumPieces; p++ {
		for _, d := range piece.Dirs() {
			if piece.CanExit(p, d) != piece.CanEnter(p, d) {
				t.Errorf("%v: CanExit(%v)=%v but CanEnter(%v)=%v",
					p, d, piece.CanExit(p, d), d, piece.CanEnter(p, d))
			}
			if piece.Connects(p, d) != piece.CanEnter(p, d) {
				t.Errorf("%v: Connects(%v) disagrees with CanEnter", p, d)
			}
		}
	}
}

// TestPlaceable pins the placeable set: Empty plus plain track only.
func TestPlaceable(t *testing.T) {
	want := map[piece.Piece]bool{
		piece.Empty: true, piece.StraightRL: true, piece.StraightTD: true,
		piece.CornerDR: true, piece.CornerDL: true, piece.CornerTR: true,
		piece.CornerTL: true,
	}
	for p := piece.Empty; int(p) < piece.NumPieces; p++ {
		if piece.Placeable(p) != want[p] {
			t.Errorf("Placeable(%v) = %v; want %v", p, piece.Placeable(p), want[p])
		}
	}
	if got := len(piece.PlaceableTracks()); got != 6 {
		t.Errorf("len(PlaceableTracks()) = %d; want 6", got)
	}
}

// TestPieceString_RoundTrip pins legacy names and ParsePiece agreement.
func TestPieceString_RoundTrip(t *testing.T) {
	pins := map[piece.Piece]string{
		piece.StraightRL: "STRAIGHT_RL",
		piece.CornerTL:   "CORNER_TL",
		piece.SwitchLRT:  "SWITCH_L_R_T",
		piece.DSwitchTDR: "DSWITCH_T_D_R",
		piece.ESwitchDTL: "ESWITCH_D_T_L",
		piece.TunnelT:    "TUNNEL_T",
		piece.Rock:       "ROCK",
	}
	for p, s := range pins {
		if p.String() != s {
			t.Errorf("String(%d) = %q; want %q", p, p.String(), s)
		}
	}
	for p := piece.Empty; int(p) < piece.NumPieces; p++ {
		got, err := piece.ParsePiece(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePiece(%q) = %v, %v; want %v, nil", p.String(), got, err, p)
		}
	}
	if _, err := piece.ParsePiece("SWITCH_X_Y_Z"); !errors.Is(err, piece.ErrUnknownPiece) {
		t.Errorf("ParsePiece(bogus) error = %v; want ErrUnknownPiece", err)
	}
}
