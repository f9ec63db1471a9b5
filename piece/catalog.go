// Package piece — the connectivity catalog.
//
// Rationale (succinct):
//  1. Every behavioral question about a tile reduces to a static lookup:
//     switch geometry is a (far, shared, branch) triple, plain track is a
//     pair of connected sides, tunnels are a single mouth. Tables are
//     built once at init and never mutated.
//  2. ExitFrom is the only routing entry point. can-enter / can-exit are
//     derived from the same tables so they can never disagree.
//  3. No piece here carries state. The toggle bit is an argument; owning
//     and flipping it is the simulator's job.
//
// Complexity: all queries O(1), zero allocations.
package piece

// switchGeom is the arm triple of one switch geometry.
// far↔shared is the straight route, shared↔branch the curve.
type switchGeom struct {
	far, shared, branch Dir
}

// switchGeoms indexes geometry by (piece - firstOfFamily) for each of the
// three switch families; the eight geometries appear in the same order in
// every family.
var switchGeoms = [8]switchGeom{
	{Left, Right, Down},  // *_L_R_D
	{Right, Left, Down},  // *_R_L_D
	{Left, Right, Top},   // *_L_R_T
	{Right, Left, Top},   // *_R_L_T
	{Top, Down, Right},   // *_T_D_R
	{Top, Down, Left},    // *_T_D_L
	{Down, Top, Right},   // *_D_T_R
	{Down, Top, Left},    // *_D_T_L
}

// pairArms lists the two connected sides of straights and corners.
var pairArms = map[Piece][2]Dir{
	StraightRL: {Right, Left},
	StraightTD: {Top, Down},
	CornerDR:   {Down, Right},
	CornerDL:   {Down, Left},
	CornerTR:   {Top, Right},
	CornerTL:   {Top, Left},
}

// tunnelMouths maps tunnel pieces to the side their mouth opens toward.
var tunnelMouths = map[Piece]Dir{
	TunnelL: Left,
	TunnelR: Right,
	TunnelD: Down,
	TunnelT: Top,
}

// IsStaticSwitch reports whether p is a plain three-way switch.
func IsStaticSwitch(p Piece) bool { return p >= SwitchLRD && p <= SwitchDTL }

// IsDSwitch reports whether p is a dynamic (activation-toggled) switch.
func IsDSwitch(p Piece) bool { return p >= DSwitchLRD && p <= DSwitchDTL }

// IsESwitch reports whether p is an exit switch (toggles on every exit).
func IsESwitch(p Piece) bool { return p >= ESwitchLRD && p <= ESwitchDTL }

// IsSwitch reports whether p belongs to any of the three switch families.
func IsSwitch(p Piece) bool { return p >= SwitchLRD && p <= ESwitchDTL }

// IsTunnel reports whether p is a tunnel mouth.
func IsTunnel(p Piece) bool { return p >= TunnelL && p <= TunnelT }

// IsTrack reports whether p is a physical track tile a vehicle can occupy.
func IsTrack(p Piece) bool { return p != Empty && p != Rock && p < numPieces }

// Placeable reports whether the search may assign p to an open cell.
// Switches, tunnels and rocks must originate from the level model;
// Empty is a legal assignment (the decision to leave a cell trackless).
func Placeable(p Piece) bool {
	return p == Empty || (p >= StraightRL && p <= CornerTL)
}

// PlaceableTracks returns the non-empty placeable pieces in canonical
// order. The slice is freshly allocated; callers may reorder it.
func PlaceableTracks() []Piece {
	return []Piece{StraightRL, StraightTD, CornerDR, CornerDL, CornerTR, CornerTL}
}

// SwitchArms returns the (far, shared, branch) arm triple of a switch.
// ok is false when p is not a switch.
func SwitchArms(p Piece) (far, shared, branch Dir, ok bool) {
	var base Piece
	switch {
	case IsStaticSwitch(p):
		base = SwitchLRD
	case IsDSwitch(p):
		base = DSwitchLRD
	case IsESwitch(p):
		base = ESwitchLRD
	default:
		return 0, 0, 0, false
	}
	g := switchGeoms[p-base]

	return g.far, g.shared, g.branch, true
}

// TunnelMouth returns the side a tunnel mouth opens toward.
// ok is false when p is not a tunnel.
func TunnelMouth(p Piece) (Dir, bool) {
	d, ok := tunnelMouths[p]

	return d, ok
}

// ExitFrom answers the routing question: a vehicle enters piece p through
// side entry while the piece's toggle bit is toggled; through which side
// does it leave?
//
// Contracts:
//   - Static pieces (straights, corners, static switches, tunnels) ignore
//     the bit entirely.
//   - Dynamic and exit switches consult the bit only for entries through
//     the shared arm: bit 0 routes to the far arm, bit 1 to the branch.
//   - Tunnels route mouth→mouth; the teleport to the paired mouth is the
//     simulator's concern, not the catalog's.
//   - ok==false means the entry side is not connected: the move is illegal.
//
// Complexity: O(1).
func ExitFrom(p Piece, entry Dir, toggled bool) (exit Dir, ok bool) {
	switch {
	case p == Empty || p == Rock:
		return 0, false

	case p >= StraightRL && p <= CornerTL:
		arms := pairArms[p]
		if entry == arms[0] {
			return arms[1], true
		}
		if entry == arms[1] {
			return arms[0], true
		}

		return 0, false

	case IsSwitch(p):
		far, shared, branch, _ := SwitchArms(p)
		switch entry {
		case far, branch:
			return shared, true
		case shared:
			if IsStaticSwitch(p) || !toggled {
				return far, true
			}

			return branch, true
		default:
			return 0, false
		}

	case IsTunnel(p):
		if m := tunnelMouths[p]; entry == m {
			return m, true
		}

		return 0, false

	default:
		return 0, false
	}
}

// Connects reports whether side is an arm of p, i.e. whether a correctly
// oriented neighbor on that side could exchange vehicles with p.
func Connects(p Piece, side Dir) bool {
	switch {
	case p >= StraightRL && p <= CornerTL:
		arms := pairArms[p]

		return side == arms[0] || side == arms[1]
	case IsSwitch(p):
		far, shared, branch, _ := SwitchArms(p)

		return side == far || side == shared || side == branch
	case IsTunnel(p):
		return side == tunnelMouths[p]
	default:
		return false
	}
}

// CanEnter reports whether a vehicle may enter p through side under at
// least one toggle state. Derived from ExitFrom so the two always agree.
func CanEnter(p Piece, side Dir) bool {
	if _, ok := ExitFrom(p, side, false); ok {
		return true
	}
	_, ok := ExitFrom(p, side, true)

	return ok
}

// CanExit reports whether a vehicle may leave p through side under at
// least one toggle state and entry.
func CanExit(p Piece, side Dir) bool {
	var d Dir
	for _, d = range Dirs() {
		if e, ok := ExitFrom(p, d, false); ok && e == side {
			return true
		}
		if e, ok := ExitFrom(p, d, true); ok && e == side {
			return true
		}
	}

	return false
}

// switchNames holds the geometry suffixes in switchGeoms order.
var switchNames = [8]string{
	"L_R_D", "R_L_D", "L_R_T", "R_L_T", "T_D_R", "T_D_L", "D_T_R", "D_T_L",
}

// String returns the legacy spelling of p (STRAIGHT_RL, DSWITCH_T_D_R, …)
// so external reporting matches the historical level data files.
func (p Piece) String() string {
	switch {
	case p == Empty:
		return "EMPTY"
	case p == Rock:
		return "ROCK"
	case p == StraightRL:
		return "STRAIGHT_RL"
	case p == StraightTD:
		return "STRAIGHT_TD"
	case p == CornerDR:
		return "CORNER_DR"
	case p == CornerDL:
		return "CORNER_DL"
	case p == CornerTR:
		return "CORNER_TR"
	case p == CornerTL:
		return "CORNER_TL"
	case IsStaticSwitch(p):
		return "SWITCH_" + switchNames[p-SwitchLRD]
	case IsDSwitch(p):
		return "DSWITCH_" + switchNames[p-DSwitchLRD]
	case IsESwitch(p):
		return "ESWITCH_" + switchNames[p-ESwitchLRD]
	case p == TunnelL:
		return "TUNNEL_L"
	case p == TunnelR:
		return "TUNNEL_R"
	case p == TunnelD:
		return "TUNNEL_D"
	case p == TunnelT:
		return "TUNNEL_T"
	default:
		return "UNKNOWN"
	}
}

// ParsePiece converts a legacy spelling back into a Piece.
// Returns ErrUnknownPiece for anything else. Intended for external level
// loaders; the core never parses text itself.
func ParsePiece(s string) (Piece, error) {
	var p Piece
	for p = Empty; p < numPieces; p++ {
		if p.String() == s {
			return p, nil
		}
	}

	return Empty, ErrUnknownPiece
}
