// Package piece — core enums and sentinel errors.
package piece

import "errors"

// Sentinel errors for piece parsing and catalog queries.
var (
	// ErrUnknownPiece is returned by ParsePiece for an unrecognized name.
	ErrUnknownPiece = errors.New("piece: unknown piece name")
	// ErrUnknownDir is returned by ParseDir for an unrecognized name.
	ErrUnknownDir = errors.New("piece: unknown direction name")
)

// Dir is one of the four orthogonal directions on the board.
// The zero value is Top; the order (Top, Down, Left, Right) matches the
// legacy level format and is relied upon for deterministic iteration.
type Dir uint8

const (
	// Top points toward row 1 (decreasing row).
	Top Dir = iota
	// Down points toward the last row (increasing row).
	Down
	// Left points toward column 1 (decreasing column).
	Left
	// Right points toward the last column (increasing column).
	Right
)

// NumDirs is the number of orthogonal directions.
const NumDirs = 4

// Dirs returns all directions in their canonical order.
// The returned array is a copy; callers may range freely.
func Dirs() [NumDirs]Dir { return [NumDirs]Dir{Top, Down, Left, Right} }

// Opposite returns the direction pointing the other way.
func (d Dir) Opposite() Dir {
	switch d {
	case Top:
		return Down
	case Down:
		return Top
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the (row, col) offset of one step in direction d,
// in the 1-indexed row-major coordinate system (origin top-left).
func (d Dir) Delta() (dr, dc int) {
	switch d {
	case Top:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 1
	}
}

// String returns the legacy spelling of d (TOP, DOWN, LEFT, RIGHT).
func (d Dir) String() string {
	switch d {
	case Top:
		return "TOP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	default:
		return "RIGHT"
	}
}

// ParseDir converts a legacy direction spelling back into a Dir.
// Returns ErrUnknownDir for anything else.
func ParseDir(s string) (Dir, error) {
	switch s {
	case "TOP":
		return Top, nil
	case "DOWN":
		return Down, nil
	case "LEFT":
		return Left, nil
	case "RIGHT":
		return Right, nil
	default:
		return Top, ErrUnknownDir
	}
}

// Piece is a track tile type. The catalog in catalog.go defines, for every
// piece, which sides connect and how entries route to exits.
//
// Families:
//   - Empty / Rock — impassable; Empty is the "no track here" decision.
//   - StraightXY / CornerXY — plain placeable track.
//   - SwitchFSB — static three-way: straight F↔S plus curve S↔B.
//   - DSwitchFSB — same geometry; the route from the shared arm follows a
//     toggle bit flipped by activation tiles.
//   - ESwitchFSB — same geometry; the bit flips on every vehicle exit.
//   - TunnelX — teleport mouth opening toward X.
type Piece uint8

const (
	// Empty marks a cell with no track. Vehicles may never enter it.
	Empty Piece = iota
	// Rock is an impassable fixed obstacle (legacy ROADBLOCK).
	Rock

	// StraightRL connects the Left and Right sides.
	StraightRL
	// StraightTD connects the Top and Down sides.
	StraightTD

	// CornerDR connects the Down and Right sides.
	CornerDR
	// CornerDL connects the Down and Left sides.
	CornerDL
	// CornerTR connects the Top and Right sides.
	CornerTR
	// CornerTL connects the Top and Left sides.
	CornerTL

	// Static switches: SWITCH_F_S_B = straight F↔S, curve S↔B.
	SwitchLRD
	SwitchRLD
	SwitchLRT
	SwitchRLT
	SwitchTDR
	SwitchTDL
	SwitchDTR
	SwitchDTL

	// Dynamic switches: geometry as above, routed by an activation bit.
	DSwitchLRD
	DSwitchRLD
	DSwitchLRT
	DSwitchRLT
	DSwitchTDR
	DSwitchTDL
	DSwitchDTR
	DSwitchDTL

	// Exit switches: geometry as above, bit flips on every vehicle exit.
	ESwitchLRD
	ESwitchRLD
	ESwitchLRT
	ESwitchRLT
	ESwitchTDR
	ESwitchTDL
	ESwitchDTR
	ESwitchDTL

	// Tunnel mouths, named after the side the mouth opens toward.
	TunnelL
	TunnelR
	TunnelD
	TunnelT

	// numPieces bounds the enum; keep it last.
	numPieces
)

// NumPieces is the number of distinct piece variants.
const NumPieces = int(numPieces)
