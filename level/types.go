// Package level — core types and sentinel errors.
package level

import (
	"errors"

	"github.com/katalvlaran/railgrid/piece"
)

// Sentinel errors for structural (MalformedLevel) violations.
var (
	// ErrBadShape indicates non-positive dimensions or negative budgets.
	ErrBadShape = errors.New("level: invalid board shape or budget")
	// ErrNoTrains indicates a level without any ordered train.
	ErrNoTrains = errors.New("level: at least one train is required")
	// ErrTargetCount indicates zero or more than two target cells.
	ErrTargetCount = errors.New("level: levels carry one or two targets")
	// ErrCellOutOfBounds indicates a referenced cell outside the board.
	ErrCellOutOfBounds = errors.New("level: cell out of bounds")
	// ErrBadPlacement indicates an illegal pre-placed piece (Empty, a
	// tunnel outside a tunnel pair, or two placements on one cell).
	ErrBadPlacement = errors.New("level: illegal pre-placed piece")
	// ErrDuplicateStart indicates two vehicles sharing a start cell.
	ErrDuplicateStart = errors.New("level: duplicate vehicle start cell")
	// ErrSwitchNeighbors indicates a switch without exactly three
	// connectable orthogonal neighbors.
	ErrSwitchNeighbors = errors.New("level: switch lacks three connectable neighbors")
	// ErrTunnelConflict indicates overlapping or degenerate tunnel pairs.
	ErrTunnelConflict = errors.New("level: conflicting tunnel endpoints")
	// ErrBadID indicates a non-positive activation/gate/switch id.
	ErrBadID = errors.New("level: mechanic id must be positive")
	// ErrDSwitchPiece indicates a dynamic-switch registration that does
	// not sit on a DSWITCH piece (or a DSWITCH piece left unregistered).
	ErrDSwitchPiece = errors.New("level: dynamic switch registration mismatch")
	// ErrStationOwner indicates a station referencing an unknown vehicle.
	ErrStationOwner = errors.New("level: station owner references unknown vehicle")
	// ErrSemaphoreSwitch indicates a semaphore whose guarded switch id has
	// no adjacent dynamic switch.
	ErrSemaphoreSwitch = errors.New("level: semaphore not adjacent to its switch")
)

// Cell addresses one board cell. Row and Col are 1-indexed; Row 1 is the
// top row, Col 1 the leftmost column.
type Cell struct {
	Row, Col int
}

// Add returns the neighboring cell one step in direction d.
func (c Cell) Add(d piece.Dir) Cell {
	dr, dc := d.Delta()

	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Start is a vehicle spawn: the cell it first occupies and its heading.
type Start struct {
	Cell    Cell
	Heading piece.Dir
}

// PlacedPiece fixes a piece on a cell before the search begins.
type PlacedPiece struct {
	Cell  Cell
	Piece piece.Piece
}

// TunnelEnd is one mouth of a tunnel pair. Exit is the heading a vehicle
// carries when it emerges here; the mouth opens toward Exit, so inbound
// vehicles enter the cell through its Exit side.
type TunnelEnd struct {
	Cell Cell
	Exit piece.Dir
}

// Mouth returns the tunnel piece planted on this endpoint.
func (e TunnelEnd) Mouth() piece.Piece {
	switch e.Exit {
	case piece.Left:
		return piece.TunnelL
	case piece.Right:
		return piece.TunnelR
	case piece.Down:
		return piece.TunnelD
	default:
		return piece.TunnelT
	}
}

// TunnelPair links two mouths: entering one relocates a vehicle to the
// other on the same tick.
type TunnelPair struct {
	A, B TunnelEnd
}

// Gate blocks its cell while closed. The gate with id n toggles whenever
// an odd number of activations of id n fire within one tick.
type Gate struct {
	Cell Cell
	ID   int
	Open bool // initial state
}

// Activation is a trigger tile: every vehicle that newly enters it fires
// its id once that tick.
type Activation struct {
	Cell Cell
	ID   int
}

// DSwitch registers the activation id that toggles the dynamic switch
// piece placed on Cell.
type DSwitch struct {
	Cell Cell
	ID   int
}

// Station is one cell of a station group. Owner is signed: +k is train k,
// −k is decoy k (both 1-based). All stations with the same owner form one
// group; the owning vehicle must visit every cell of its group.
type Station struct {
	Cell  Cell
	Owner int
}

// Semaphore starts closed, blocking its cell in both directions, and
// permanently opens one tick after a vehicle enters the guarding dynamic
// switch (id SwitchID) through that switch's branch arm.
type Semaphore struct {
	Cell     Cell
	SwitchID int
}

// Level is the immutable description of one puzzle instance.
//
// MaxTicks of 0 means "use the default horizon" (Width*Height, as in the
// historical data format); see Horizon.
type Level struct {
	Width, Height int
	MaxTicks      int
	MaxTracks     int

	// Targets holds one or two target cells. With two targets and
	// OrderedTargets set, every train must visit Targets[0] strictly
	// before Targets[1].
	Targets        []Cell
	OrderedTargets bool

	Trains []Start // ordered: Trains[k] must arrive before Trains[k+1]
	Decoys []Start // unordered, no arrival obligation

	Placed      []PlacedPiece
	Tunnels     []TunnelPair
	Gates       []Gate
	Activations []Activation
	DSwitches   []DSwitch
	Stations    []Station
	Semaphores  []Semaphore
}

// InBounds reports whether c lies on the board.
func (l *Level) InBounds(c Cell) bool {
	return c.Row >= 1 && c.Row <= l.Height && c.Col >= 1 && c.Col <= l.Width
}

// Horizon returns the simulation tick limit: MaxTicks when positive,
// otherwise the legacy default Width*Height.
func (l *Level) Horizon() int {
	if l.MaxTicks > 0 {
		return l.MaxTicks
	}

	return l.Width * l.Height
}

// FixedPieces merges explicit placements with tunnel plants into one
// cell→piece map. The map is freshly allocated on every call.
func (l *Level) FixedPieces() map[Cell]piece.Piece {
	fixed := make(map[Cell]piece.Piece, len(l.Placed)+2*len(l.Tunnels))
	for _, p := range l.Placed {
		fixed[p.Cell] = p.Piece
	}
	for _, t := range l.Tunnels {
		fixed[t.A.Cell] = t.A.Mouth()
		fixed[t.B.Cell] = t.B.Mouth()
	}

	return fixed
}
