// Package sim — result types, options, and sentinel errors.
package sim

import (
	"errors"

	"github.com/google/uuid"

	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
)

// Sentinel errors for simulator execution. ErrBlocked, ErrDeadlock and
// ErrCollision are branch-local failure reasons consumed by the search;
// they never surface past the solve package.
var (
	// ErrNilInput indicates a nil level or layout.
	ErrNilInput = errors.New("sim: nil level or layout")
	// ErrIncompleteLayout indicates an undecided open cell; the simulator
	// only runs fully decided layouts.
	ErrIncompleteLayout = errors.New("sim: layout has undecided cells")
	// ErrBlocked indicates a vehicle that cannot legally continue: its
	// piece forbids the exit, the destination is empty, off-board or a
	// mismatched tunnel mouth, a target is reached before its stations
	// are satisfied, or a closed gate can never open.
	ErrBlocked = errors.New("sim: vehicle blocked")
	// ErrDeadlock indicates the tick horizon elapsed before every train
	// arrived.
	ErrDeadlock = errors.New("sim: horizon exhausted before all trains arrived")
	// ErrCollision indicates two vehicles sharing a cell or swapping
	// cells between consecutive ticks.
	ErrCollision = errors.New("sim: vehicle collision")
)

// Phase is the observable state of a vehicle within a tick.
type Phase uint8

const (
	// Waiting: the vehicle did not move this tick (still at its start, or
	// held by a closed gate/semaphore).
	Waiting Phase = iota
	// Moving: the vehicle advanced one cell this tick.
	Moving
	// Dwelling: the vehicle is spending its mandatory station tick.
	Dwelling
	// Arrived: the train reached its final target and left the board.
	Arrived
)

// String returns a short name for the phase.
func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Moving:
		return "moving"
	case Dwelling:
		return "dwelling"
	default:
		return "arrived"
	}
}

// VehicleState is one vehicle's observable state at the end of a tick.
// ID is signed: +k is train k, −k is decoy k (1-based), matching the
// station ownership convention of the level format.
type VehicleState struct {
	ID      int
	Cell    level.Cell
	Heading piece.Dir
	Phase   Phase
	Dwell   int // remaining dwell ticks, meaningful while Dwelling
}

// MechanicsSnapshot freezes every stateful element at the end of a tick.
// Slices are parallel to the level's Gates, DSwitches, Semaphores and
// Stations; ESwitchToggled is parallel to Trace.ESwitchCells.
type MechanicsSnapshot struct {
	GateOpen       []bool
	DSwitchToggled []bool
	ESwitchToggled []bool
	SemaphoreOpen  []bool
	StationVisited []bool
}

// Frame is one tick of the replay trace. Frame 0 holds the initial state
// before any movement.
type Frame struct {
	Tick      int
	Vehicles  []VehicleState
	Mechanics MechanicsSnapshot
}

// Trace is the machine-checkable replay artifact of one simulation run.
// It is sufficient to re-play the run tick by tick for visualization.
type Trace struct {
	// ID tags this run for external reporting; it is the only
	// non-deterministic field.
	ID uuid.UUID

	// Ticks is the number of simulated ticks (frames beyond frame 0).
	Ticks int

	// Frames holds per-tick states; empty when recording was disabled.
	Frames []Frame

	// Arrivals[k] is the arrival tick of train k (0-based index into the
	// level's Trains); 0 means the train never arrived.
	Arrivals []int

	// TargetTicks[k][i] is the first tick train k visited target i;
	// 0 means never.
	TargetTicks [][]int

	// ESwitchCells lists the exit-switch cells in row-major order; it
	// keys MechanicsSnapshot.ESwitchToggled.
	ESwitchCells []level.Cell

	// Final is the mechanics state when the run ended.
	Final MechanicsSnapshot
}

// Options tunes one simulation run.
type Options struct {
	// MaxTicks caps the simulated horizon; 0 means the level's Horizon().
	MaxTicks int

	// RecordFrames enables per-tick frame capture. The search disables it
	// on the hot path; arrivals and the final snapshot are always kept.
	RecordFrames bool
}

// DefaultOptions returns the standalone-run configuration: the level's
// horizon with full frame recording.
func DefaultOptions() Options {
	return Options{MaxTicks: 0, RecordFrames: true}
}
