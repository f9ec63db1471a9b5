// Package sim — static mechanic lookup tables.
//
// A Sim is built once per level and reused across every candidate layout
// the search proposes. Everything indexed here is immutable level data:
// tunnel pairings, gate/activation/dswitch/station/semaphore positions,
// and the exit-switch cells (exit switches are never placeable, so their
// set is known before any search starts).
package sim

import (
	"sort"

	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
)

// Sim holds the per-level static tables shared by all runs.
type Sim struct {
	lvl *level.Level

	tunnelTo map[level.Cell]level.TunnelEnd // mouth cell → far end
	gatesAt  map[level.Cell][]int           // cell → indices into lvl.Gates
	gatesOf  map[int][]int                  // activation id → gate indices
	actsAt   map[level.Cell][]int           // cell → activation ids fired on entry
	hasAct   map[int]bool                   // id → some activation tile exists

	dswitchAt map[level.Cell]int // dswitch cell → index into lvl.DSwitches
	dswitchOf map[int][]int      // activation id → dswitch indices

	stationAt  map[level.Cell]map[int]int // cell → owner → station index
	stationsOf map[int][]int              // owner → station indices

	semsAt map[level.Cell][]int // cell → semaphore indices
	semsOf map[int][]int        // guarded switch id → semaphore indices

	eswitchCells []level.Cell       // row-major order
	eswitchIdx   map[level.Cell]int // cell → index into eswitchCells

	targetIdx map[level.Cell]int // target cell → position in lvl.Targets
}

// New validates lvl and builds its static tables.
// Complexity: O(cells + mechanics), dominated by the fixed-piece scan.
func New(lvl *level.Level) (*Sim, error) {
	if lvl == nil {
		return nil, ErrNilInput
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	s := &Sim{
		lvl:        lvl,
		tunnelTo:   make(map[level.Cell]level.TunnelEnd, 2*len(lvl.Tunnels)),
		gatesAt:    make(map[level.Cell][]int, len(lvl.Gates)),
		gatesOf:    make(map[int][]int, len(lvl.Gates)),
		actsAt:     make(map[level.Cell][]int, len(lvl.Activations)),
		hasAct:     make(map[int]bool, len(lvl.Activations)),
		dswitchAt:  make(map[level.Cell]int, len(lvl.DSwitches)),
		dswitchOf:  make(map[int][]int, len(lvl.DSwitches)),
		stationAt:  make(map[level.Cell]map[int]int, len(lvl.Stations)),
		stationsOf: make(map[int][]int, len(lvl.Stations)),
		semsAt:     make(map[level.Cell][]int, len(lvl.Semaphores)),
		semsOf:     make(map[int][]int, len(lvl.Semaphores)),
		eswitchIdx: make(map[level.Cell]int),
		targetIdx:  make(map[level.Cell]int, len(lvl.Targets)),
	}

	for _, t := range lvl.Tunnels {
		s.tunnelTo[t.A.Cell] = t.B
		s.tunnelTo[t.B.Cell] = t.A
	}
	for i, g := range lvl.Gates {
		s.gatesAt[g.Cell] = append(s.gatesAt[g.Cell], i)
		s.gatesOf[g.ID] = append(s.gatesOf[g.ID], i)
	}
	for _, a := range lvl.Activations {
		s.actsAt[a.Cell] = append(s.actsAt[a.Cell], a.ID)
		s.hasAct[a.ID] = true
	}
	for i, d := range lvl.DSwitches {
		s.dswitchAt[d.Cell] = i
		s.dswitchOf[d.ID] = append(s.dswitchOf[d.ID], i)
	}
	for i, st := range lvl.Stations {
		owners, ok := s.stationAt[st.Cell]
		if !ok {
			owners = make(map[int]int, 1)
			s.stationAt[st.Cell] = owners
		}
		owners[st.Owner] = i
		s.stationsOf[st.Owner] = append(s.stationsOf[st.Owner], i)
	}
	for i, sem := range lvl.Semaphores {
		s.semsAt[sem.Cell] = append(s.semsAt[sem.Cell], i)
		s.semsOf[sem.SwitchID] = append(s.semsOf[sem.SwitchID], i)
	}
	for i, c := range lvl.Targets {
		s.targetIdx[c] = i
	}

	// Exit switches are never placeable: collect them from the fixed map
	// in row-major order for deterministic snapshots.
	for c, p := range lvl.FixedPieces() {
		if piece.IsESwitch(p) {
			s.eswitchCells = append(s.eswitchCells, c)
		}
	}
	sort.Slice(s.eswitchCells, func(i, j int) bool {
		a, b := s.eswitchCells[i], s.eswitchCells[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}

		return a.Col < b.Col
	})
	for i, c := range s.eswitchCells {
		s.eswitchIdx[c] = i
	}

	return s, nil
}

// Level returns the level the Sim was built for.
func (s *Sim) Level() *level.Level { return s.lvl }

// initialGateStates returns the gates' declared initial open bits.
func (s *Sim) initialGateStates() []bool {
	open := make([]bool, len(s.lvl.Gates))
	for i, g := range s.lvl.Gates {
		open[i] = g.Open
	}

	return open
}
