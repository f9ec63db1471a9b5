// Package sim — the tick engine.
//
// Rationale (succinct):
//  1. One engine struct per run holds all mutable state (vehicle list,
//     gate/switch/semaphore bits, station visits); the Sim it came from
//     stays read-only, so runs never interfere.
//  2. Per tick, vehicles step strictly in id order: trains by arrival
//     order, then decoys. A vehicle's route out of a cell is recomputed
//     from its entry side every tick, so a switch toggled underneath a
//     waiting vehicle redirects it.
//  3. Mechanics resolve after all vehicles have stepped: activation
//     firings combine by parity per id, exit switches flip once per
//     exiting vehicle, semaphores scheduled by a branch-arm entry open
//     for the following tick. Collision and swap checks close the tick.
//  4. Arrived trains leave the board: they stop occupying cells and are
//     excluded from collision checks, so a shared target can absorb
//     several trains in sequence.
//
// Complexity: O(ticks × vehicles) plus O(vehicles²) pair checks per tick;
// memory O(vehicles + mechanics), plus O(ticks × vehicles) when frame
// recording is on.
package sim

import (
	"github.com/google/uuid"

	"github.com/katalvlaran/railgrid/layout"
	"github.com/katalvlaran/railgrid/level"
	"github.com/katalvlaran/railgrid/piece"
)

// vehicle is the engine-internal state of one train or decoy.
type vehicle struct {
	id    int  // signed external id: +k train, −k decoy
	ord   int  // train index (0-based), −1 for decoys
	train bool

	cell    level.Cell
	prev    level.Cell // position at the previous tick, for swap checks
	entry   piece.Dir  // side of cell the vehicle entered through
	heading piece.Dir  // side it will leave through
	phase   Phase
	dwell   int
}

// engine is the mutable state of one simulation run.
type engine struct {
	s        *Sim
	ly       *layout.Layout
	maxTicks int
	record   bool

	vehicles    []vehicle
	gateOpen    []bool
	dswitchBit  []bool
	eswitchBit  []bool
	semOpen     []bool
	stationDone []bool
	arrivals    []int
	targetTicks [][]int
	frames      []Frame

	// per-tick scratch, reset by resolve
	fires     map[int]int  // activation id → firings this tick
	semHits   map[int]bool // switch id → branch entry seen this tick
	exitFlips []int        // eswitch indices exited this tick
}

// Run simulates ly on the Sim's level and returns the replay trace.
// The trace is returned even when the run fails, so callers can inspect
// how far the vehicles got; err is one of ErrBlocked, ErrDeadlock,
// ErrCollision (or an input sentinel).
func (s *Sim) Run(ly *layout.Layout, opts Options) (Trace, error) {
	if ly == nil {
		return Trace{}, ErrNilInput
	}
	if !ly.Complete() {
		return Trace{}, ErrIncompleteLayout
	}

	e := s.newEngine(ly, opts)
	if e.record {
		e.frames = append(e.frames, e.frame(0))
	}

	var (
		simErr error
		ticks  int
	)
	for t := 1; t <= e.maxTicks; t++ {
		ticks = t
		simErr = e.tick(t)
		if e.record && simErr == nil {
			e.frames = append(e.frames, e.frame(t))
		}
		if simErr != nil || e.allArrived() {
			break
		}
	}
	if simErr == nil && !e.allArrived() {
		simErr = ErrDeadlock
	}

	return Trace{
		ID:           uuid.New(),
		Ticks:        ticks,
		Frames:       e.frames,
		Arrivals:     e.arrivals,
		TargetTicks:  e.targetTicks,
		ESwitchCells: append([]level.Cell(nil), s.eswitchCells...),
		Final:        e.snapshot(),
	}, simErr
}

// Run is the standalone convenience wrapper: build the static tables and
// simulate once with default options.
func Run(lvl *level.Level, ly *layout.Layout) (Trace, error) {
	s, err := New(lvl)
	if err != nil {
		return Trace{}, err
	}

	return s.Run(ly, DefaultOptions())
}

// newEngine allocates run state and spawns the vehicles.
func (s *Sim) newEngine(ly *layout.Layout, opts Options) *engine {
	maxTicks := opts.MaxTicks
	if maxTicks <= 0 {
		maxTicks = s.lvl.Horizon()
	}
	e := &engine{
		s:           s,
		ly:          ly,
		maxTicks:    maxTicks,
		record:      opts.RecordFrames,
		vehicles:    make([]vehicle, 0, len(s.lvl.Trains)+len(s.lvl.Decoys)),
		gateOpen:    s.initialGateStates(),
		dswitchBit:  make([]bool, len(s.lvl.DSwitches)),
		eswitchBit:  make([]bool, len(s.eswitchCells)),
		semOpen:     make([]bool, len(s.lvl.Semaphores)),
		stationDone: make([]bool, len(s.lvl.Stations)),
		arrivals:    make([]int, len(s.lvl.Trains)),
		targetTicks: make([][]int, len(s.lvl.Trains)),
		fires:       make(map[int]int),
		semHits:     make(map[int]bool),
	}
	for k := range s.lvl.Trains {
		e.targetTicks[k] = make([]int, len(s.lvl.Targets))
	}
	for k, st := range s.lvl.Trains {
		e.vehicles = append(e.vehicles, e.spawn(k+1, k, true, st))
	}
	for k, st := range s.lvl.Decoys {
		e.vehicles = append(e.vehicles, e.spawn(-(k + 1), -1, false, st))
	}

	return e
}

// spawn derives a vehicle's initial entry side: the side whose route
// through the start piece yields the declared heading. A start piece that
// cannot produce the heading leaves the vehicle to fail its first move.
func (e *engine) spawn(id, ord int, train bool, st level.Start) vehicle {
	v := vehicle{
		id:      id,
		ord:     ord,
		train:   train,
		cell:    st.Cell,
		prev:    st.Cell,
		heading: st.Heading,
		entry:   st.Heading.Opposite(),
		phase:   Waiting,
	}
	p := e.ly.At(st.Cell)
	for _, side := range piece.Dirs() {
		if exit, ok := piece.ExitFrom(p, side, e.bitAt(st.Cell)); ok && exit == st.Heading {
			v.entry = side
			break
		}
	}

	return v
}

// bitAt returns the toggle bit governing the switch on c, if any.
func (e *engine) bitAt(c level.Cell) bool {
	if di, ok := e.s.dswitchAt[c]; ok {
		return e.dswitchBit[di]
	}
	if ei, ok := e.s.eswitchIdx[c]; ok {
		return e.eswitchBit[ei]
	}

	return false
}

// tick advances every vehicle once, resolves mechanics, and checks for
// collisions.
func (e *engine) tick(t int) error {
	var i int
	for i = range e.vehicles {
		if err := e.step(&e.vehicles[i], t); err != nil {
			return err
		}
	}
	e.resolve()

	return e.collisions()
}

// step moves one vehicle through spec'd per-tick behavior: dwell, route,
// gate/semaphore wait, tunnel relocation, station marking, arrival.
func (e *engine) step(v *vehicle, t int) error {
	if v.phase == Arrived {
		return nil
	}
	v.prev = v.cell

	// Mandatory station dwell consumes whole ticks before movement.
	if v.phase == Dwelling {
		if v.dwell > 0 {
			v.dwell--

			return nil
		}
	}

	// Route out of the current cell, under the current toggle bit.
	exit, ok := piece.ExitFrom(e.ly.At(v.cell), v.entry, e.bitAt(v.cell))
	if !ok {
		return ErrBlocked
	}
	v.heading = exit
	dest := v.cell.Add(exit)
	if !e.s.lvl.InBounds(dest) {
		return ErrBlocked
	}

	// A closed gate holds the vehicle in place — waiting is legal, unless
	// no activation tile for that gate id exists anywhere, in which case
	// the gate can never open and the vehicle is stuck for good.
	for _, gi := range e.s.gatesAt[dest] {
		if !e.gateOpen[gi] {
			if !e.s.hasAct[e.s.lvl.Gates[gi].ID] {
				return ErrBlocked
			}
			v.phase = Waiting

			return nil
		}
	}
	// A closed semaphore blocks both directions the same way; it opens
	// permanently via its guarded switch, so no starvation fast-path.
	for _, si := range e.s.semsAt[dest] {
		if !e.semOpen[si] {
			v.phase = Waiting

			return nil
		}
	}

	dp := e.ly.At(dest)
	entrySide := exit.Opposite()
	if far, isTunnel := e.s.tunnelTo[dest]; isTunnel {
		// Tunnel relocation is atomic: the vehicle ends the tick at the
		// far mouth, already headed along that mouth's exit direction.
		if mouth, _ := piece.TunnelMouth(dp); entrySide != mouth {
			return ErrBlocked
		}
		e.noteExit(v.cell)
		v.cell = far.Cell
		v.entry = far.Exit
		v.heading = far.Exit
	} else {
		if !piece.CanEnter(dp, entrySide) {
			return ErrBlocked
		}
		e.noteExit(v.cell)
		v.cell = dest
		v.entry = entrySide
	}
	v.phase = Moving

	return e.entered(v, t)
}

// noteExit records a vehicle leaving c for end-of-tick exit-switch flips.
func (e *engine) noteExit(c level.Cell) {
	if ei, ok := e.s.eswitchIdx[c]; ok {
		e.exitFlips = append(e.exitFlips, ei)
	}
}

// entered applies the consequences of newly occupying a cell: activation
// firings, semaphore triggers, station dwell, and target arrival.
func (e *engine) entered(v *vehicle, t int) error {
	c := v.cell

	for _, id := range e.s.actsAt[c] {
		e.fires[id]++
	}

	// Semaphore trigger: entry into a guarded dswitch through its branch.
	if di, ok := e.s.dswitchAt[c]; ok {
		if _, _, branch, sw := piece.SwitchArms(e.ly.At(c)); sw && v.entry == branch {
			e.semHits[e.s.lvl.DSwitches[di].ID] = true
		}
	}

	// First visit to an owned station cell costs one dwell tick.
	if owners, ok := e.s.stationAt[c]; ok {
		if sti, mine := owners[v.id]; mine && !e.stationDone[sti] {
			e.stationDone[sti] = true
			v.phase = Dwelling
			v.dwell = 1
		}
	}

	// Targets bind trains only; decoys roll through them freely.
	ti, isTarget := e.s.targetIdx[c]
	if !isTarget || !v.train {
		return nil
	}
	if e.targetTicks[v.ord][ti] == 0 {
		e.targetTicks[v.ord][ti] = t
	}
	if !e.finalTarget(v.ord, ti) {
		return nil
	}
	if !e.stationsSatisfied(v.id) {
		// The target boundary rejects trains with unfinished stations.
		return ErrBlocked
	}
	v.phase = Arrived
	e.arrivals[v.ord] = t

	return nil
}

// finalTarget reports whether target ti completes train ord's journey:
// the only target, or the second of a pair once the other has been
// visited. A target that is not yet "the next required one" acts as
// plain track; the feasibility checker still enforces declared ordering
// on first-visit ticks.
func (e *engine) finalTarget(ord, ti int) bool {
	if len(e.s.lvl.Targets) == 1 {
		return true
	}
	if e.s.lvl.OrderedTargets && ti != 1 {
		return false
	}

	return e.targetTicks[ord][1-ti] != 0
}

// stationsSatisfied reports whether every station cell owned by id has
// been visited.
func (e *engine) stationsSatisfied(id int) bool {
	for _, sti := range e.s.stationsOf[id] {
		if !e.stationDone[sti] {
			return false
		}
	}

	return true
}

// resolve applies end-of-tick mechanics: per-id firing parity toggles
// gates and dynamic switches, exit switches flip per exiting vehicle, and
// triggered semaphores open for the next tick.
func (e *engine) resolve() {
	for id, n := range e.fires {
		if n%2 == 0 {
			continue
		}
		for _, gi := range e.s.gatesOf[id] {
			e.gateOpen[gi] = !e.gateOpen[gi]
		}
		for _, di := range e.s.dswitchOf[id] {
			e.dswitchBit[di] = !e.dswitchBit[di]
		}
	}
	for _, ei := range e.exitFlips {
		e.eswitchBit[ei] = !e.eswitchBit[ei]
	}
	for id := range e.semHits {
		for _, si := range e.s.semsOf[id] {
			e.semOpen[si] = true
		}
	}

	clear(e.fires)
	clear(e.semHits)
	e.exitFlips = e.exitFlips[:0]
}

// collisions rejects shared cells and swapped cells among the vehicles
// still on the board.
func (e *engine) collisions() error {
	var i, j int
	for i = range e.vehicles {
		if e.vehicles[i].phase == Arrived {
			continue
		}
		for j = i + 1; j < len(e.vehicles); j++ {
			if e.vehicles[j].phase == Arrived {
				continue
			}
			a, b := &e.vehicles[i], &e.vehicles[j]
			if a.cell == b.cell {
				return ErrCollision
			}
			if a.cell == b.prev && b.cell == a.prev && a.cell != a.prev {
				return ErrCollision
			}
		}
	}

	return nil
}

// allArrived reports whether every train has parked.
func (e *engine) allArrived() bool {
	for i := range e.vehicles {
		if e.vehicles[i].train && e.vehicles[i].phase != Arrived {
			return false
		}
	}

	return true
}

// snapshot copies the mechanics state into an immutable value.
func (e *engine) snapshot() MechanicsSnapshot {
	return MechanicsSnapshot{
		GateOpen:       append([]bool(nil), e.gateOpen...),
		DSwitchToggled: append([]bool(nil), e.dswitchBit...),
		ESwitchToggled: append([]bool(nil), e.eswitchBit...),
		SemaphoreOpen:  append([]bool(nil), e.semOpen...),
		StationVisited: append([]bool(nil), e.stationDone...),
	}
}

// frame captures one tick for the replay trace.
func (e *engine) frame(t int) Frame {
	states := make([]VehicleState, len(e.vehicles))
	for i := range e.vehicles {
		v := &e.vehicles[i]
		states[i] = VehicleState{
			ID:      v.id,
			Cell:    v.cell,
			Heading: v.heading,
			Phase:   v.phase,
			Dwell:   v.dwell,
		}
	}

	return Frame{Tick: t, Vehicles: states, Mechanics: e.snapshot()}
}
