// Package sim is the deterministic movement simulator: given a complete
// layout of a validated level, it advances every train and decoy one tick
// at a time until all trains have parked at the target — or a violation
// (blocked move, collision, exhausted horizon) ends the run.
//
// Determinism is part of the contract, not an accident:
//
//   - vehicles are stepped in increasing id order every tick
//     (trains first, by their arrival order, then decoys);
//   - activation firings within one tick combine by parity per id,
//     applied after all vehicles have moved;
//   - the new mechanics state becomes observable on the next tick, which
//     realizes the gate law state(t) = initial XOR parity(firings < t).
//
// Simulating the same layout twice yields identical traces (the uuid
// Trace.ID aside). The engine is purely sequential and single-threaded
// per invocation; tick order and vehicle order are observable behavior.
//
// Build a Sim once per level (static lookup tables), then call Run for
// every candidate layout; the search engine does exactly that. Each Run
// returns a Trace — a tick-by-tick replay artifact with per-vehicle
// states and mechanics snapshots — even when it ends in an error, so
// failed runs stay diagnosable.
package sim
