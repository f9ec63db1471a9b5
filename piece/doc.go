// Package piece defines the track tile vocabulary of railgrid and the pure
// connectivity rules that govern how vehicles traverse each tile.
//
// It provides:
//
//   - Dir — the four orthogonal directions (Top, Down, Left, Right)
//
//   - Piece — the tile enum (~35 variants): straights, corners, three
//     switch families (static, dynamic, exit), tunnels, rocks and Empty
//
//   - ExitFrom — the single source of truth for movement:
//     given a piece, the side a vehicle enters through, and the current
//     toggle bit, it yields the side the vehicle exits through (or reports
//     that the entry is illegal)
//
// Switch geometry follows the legacy naming SWITCH_F_S_B: arm F↔S is the
// straight route, S↔B the curve, so S is the shared arm. Entry through F
// or B always exits at S; entry through S follows the toggle bit
// (0 → F, 1 → B). Static switches ignore the bit and always route S → F.
//
// All functions are side-effect free lookups: O(1) time, zero allocations.
// Stateful behavior (when a bit flips) belongs to the simulator; this
// package only answers "where does this entry lead under this bit".
package piece
