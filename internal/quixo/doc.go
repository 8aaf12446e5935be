// Package quixo implements the Quixo rules engine.
//
// This package is pure computation over immutable values. It performs no I/O,
// holds no state between calls and imports nothing internal, so every other
// package may depend on it.
//
// Key constraints:
//   - Board is a [5][5]Cell array value: assignment copies, == compares
//   - Every transformation returns a new Board or GameState
//   - Neutral cells never carry a facing
//   - Terminal statuses are absorbing; ApplyMove refuses further moves
//
// The low-level operations (IsPeripheral, CanPickCube, ValidPlacements,
// MakeMove, CheckWinner) trust their callers to range-check coordinates.
// ApplyMove is the validating entry point used by the session layer.
package quixo
