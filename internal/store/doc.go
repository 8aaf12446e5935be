// Package store provides SQLite-backed durable storage for Quixo games.
//
// The store keeps two tables:
//   - games: one row per game with its current state
//   - moves: the append-only move log of each game
//
// # Critical Patterns
//
// Cumulative move numbers
//   - moves.move_number is assigned here, 1-based, per game
//   - UNIQUE(game_id, move_number) rejects a second writer for the same slot
//
// Compare-and-swap on move_count
//   - AppendMove only updates the game row if move_count still holds the
//     value the caller read; otherwise it returns ErrConflict
//   - This keeps two processes sharing a database file from both applying
//     a move against the same pre-move state
//
// Deterministic ordering
//   - Move queries always ORDER BY move_number ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Boards are stored in the text form produced by quixo.EncodeBoard.
// Timestamps are stored as Unix milliseconds (UTC), durations as milliseconds.
package store
