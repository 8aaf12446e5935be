// Package session owns the lifecycle of stored Quixo games.
//
// The rules engine in package quixo is pure. Service wraps it with the
// parts a running game needs: loading the current state, serializing moves
// per game id, persisting the result, measuring elapsed time and telling
// subscribers about accepted moves.
//
// # Ordering
//
// For one game id, read → validate → apply → persist runs under a per-game
// mutex. Different games never contend. The store's compare-and-swap on the
// move count covers several processes sharing one database file.
//
// # Results
//
// Caller mistakes (unknown game, finished game, illegal move) come back as
// MoveResult values with Success false. Only infrastructure failures are
// returned as errors.
package session
