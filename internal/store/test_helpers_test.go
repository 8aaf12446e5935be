package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/quixo/internal/quixo"
)

var testEpoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestGame inserts a fresh two-player game created at testEpoch.
func createTestGame(t *testing.T, s *Store, id string) Game {
	t.Helper()
	return createTestGameAt(t, s, id, quixo.TwoPlayers, testEpoch)
}

func createTestGameAt(t *testing.T, s *Store, id string, mode quixo.Mode, createdAt time.Time) Game {
	t.Helper()
	g := NewGame(id, mode, createdAt)
	if err := s.CreateGame(context.Background(), g); err != nil {
		t.Fatalf("CreateGame(%s) failed: %v", id, err)
	}
	return g
}

// appendTestMove applies m to g through the rules engine and persists it.
func appendTestMove(t *testing.T, s *Store, g Game, m quixo.Move, elapsed time.Duration) (Game, MoveRecord) {
	t.Helper()
	next, applied, err := quixo.ApplyMove(g.State(), m)
	if err != nil {
		t.Fatalf("ApplyMove(%v) failed: %v", m, err)
	}
	updated := g.WithState(next)
	if next.Status.IsTerminal() {
		updated.FinishedAt = g.CreatedAt.Add(elapsed)
		updated.Duration = elapsed
	}
	rec := MoveRecord{
		Player:     applied.Player,
		From:       m.From,
		To:         m.To,
		Symbol:     applied.Symbol,
		Facing:     applied.Facing,
		BoardAfter: next.Board,
		Elapsed:    elapsed,
	}
	updated, rec, err = s.AppendMove(context.Background(), g.MoveCount, updated, rec)
	if err != nil {
		t.Fatalf("AppendMove() failed: %v", err)
	}
	return updated, rec
}

// finishTestGame stores status directly, bypassing the rules engine.
func finishTestGame(t *testing.T, s *Store, id string, status quixo.Status) {
	t.Helper()
	_, err := s.db.Exec(`UPDATE games SET status = ?, finished_at = created_at, duration_ms = 0 WHERE id = ?`,
		status.String(), id)
	if err != nil {
		t.Fatalf("finish game %s: %v", id, err)
	}
}
