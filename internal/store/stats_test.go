package store

import (
	"context"
	"testing"

	"github.com/roach88/quixo/internal/quixo"
)

func TestStatistics(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	createTestGameAt(t, s, "p1", quixo.TwoPlayers, testEpoch)
	createTestGameAt(t, s, "p2", quixo.TwoPlayers, testEpoch)
	createTestGameAt(t, s, "p3", quixo.TwoPlayers, testEpoch)
	createTestGameAt(t, s, "open", quixo.TwoPlayers, testEpoch)
	createTestGameAt(t, s, "t1", quixo.FourPlayers, testEpoch)
	finishTestGame(t, s, "p1", quixo.WonByPlayer1)
	finishTestGame(t, s, "p2", quixo.WonByPlayer1)
	finishTestGame(t, s, "p3", quixo.WonByPlayer2)
	finishTestGame(t, s, "t1", quixo.WonByTeamB)

	players, err := s.Statistics(ctx, quixo.TwoPlayers)
	if err != nil {
		t.Fatalf("Statistics(TwoPlayers) failed: %v", err)
	}
	if want := (Tally{Total: 3, First: 2, Second: 1}); players != want {
		t.Errorf("Statistics(TwoPlayers) = %+v, want %+v", players, want)
	}

	teams, err := s.Statistics(ctx, quixo.FourPlayers)
	if err != nil {
		t.Fatalf("Statistics(FourPlayers) failed: %v", err)
	}
	if want := (Tally{Total: 1, First: 0, Second: 1}); teams != want {
		t.Errorf("Statistics(FourPlayers) = %+v, want %+v", teams, want)
	}
}

func TestStatistics_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.Statistics(context.Background(), quixo.TwoPlayers)
	if err != nil {
		t.Fatalf("Statistics(TwoPlayers) failed: %v", err)
	}
	if got != (Tally{}) {
		t.Errorf("Statistics(TwoPlayers) = %+v, want zero", got)
	}
}

func TestStatistics_UnknownMode(t *testing.T) {
	s := createTestStore(t)

	if _, err := s.Statistics(context.Background(), quixo.Mode(7)); err == nil {
		t.Fatal("Statistics(7) succeeded, want error")
	}
}
