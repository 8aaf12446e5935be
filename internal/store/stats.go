package store

import (
	"context"
	"fmt"

	"github.com/roach88/quixo/internal/quixo"
)

// Statistics tallies finished games of mode. Wins for player 1 and team A
// land in First, wins for player 2 and team B in Second. Games finished
// without a winner count towards Total only.
func (s *Store) Statistics(ctx context.Context, mode quixo.Mode) (Tally, error) {
	var first, second quixo.Status
	switch mode {
	case quixo.TwoPlayers:
		first, second = quixo.WonByPlayer1, quixo.WonByPlayer2
	case quixo.FourPlayers:
		first, second = quixo.WonByTeamA, quixo.WonByTeamB
	default:
		return Tally{}, fmt.Errorf("statistics: unknown mode %d", mode)
	}

	var t Tally
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM games
		WHERE mode = ? AND status != ?
	`, first.String(), second.String(), mode.String(), quixo.InProgress.String()).Scan(&t.Total, &t.First, &t.Second)
	if err != nil {
		return Tally{}, fmt.Errorf("statistics: %w", err)
	}
	return t, nil
}
