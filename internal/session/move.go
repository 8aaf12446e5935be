package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
)

// Result codes for rejections owned by the session rather than the rules.
const (
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeConcurrentMove   = "CONCURRENT_MOVE"
	CodeInvalidDirection = "INVALID_DIRECTION"
)

// MoveRequest asks to take the cube at (FromRow, FromCol) and push it in at
// (ToRow, ToCol). PointDirection is "Top", "Right", "Bottom", "Left" or
// empty; it is only kept in four-player games.
type MoveRequest struct {
	GameID         string `json:"gameId"`
	FromRow        int    `json:"fromRow"`
	FromCol        int    `json:"fromCol"`
	ToRow          int    `json:"toRow"`
	ToCol          int    `json:"toCol"`
	PointDirection string `json:"pointDirection,omitempty"`
}

// MoveResult reports the outcome of MakeMove. On rejection Success is false,
// Error holds a user-facing message and Code a stable identifier; Game is
// the unchanged view when the game exists.
type MoveResult struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	Code    string    `json:"code,omitempty"`
	Game    *GameView `json:"game,omitempty"`
	Move    *MoveView `json:"move,omitempty"`
}

func (s *Service) rejected(code, msg string, g *store.Game) MoveResult {
	r := MoveResult{Code: code, Error: msg}
	if g != nil {
		v := s.view(*g)
		r.Game = &v
	}
	return r
}

// MakeMove validates and applies one move for the player to move.
//
// Rejections (unknown game, finished game, illegal move, lost race with
// another writer) are returned as a MoveResult with Success false and a nil
// error. The error is reserved for storage failures.
func (s *Service) MakeMove(ctx context.Context, req MoveRequest) (MoveResult, error) {
	facing, err := quixo.ParseDirection(req.PointDirection)
	if err != nil {
		return s.rejected(CodeInvalidDirection, s.labels.Text(msgBadDirection), nil), nil
	}

	unlock := s.locks.lock(req.GameID)
	defer unlock()

	g, err := s.repo.GetGame(ctx, req.GameID)
	if errors.Is(err, store.ErrNotFound) {
		return s.rejected(CodeGameNotFound, s.labels.Text(msgGameNotFound), nil), nil
	}
	if err != nil {
		return MoveResult{}, fmt.Errorf("make move: %w", err)
	}

	move := quixo.Move{
		From:   quixo.Position{Row: req.FromRow, Col: req.FromCol},
		To:     quixo.Position{Row: req.ToRow, Col: req.ToCol},
		Facing: facing,
	}
	next, applied, err := quixo.ApplyMove(g.State(), move)
	if err != nil {
		var re *quixo.RuleError
		if !errors.As(err, &re) {
			return MoveResult{}, fmt.Errorf("make move: %w", err)
		}
		slog.Debug("move rejected",
			"game_id", g.ID,
			"player", g.CurrentPlayer,
			"code", re.Code,
			"from", move.From,
			"to", move.To,
		)
		return s.rejected(string(re.Code), s.labels.RuleMessage(re.Code), &g), nil
	}

	now := s.clock.Now()
	elapsed := now.Sub(g.CreatedAt)
	updated := g.WithState(next)
	if next.Status.IsTerminal() {
		updated.FinishedAt = now
		updated.Duration = elapsed
	}
	rec := store.MoveRecord{
		Player:     applied.Player,
		From:       move.From,
		To:         move.To,
		Symbol:     applied.Symbol,
		Facing:     applied.Facing,
		BoardAfter: next.Board,
		Elapsed:    elapsed,
	}

	updated, rec, err = s.repo.AppendMove(ctx, g.MoveCount, updated, rec)
	if errors.Is(err, store.ErrConflict) {
		slog.Warn("move lost race", "game_id", g.ID, "move_count", g.MoveCount)
		current, gerr := s.repo.GetGame(ctx, g.ID)
		if gerr != nil {
			return s.rejected(CodeConcurrentMove, s.labels.Text(msgConcurrentMove), nil), nil
		}
		return s.rejected(CodeConcurrentMove, s.labels.Text(msgConcurrentMove), &current), nil
	}
	if err != nil {
		return MoveResult{}, fmt.Errorf("make move: %w", err)
	}

	slog.Info("move applied",
		"game_id", updated.ID,
		"move_number", rec.Number,
		"player", rec.Player,
		"symbol", rec.Symbol,
		"from", rec.From,
		"to", rec.To,
		"status", updated.Status,
	)
	if applied.DoubleLine {
		slog.Info("double line resolved against mover", "game_id", updated.ID, "status", updated.Status)
	}

	v := s.view(updated)
	mv := moveView(rec)
	s.notify(v)
	return MoveResult{Success: true, Game: &v, Move: &mv}, nil
}
