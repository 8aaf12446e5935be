package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/quixo/internal/quixo"
)

// CreateGame inserts a new game row.
// Returns an error if a game with the same ID already exists.
func (s *Store) CreateGame(ctx context.Context, g Game) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games
		(id, mode, status, board, current_player, first_round, created_at, finished_at, duration_ms, move_count, generation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.ID,
		g.Mode.String(),
		g.Status.String(),
		quixo.EncodeBoard(g.Board),
		g.CurrentPlayer,
		g.FirstRound,
		toMillis(g.CreatedAt),
		nullMillis(g.FinishedAt),
		nullDuration(g),
		g.MoveCount,
		g.Generation,
	)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// AppendMove records m as the next move of next.ID and stores next as the
// game's new state, in one transaction.
//
// prevCount is the move count of the state the move was validated against.
// The game row is only updated while it still holds prevCount, has not
// been reset since next was read (same Generation) and is in progress;
// otherwise ErrConflict is returned and nothing is written.
// The store assigns m.Number = prevCount+1 and next.MoveCount to match.
func (s *Store) AppendMove(ctx context.Context, prevCount int, next Game, m MoveRecord) (Game, MoveRecord, error) {
	next.MoveCount = prevCount + 1
	m.GameID = next.ID
	m.Number = next.MoveCount

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Game{}, MoveRecord{}, fmt.Errorf("append move: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE games
		SET status = ?, board = ?, current_player = ?, first_round = ?,
		    finished_at = ?, duration_ms = ?, move_count = ?
		WHERE id = ? AND move_count = ? AND generation = ? AND status = ?
	`,
		next.Status.String(),
		quixo.EncodeBoard(next.Board),
		next.CurrentPlayer,
		next.FirstRound,
		nullMillis(next.FinishedAt),
		nullDuration(next),
		next.MoveCount,
		next.ID,
		prevCount,
		next.Generation,
		quixo.InProgress.String(),
	)
	if err != nil {
		return Game{}, MoveRecord{}, fmt.Errorf("append move: update game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Game{}, MoveRecord{}, fmt.Errorf("append move: rows affected: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, next.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return Game{}, MoveRecord{}, fmt.Errorf("append move %s: %w", next.ID, ErrNotFound)
		}
		if err != nil {
			return Game{}, MoveRecord{}, fmt.Errorf("append move: %w", err)
		}
		return Game{}, MoveRecord{}, fmt.Errorf("append move %s: %w", next.ID, ErrConflict)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO moves
		(game_id, move_number, player, from_row, from_col, to_row, to_col,
		 symbol, point_direction, board_after, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.GameID,
		m.Number,
		m.Player,
		m.From.Row, m.From.Col,
		m.To.Row, m.To.Col,
		m.Symbol.String(),
		m.Facing.String(),
		quixo.EncodeBoard(m.BoardAfter),
		m.Elapsed.Milliseconds(),
	)
	if err != nil {
		return Game{}, MoveRecord{}, fmt.Errorf("append move: insert move: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Game{}, MoveRecord{}, fmt.Errorf("append move: commit: %w", err)
	}
	return next, m, nil
}

// ResetGame deletes the move log of id and restores the initial state of
// its mode, with createdAt as the new start time. The generation is bumped
// so moves validated before the reset can no longer be appended.
func (s *Store) ResetGame(ctx context.Context, id string, createdAt time.Time) (Game, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Game{}, fmt.Errorf("reset game: begin: %w", err)
	}
	defer tx.Rollback()

	var (
		modeText   string
		generation int
	)
	err = tx.QueryRowContext(ctx, `SELECT mode, generation FROM games WHERE id = ?`, id).Scan(&modeText, &generation)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("reset game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("reset game: %w", err)
	}
	mode, err := quixo.ParseMode(modeText)
	if err != nil {
		return Game{}, fmt.Errorf("reset game: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM moves WHERE game_id = ?`, id); err != nil {
		return Game{}, fmt.Errorf("reset game: delete moves: %w", err)
	}

	g := NewGame(id, mode, createdAt)
	g.Generation = generation + 1
	_, err = tx.ExecContext(ctx, `
		UPDATE games
		SET status = ?, board = ?, current_player = ?, first_round = ?,
		    created_at = ?, finished_at = NULL, duration_ms = NULL, move_count = 0,
		    generation = ?
		WHERE id = ?
	`,
		g.Status.String(),
		quixo.EncodeBoard(g.Board),
		g.CurrentPlayer,
		g.FirstRound,
		toMillis(g.CreatedAt),
		g.Generation,
		id,
	)
	if err != nil {
		return Game{}, fmt.Errorf("reset game: update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Game{}, fmt.Errorf("reset game: commit: %w", err)
	}
	return g, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(t), Valid: true}
}

// nullDuration stores a duration only once the game has finished.
func nullDuration(g Game) sql.NullInt64 {
	if g.FinishedAt.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: g.Duration.Milliseconds(), Valid: true}
}
