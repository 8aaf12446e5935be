package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/quixo/internal/quixo"
)

const gameColumns = `id, mode, status, board, current_player, first_round,
	created_at, finished_at, duration_ms, move_count, generation`

const moveColumns = `game_id, move_number, player, from_row, from_col, to_row, to_col,
	symbol, point_direction, board_after, elapsed_ms`

// GetGame returns the game with the given ID.
// Returns ErrNotFound if no such game exists.
func (s *Store) GetGame(ctx context.Context, id string) (Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("get game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("get game %s: %w", id, err)
	}
	return g, nil
}

// ListGames returns every game, newest first.
// Ties on created_at are broken by id to keep the order deterministic.
func (s *Store) ListGames(ctx context.Context) ([]Game, error) {
	return s.queryGames(ctx, "list games", `
		SELECT `+gameColumns+` FROM games
		ORDER BY created_at DESC, id DESC
	`)
}

// ListFinishedGames returns games that reached a terminal status, newest first.
func (s *Store) ListFinishedGames(ctx context.Context) ([]Game, error) {
	return s.queryGames(ctx, "list finished games", `
		SELECT `+gameColumns+` FROM games
		WHERE status != ?
		ORDER BY created_at DESC, id DESC
	`, quixo.InProgress.String())
}

func (s *Store) queryGames(ctx context.Context, op, query string, args ...any) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return games, nil
}

// ListMoves returns the move log of a game in move order.
// An unknown game yields an empty slice, not an error.
func (s *Store) ListMoves(ctx context.Context, gameID string) ([]MoveRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+moveColumns+` FROM moves
		WHERE game_id = ?
		ORDER BY move_number ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	moves := []MoveRecord{}
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("list moves: %w", err)
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	return moves, nil
}

// GetMove returns move number n (1-based) of a game.
// Returns ErrNotFound if the game has no such move.
func (s *Store) GetMove(ctx context.Context, gameID string, n int) (MoveRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+moveColumns+` FROM moves
		WHERE game_id = ? AND move_number = ?
	`, gameID, n)
	m, err := scanMove(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MoveRecord{}, fmt.Errorf("get move %s/%d: %w", gameID, n, ErrNotFound)
	}
	if err != nil {
		return MoveRecord{}, fmt.Errorf("get move %s/%d: %w", gameID, n, err)
	}
	return m, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(sc scanner) (Game, error) {
	var (
		g                      Game
		modeText, statusText   string
		boardText              string
		createdAt              int64
		finishedAt, durationMs sql.NullInt64
	)
	err := sc.Scan(&g.ID, &modeText, &statusText, &boardText, &g.CurrentPlayer, &g.FirstRound,
		&createdAt, &finishedAt, &durationMs, &g.MoveCount, &g.Generation)
	if err != nil {
		return Game{}, err
	}

	if g.Mode, err = quixo.ParseMode(modeText); err != nil {
		return Game{}, err
	}
	if g.Status, err = quixo.ParseStatus(statusText); err != nil {
		return Game{}, err
	}
	if g.Board, err = quixo.DecodeBoard(boardText); err != nil {
		return Game{}, err
	}
	g.CreatedAt = fromMillis(createdAt)
	if finishedAt.Valid {
		g.FinishedAt = fromMillis(finishedAt.Int64)
	}
	if durationMs.Valid {
		g.Duration = time.Duration(durationMs.Int64) * time.Millisecond
	}
	return g, nil
}

func scanMove(sc scanner) (MoveRecord, error) {
	var (
		m                      MoveRecord
		symbolText, facingText string
		boardText              string
		elapsedMs              int64
	)
	err := sc.Scan(&m.GameID, &m.Number, &m.Player,
		&m.From.Row, &m.From.Col, &m.To.Row, &m.To.Col,
		&symbolText, &facingText, &boardText, &elapsedMs)
	if err != nil {
		return MoveRecord{}, err
	}

	if m.Symbol, err = quixo.ParseSymbol(symbolText); err != nil {
		return MoveRecord{}, err
	}
	if m.Facing, err = quixo.ParseDirection(facingText); err != nil {
		return MoveRecord{}, err
	}
	if m.BoardAfter, err = quixo.DecodeBoard(boardText); err != nil {
		return MoveRecord{}, err
	}
	m.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return m, nil
}
