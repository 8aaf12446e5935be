package replay

import (
	"fmt"
	"time"

	"github.com/roach88/quixo/internal/export"
	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
)

// FromExport turns an exported document back into a game row and move log
// so it can be verified. Times are read as UTC.
func FromExport(doc export.Game) (store.Game, []store.MoveRecord, error) {
	var (
		g   store.Game
		err error
	)
	g.ID = doc.ID
	if g.Mode, err = quixo.ParseMode(doc.Mode); err != nil {
		return store.Game{}, nil, fmt.Errorf("from export: %w", err)
	}
	if g.Status, err = quixo.ParseStatus(doc.Status); err != nil {
		return store.Game{}, nil, fmt.Errorf("from export: %w", err)
	}
	if g.Board, err = doc.Board(); err != nil {
		return store.Game{}, nil, fmt.Errorf("from export: %w", err)
	}
	if g.CreatedAt, err = time.Parse(export.TimeLayout, doc.CreatedAt); err != nil {
		return store.Game{}, nil, fmt.Errorf("from export: created at: %w", err)
	}
	if doc.FinishedAt != "" {
		if g.FinishedAt, err = time.Parse(export.TimeLayout, doc.FinishedAt); err != nil {
			return store.Game{}, nil, fmt.Errorf("from export: finished at: %w", err)
		}
	}
	if doc.Duration != "" {
		if g.Duration, err = parseClock(doc.Duration); err != nil {
			return store.Game{}, nil, fmt.Errorf("from export: duration: %w", err)
		}
	}
	g.CurrentPlayer = doc.CurrentPlayer
	g.FirstRound = doc.IsFirstRound
	g.MoveCount = len(doc.Moves.Move)

	moves := make([]store.MoveRecord, 0, len(doc.Moves.Move))
	for _, xm := range doc.Moves.Move {
		m := store.MoveRecord{
			GameID: doc.ID,
			Number: xm.MoveNumber,
			Player: xm.Player,
			From:   quixo.Position{Row: xm.FromRow, Col: xm.FromCol},
			To:     quixo.Position{Row: xm.ToRow, Col: xm.ToCol},
		}
		if m.Symbol, err = quixo.ParseSymbol(xm.Symbol); err != nil {
			return store.Game{}, nil, fmt.Errorf("from export: move %d: %w", xm.MoveNumber, err)
		}
		if m.Facing, err = quixo.ParseDirection(xm.PointDirection); err != nil {
			return store.Game{}, nil, fmt.Errorf("from export: move %d: %w", xm.MoveNumber, err)
		}
		if m.BoardAfter, err = quixo.DecodeBoard(xm.BoardStateAfter); err != nil {
			return store.Game{}, nil, fmt.Errorf("from export: move %d: %w", xm.MoveNumber, err)
		}
		if m.Elapsed, err = parseClock(xm.TimeElapsed); err != nil {
			return store.Game{}, nil, fmt.Errorf("from export: move %d: %w", xm.MoveNumber, err)
		}
		moves = append(moves, m)
	}
	return g, moves, nil
}

// parseClock reads the hh:mm:ss form written by export.FormatDuration.
func parseClock(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("bad duration %q: %w", s, err)
	}
	if m > 59 || sec > 59 || h < 0 || m < 0 || sec < 0 {
		return 0, fmt.Errorf("bad duration %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}
