package session

import (
	"time"

	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
)

// GameView is the caller-facing snapshot of a game.
type GameView struct {
	ID            string           `json:"id"`
	Mode          quixo.Mode       `json:"mode"`
	Status        quixo.Status     `json:"status"`
	Board         quixo.Board      `json:"board"`
	CurrentPlayer int              `json:"currentPlayer"`
	CurrentSymbol string           `json:"currentSymbol"`
	IsFirstRound  bool             `json:"isFirstRound"`
	MoveCount     int              `json:"moveCount"`
	Pickable      []quixo.Position `json:"pickable"`
	CreatedAt     time.Time        `json:"createdAt"`
	FinishedAt    *time.Time       `json:"finishedAt,omitempty"`
	ElapsedMs     int64            `json:"timeElapsedMs"`
	Winner        string           `json:"winner,omitempty"`
	WinnerSymbol  string           `json:"winnerSymbol,omitempty"`
}

// Elapsed returns the view's elapsed time.
func (v GameView) Elapsed() time.Duration {
	return time.Duration(v.ElapsedMs) * time.Millisecond
}

// MoveView is one entry of a game's move log.
type MoveView struct {
	Number         int            `json:"moveNumber"`
	Player         int            `json:"player"`
	From           quixo.Position `json:"from"`
	To             quixo.Position `json:"to"`
	Symbol         string         `json:"symbol"`
	PointDirection *string        `json:"pointDirection"`
	ElapsedMs      int64          `json:"timeElapsedMs"`
	BoardAfter     quixo.Board    `json:"boardAfter"`
}

// LegalMoves lists the cubes the player to move may take and, when an
// origin was given, where that cube may be pushed back in. Placements is
// empty when From is not one of Pickable.
type LegalMoves struct {
	GameID     string           `json:"gameId"`
	Player     int              `json:"player"`
	Pickable   []quixo.Position `json:"pickable"`
	From       *quixo.Position  `json:"from,omitempty"`
	Placements []quixo.Position `json:"placements,omitempty"`
}

// BoardState is the board as it stood after move Number; 0 is the
// initial board.
type BoardState struct {
	GameID    string      `json:"gameId"`
	Number    int         `json:"moveNumber"`
	Board     quixo.Board `json:"board"`
	ElapsedMs int64       `json:"timeElapsedMs"`
	Move      *MoveView   `json:"move,omitempty"`
}

// Standing is the record of one side over finished games.
type Standing struct {
	Name          string  `json:"name"`
	GamesWon      int     `json:"gamesWon"`
	TotalGames    int     `json:"totalGames"`
	Effectiveness float64 `json:"effectiveness"`
}

// Statistics groups two-player and four-player standings.
type Statistics struct {
	Players []Standing `json:"players"`
	Teams   []Standing `json:"teams"`
}

func newStanding(name string, won, total int) Standing {
	s := Standing{Name: name, GamesWon: won, TotalGames: total}
	if total > 0 {
		s.Effectiveness = float64(won) * 100 / float64(total)
	}
	return s
}

func (s *Service) view(g store.Game) GameView {
	v := GameView{
		ID:            g.ID,
		Mode:          g.Mode,
		Status:        g.Status,
		Board:         g.Board,
		CurrentPlayer: g.CurrentPlayer,
		CurrentSymbol: quixo.PlayerSymbol(g.Mode, g.CurrentPlayer).String(),
		IsFirstRound:  g.FirstRound,
		MoveCount:     g.MoveCount,
		Pickable:      quixo.LegalOrigins(g.State()),
		CreatedAt:     g.CreatedAt,
		Winner:        s.labels.Winner(g.Status),
	}
	if sym := quixo.WinningSymbol(g.Status); sym != quixo.Neutral {
		v.WinnerSymbol = sym.String()
	}
	if g.Finished() {
		finished := g.FinishedAt
		v.FinishedAt = &finished
		v.ElapsedMs = g.Duration.Milliseconds()
	} else {
		v.ElapsedMs = s.clock.Now().Sub(g.CreatedAt).Milliseconds()
	}
	return v
}

func moveView(m store.MoveRecord) MoveView {
	v := MoveView{
		Number:     m.Number,
		Player:     m.Player,
		From:       m.From,
		To:         m.To,
		Symbol:     m.Symbol.String(),
		ElapsedMs:  m.Elapsed.Milliseconds(),
		BoardAfter: m.BoardAfter,
	}
	if m.Facing != quixo.NoDirection {
		d := m.Facing.String()
		v.PointDirection = &d
	}
	return v
}
