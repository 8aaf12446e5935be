package store

import (
	"time"

	"github.com/roach88/quixo/internal/quixo"
)

// Game is the persisted state of one game.
type Game struct {
	ID            string
	Mode          quixo.Mode
	Status        quixo.Status
	Board         quixo.Board
	CurrentPlayer int
	FirstRound    bool
	CreatedAt     time.Time
	FinishedAt    time.Time // zero while in progress
	Duration      time.Duration
	MoveCount     int

	// Generation counts resets. A move only lands on the generation it
	// was validated against.
	Generation int
}

// State returns the rules-engine view of g.
func (g Game) State() quixo.GameState {
	return quixo.GameState{
		Mode:          g.Mode,
		Board:         g.Board,
		CurrentPlayer: g.CurrentPlayer,
		FirstRound:    g.FirstRound,
		Status:        g.Status,
	}
}

// WithState returns a copy of g carrying s.
func (g Game) WithState(s quixo.GameState) Game {
	g.Mode = s.Mode
	g.Board = s.Board
	g.CurrentPlayer = s.CurrentPlayer
	g.FirstRound = s.FirstRound
	g.Status = s.Status
	return g
}

// Finished reports whether the game reached a terminal status.
func (g Game) Finished() bool {
	return g.Status.IsTerminal()
}

// NewGame returns the initial row for a game created at createdAt.
func NewGame(id string, mode quixo.Mode, createdAt time.Time) Game {
	return Game{ID: id, CreatedAt: createdAt}.WithState(quixo.NewGame(mode))
}

// MoveRecord is one entry of a game's move log.
type MoveRecord struct {
	GameID     string
	Number     int
	Player     int
	From       quixo.Position
	To         quixo.Position
	Symbol     quixo.Symbol
	Facing     quixo.Direction
	BoardAfter quixo.Board
	Elapsed    time.Duration
}

// Tally counts finished games of one mode. First counts wins for player 1
// (two-player) or team A (four-player), Second for player 2 or team B.
type Tally struct {
	Total  int
	First  int
	Second int
}
