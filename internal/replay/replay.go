package replay

import (
	"fmt"
	"time"

	"github.com/roach88/quixo/internal/quixo"
	"github.com/roach88/quixo/internal/store"
)

// Frame is the board as it stood after move Number.
type Frame struct {
	Number  int           `json:"moveNumber"`
	Player  int           `json:"player,omitempty"`
	Board   quixo.Board   `json:"board"`
	Elapsed time.Duration `json:"elapsed"`
}

// Frames returns one frame per move, preceded by the initial board as
// frame 0.
func Frames(moves []store.MoveRecord) []Frame {
	frames := make([]Frame, 0, len(moves)+1)
	frames = append(frames, Frame{Board: quixo.NewBoard()})
	for _, m := range moves {
		frames = append(frames, Frame{
			Number:  m.Number,
			Player:  m.Player,
			Board:   m.BoardAfter,
			Elapsed: m.Elapsed,
		})
	}
	return frames
}

// Divergence describes the first disagreement between a log and the rules.
// MoveNumber is 0 when the final game row disagrees.
type Divergence struct {
	MoveNumber int    `json:"move_number"`
	Field      string `json:"field"`
	Recorded   string `json:"recorded"`
	Replayed   string `json:"replayed"`
}

func (d Divergence) String() string {
	if d.MoveNumber == 0 {
		return fmt.Sprintf("game %s: recorded %q, replayed %q", d.Field, d.Recorded, d.Replayed)
	}
	return fmt.Sprintf("move %d %s: recorded %q, replayed %q", d.MoveNumber, d.Field, d.Recorded, d.Replayed)
}

// Report is the outcome of Verify.
type Report struct {
	GameID        string       `json:"game_id"`
	Mode          quixo.Mode   `json:"mode"`
	Moves         int          `json:"moves"`
	Status        quixo.Status `json:"status"`
	Deterministic bool         `json:"deterministic"`
	Divergence    *Divergence  `json:"divergence,omitempty"`
}

// Verify replays moves from a fresh game of g's mode and checks every
// recorded player, symbol, facing and board, then the final game row.
func Verify(g store.Game, moves []store.MoveRecord) Report {
	r := Report{GameID: g.ID, Mode: g.Mode, Moves: len(moves), Status: g.Status}
	if d := diverge(g, moves); d != nil {
		r.Divergence = d
		return r
	}
	r.Deterministic = true
	return r
}

func diverge(g store.Game, moves []store.MoveRecord) *Divergence {
	state := quixo.NewGame(g.Mode)
	for i, m := range moves {
		n := i + 1
		if m.Number != n {
			return &Divergence{MoveNumber: n, Field: "move_number", Recorded: fmt.Sprint(m.Number), Replayed: fmt.Sprint(n)}
		}

		next, applied, err := quixo.ApplyMove(state, quixo.Move{From: m.From, To: m.To, Facing: m.Facing})
		if err != nil {
			return &Divergence{MoveNumber: n, Field: "legality", Recorded: "accepted", Replayed: err.Error()}
		}

		checks := []struct {
			field              string
			recorded, replayed string
		}{
			{"player", fmt.Sprint(m.Player), fmt.Sprint(applied.Player)},
			{"symbol", m.Symbol.String(), applied.Symbol.String()},
			{"point_direction", m.Facing.String(), applied.Facing.String()},
			{"board_after", quixo.EncodeBoard(m.BoardAfter), quixo.EncodeBoard(next.Board)},
		}
		for _, c := range checks {
			if c.recorded != c.replayed {
				return &Divergence{MoveNumber: n, Field: c.field, Recorded: c.recorded, Replayed: c.replayed}
			}
		}
		state = next
	}

	final := []struct {
		field              string
		recorded, replayed string
	}{
		{"board", quixo.EncodeBoard(g.Board), quixo.EncodeBoard(state.Board)},
		{"status", g.Status.String(), state.Status.String()},
		{"current_player", fmt.Sprint(g.CurrentPlayer), fmt.Sprint(state.CurrentPlayer)},
		{"first_round", fmt.Sprint(g.FirstRound), fmt.Sprint(state.FirstRound)},
		{"move_count", fmt.Sprint(g.MoveCount), fmt.Sprint(len(moves))},
	}
	for _, c := range final {
		if c.recorded != c.replayed {
			return &Divergence{Field: c.field, Recorded: c.recorded, Replayed: c.replayed}
		}
	}
	return nil
}
