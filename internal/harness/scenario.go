package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quixo/internal/quixo"
)

// Scenario is a scripted game: a mode, an optional starting position, the
// moves to play and what the game must look like afterwards.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Mode is "TwoPlayers" or "FourPlayers".
	Mode string `yaml:"mode"`

	// Start overrides the initial position. Omitted fields keep their
	// new-game values.
	Start *Start `yaml:"start,omitempty"`

	Steps []Step `yaml:"steps"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Start is a custom starting position.
type Start struct {
	Board         string `yaml:"board,omitempty"`
	CurrentPlayer int    `yaml:"current_player,omitempty"`
	FirstRound    *bool  `yaml:"first_round,omitempty"`
}

// Step is one attempted move by the player to move.
type Step struct {
	From   []int  `yaml:"from"`
	To     []int  `yaml:"to"`
	Facing string `yaml:"facing,omitempty"`

	// ExpectError is the rule error code the move must be rejected with.
	// Empty means the move must be accepted.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Move converts s into a rules-engine move.
func (s Step) Move() (quixo.Move, error) {
	facing, err := quixo.ParseDirection(s.Facing)
	if err != nil {
		return quixo.Move{}, err
	}
	return quixo.Move{From: position(s.From), To: position(s.To), Facing: facing}, nil
}

// Expect holds the checks made on the final game. Unset fields are not
// checked.
type Expect struct {
	Status        string       `yaml:"status,omitempty"`
	CurrentPlayer int          `yaml:"current_player,omitempty"`
	FirstRound    *bool        `yaml:"first_round,omitempty"`
	MoveCount     *int         `yaml:"move_count,omitempty"`
	Board         string       `yaml:"board,omitempty"`
	Cells         []CellExpect `yaml:"cells,omitempty"`
}

// CellExpect pins the content of one cell.
type CellExpect struct {
	At     []int   `yaml:"at"`
	Symbol string  `yaml:"symbol"`
	Facing *string `yaml:"facing,omitempty"`
}

func position(p []int) quixo.Position {
	return quixo.Position{Row: p[0], Col: p[1]}
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario validates data against the scenario schema and decodes it.
// Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("invalid scenario: empty document")
	}
	if err := validateSchema(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

// initialState returns the game the scenario starts from.
func (s *Scenario) initialState() (quixo.GameState, error) {
	mode, err := quixo.ParseMode(s.Mode)
	if err != nil {
		return quixo.GameState{}, err
	}
	state := quixo.NewGame(mode)
	if s.Start == nil {
		return state, nil
	}

	if s.Start.Board != "" {
		if state.Board, err = quixo.DecodeBoard(s.Start.Board); err != nil {
			return quixo.GameState{}, err
		}
		state.Status = quixo.CheckWinner(state.Board, mode)
		if state.Status == quixo.Finished {
			return quixo.GameState{}, fmt.Errorf("start: board holds lines of both symbols")
		}
	}
	if s.Start.CurrentPlayer != 0 {
		if !quixo.ValidPlayer(mode, s.Start.CurrentPlayer) {
			return quixo.GameState{}, fmt.Errorf("start: no player %d in %s", s.Start.CurrentPlayer, mode)
		}
		state.CurrentPlayer = s.Start.CurrentPlayer
	}
	if s.Start.FirstRound != nil {
		state.FirstRound = *s.Start.FirstRound
	}
	return state, nil
}
