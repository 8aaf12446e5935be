package quixo

import "fmt"

// Size is the board edge length.
const Size = 5

// Symbol is the mark on a cube face.
type Symbol uint8

const (
	Neutral Symbol = iota
	Circle
	Cross
)

var symbolNames = [...]string{"Neutral", "Circle", "Cross"}

func (s Symbol) String() string {
	if int(s) < len(symbolNames) {
		return symbolNames[s]
	}
	return fmt.Sprintf("Symbol(%d)", s)
}

// ParseSymbol is the inverse of Symbol.String.
func ParseSymbol(s string) (Symbol, error) {
	for i, name := range symbolNames {
		if name == s {
			return Symbol(i), nil
		}
	}
	return Neutral, fmt.Errorf("unknown symbol %q", s)
}

// Direction is the facing of the dot on a cube in four-player games.
// The zero value means the cube carries no facing.
type Direction uint8

const (
	NoDirection Direction = iota
	Top
	Right
	Bottom
	Left
)

var directionNames = [...]string{"", "Top", "Right", "Bottom", "Left"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// ParseDirection is the inverse of Direction.String. The empty string
// parses as NoDirection.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return NoDirection, fmt.Errorf("unknown point direction %q", s)
}

// Cell is one cube of the board.
type Cell struct {
	Symbol Symbol
	Facing Direction
}

// Position addresses a cell, 0-indexed.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// InRange reports whether both coordinates lie in [0, Size).
func (p Position) InRange() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Mode is fixed when a game is created.
type Mode uint8

const (
	TwoPlayers Mode = iota
	FourPlayers
)

func (m Mode) String() string {
	switch m {
	case TwoPlayers:
		return "TwoPlayers"
	case FourPlayers:
		return "FourPlayers"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode accepts the String form, case-sensitive, plus the short forms
// "2" and "4".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "TwoPlayers", "2":
		return TwoPlayers, nil
	case "FourPlayers", "4":
		return FourPlayers, nil
	default:
		return TwoPlayers, fmt.Errorf("unknown game mode %q", s)
	}
}

// Status is the game outcome. InProgress is the only non-terminal value.
// Finished is the ambiguous double-line sentinel returned by CheckWinner
// before the tie-break is applied.
type Status uint8

const (
	InProgress Status = iota
	Finished
	WonByPlayer1
	WonByPlayer2
	WonByTeamA
	WonByTeamB
)

var statusNames = [...]string{"InProgress", "Finished", "WonByPlayer1", "WonByPlayer2", "WonByTeamA", "WonByTeamB"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", s)
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return InProgress, fmt.Errorf("unknown game status %q", s)
}

// IsTerminal reports whether no further moves may be applied.
func (s Status) IsTerminal() bool {
	return s != InProgress
}
