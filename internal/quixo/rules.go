package quixo

// PlayerCount returns the number of seats for mode.
func PlayerCount(mode Mode) int {
	if mode == FourPlayers {
		return 4
	}
	return 2
}

// ValidPlayer reports whether player is a seat in mode.
func ValidPlayer(mode Mode, player int) bool {
	return player >= 1 && player <= PlayerCount(mode)
}

// PlayerSymbol returns the symbol a player places. In four-player games
// players 1 and 3 (team A) play Circle, players 2 and 4 (team B) play Cross.
func PlayerSymbol(mode Mode, player int) Symbol {
	if mode == TwoPlayers {
		if player == 1 {
			return Circle
		}
		return Cross
	}
	if player == 1 || player == 3 {
		return Circle
	}
	return Cross
}

// Team identifies a four-player side.
type Team uint8

const (
	NoTeam Team = iota
	TeamA
	TeamB
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return ""
	}
}

// TeamOf returns the team of a four-player seat: A for 1 and 3, B for 2 and 4.
func TeamOf(player int) Team {
	switch player {
	case 1, 3:
		return TeamA
	case 2, 4:
		return TeamB
	default:
		return NoTeam
	}
}

// PlayerFacing returns the side of the board a four-player seat faces.
func PlayerFacing(player int) Direction {
	switch player {
	case 1:
		return Top
	case 2:
		return Right
	case 3:
		return Bottom
	case 4:
		return Left
	default:
		return NoDirection
	}
}

// NextPlayer returns the seat that moves after player.
func NextPlayer(mode Mode, player int) int {
	if player >= PlayerCount(mode) {
		return 1
	}
	return player + 1
}

// CanPickCube decides whether player may remove cell from (row, col).
//
// Gates, in order:
//  1. the cell must be peripheral;
//  2. during the first round only neutral cubes may be taken;
//  3. two players: a cube bearing the opponent's symbol is refused;
//  4. four players: Circle belongs to players 1 and 3, Cross to 2 and 4,
//     and a non-neutral cube that carries a facing must face the player.
//     Both four-player gates apply independently.
func CanPickCube(cell Cell, player int, mode Mode, firstRound bool, row, col int) bool {
	if !IsPeripheral(row, col) {
		return false
	}

	if firstRound {
		return cell.Symbol == Neutral
	}

	if mode == TwoPlayers {
		if player == 1 && cell.Symbol == Cross {
			return false
		}
		if player == 2 && cell.Symbol == Circle {
			return false
		}
		return true
	}

	if cell.Symbol == Circle && player != 1 && player != 3 {
		return false
	}
	if cell.Symbol == Cross && player != 2 && player != 4 {
		return false
	}
	if cell.Symbol != Neutral && cell.Facing != NoDirection {
		if cell.Facing != PlayerFacing(player) {
			return false
		}
	}
	return true
}

// ValidPlacements lists the destinations for a cube taken from
// (fromRow, fromCol): every peripheral cell of the same row or the same
// column, except the origin. Results are in row-major order. An interior
// origin yields no destinations.
func ValidPlacements(fromRow, fromCol int) []Position {
	if !IsPeripheral(fromRow, fromCol) {
		return nil
	}
	var out []Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if isPlacement(fromRow, fromCol, r, c) {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// IsValidPlacement reports whether to belongs to ValidPlacements(from).
func IsValidPlacement(from, to Position) bool {
	if !from.InRange() || !to.InRange() || !IsPeripheral(from.Row, from.Col) {
		return false
	}
	return isPlacement(from.Row, from.Col, to.Row, to.Col)
}

func isPlacement(fromRow, fromCol, r, c int) bool {
	if r == fromRow && c == fromCol {
		return false
	}
	if r != fromRow && c != fromCol {
		return false
	}
	return IsPeripheral(r, c)
}
