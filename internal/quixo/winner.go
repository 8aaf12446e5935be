package quixo

// Line is one of the 12 winning lines.
type Line [Size]Position

// Lines holds the 5 rows, 5 columns and 2 diagonals, in that order.
var Lines = buildLines()

func buildLines() []Line {
	lines := make([]Line, 0, 2*Size+2)
	for r := 0; r < Size; r++ {
		var l Line
		for c := 0; c < Size; c++ {
			l[c] = Position{r, c}
		}
		lines = append(lines, l)
	}
	for c := 0; c < Size; c++ {
		var l Line
		for r := 0; r < Size; r++ {
			l[r] = Position{r, c}
		}
		lines = append(lines, l)
	}
	var diag, anti Line
	for i := 0; i < Size; i++ {
		diag[i] = Position{i, i}
		anti[i] = Position{i, Size - 1 - i}
	}
	return append(lines, diag, anti)
}

// HasLine reports whether any line is filled entirely with s.
// Neutral never forms a line.
func HasLine(b Board, s Symbol) bool {
	if s == Neutral {
		return false
	}
	for _, l := range Lines {
		if lineOf(b, l, s) {
			return true
		}
	}
	return false
}

func lineOf(b Board, l Line, s Symbol) bool {
	for _, p := range l {
		if b[p.Row][p.Col].Symbol != s {
			return false
		}
	}
	return true
}

// CheckWinner evaluates every line. When both a Circle line and a Cross line
// are complete it returns Finished; the caller knows who moved and must
// settle it with ResolveDoubleLine.
func CheckWinner(b Board, mode Mode) Status {
	circle := HasLine(b, Circle)
	cross := HasLine(b, Cross)

	switch {
	case circle && cross:
		return Finished
	case circle:
		if mode == TwoPlayers {
			return WonByPlayer1
		}
		return WonByTeamA
	case cross:
		if mode == TwoPlayers {
			return WonByPlayer2
		}
		return WonByTeamB
	default:
		return InProgress
	}
}

// ResolveDoubleLine applies the tie-break: a move that completes lines for
// both symbols loses, so the win goes to the mover's opponents. Any status
// other than Finished is returned unchanged.
func ResolveDoubleLine(status Status, mode Mode, mover int) Status {
	if status != Finished {
		return status
	}
	moverCircle := PlayerSymbol(mode, mover) == Circle
	if mode == TwoPlayers {
		if moverCircle {
			return WonByPlayer2
		}
		return WonByPlayer1
	}
	if moverCircle {
		return WonByTeamB
	}
	return WonByTeamA
}

// WinningSymbol maps a decided status to the symbol that won.
func WinningSymbol(s Status) Symbol {
	switch s {
	case WonByPlayer1, WonByTeamA:
		return Circle
	case WonByPlayer2, WonByTeamB:
		return Cross
	default:
		return Neutral
	}
}
