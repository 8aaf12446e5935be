package quixo

// GameState is the immutable turn state of one game.
type GameState struct {
	Mode          Mode
	Board         Board
	CurrentPlayer int
	FirstRound    bool
	Status        Status
}

// Move is a request to take the cube at From and push it in at To.
// Facing is only kept in four-player games.
type Move struct {
	From   Position
	To     Position
	Facing Direction
}

// Applied describes an accepted move.
type Applied struct {
	Player int
	Symbol Symbol
	Facing Direction
	// DoubleLine is set when the move completed lines for both symbols
	// and the tie-break decided the outcome.
	DoubleLine bool
}

// NewGame returns the opening state: empty board, player 1 to move.
func NewGame(mode Mode) GameState {
	return GameState{
		Mode:          mode,
		Board:         NewBoard(),
		CurrentPlayer: 1,
		FirstRound:    true,
		Status:        InProgress,
	}
}

// LegalOrigins lists, row-major, the border cubes the player to move may
// take. It is empty once the game has finished.
func LegalOrigins(s GameState) []Position {
	out := []Position{}
	if s.Status.IsTerminal() || !ValidPlayer(s.Mode, s.CurrentPlayer) {
		return out
	}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if CanPickCube(s.Board[r][c], s.CurrentPlayer, s.Mode, s.FirstRound, r, c) {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// ApplyMove validates m for the player to move and returns the state after
// it. s is never modified. Rejections are *RuleError values.
func ApplyMove(s GameState, m Move) (GameState, Applied, error) {
	if s.Status.IsTerminal() {
		return s, Applied{}, newRuleError(ErrCodeGameOver, m, "the game has already finished")
	}
	if !m.From.InRange() || !m.To.InRange() {
		return s, Applied{}, newRuleError(ErrCodeOutOfRange, m, "coordinates must be between 0 and 4")
	}
	if m.Facing > Left {
		return s, Applied{}, newRuleError(ErrCodeInvalidFacing, m, "unknown point direction")
	}
	if !ValidPlayer(s.Mode, s.CurrentPlayer) {
		return s, Applied{}, newRuleError(ErrCodeInvalidPlayer, m, "no such player in this game mode")
	}
	if !IsPeripheral(m.From.Row, m.From.Col) {
		return s, Applied{}, newRuleError(ErrCodeNotPeripheral, m, "only cubes on the periphery can be taken")
	}
	cell := s.Board.At(m.From)
	if !CanPickCube(cell, s.CurrentPlayer, s.Mode, s.FirstRound, m.From.Row, m.From.Col) {
		return s, Applied{}, newRuleError(ErrCodeCannotPick, m, "you cannot take this cube")
	}
	if !IsValidPlacement(m.From, m.To) {
		return s, Applied{}, newRuleError(ErrCodeInvalidDestination, m, "invalid destination")
	}

	applied := Applied{
		Player: s.CurrentPlayer,
		Symbol: PlayerSymbol(s.Mode, s.CurrentPlayer),
	}
	if s.Mode == FourPlayers {
		applied.Facing = m.Facing
	}

	// IsValidPlacement already excludes every move MakeMove refuses.
	board, err := MakeMove(s.Board, m.From.Row, m.From.Col, m.To.Row, m.To.Col, applied.Symbol, applied.Facing)
	if err != nil {
		return s, Applied{}, newRuleError(ErrCodeMalformedMove, m, err.Error())
	}

	next := s
	next.Board = board
	next.FirstRound = false

	status := CheckWinner(board, s.Mode)
	if status == Finished {
		applied.DoubleLine = true
		status = ResolveDoubleLine(status, s.Mode, s.CurrentPlayer)
	}
	next.Status = status
	if status == InProgress {
		next.CurrentPlayer = NextPlayer(s.Mode, s.CurrentPlayer)
	}
	return next, applied, nil
}
