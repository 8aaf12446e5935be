package quixo

import "errors"

// ErrMalformedMove is returned by MakeMove when origin and destination do
// not describe a slide along one row or one column.
var ErrMalformedMove = errors.New("malformed move: origin and destination must differ and share a row or column")

// Board is the 5x5 grid, indexed [row][col].
type Board [Size][Size]Cell

// NewBoard returns a board of 25 neutral cubes with no facing.
func NewBoard() Board {
	return Board{}
}

// At returns the cell at p. p must be in range.
func (b Board) At(p Position) Cell {
	return b[p.Row][p.Col]
}

// Count returns how many cells carry symbol s.
func (b Board) Count(s Symbol) int {
	n := 0
	for _, row := range b {
		for _, c := range row {
			if c.Symbol == s {
				n++
			}
		}
	}
	return n
}

// IsPeripheral reports whether (row, col) is one of the 16 border cells.
func IsPeripheral(row, col int) bool {
	return row == 0 || row == Size-1 || col == 0 || col == Size-1
}

// MakeMove removes the cube at the origin, slides every cube between origin
// and destination one step toward the vacated origin, and places a new cube
// with symbol and facing at the destination.
//
// The destination is expected to come from ValidPlacements; membership is
// not re-checked here. A move whose endpoints are equal, out of range, or
// share neither row nor column is rejected with ErrMalformedMove and b is
// returned unchanged.
func MakeMove(b Board, fromRow, fromCol, toRow, toCol int, symbol Symbol, facing Direction) (Board, error) {
	from := Position{fromRow, fromCol}
	to := Position{toRow, toCol}
	if !from.InRange() || !to.InRange() || from == to {
		return b, ErrMalformedMove
	}

	next := b
	switch {
	case fromRow == toRow:
		step := 1
		if toCol < fromCol {
			step = -1
		}
		for j := fromCol; j != toCol; j += step {
			next[fromRow][j] = next[fromRow][j+step]
		}
	case fromCol == toCol:
		step := 1
		if toRow < fromRow {
			step = -1
		}
		for i := fromRow; i != toRow; i += step {
			next[i][fromCol] = next[i+step][fromCol]
		}
	default:
		return b, ErrMalformedMove
	}

	if symbol == Neutral {
		facing = NoDirection
	}
	next[toRow][toCol] = Cell{Symbol: symbol, Facing: facing}
	return next, nil
}
