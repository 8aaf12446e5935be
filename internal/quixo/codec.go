package quixo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Text encoding: five rows joined by '/', two bytes per cell.
// The first byte is the symbol, the second the facing.
const (
	rowSep        = '/'
	encodedRowLen = 2 * Size
	encodedLen    = Size*encodedRowLen + Size - 1
)

var (
	symbolBytes = [...]byte{'.', 'O', 'X'}
	facingBytes = [...]byte{'-', '^', '>', 'v', '<'}
)

// EncodeBoard renders b in its storable text form, for example
//
//	O-.-.-.-X>/.-.-.-.-.-/.-.-.-.-.-/.-.-.-.-.-/.-.-.-.-.-
func EncodeBoard(b Board) string {
	var sb strings.Builder
	sb.Grow(encodedLen)
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte(rowSep)
		}
		for c := 0; c < Size; c++ {
			cell := b[r][c]
			sb.WriteByte(symbolBytes[cell.Symbol])
			sb.WriteByte(facingBytes[cell.Facing])
		}
	}
	return sb.String()
}

// DecodeBoard parses the output of EncodeBoard.
func DecodeBoard(s string) (Board, error) {
	var b Board
	if len(s) != encodedLen {
		return b, fmt.Errorf("decode board: length %d, want %d", len(s), encodedLen)
	}
	rows := strings.Split(s, string(rowSep))
	if len(rows) != Size {
		return b, fmt.Errorf("decode board: %d rows, want %d", len(rows), Size)
	}
	for r, row := range rows {
		if len(row) != encodedRowLen {
			return b, fmt.Errorf("decode board: row %d has length %d, want %d", r, len(row), encodedRowLen)
		}
		for c := 0; c < Size; c++ {
			sym, ok := indexByte(symbolBytes[:], row[2*c])
			if !ok {
				return b, fmt.Errorf("decode board: cell (%d,%d): bad symbol %q", r, c, row[2*c])
			}
			dir, ok := indexByte(facingBytes[:], row[2*c+1])
			if !ok {
				return b, fmt.Errorf("decode board: cell (%d,%d): bad facing %q", r, c, row[2*c+1])
			}
			if sym == int(Neutral) && dir != int(NoDirection) {
				return b, fmt.Errorf("decode board: cell (%d,%d): neutral cube with facing", r, c)
			}
			b[r][c] = Cell{Symbol: Symbol(sym), Facing: Direction(dir)}
		}
	}
	return b, nil
}

func indexByte(set []byte, c byte) (int, bool) {
	for i, x := range set {
		if x == c {
			return i, true
		}
	}
	return 0, false
}

// cellJSON is the view shape of a cell.
type cellJSON struct {
	Symbol         string  `json:"symbol"`
	PointDirection *string `json:"pointDirection"`
}

// MarshalJSON renders the cell as {"symbol": "...", "pointDirection": ...},
// with a null direction when the cube has no facing.
func (c Cell) MarshalJSON() ([]byte, error) {
	v := cellJSON{Symbol: c.Symbol.String()}
	if c.Facing != NoDirection {
		d := c.Facing.String()
		v.PointDirection = &d
	}
	return json.Marshal(v)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v cellJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	sym, err := ParseSymbol(v.Symbol)
	if err != nil {
		return err
	}
	dir := NoDirection
	if v.PointDirection != nil {
		if dir, err = ParseDirection(*v.PointDirection); err != nil {
			return err
		}
	}
	*c = Cell{Symbol: sym, Facing: dir}
	return nil
}

// MarshalText lets Direction appear as a name in JSON and YAML payloads.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
