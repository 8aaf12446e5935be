package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/quixo/internal/quixo"
)

// AssertionError is one failed expectation.
type AssertionError struct {
	Field    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateExpectations compares the final game with exp and returns one
// message per mismatch.
func EvaluateExpectations(final FinalState, board quixo.Board, exp Expect) []string {
	var errs []string
	check := func(field, want, got string) {
		if want != got {
			errs = append(errs, (&AssertionError{Field: field, Expected: want, Actual: got}).Error())
		}
	}

	if exp.Status != "" {
		check("status", exp.Status, final.Status)
	}
	if exp.CurrentPlayer != 0 {
		check("current_player", fmt.Sprint(exp.CurrentPlayer), fmt.Sprint(final.CurrentPlayer))
	}
	if exp.FirstRound != nil {
		check("first_round", fmt.Sprint(*exp.FirstRound), fmt.Sprint(final.FirstRound))
	}
	if exp.MoveCount != nil {
		check("move_count", fmt.Sprint(*exp.MoveCount), fmt.Sprint(final.MoveCount))
	}
	if exp.Board != "" {
		check("board", exp.Board, final.Board)
	}

	for _, c := range exp.Cells {
		at := quixo.Position{Row: c.At[0], Col: c.At[1]}
		if !at.InRange() {
			errs = append(errs, fmt.Sprintf("cell %s: outside the board", formatPosition(c.At)))
			continue
		}
		cell := board.At(at)
		field := "cell " + formatPosition(c.At)
		check(field+" symbol", c.Symbol, cell.Symbol.String())
		if c.Facing != nil {
			check(field+" facing", *c.Facing, cell.Facing.String())
		}
	}
	return errs
}
