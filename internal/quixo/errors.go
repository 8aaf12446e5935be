package quixo

import (
	"errors"
	"fmt"
)

// RuleErrorCode categorizes rejected moves.
type RuleErrorCode string

const (
	// ErrCodeOutOfRange indicates a coordinate outside [0,4].
	ErrCodeOutOfRange RuleErrorCode = "OUT_OF_RANGE"

	// ErrCodeGameOver indicates the game already reached a terminal status.
	ErrCodeGameOver RuleErrorCode = "GAME_OVER"

	// ErrCodeNotPeripheral indicates the origin is an interior cell.
	ErrCodeNotPeripheral RuleErrorCode = "NOT_PERIPHERAL"

	// ErrCodeCannotPick indicates the player may not take the origin cube.
	ErrCodeCannotPick RuleErrorCode = "CANNOT_PICK"

	// ErrCodeInvalidDestination indicates the destination is not a legal placement.
	ErrCodeInvalidDestination RuleErrorCode = "INVALID_DESTINATION"

	// ErrCodeMalformedMove indicates origin and destination share no line.
	ErrCodeMalformedMove RuleErrorCode = "MALFORMED_MOVE"

	// ErrCodeInvalidFacing indicates a point direction outside Top..Left.
	ErrCodeInvalidFacing RuleErrorCode = "INVALID_FACING"

	// ErrCodeInvalidPlayer indicates the state names a seat the mode lacks.
	ErrCodeInvalidPlayer RuleErrorCode = "INVALID_PLAYER"
)

// RuleError is a rejected move. Message is suitable for end users.
type RuleError struct {
	Code    RuleErrorCode
	Message string
	From    Position
	To      Position
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s (from=%s, to=%s)", e.Code, e.Message, e.From, e.To)
}

func newRuleError(code RuleErrorCode, m Move, msg string) *RuleError {
	return &RuleError{Code: code, Message: msg, From: m.From, To: m.To}
}

// ErrorCode extracts the RuleErrorCode from err, or "" if err is not a
// RuleError. Uses errors.As to handle wrapped errors.
func ErrorCode(err error) RuleErrorCode {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}
