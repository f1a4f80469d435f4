package dicemen

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeGameNotFound Code = "GAME_NOT_FOUND"

	// Capacity errors
	CodeGameFull      Code = "GAME_FULL"
	CodeAlreadyJoined Code = "ALREADY_JOINED"

	// Authorization errors
	CodeNotParticipant Code = "NOT_PARTICIPANT"
	CodeNotYourTurn    Code = "NOT_YOUR_TURN"

	// Validation errors
	CodeInvalidDiceSpec      Code = "INVALID_DICE_SPEC"
	CodeInvalidDieIndex      Code = "INVALID_DIE_INDEX"
	CodeDuplicateDieIndex    Code = "DUPLICATE_DIE_INDEX"
	CodeEmptyAttackSelection Code = "EMPTY_ATTACK_SELECTION"

	// Phase errors
	CodeGameNotStarted   Code = "GAME_NOT_STARTED"
	CodeRoundAlreadyOver Code = "ROUND_ALREADY_OVER"
	CodeRoundNotOver     Code = "ROUND_NOT_OVER"
	CodePassNotAllowed   Code = "PASS_NOT_ALLOWED"
)

// Error is a structured engine error: a code for machines and a message for
// humans. A rejected action never mutates game state.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not an engine error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
