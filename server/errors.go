package server

import (
	"net/http"

	"github.com/tkahng/dicemen"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// statusFor maps engine error codes to HTTP status codes.
func statusFor(code dicemen.Code) int {
	switch code {
	case dicemen.CodeGameNotFound:
		return http.StatusNotFound
	case dicemen.CodeNotYourTurn, dicemen.CodeNotParticipant:
		return http.StatusForbidden
	case dicemen.CodeInvalidDiceSpec,
		dicemen.CodeInvalidDieIndex,
		dicemen.CodeDuplicateDieIndex,
		dicemen.CodeEmptyAttackSelection:
		return http.StatusBadRequest
	case dicemen.CodeGameFull,
		dicemen.CodeAlreadyJoined,
		dicemen.CodeGameNotStarted,
		dicemen.CodeRoundAlreadyOver,
		dicemen.CodeRoundNotOver,
		dicemen.CodePassNotAllowed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := dicemen.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Error: errorBody{Code: string(code), Message: err.Error()},
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorBody{Code: "BAD_REQUEST", Message: message},
	})
}
