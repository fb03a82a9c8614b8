package httpapi

import (
	"errors"
	"net/http"

	"github.com/rfarias/partida/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }
func conflict(w http.ResponseWriter, msg string)   { writeErr(w, http.StatusConflict, msg, "conflict") }
func unprocessable(w http.ResponseWriter, msg, code string) {
	writeErr(w, http.StatusUnprocessableEntity, msg, code)
}

// writeDomainErr maps a domain error onto the HTTP surface.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrCodeExists):
		conflict(w, err.Error())
	default:
		code, msg := mapValidationError(err)
		unprocessable(w, msg, code)
	}
}

// mapValidationError normalizes domain validation errors into a code and
// message.
func mapValidationError(err error) (code, msg string) {
	if err == nil {
		return "", ""
	}
	msg = err.Error()
	switch {
	case errors.Is(err, errs.ErrMissingDate):
		return "missing_date", msg
	case errors.Is(err, errs.ErrMissingNarrative):
		return "missing_narrative", msg
	case errors.Is(err, errs.ErrTooFewLines):
		return "too_few_lines", msg
	case errors.Is(err, errs.ErrModeMismatch):
		return "mode_mismatch", msg
	case errors.Is(err, errs.ErrMissingAccount):
		return "missing_account", msg
	case errors.Is(err, errs.ErrUnknownAccount):
		return "unknown_account", msg
	case errors.Is(err, errs.ErrBlockedAccount):
		return "blocked_account", msg
	case errors.Is(err, errs.ErrInvalidAmount):
		return "invalid_amount", msg
	case errors.Is(err, errs.ErrUnbalanced):
		return "unbalanced_entry", msg
	case errors.Is(err, errs.ErrInvalidMask):
		return "invalid_mask", msg
	case errors.Is(err, errs.ErrInvalidCode):
		return "invalid_code", msg
	case errors.Is(err, errs.ErrDepthExceeded):
		return "depth_exceeded", msg
	case errors.Is(err, errs.ErrCodeOverflow):
		return "code_overflow", msg
	case errors.Is(err, errs.ErrHasChildren):
		return "has_children", msg
	default:
		return "validation_error", msg
	}
}
