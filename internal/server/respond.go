package server

import (
	"encoding/json"
	"net/http"

	"taskboard/internal/errors"
	"taskboard/internal/validation"
)

// errorResponse is the JSON error envelope returned to callers.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps application errors to HTTP status codes and writes
// the error envelope. Error kinds propagate unmodified in meaning:
// nothing is silently downgraded.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{}

	if ve, ok := err.(*validation.ValidationError); ok {
		resp.Error.Code = "VALIDATION_FAILED"
		resp.Error.Message = ve.GetUserFriendlyMessage()
	} else {
		resp.Error.Code = errors.GetErrorCode(err)
		resp.Error.Message = errors.GetUserMessage(err)
	}

	writeJSON(w, statusForError(err), resp)
}

// statusForError maps the error taxonomy to HTTP status codes
func statusForError(err error) int {
	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// validationFailure builds a boundary validation error for malformed
// input that never reaches the lifecycle engine.
func validationFailure(field, value, reason string) error {
	ve := validation.NewValidationError()
	ve.AddInvalidValueError(field, value, reason)
	return ve
}
