package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/lootlens/lootlens/core"
	"github.com/lootlens/lootlens/internal/contract"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

// apiError is a structured API error with the status it maps to.
type apiError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *apiError) Error() string {
	return e.Message
}

func badRequest(message string) *apiError {
	return &apiError{StatusCode: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
}

func notFound(message string) *apiError {
	return &apiError{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func unavailable(message string) *apiError {
	return &apiError{StatusCode: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: message}
}

func internalError(message string) *apiError {
	return &apiError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: message}
}

// writeJSON sends data with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError maps err to an API error response.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, contract.ErrStoreUnavailable):
		apiErr = unavailable(err.Error())
	case errors.Is(err, core.ErrNoLogDir):
		apiErr = &apiError{StatusCode: http.StatusConflict, Code: "NOT_CONFIGURED", Message: err.Error()}
	case errors.Is(err, fs.ErrNotExist):
		apiErr = notFound(err.Error())
	default:
		apiErr = internalError(err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	_ = json.NewEncoder(w).Encode(envelope{Error: apiErr})
}
