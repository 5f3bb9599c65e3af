package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/robinblocks/site/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusForError maps the use case taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch usecase.ErrorCode(err) {
	case usecase.CodeInputValidation, usecase.CodeUpstreamRejected:
		return http.StatusBadRequest
	case usecase.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case usecase.CodeUpstreamRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
