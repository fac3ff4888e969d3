package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/locale"
	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
)

type successResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Status string       `json:"status"`
	Error  errorPayload `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successResponse{Status: "success", Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	writeJSON(w, status, errorResponse{Status: "error", Error: errorPayload{Code: code, Message: message, RequestID: requestID}})
}

func mapDomainError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest, "empty_query"
	case errors.Is(err, ErrLookupUnavailable):
		return http.StatusServiceUnavailable, "lookup_unavailable"
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, rewards.ErrUnknownAction):
		return http.StatusBadRequest, "unknown_action"
	case errors.Is(err, locale.ErrUnknownScreen):
		return http.StatusNotFound, "unknown_screen"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
