package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rzbill/cmdring/internal/device"
	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
)

// Helper functions for common HTTP responses

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given data.
func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, device.ErrInvalidArgument), errors.Is(err, commandsvc.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, device.ErrResourceExhausted):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, device.ErrLockUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, device.ErrClosed), errors.Is(err, commandsvc.ErrArchiveDisabled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with the status statusFor picks.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// parseLimit parses a limit string and returns a valid limit value.
//
// Returns def for empty strings or invalid values.
func parseLimit(limitStr string, def int) int {
	if limitStr == "" {
		return def
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return def
}

// parseOffset parses a non-negative byte offset. Empty means 0.
func parseOffset(s string) (int64, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil && n >= 0
}

// printable returns b as valid UTF-8.
func printable(b []byte) string { return strings.ToValidUTF8(string(b), "�") }
