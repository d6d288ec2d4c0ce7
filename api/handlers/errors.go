// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"farefeed-api/api/dto/responses"
	cerrors "farefeed-api/core/errors"
)

// writeError maps a domain error onto an HTTP response. Validation errors
// are client failures listing every violated rule. Upstream errors are
// server-side failures; their detail is exposed only in debug mode.
func writeError(w http.ResponseWriter, err error, debug bool) {
	var validationErr *cerrors.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, responses.ErrorResponse{
			Error: validationErr.Error(),
		})
		return
	}

	var upstreamErr *cerrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		status := http.StatusBadGateway
		if upstreamErr.StatusCode >= 400 {
			status = upstreamErr.StatusCode
		}

		message := "Upstream service error"
		if debug {
			message = upstreamErr.Error()
		}

		writeJSON(w, status, responses.ErrorResponse{Error: message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, responses.ErrorResponse{
		Error: "Internal server error",
	})
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
