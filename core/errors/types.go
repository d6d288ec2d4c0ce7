// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for better error handling and API responses

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents one or more query validation failures.
// Rules are collected exhaustively: every violated rule for a query is
// reported together, never just the first one.
type ValidationError struct {
	Rules []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "Errors found: " + strings.Join(e.Rules, ", ")
}

// Add appends a violated rule to the error.
func (e *ValidationError) Add(rule string) {
	e.Rules = append(e.Rules, rule)
}

// HasErrors reports whether any rule was violated.
func (e *ValidationError) HasErrors() bool {
	return len(e.Rules) > 0
}

// UpstreamError represents a fatal, non-retryable failure from the upstream
// ticket-search service. It aborts the whole in-flight query.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: HTTP %d - %s", e.StatusCode, e.Detail)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsUpstream checks if an error is an UpstreamError
func IsUpstream(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
