package kite

import (
	"errors"
	"net/http"
)

// ErrorTypeToken is the upstream error type reported when an access token
// is missing, invalid or expired.
const ErrorTypeToken = "TokenException"

// Error is an error response from the Kite Connect API. It is the single
// boundary type handlers branch on; upstream failures are translated here
// and nowhere else.
type Error struct {
	StatusCode int
	ErrorType  string
	Message    string
}

// Error returns the upstream message verbatim so it can be surfaced to
// API callers unchanged.
func (e *Error) Error() string {
	return e.Message
}

// IsTokenError reports whether err is an authentication-class upstream
// failure, meaning the access token used for the call is no longer usable.
func IsTokenError(err error) bool {
	var ke *Error
	if !errors.As(err, &ke) {
		return false
	}
	return ke.ErrorType == ErrorTypeToken || ke.StatusCode == http.StatusForbidden
}
