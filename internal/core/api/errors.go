package api

import (
	"errors"
	"net/http"
)

// Kind classifies an API failure per the operation that produced it. The
// presentation layer decides how each kind is shown; nothing here blocks.
type Kind int

const (
	KindTransient Kind = iota // network or 5xx failure on a background fetch
	KindAuth                  // invalid credentials or rejected token
	KindValidation            // malformed input rejected by the backend
	KindUpload                // upload rejected (size, type, backend failure)
	KindQuery                 // question rejected by the query service
)

// Error is a backend rejection or transport failure. Detail carries the
// backend's own message when the response had one.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, 0 for transport failures
	Detail string // backend detail field or generic fallback
	Op     string // operation name, e.g. "login", "documents"
	Err    error  // underlying transport error, if any
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": request failed"
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuth reports whether err is an authentication failure. On an
// already-authenticated request this is the session teardown trigger.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsValidation reports whether the backend rejected the input itself.
func IsValidation(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindValidation
}

// IsTransient reports whether err should be swallowed into the
// retained-last-good-state path rather than surfaced.
func IsTransient(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		// Unclassified errors on background fetches are treated as transient.
		return true
	}
	return apiErr.Kind == KindTransient
}

// Detail extracts the user-visible message from err, or a fallback.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil {
		return err.Error()
	}
	return fallback
}

// classify maps an HTTP status to an error kind for a given default. A 401
// from any service is always an auth failure.
func classify(status int, def Kind) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status >= 500:
		return KindTransient
	default:
		return def
	}
}
