package server

import (
	"errors"
	"fmt"
	"net/http"
)

// errKind classifies request failures so handlers can map them to HTTP status
// codes in one place.
type errKind string

const (
	kindNotFound     errKind = "not_found"
	kindInvalidState errKind = "invalid_state"
	kindForbidden    errKind = "forbidden"
	kindCapacity     errKind = "capacity"
	kindValidation   errKind = "validation"
	kindUnavailable  errKind = "unavailable"
)

type apiError struct {
	kind    errKind
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func errNotFound(format string, args ...any) error {
	return &apiError{kind: kindNotFound, message: fmt.Sprintf(format, args...)}
}

func errInvalidState(format string, args ...any) error {
	return &apiError{kind: kindInvalidState, message: fmt.Sprintf(format, args...)}
}

func errForbidden(format string, args ...any) error {
	return &apiError{kind: kindForbidden, message: fmt.Sprintf(format, args...)}
}

func errCapacity(format string, args ...any) error {
	return &apiError{kind: kindCapacity, message: fmt.Sprintf(format, args...)}
}

func errValidation(format string, args ...any) error {
	return &apiError{kind: kindValidation, message: fmt.Sprintf(format, args...)}
}

func statusFor(kind errKind) int {
	switch kind {
	case kindNotFound:
		return http.StatusNotFound
	case kindForbidden:
		return http.StatusForbidden
	case kindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func writeAPIError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeJSON(w, statusFor(apiErr.kind), map[string]string{
			"error": apiErr.message,
			"kind":  string(apiErr.kind),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal error",
		"kind":  "internal",
	})
}
