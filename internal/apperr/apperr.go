// Package apperr defines the error taxonomy shared by services and
// HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers both a missing record and a record owned by
	// someone else. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail indicates a registration against an email that
	// already has an account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login. Unknown email and
	// wrong password collapse into this one error.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification failures. The auth gate reports all of them to
	// the client identically; the distinction is for logs only.
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
)

// FieldErrors maps a field name to its validation failure messages.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Any reports whether any field failed validation.
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

func (fe FieldErrors) Error() string {
	var parts []string
	for field, msgs := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsFieldErrors unwraps err into FieldErrors if it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
