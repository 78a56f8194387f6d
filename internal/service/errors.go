// Package service holds the application operations behind the HTTP handlers.
// Every write runs inside a single Store transaction.
package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInactiveUser       = errors.New("inactive user")
	ErrForbidden          = errors.New("forbidden")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
)

// BlankFieldError reports a text field that is empty once trimmed.
type BlankFieldError struct {
	Field string
}

func (e *BlankFieldError) Error() string {
	return e.Field + " must not be blank"
}

func nonBlank(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &BlankFieldError{Field: field}
	}
	return v, nil
}
