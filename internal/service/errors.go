package service

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Error kinds. Every error returned by Service either is an *Error with one
// of these kinds or is an unexpected failure.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrUpstream           = errors.New("upstream error")
)

// Error is a classified failure with a message fit for the client
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is matches the error kind
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Detail returns the underlying cause, if any
func (e *Error) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// validationErrors collects field problems and formats them on one line.
type validationErrors struct {
	merr *multierror.Error
}

func (v *validationErrors) add(msg string) {
	v.merr = multierror.Append(v.merr, errors.New(msg))
}

// err returns a validation *Error with message, or nil when nothing was added.
func (v *validationErrors) err(message string) error {
	if v.merr == nil {
		return nil
	}
	v.merr.ErrorFormat = func(errs []error) string {
		parts := make([]string, len(errs))
		for i, e := range errs {
			parts[i] = e.Error()
		}
		return strings.Join(parts, "; ")
	}
	return wrapError(ErrValidation, message, v.merr)
}

// cleanList trims every entry and drops blank ones.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
