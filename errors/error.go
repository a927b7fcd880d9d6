// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

// Package errors provides the error types used by scantree.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error is the scantree error type. All fields are optional.
type Error struct {
	// Kind is the kind of error.
	Kind Kind

	// Description of the error.
	Description string

	// Err is the underlying error.
	Err error
}

// Kind defines the kind of an error.
type Kind string

// Separator used in the string representation of errors.
const Separator = ": "

// E builds an error value from its arguments. There must be at least one
// argument or E panics. The type of each argument determines its meaning.
//
// The types are:
//
//	errors.Kind
//		The kind of error.
//	error
//		The underlying error that triggered this one.
//	string
//		Treated as a format string, applied to the remaining
//		non-typed arguments, and assigned to the Description field.
//
// If Kind is not set, it is promoted from the underlying error (if any).
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("errors.E called with no arguments")
	}

	e := &Error{}
	var format string
	var fmtArgs []interface{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.Err = arg
		case string:
			if format == "" {
				format = arg
			} else {
				fmtArgs = append(fmtArgs, arg)
			}
		default:
			fmtArgs = append(fmtArgs, arg)
		}
	}
	if format != "" {
		e.Description = fmt.Sprintf(format, fmtArgs...)
	}
	if e.Kind == "" {
		var wrapped *Error
		if stderrors.As(e.Err, &wrapped) {
			e.Kind = wrapped.Kind
		}
	}
	return e
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	var parts []string
	if e.Kind != "" {
		parts = append(parts, string(e.Kind))
	}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "empty error"
	}
	return strings.Join(parts, Separator)
}

// Unwrap returns the wrapped error, if there is any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is tells if target matches this error. It honors the errors.Kind
// matching: two errors with the same non-empty kind match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// IsKind tells if err (or any of its wrapped errors) is of kind k.
func IsKind(err error, k Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == k {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
