// Copyright 2025 Scantree GmbH
// SPDX-License-Identifier: MPL-2.0

package errors

import (
	stderrors "errors"
	"fmt"
)

// List represents a list of error instances that also implements
// Go's error interface.
type List struct {
	errs []error
}

// L builds a List instance with all errs provided as arguments.
// Any nil errors are discarded.
func L(errs ...error) *List {
	l := &List{}
	for _, err := range errs {
		l.Append(err)
	}
	return l
}

// Append appends errs to the list. Nil errors are discarded and lists
// are flattened into this one.
func (l *List) Append(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if el, ok := err.(*List); ok {
			l.Append(el.errs...)
			continue
		}
		l.errs = append(l.errs, err)
	}
}

// Error returns the string representation of the error list.
// Only the first error message is returned, all other errors are elided.
func (l *List) Error() string {
	if len(l.errs) == 0 {
		return ""
	}
	errmsg := l.errs[0].Error()
	if len(l.errs) == 1 {
		return errmsg
	}
	return fmt.Sprintf("%s (and %d elided errors)", errmsg, len(l.errs)-1)
}

// Errors returns all errors contained on the list that are of the type
// Error or that have an Error wrapped inside them.
func (l *List) Errors() []*Error {
	var errs []*Error
	for _, err := range l.errs {
		var e *Error
		if stderrors.As(err, &e) {
			errs = append(errs, e)
		}
	}
	return errs
}

// AsError returns the list as an error, or nil if the list is empty.
func (l *List) AsError() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}
