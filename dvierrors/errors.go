/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package dvierrors defines the closed set of error kinds produced while
// decoding a DVI stream and translating it to SVG.
package dvierrors

import (
	"golang.org/x/xerrors"
)

// Kind identifies one of the error categories the converter can raise.
// The set is closed: callers switch on Kind rather than matching strings.
type Kind int

// The error kinds named by the specification.
const (
	UnexpectedEOF Kind = iota
	UnsupportedOpcode
	UnsupportedVersion
	StackUnderflow
	FontResolution
	InvalidRangeExpression
	InvalidPaperSize
	InvalidTransformExpression
	IOError
	Cancelled
	SpecialError
)

func (k Kind) String() string {
	switch k {
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case UnsupportedOpcode:
		return "UnsupportedOpcode"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case StackUnderflow:
		return "StackUnderflow"
	case FontResolution:
		return "FontResolution"
	case InvalidRangeExpression:
		return "InvalidRangeExpression"
	case InvalidPaperSize:
		return "InvalidPaperSize"
	case InvalidTransformExpression:
		return "InvalidTransformExpression"
	case IOError:
		return "IOError"
	case Cancelled:
		return "Cancelled"
	case SpecialError:
		return "SpecialError"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with page context and an underlying cause.
type Error struct {
	Kind    Kind
	Page    int // physical page number, 0 if not page-scoped
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Page > 0 {
		return xerrors.Errorf("page %d: %s: %s: %w", e.Page, e.Kind, e.Message, e.unwrapOrNil()).Error()
	}
	return xerrors.Errorf("%s: %s: %w", e.Kind, e.Message, e.unwrapOrNil()).Error()
}

func (e *Error) unwrapOrNil() error {
	if e.Cause == nil {
		return errNoCause
	}
	return e.Cause
}

// Unwrap exposes the underlying cause for errors.As/errors.Is.
func (e *Error) Unwrap() error { return e.Cause }

var errNoCause = xerrors.New("no further detail")

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, page int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Page: page, Message: xerrors.Errorf(format, args...).Error()}
}

// Wrap builds an *Error of the given kind around an existing cause.
func Wrap(kind Kind, page int, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Page: page, Message: xerrors.Errorf(format, args...).Error(), Cause: cause}
}

// Is reports whether err is a *Error of the given kind, looking through
// wrapping via errors.As semantics.
func Is(err error, kind Kind) bool {
	var e *Error
	if xerrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Fatal reports whether an error of this kind aborts the whole run rather
// than just the current page, per the propagation policy in the spec:
// Cancelled and IOError (on the output stream) terminate; everything else
// aborts only the current page.
func Fatal(kind Kind) bool {
	return kind == Cancelled || kind == IOError
}
