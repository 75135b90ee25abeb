package anysketch

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind classifies an error returned by the packages of this module.
type Kind int

const (
	// KindUnknown is reported for errors that were not created by this
	// package.
	KindUnknown Kind = iota
	// KindInvalidArgument means the caller supplied data that violates a
	// documented precondition. Fixing the input and retrying is expected
	// to succeed.
	KindInvalidArgument
	// KindInternal means a cryptographic or numeric operation failed
	// despite valid input. It should be surfaced rather than retried.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a wrapper around an standard error that allows
// to print the stack trace from the call of the constructor.
type Error struct {
	kind  Kind
	err   error
	msg   string
	frame xerrors.Frame
}

// InvalidArgument returns an error of kind KindInvalidArgument with the
// stack trace beginning at the caller.
func InvalidArgument(format string, args ...interface{}) error {
	return &Error{
		kind:  KindInvalidArgument,
		err:   fmt.Errorf(format, args...),
		frame: xerrors.Caller(1),
	}
}

// Internal returns an error of kind KindInternal with the stack trace
// beginning at the caller.
func Internal(format string, args ...interface{}) error {
	return &Error{
		kind:  KindInternal,
		err:   fmt.Errorf(format, args...),
		frame: xerrors.Caller(1),
	}
}

// WrapInternal returns err as an internal error prefixed with msg, or nil
// if err is nil. The kind of an already classified error is kept.
func WrapInternal(err error, msg string) error {
	return wrapKind(err, msg, KindInternal)
}

// WrapInvalidArgument returns err as an invalid argument error prefixed
// with msg, or nil if err is nil. The kind of an already classified error
// is kept.
func WrapInvalidArgument(err error, msg string) error {
	return wrapKind(err, msg, KindInvalidArgument)
}

func wrapKind(err error, msg string, kind Kind) error {
	if err == nil {
		return nil
	}
	if k := KindOf(err); k != KindUnknown {
		kind = k
	}
	return &Error{
		kind:  kind,
		err:   err,
		msg:   msg,
		frame: xerrors.Caller(2),
	}
}

// ErrorOrNil returns the error if any with the stack trace
// beginning at the call of the function.
func ErrorOrNil(err error, msg string) error {
	return ErrorOrNilSkip(err, msg, 1)
}

// ErrorOrNilSkip returns the error if any with the stack trace
// beginning at the call of the skip-nth caller.
func ErrorOrNilSkip(err error, msg string, skip int) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:  KindOf(err),
		err:   err,
		msg:   msg,
		frame: xerrors.Caller(skip),
	}
}

// KindOf returns the kind of the first classified error in the chain of
// err.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if !xerrors.As(err, &e) {
			return KindUnknown
		}
		if e.kind != KindUnknown {
			return e.kind
		}
		err = e.err
	}
	return KindUnknown
}

// IsInvalidArgument returns true when err is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}

// IsInternal returns true when err is an internal error.
func IsInternal(err error) bool {
	return KindOf(err) == KindInternal
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg + ": " + fmt.Sprintf("%v", e.err)
	}
	return fmt.Sprintf("%v", e.err)
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap returns the next error in the chain.
func (e *Error) Unwrap() error {
	return e.err
}

// Format prints the error to the formatter.
func (e *Error) Format(f fmt.State, c rune) {
	xerrors.FormatError(e, f, c)
}

// FormatError prints the error to the printer. It prints
// the stack trace when the '+' is used in combination with
// 'v'.
func (e *Error) FormatError(p xerrors.Printer) error {
	if e.msg != "" {
		p.Printf("%s: %v", e.msg, e.err)
	} else {
		p.Printf("%v", e.err)
	}

	if p.Detail() {
		e.frame.Format(p)
		p.Printf("%+v", e.err)
	}
	return nil
}
