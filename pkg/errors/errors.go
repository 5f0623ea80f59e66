// Package errors provides structured error reporting for the compositor
// animation packages.
//
// Expected absences (no animations for an element, no animation for a
// property) are never errors. This package covers programmer errors that
// break the host's bookkeeping, plus configuration and trace failures.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvariant indicates a broken host invariant, such as registering
	// element id zero.
	KindInvariant
	// KindCommit indicates a failure while pushing main state to the impl
	// side.
	KindCommit
	// KindConfig indicates an invalid settings or scenario file.
	KindConfig
	// KindTrace indicates a trace encoding or decoding failure.
	KindTrace
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvariant:
		return "invariant"
	case KindCommit:
		return "commit"
	case KindConfig:
		return "config"
	case KindTrace:
		return "trace"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel causes for invariant reports.
var (
	ErrZeroElementID      = stderrors.New("element id must be non-zero")
	ErrDuplicateTimeline  = stderrors.New("timeline id already registered")
	ErrUnknownTimeline    = stderrors.New("timeline not registered with host")
	ErrPlayerAttached     = stderrors.New("player already attached")
	ErrElementAttached    = stderrors.New("player already attached to an element")
	ErrDuplicateAnimation = stderrors.New("unfinished animation with the same group and property already present")
	ErrHostMismatch       = stderrors.New("hosts must be one main and one impl host")
)

// New returns an error with the given text.
func New(text string) error { return stderrors.New(text) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// AnimationError is a structured error raised by the animation host.
type AnimationError struct {
	// Op is the operation that failed (e.g., "animhost.RegisterElement").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Element is the element involved, or zero.
	Element uint64
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AnimationError) Error() string {
	if e.Element != 0 {
		return fmt.Sprintf("%s [%s] element=%d: %v", e.Op, e.Kind, e.Element, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *AnimationError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.Frame").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the animation packages.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *AnimationError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
