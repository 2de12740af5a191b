// Package errors provides structured error handling for the dtkit runtime.
//
// Nothing in the runtime is fatal: failures are reported to a [Handler] as a
// [RuntimeError], a recovered [PanicError], or a non-fatal [Diagnostic], and
// the component that produced them keeps working.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindAttribute indicates an attribute that failed to parse.
	KindAttribute
	// KindRender indicates a rendering error.
	KindRender
	// KindListener indicates an event handler failure.
	KindListener
	// KindOverlay indicates an overlay coordination failure.
	KindOverlay
	// KindTimer indicates a transient timer failure.
	KindTimer
	// KindStorage indicates a key-value storage failure.
	KindStorage
	// KindConfig indicates a configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindRender:
		return "render"
	case KindListener:
		return "listener"
	case KindOverlay:
		return "overlay"
	case KindTimer:
		return "timer"
	case KindStorage:
		return "storage"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors returned by runtime operations.
var (
	// ErrNoParent is returned when mounting without a parent node.
	ErrNoParent = errors.New("mount requires a parent node")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("store is closed")
)

// RuntimeError represents a structured error in the runtime.
type RuntimeError struct {
	// Op is the operation that failed (e.g., "overlay.RegisterOpen").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Component is the tag of the component involved, if any.
	Component string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RuntimeError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "render.Scheduler.run").
	Op string
	// Component is the tag of the component whose callback panicked.
	Component string
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

// AttributeError describes an attribute value that did not parse into its
// declared type.
type AttributeError struct {
	Name  string
	Value string
	Want  string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute %q: invalid value %q (want %s)", e.Name, e.Value, e.Want)
}

// DiagnosticCode classifies a non-fatal diagnostic.
type DiagnosticCode string

const (
	CodeInvalidAttribute DiagnosticCode = "invalid-attribute"
	CodeRenderStorm      DiagnosticCode = "render-storm"
	CodeStaleRender      DiagnosticCode = "stale-render"
	CodeCloseFailed      DiagnosticCode = "overlay-close-failed"
	CodeHandlerFailed    DiagnosticCode = "handler-failed"
)

// Diagnostic is a non-fatal finding. The runtime recovers locally and keeps
// going; diagnostics exist so the host can see that it did.
type Diagnostic struct {
	Code      DiagnosticCode
	Op        string
	Component string
	Message   string
	Err       error
	Timestamp time.Time
}

func (d *Diagnostic) String() string {
	msg := d.Message
	if d.Err != nil {
		if msg == "" {
			msg = d.Err.Error()
		} else {
			msg = msg + ": " + d.Err.Error()
		}
	}
	if d.Component != "" {
		return fmt.Sprintf("%s %s component=%s: %s", d.Code, d.Op, d.Component, msg)
	}
	return fmt.Sprintf("%s %s: %s", d.Code, d.Op, msg)
}

// Is, As and New re-export the standard helpers so callers importing this
// package under its own name do not need a second errors import.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)
