package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Handler receives errors reported by the runtime.
type Handler interface {
	// HandleError is called when an operation fails.
	HandleError(err *RuntimeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleDiagnostic is called for non-fatal findings.
	HandleDiagnostic(d *Diagnostic)
}

var (
	// DefaultHandler receives reports when no explicit handler is given.
	// It defaults to a LogHandler with a nop logger.
	DefaultHandler Handler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the fallback error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
}

func resolve(h Handler) Handler {
	if h != nil {
		return h
	}
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report sends an error to h, or to DefaultHandler when h is nil.
// If err.Timestamp is zero, it is set to the current time.
func Report(h Handler, err *RuntimeError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	resolve(h).HandleError(err)
}

// ReportPanic sends a panic error to h, or to DefaultHandler when h is nil.
func ReportPanic(h Handler, err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	resolve(h).HandlePanic(err)
}

// ReportDiagnostic sends a diagnostic to h, or to DefaultHandler when h is nil.
func ReportDiagnostic(h Handler, d *Diagnostic) {
	if d == nil {
		return
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	resolve(h).HandleDiagnostic(d)
}

// Guard runs fn, recovering and reporting any panic. It returns false if fn
// panicked. Every callback the runtime invokes on behalf of a component runs
// under Guard so one component cannot break its siblings.
func Guard(h Handler, op, component string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			ReportPanic(h, &PanicError{
				Op:         op,
				Component:  component,
				Value:      r,
				StackTrace: CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	fn()
	return true
}

// CaptureStack returns the current call stack as a string.
// It skips the frames belonging to CaptureStack and its caller.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
