package errors

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/go-drift/dtkit/pkg/logging"
)

// LogHandler is a Handler that writes through a logging.Logger.
//
// Diagnostics are throttled per code: a render storm can produce one
// diagnostic per turn, and the log should not drown in them.
type LogHandler struct {
	// Logger receives the entries. Nil discards them.
	Logger *logging.Logger
	// Verbose includes stack traces.
	Verbose bool
	// DiagnosticsPerSecond bounds diagnostics logged per code. Zero means 5.
	DiagnosticsPerSecond int

	mu       sync.Mutex
	limiters map[DiagnosticCode]*rate.Limiter
}

// HandleError logs a RuntimeError.
func (h *LogHandler) HandleError(err *RuntimeError) {
	if err == nil {
		return
	}
	event := h.Logger.Zerolog().Error().
		Err(err.Err).
		Str("op", err.Op).
		Str("kind", err.Kind.String())
	if err.Component != "" {
		event = event.Str("component", err.Component)
	}
	if h.Verbose && err.StackTrace != "" {
		event = event.Str("stack", err.StackTrace)
	}
	event.Msg("runtime error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	event := h.Logger.Zerolog().Error().
		Str("op", err.Op).
		Interface("value", err.Value)
	if err.Component != "" {
		event = event.Str("component", err.Component)
	}
	if h.Verbose && err.StackTrace != "" {
		event = event.Str("stack", err.StackTrace)
	}
	event.Msg("recovered panic")
}

// HandleDiagnostic logs a Diagnostic at warn level, subject to throttling.
func (h *LogHandler) HandleDiagnostic(d *Diagnostic) {
	if d == nil || !h.allow(d.Code) {
		return
	}
	event := h.Logger.Zerolog().Warn().
		Str("code", string(d.Code)).
		Str("op", d.Op)
	if d.Component != "" {
		event = event.Str("component", d.Component)
	}
	if d.Err != nil {
		event = event.Err(d.Err)
	}
	event.Msg(d.Message)
}

func (h *LogHandler) allow(code DiagnosticCode) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.limiters == nil {
		h.limiters = make(map[DiagnosticCode]*rate.Limiter)
	}
	lim, ok := h.limiters[code]
	if !ok {
		perSecond := h.DiagnosticsPerSecond
		if perSecond <= 0 {
			perSecond = 5
		}
		lim = rate.NewLimiter(rate.Every(time.Second/time.Duration(perSecond)), perSecond)
		h.limiters[code] = lim
	}
	return lim.Allow()
}
