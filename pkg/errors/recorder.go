package errors

import "sync"

// Recorder is a Handler that keeps everything it receives. Tests install it
// to assert on diagnostics; hosts can use it to surface them in a UI.
type Recorder struct {
	mu          sync.Mutex
	errors      []*RuntimeError
	panics      []*PanicError
	diagnostics []*Diagnostic
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) HandleError(err *RuntimeError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func (r *Recorder) HandlePanic(err *PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

func (r *Recorder) HandleDiagnostic(d *Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

// Errors returns a copy of the recorded errors.
func (r *Recorder) Errors() []*RuntimeError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RuntimeError(nil), r.errors...)
}

// Panics returns a copy of the recorded panics.
func (r *Recorder) Panics() []*PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*PanicError(nil), r.panics...)
}

// Diagnostics returns a copy of the recorded diagnostics.
func (r *Recorder) Diagnostics() []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Diagnostic(nil), r.diagnostics...)
}

// DiagnosticsWithCode returns the recorded diagnostics matching code.
func (r *Recorder) DiagnosticsWithCode(code DiagnosticCode) []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Diagnostic
	for _, d := range r.diagnostics {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Reset clears everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
	r.panics = nil
	r.diagnostics = nil
}
