package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/logging"
)

func TestRuntimeErrorString(t *testing.T) {
	err := &RuntimeError{
		Op:   "overlay.RegisterOpen",
		Kind: KindOverlay,
		Err:  fmt.Errorf("close failed"),
	}
	assert.Equal(t, "overlay.RegisterOpen [overlay]: close failed", err.Error())

	err.Component = "dt-popin"
	assert.Contains(t, err.Error(), "component=dt-popin")
}

func TestRuntimeErrorUnwrap(t *testing.T) {
	err := &RuntimeError{Op: "core.Mount", Kind: KindRender, Err: ErrNoParent}
	assert.True(t, Is(err, ErrNoParent))

	var attrErr *AttributeError
	wrapped := &RuntimeError{Op: "attrs.Set", Kind: KindAttribute, Err: &AttributeError{Name: "size", Value: "xl", Want: "sm|md|lg"}}
	require.True(t, As(wrapped, &attrErr))
	assert.Equal(t, "size", attrErr.Name)
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindAttribute, "attribute"},
		{KindRender, "render"},
		{KindListener, "listener"},
		{KindOverlay, "overlay"},
		{KindTimer, "timer"},
		{KindStorage, "storage"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String(), "ErrorKind(%d)", tt.kind)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	assert.Equal(t, "panic: test panic", err.Error())

	err.Op = "render.Scheduler.run"
	assert.Equal(t, "panic in render.Scheduler.run: test panic", err.Error())
}

func TestDiagnosticString(t *testing.T) {
	d := &Diagnostic{Code: CodeInvalidAttribute, Op: "attrs.Store.Set", Component: "dt-checkbox", Message: "using default"}
	assert.Equal(t, "invalid-attribute attrs.Store.Set component=dt-checkbox: using default", d.String())

	d = &Diagnostic{Code: CodeCloseFailed, Op: "overlay.close", Err: New("boom")}
	assert.Equal(t, "overlay-close-failed overlay.close: boom", d.String())
}

func TestReportUsesExplicitHandler(t *testing.T) {
	rec := NewRecorder()
	Report(rec, &RuntimeError{Op: "test.op", Kind: KindStorage, Err: ErrClosed})

	errs := rec.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "test.op", errs[0].Op)
	assert.False(t, errs[0].Timestamp.IsZero())
}

func TestReportFallsBackToDefaultHandler(t *testing.T) {
	rec := NewRecorder()
	old := DefaultHandler
	SetHandler(rec)
	defer SetHandler(old)

	ReportDiagnostic(nil, &Diagnostic{Code: CodeRenderStorm, Op: "render"})
	assert.Len(t, rec.DiagnosticsWithCode(CodeRenderStorm), 1)
}

func TestSetHandlerNil(t *testing.T) {
	old := DefaultHandler
	defer SetHandler(old)

	SetHandler(nil)
	_, ok := DefaultHandler.(*LogHandler)
	assert.True(t, ok, "SetHandler(nil) should install a LogHandler, got %T", DefaultHandler)
}

func TestGuardRecoversPanic(t *testing.T) {
	rec := NewRecorder()
	ok := Guard(rec, "test.guard", "dt-toast", func() {
		panic("intentional")
	})
	assert.False(t, ok)

	panics := rec.Panics()
	require.Len(t, panics, 1)
	assert.Equal(t, "intentional", panics[0].Value)
	assert.Equal(t, "test.guard", panics[0].Op)
	assert.Equal(t, "dt-toast", panics[0].Component)
	assert.NotEmpty(t, panics[0].StackTrace)
}

func TestGuardPassesThrough(t *testing.T) {
	rec := NewRecorder()
	ran := false
	assert.True(t, Guard(rec, "test.guard", "", func() { ran = true }))
	assert.True(t, ran)
	assert.Empty(t, rec.Panics())
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	require.NotEmpty(t, stack)
	assert.True(t, strings.Contains(stack, "testing") || strings.Contains(stack, "runtime"))
}

func TestLogHandlerThrottlesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Writer: &buf, Level: "debug"})
	require.NoError(t, err)

	h := &LogHandler{Logger: log, DiagnosticsPerSecond: 2}
	for i := 0; i < 10; i++ {
		h.HandleDiagnostic(&Diagnostic{Code: CodeRenderStorm, Op: "render", Message: "storm"})
	}
	h.HandleDiagnostic(&Diagnostic{Code: CodeInvalidAttribute, Op: "attrs", Message: "bad size"})

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"code":"render-storm"`))
	assert.Equal(t, 1, strings.Count(out, `"code":"invalid-attribute"`))
}

func TestLogHandlerWritesPanics(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Writer: &buf})
	require.NoError(t, err)

	h := &LogHandler{Logger: log}
	h.HandlePanic(&PanicError{Op: "timer.fire", Component: "dt-toast", Value: "boom"})
	assert.Contains(t, buf.String(), `"op":"timer.fire"`)
	assert.Contains(t, buf.String(), `"component":"dt-toast"`)
}
