package capture

import (
	"errors"
	"strings"
	"testing"
)

func TestMethodFromFunction(t *testing.T) {
	tests := []struct {
		function string
		ns       string
		typeName string
		method   string
	}{
		{"main.main", "main", "", "main"},
		{"runtime.goexit", "runtime", "", "goexit"},
		{"crashreporter/src/capture.Trace", "crashreporter/src/capture", "", "Trace"},
		{"crashreporter/src/capture.(*Walker).Capture", "crashreporter/src/capture", "Walker", "Capture"},
		{"gorm.io/gorm.Open", "gorm.io/gorm", "", "Open"},
		{"a/b.Type.Method", "a/b", "Type", "Method"},
	}

	for _, tt := range tests {
		t.Run(tt.function, func(t *testing.T) {
			m := methodFromFunction(tt.function)
			if m == nil {
				t.Fatal("expected a method descriptor")
			}
			if m.Namespace != tt.ns || m.TypeName != tt.typeName || m.Name != tt.method {
				t.Fatalf("got ns=%q type=%q name=%q", m.Namespace, m.TypeName, m.Name)
			}
		})
	}

	if methodFromFunction("") != nil {
		t.Fatal("empty function name must yield no descriptor")
	}
}

func TestRuntimeIntrospectorTracedError(t *testing.T) {
	err := Trace(errors.New("disk on fire"))

	frames := RuntimeIntrospector{}.Frames(err)
	if len(frames) == 0 {
		t.Fatal("expected frames for a traced error")
	}

	// The first frame is the Trace call site, i.e. this test.
	first := frames[0]
	if first.Method == nil {
		t.Fatalf("expected a resolved method, got %+v", first)
	}
	if first.Method.Namespace != "crashreporter/src/capture" {
		t.Fatalf("unexpected namespace %q", first.Method.Namespace)
	}
	if !strings.Contains(first.Method.Name, "TestRuntimeIntrospectorTracedError") {
		t.Fatalf("expected the test function as raise site, got %q", first.Method.Name)
	}
	if first.File == "" || first.Line == 0 {
		t.Fatalf("expected file and line for a traced frame, got %+v", first)
	}
}

func TestRuntimeIntrospectorFindsNestedStack(t *testing.T) {
	inner := Trace(errors.New("root"))
	outer := &wrapErr{msg: "outer", cause: inner}
	frames := RuntimeIntrospector{}.Frames(outer)
	if len(frames) == 0 {
		t.Fatal("expected the nested recorded stack to be found through the wrap chain")
	}
}

func TestRuntimeIntrospectorUnrecordedError(t *testing.T) {
	if frames := (RuntimeIntrospector{}).Frames(errors.New("plain")); frames != nil {
		t.Fatalf("unrecorded error should yield no frames, got %d", len(frames))
	}
	if frames := (RuntimeIntrospector{}).Frames(nil); frames != nil {
		t.Fatal("nil error should yield no frames")
	}
}

func TestTraceIsTransparent(t *testing.T) {
	base := errors.New("base")
	traced := Trace(base)

	if traced.Error() != "base" {
		t.Fatalf("unexpected message %q", traced.Error())
	}
	if !errors.Is(traced, base) {
		t.Fatal("Trace must stay transparent to errors.Is")
	}
	if Trace(traced) != traced {
		t.Fatal("an already traced error should not be wrapped again")
	}
	if Trace(nil) != nil {
		t.Fatal("Trace(nil) must be nil")
	}
}

type wrapErr struct {
	msg   string
	cause error
}

func (e *wrapErr) Error() string { return e.msg }
func (e *wrapErr) Unwrap() error { return e.cause }
