package capture

import (
	"runtime"
	"strings"
)

// ParamInfo is one formal parameter of a resolved method, in declaration order.
type ParamInfo struct {
	Type string
	Name string
}

// MethodInfo is the resolved method descriptor of a raw frame. A nil
// MethodInfo on a RawFrame means the runtime could not resolve the call site.
type MethodInfo struct {
	Name      string      // method or function name, without receiver
	TypeName  string      // declaring type, empty for package-level functions
	Namespace string      // declaring package path
	Params    []ParamInfo // empty when the runtime exposes no parameter metadata
}

// FullTypeName returns the fully-qualified declaring type used for
// user-vs-system classification: "namespace.Type", or just the namespace
// for package-level functions.
func (m *MethodInfo) FullTypeName() string {
	if m == nil {
		return ""
	}
	if m.TypeName == "" {
		return m.Namespace
	}
	if m.Namespace == "" {
		return m.TypeName
	}
	return m.Namespace + "." + m.TypeName
}

// RawFrame is one call-stack location as supplied by an introspection
// backend, before extraction. Zero/empty fields mean "unresolved".
type RawFrame struct {
	File   string
	Line   int
	Column int
	Method *MethodInfo
}

// StackIntrospector yields the ordered stack-walk for a raised error,
// innermost (raise site) first. Implementations must never fail: an error
// they cannot introspect yields an empty slice.
//
// The capture pipeline depends only on this interface; tests and hosts with
// richer metadata (parameter lists, column numbers) plug in their own.
type StackIntrospector interface {
	Frames(err error) []RawFrame
}

// RuntimeIntrospector resolves frames with runtime.Callers /
// runtime.CallersFrames. Errors wrapped by Trace carry the program counters
// of their raise site; for anything else Frames yields nothing, and the
// walker falls back to Current at the top capture level, so capturing
// inside a recover() still yields the failure path.
//
// Column numbers and parameter lists are never resolvable from the Go
// runtime and stay at their zero values.
type RuntimeIntrospector struct{}

type pcProvider interface {
	StackPCs() []uintptr
}

func (RuntimeIntrospector) Frames(err error) []RawFrame {
	if err == nil {
		return nil
	}

	var pcs []uintptr
	if provider, ok := err.(pcProvider); ok {
		pcs = provider.StackPCs()
	} else {
		pcs = findRecordedPCs(err)
	}
	return resolvePCs(pcs)
}

// Current walks the current goroutine, skipping the given number of caller
// frames on top of the introspection internals.
func (RuntimeIntrospector) Current(skip int) []RawFrame {
	// +3 skips runtime.Callers, currentPCs and Current itself.
	return resolvePCs(currentPCs(skip + 3))
}

func resolvePCs(pcs []uintptr) []RawFrame {
	if len(pcs) == 0 {
		return nil
	}
	out := make([]RawFrame, 0, len(pcs))
	frames := runtime.CallersFrames(pcs)
	for {
		fr, more := frames.Next()
		out = append(out, RawFrame{
			File:   fr.File,
			Line:   fr.Line,
			Method: methodFromFunction(fr.Function),
		})
		if !more {
			break
		}
	}
	return out
}

// findRecordedPCs walks the wrap chain looking for the nearest cause that
// recorded its raise site.
func findRecordedPCs(err error) []uintptr {
	for err != nil {
		if provider, ok := err.(pcProvider); ok {
			return provider.StackPCs()
		}
		err = unwrapOnce(err)
	}
	return nil
}

const maxStackDepth = 64

func currentPCs(skip int) []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	return pcs[:n]
}

// methodFromFunction splits a runtime function name such as
// "crashreporter/src/capture.(*Walker).Capture" into package path, receiver
// type and method name. Returns nil for an empty name (unresolved frame).
func methodFromFunction(function string) *MethodInfo {
	if function == "" {
		return nil
	}

	// The package path runs up to the first dot after the last slash.
	pkg := function
	rest := ""
	start := strings.LastIndex(function, "/") + 1
	if dot := strings.Index(function[start:], "."); dot >= 0 {
		pkg = function[:start+dot]
		rest = function[start+dot+1:]
	}

	info := &MethodInfo{Namespace: pkg, Name: rest}
	if rest == "" {
		return info
	}

	// Pointer receiver: "(*Type).Method".
	if strings.HasPrefix(rest, "(*") {
		if end := strings.Index(rest, ")"); end > 2 {
			info.TypeName = rest[2:end]
			info.Name = strings.TrimPrefix(rest[end+1:], ".")
			return info
		}
	}

	// Value receiver: "Type.Method". Function literals ("Func.func1") are
	// indistinguishable here; treating the prefix as the declaring type is
	// harmless for classification since the namespace decides the match.
	if dot := strings.Index(rest, "."); dot >= 0 {
		info.TypeName = rest[:dot]
		info.Name = rest[dot+1:]
	}
	return info
}
