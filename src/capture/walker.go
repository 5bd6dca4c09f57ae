package capture

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"time"

	"crashreporter/src/enrich"
	"crashreporter/src/model"
)

// Walker turns a raised error and its cause chain into an immutable
// ExceptionDetail tree. A zero-configured walker uses the runtime
// introspector, the default system prefixes and the default enricher.
type Walker struct {
	introspector StackIntrospector
	prefixes     []string
	enricher     *enrich.Enricher
	now          func() time.Time
}

// Option configures a Walker.
type Option func(*Walker)

// WithIntrospector replaces the stack-walk backend.
func WithIntrospector(si StackIntrospector) Option {
	return func(w *Walker) { w.introspector = si }
}

// WithSystemPrefixes replaces the namespace prefixes that classify a frame
// as framework code.
func WithSystemPrefixes(prefixes []string) Option {
	return func(w *Walker) { w.prefixes = prefixes }
}

// WithEnricher replaces the annotation enricher.
func WithEnricher(e *enrich.Enricher) Option {
	return func(w *Walker) { w.enricher = e }
}

// WithClock overrides the capture timestamp source. Tests use this for
// deterministic output.
func WithClock(now func() time.Time) Option {
	return func(w *Walker) { w.now = now }
}

// NewWalker builds a Walker with the given options applied over defaults.
func NewWalker(opts ...Option) *Walker {
	w := &Walker{
		introspector: RuntimeIntrospector{},
		prefixes:     DefaultSystemPrefixes,
		enricher:     enrich.NewEnricher(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var defaultWalker = NewWalker()

// Capture walks err with a default Walker. See Walker.Capture.
func Capture(err error) *model.ExceptionDetail {
	return defaultWalker.Capture(err)
}

// Capture converts err and every nested cause into an ExceptionDetail
// chain. A nil err is the single recognized "no error" signal and yields
// nil. Capture never raises while documenting: any panic inside the walk
// degrades to the partially populated record built so far.
func (w *Walker) Capture(err error) *model.ExceptionDetail {
	if err == nil {
		return nil
	}
	return w.capture(err, true)
}

// currentStackWalker is an optional introspector capability: walk the
// current goroutine when the error itself recorded nothing. Only consulted
// for the outermost error, so inner causes without a recorded stack stay
// empty instead of inheriting the capture pipeline's own frames.
type currentStackWalker interface {
	Current(skip int) []RawFrame
}

func (w *Walker) capture(err error, top bool) (detail *model.ExceptionDetail) {
	detail = &model.ExceptionDetail{Timestamp: w.now()}

	// A broken Error(), Unwrap() or introspector must not mask the failure
	// being documented; keep whatever was populated before the panic.
	defer func() { _ = recover() }()

	target := unwrapShell(err)

	detail.Message = safeMessage(err)
	detail.ExceptionType = TypeName(target)
	detail.ErrorCode = errorCode(target)
	detail.StackTrace = rawStack(target)

	raw := w.introspector.Frames(err)
	if len(raw) == 0 && top {
		if cw, ok := w.introspector.(currentStackWalker); ok {
			// +2 skips capture and Capture.
			raw = cw.Current(2)
		}
	}
	if len(raw) > 0 {
		frames := make([]model.StackFrameDetail, 0, len(raw))
		for _, rf := range raw {
			frames = append(frames, extractFrame(rf, w.prefixes))
		}
		detail.Frames = frames
	}
	detail.RootCause = selectRootCause(detail.Frames)
	detail.Source = w.source(target, detail.Frames)

	if cause := unwrapOnce(target); cause != nil {
		detail.InnerException = w.capture(cause, false)
	}

	w.enricher.Enrich(detail, target)
	return detail
}

// source resolves the origin string: an explicit Source() when the error
// provides one, otherwise the declaring package of the raise-site frame.
func (w *Walker) source(err error, frames []model.StackFrameDetail) string {
	if s, ok := err.(interface{ Source() string }); ok {
		return s.Source()
	}
	if len(frames) > 0 {
		return frames[0].Namespace
	}
	return ""
}

// TypeName returns the dynamic type of err as a fully-qualified name,
// pointers dereferenced, e.g. "io/fs.PathError".
func TypeName(err error) (name string) {
	defer func() {
		if recover() != nil {
			name = "error"
		}
	}()

	t := reflect.TypeOf(err)
	if t == nil {
		return "error"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// errorCode renders a fixed-width hex token from the error's identity so a
// log line can be cross-referenced to a record. Best effort only: distinct
// instances may collide, and value-typed errors hash type plus message.
func errorCode(err error) string {
	h := fnv.New32a()
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Map, reflect.Func:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(v.Pointer()))
		_, _ = h.Write(buf[:])
	default:
		_, _ = h.Write([]byte(fmt.Sprintf("%T", err)))
		_, _ = h.Write([]byte(safeMessage(err)))
	}
	return fmt.Sprintf("E%08X", h.Sum32())
}

// safeMessage reads err.Error() without letting a defective implementation
// abort the capture.
func safeMessage(err error) (msg string) {
	defer func() {
		if recover() != nil {
			msg = "(message unavailable)"
		}
	}()
	return err.Error()
}

// rawStack returns the error's own preformatted stack text, when it
// carries one, as a display fallback alongside the extracted frames.
func rawStack(err error) string {
	if s, ok := err.(interface{ StackTrace() string }); ok {
		return s.StackTrace()
	}
	return ""
}

// unwrapShell strips a Trace wrapper so typing, codes and cause walking see
// the semantic error underneath.
func unwrapShell(err error) error {
	if t, ok := err.(*TracedError); ok {
		return t.err
	}
	return err
}

// unwrapOnce steps one level down the cause chain. Joined errors follow
// their first branch; the chain is finite by construction, so plain
// recursion in capture is bounded by the actual depth.
func unwrapOnce(err error) error {
	switch v := err.(type) {
	case interface{ Unwrap() error }:
		return v.Unwrap()
	case interface{ Unwrap() []error }:
		if errs := v.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}
