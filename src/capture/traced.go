package capture

// TracedError pairs an error with the program counters of the call site
// where Trace was invoked, so a later capture resolves the raise site
// instead of the capture site. It is transparent: Error, Unwrap and the
// walker all defer to the wrapped error.
type TracedError struct {
	err error
	pcs []uintptr
}

// Trace records the current call stack against err. Returns nil for a nil
// err, and err unchanged when it already carries a recorded stack.
func Trace(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(pcProvider); ok {
		return err
	}
	// +3 skips runtime.Callers, currentPCs and Trace itself.
	return &TracedError{err: err, pcs: currentPCs(3)}
}

func (t *TracedError) Error() string { return t.err.Error() }

// Unwrap exposes the wrapped error to errors.Is / errors.As.
func (t *TracedError) Unwrap() error { return t.err }

// StackPCs returns the program counters recorded at the Trace call site.
func (t *TracedError) StackPCs() []uintptr { return t.pcs }
