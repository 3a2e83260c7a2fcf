package rxcore

import (
	"errors"
	"fmt"
)

// Error kinds a Matcher can surface. Every recoverable condition inside a
// single match cycle is absorbed into "no match at this offset, advance";
// only a source I/O failure (ErrInput), a strict-Unicode encoding
// violation, or cooperative cancellation ever reaches the caller.
var (
	// ErrInput indicates the source adapter returned an I/O failure.
	// The Matcher's state is poisoned until Reset is called.
	ErrInput = errors.New("rxcore: input source error")

	// ErrEncodingReject indicates a pattern compiled with strict Unicode
	// validation encountered an invalid byte sequence in the stream.
	ErrEncodingReject = errors.New("rxcore: invalid encoding for strict-Unicode pattern")

	// ErrCancelled indicates the match loop honored a cooperative
	// cancellation request; any matches already emitted remain valid.
	ErrCancelled = errors.New("rxcore: match cancelled")

	// errPatternInternal marks an invariant violation inside the opcode
	// interpreter (e.g. a jump target out of range): a bug in the
	// compiler, not a condition a caller can recover from. Unexported
	// because it is never returned — it is always panicked with, per the
	// error handling design's "programmer bug, not a user error" policy.
	errPatternInternal = errors.New("rxcore: pattern internal invariant violated")
)

// InputError wraps the underlying I/O error a source adapter returned,
// along with the absolute offset the matcher had reached when it occurred.
type InputError struct {
	Offset int
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("rxcore: input error at offset %d: %v", e.Offset, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInput, so callers can use
// errors.Is(err, rxcore.ErrInput) without caring about the wrapped offset.
func (e *InputError) Is(target error) bool { return target == ErrInput }

// panicPatternInternal reports a compiler invariant violation. It is never
// recovered from inside this package: a hit here means the compiled
// Pattern's opcode tape is malformed, which no input can cause and no
// caller should attempt to work around.
func panicPatternInternal(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", errPatternInternal, fmt.Sprintf(format, args...)))
}
