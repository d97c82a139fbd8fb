package probe

import (
	"errors"

	"ffdash/internal/services"
)

// Sentinels distinguishing the three ways a probe can fail, per the
// ProbeError taxonomy: missing file, unreadable metadata, zero-duration
// stream. All three are surfaced to callers wrapped in services.ErrValidation
// so the standard FailureStatus classifier routes them consistently.
var (
	ErrMissingFile  = errors.New("probe: input file missing or unreadable")
	ErrNoMetadata   = errors.New("probe: no usable video stream metadata")
	ErrZeroDuration = errors.New("probe: zero or unknown duration")
)

func newError(path string, sentinel error, cause error) error {
	wrapped := services.Wrap(services.ErrValidation, "probe", path, sentinel.Error(), cause)
	return &Error{path: path, sentinel: sentinel, err: wrapped}
}

// Error is the concrete ProbeError type returned by Probe. It always wraps
// one of the package's sentinel values so callers can classify it with
// errors.Is.
type Error struct {
	path     string
	sentinel error
	err      error
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target matches this error's sentinel, so
// errors.Is(err, probe.ErrZeroDuration) works without unwrapping the full
// chain by hand.
func (e *Error) Is(target error) bool {
	return errors.Is(e.sentinel, target)
}

// Path returns the file path that failed to probe.
func (e *Error) Path() string { return e.path }
