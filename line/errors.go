package line

import "errors"

// Error taxonomy returned to the host, per the user-intent-terminator and
// transient-failure classes the editor distinguishes.
var (
	// ErrInterrupted is returned when the user presses Ctrl-C.
	ErrInterrupted = errors.New("lineedit: interrupted")

	// ErrEOF is returned when the user presses Ctrl-D on an empty buffer.
	ErrEOF = errors.New("lineedit: eof")

	// ErrInvalidArgument names the caller-error class of the taxonomy. No
	// function in this package returns it.
	ErrInvalidArgument = errors.New("lineedit: invalid argument")

	// ErrTooShort is returned (wrapped) by Session.Start when
	// Options.MaxLineLen is below the enforced floor.
	ErrTooShort = errors.New("lineedit: max line length too short")
)

// minLineBufferCap is the floor invariant from spec §3: buf_cap >= 64.
const minLineBufferCap = 64
