// Package line implements an interactive single-line text editor for
// terminals that speak a small subset of ANSI/VT control sequences.
//
// The package owns the in-memory edit buffer and cursor, the refresh
// engine, the completion state machine, and a bounded history ring. It is
// deliberately ignorant of raw-mode setup and byte-channel plumbing; those
// are the host's job (see package rawterm for one implementation).
package line

import (
	"log"
	"sync"
	"time"
)

// RefreshMode selects which half (or both) of a screen redraw to perform.
type RefreshMode int

// The refresh engine can erase the old render (Clean), draw the new one
// (Write), or both in sequence.
const (
	RefreshClean RefreshMode = 1 << iota
	RefreshWrite
	RefreshBoth = RefreshClean | RefreshWrite
)

// Completer returns candidate completions for the buffer contents up to
// pos. It is called at most once per TAB cycle.
type Completer func(buf []byte, pos int) []string

// HintFunc returns advisory text to draw after the cursor, along with an
// SGR color code and a bold/intensity code. A nil or empty return value
// suppresses the hint.
type HintFunc func(buf []byte) (hint string, color, bold int)

// Options holds the session-wide, host-configurable behavior described in
// spec §6. It is intended to be shared across many Sessions, the way the
// teacher's process-wide flags and history were shared across prompts,
// but grouped into a single value instead of package-level globals (see
// the "Global state" note in SPEC_FULL.md §9).
type Options struct {
	MaskMode  bool // draw '*' instead of buffer bytes
	MultiLine bool // select the multi-line refresh strategy
	DumbMode  bool // bypass editing; echo-and-collect until newline

	MaxLineLen int // buffer capacity for new sessions; floor is 64

	// PasteThreshold is the maximum inter-byte gap treated as a paste
	// burst. The spec's default is 30ms; kept configurable per the
	// "Paste detection via timing" design note.
	PasteThreshold time.Duration

	Completer Completer
	HintFunc  HintFunc

	// Logger receives diagnostics for output write failures during
	// editing (refresh flushes, fast-path and paste echoes, bells).
	// Dropped escape bytes are not reported. Defaults to a discarding
	// logger so the silence contract in spec §7 holds unless a host
	// opts in.
	Logger *log.Logger
}

// DefaultOptions returns the spec's documented defaults.
func DefaultOptions() *Options {
	return &Options{
		MaxLineLen:     DefaultMaxLineLen,
		PasteThreshold: 30 * time.Millisecond,
		Logger:         log.New(discardWriter{}, "", 0),
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// DefaultMaxLineLen is the buffer capacity used when Options.MaxLineLen
// is zero.
const DefaultMaxLineLen = 4096

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(discardWriter{}, "", 0)
}

// EditState is the single value threaded through every editing operation
// and refresh for one active session (spec §3).
type EditState struct {
	prompt      string
	promptWidth int

	buf    []byte
	maxLen int
	pos    int

	cols int

	oldPos  int
	oldRows int

	inCompletion   bool
	completionIdx  int
	completionList []string

	historyIndex int
}

// newEditState allocates a fresh EditState with the given prompt and
// terminal width. maxLen is clamped to the spec's 64-byte floor.
func newEditState(prompt string, cols, maxLen int) *EditState {
	if maxLen < minLineBufferCap {
		maxLen = minLineBufferCap
	}
	return &EditState{
		prompt:      prompt,
		promptWidth: len(prompt),
		buf:         make([]byte, 0, maxLen),
		maxLen:      maxLen,
		cols:        cols,
	}
}

// Len returns the number of used bytes in the edit buffer.
func (e *EditState) Len() int { return len(e.buf) }

// Pos returns the cursor offset in bytes.
func (e *EditState) Pos() int { return e.pos }

// Bytes returns the current buffer contents. The returned slice aliases
// EditState's internal storage and must not be retained past the next
// mutation.
func (e *EditState) Bytes() []byte { return e.buf }

// String returns a copy of the current buffer contents.
func (e *EditState) String() string { return string(e.buf) }

// checkInvariants verifies the bounds documented in spec §3. It is used
// by tests, not by production code paths (which are constructed to
// maintain the invariant by construction).
func (e *EditState) checkInvariants() bool {
	return 0 <= e.pos && e.pos <= len(e.buf) && len(e.buf) < e.maxLen
}

// Locker is the mutual-exclusion primitive the host injects to serialize
// editor output with other producers sharing the same terminal (spec
// §5). sync.Mutex satisfies it directly; tests can substitute a no-op.
type Locker = sync.Locker

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}
