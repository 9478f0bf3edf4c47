package line

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

// Session layers the spec's two APIs (blocking ReadLine; event-driven
// Start/Feed/Stop/Hide/Show) over one shared state machine (spec §4.9).
// Grounded on the teacher's NewTTY/Read/Write pairing and the retrieved
// peterh/liner Prompt/PromptWithSuggestion wrapping of a single state
// machine, restructured into the spec's explicit non-blocking Feed step.
type Session struct {
	opts    *Options
	history *History
	locker  Locker

	in  io.ByteReader
	out io.Writer

	clock func() int64 // milliseconds, for the paste-burst heuristic

	st  *EditState
	asm assembler

	armed bool
}

// SessionOption configures optional facade behavior at construction.
type SessionOption func(*Session)

// WithLocker injects the mutual-exclusion primitive serializing editor
// output with other producers on the same terminal (spec §5). The
// default is a no-op locker, suitable for single-producer tests.
func WithLocker(l Locker) SessionOption {
	return func(s *Session) { s.locker = l }
}

// WithClock overrides the millisecond clock used for paste-burst
// detection. Defaults to time.Now().
func WithClock(clock func() int64) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// NewSession constructs a Session over the given byte channels. cols is
// the terminal width measured at session start (spec §3: "cols —
// terminal width in columns at session start"); SetWidth changes it
// later. opts and hist are expected to be shared across many
// sessions by the host, per spec §3's lifecycle note.
func NewSession(in io.Reader, out io.Writer, cols int, opts *Options, hist *History, sessOpts ...SessionOption) *Session {
	if opts == nil {
		opts = DefaultOptions()
	}
	if hist == nil {
		hist = NewHistory(DefaultHistoryMaxLen)
	}
	br, ok := in.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(in)
	}
	s := &Session{
		opts:    opts,
		history: hist,
		locker:  noopLocker{},
		in:      br,
		out:     out,
		clock:   func() int64 { return time.Now().UnixMilli() },
	}
	for _, o := range sessOpts {
		o(s)
	}
	s.st = newEditState("", cols, opts.maxLineLenOrDefault())
	return s
}

func (o *Options) maxLineLenOrDefault() int {
	if o.MaxLineLen <= 0 {
		return DefaultMaxLineLen
	}
	return o.MaxLineLen
}

// Start arms the editor for a new line: it records the prompt, resets
// the edit buffer, and writes the prompt to the output channel. It
// returns a wrapped I/O error if the write fails, per spec §7 ("start
// reports failure so the host can abort").
func (s *Session) Start(prompt string) error {
	maxLen := s.opts.maxLineLenOrDefault()
	if maxLen < minLineBufferCap {
		return fmt.Errorf("%w: max_line_len %d < %d", ErrTooShort, maxLen, minLineBufferCap)
	}
	s.st = newEditState(prompt, s.st.cols, maxLen)
	s.history.pushWorking()
	s.st.historyIndex = 0
	s.armed = true

	s.locker.Lock()
	defer s.locker.Unlock()
	if _, err := io.WriteString(s.out, prompt); err != nil {
		return fmt.Errorf("lineedit: writing prompt: %w", err)
	}
	return nil
}

// SetWidth updates the terminal width for the next Start call (and, if
// called mid-session, for the next refresh). Hosts typically call this
// once before Start based on a rawterm width probe.
func (s *Session) SetWidth(cols int) {
	s.st.cols = cols
}

// Stop releases the per-session resources and emits the trailing
// newline the event-driven API contract expects (spec §4.9).
func (s *Session) Stop() error {
	s.armed = false
	s.locker.Lock()
	defer s.locker.Unlock()
	_, err := io.WriteString(s.out, "\n")
	return err
}

// Hide erases the currently drawn prompt+buffer so another producer can
// write to the terminal cleanly; pair with Show.
func (s *Session) Hide() {
	s.locker.Lock()
	defer s.locker.Unlock()
	refresh(&s.asm, s.st, s.opts, RefreshClean, false)
	s.flushOutput()
}

// Show redraws the prompt+buffer after a Hide, e.g. once a background
// producer has finished writing.
func (s *Session) Show() {
	s.locker.Lock()
	defer s.locker.Unlock()
	refresh(&s.asm, s.st, s.opts, RefreshWrite, false)
	s.flushOutput()
}

// State exposes the underlying edit state, mainly for tests.
func (s *Session) State() *EditState { return s.st }

// History returns the shared History this session reads and writes.
func (s *Session) History() *History { return s.history }

// Feed processes exactly one logical input event and returns. ok==true
// with a nil error means the line was accepted (Enter); a non-nil err
// is one of ErrInterrupted, ErrEOF, or a wrapped I/O error. ok==false
// with a nil error means the caller should call Feed again — exactly
// the spec's {more, done, interrupted, eof, io_error} result set (§4.9).
func (s *Session) Feed() (line string, ok bool, err error) {
	if s.opts.DumbMode {
		return s.feedDumb()
	}
	return s.feedRich()
}

func (s *Session) feedRich() (line string, ok bool, err error) {
	t1 := s.clock()
	c, rerr := s.in.ReadByte()
	t2 := s.clock()
	if rerr != nil {
		return "", false, fmt.Errorf("lineedit: reading input: %w", rerr)
	}

	// Paste-burst heuristic (spec §4.7 step 1): this read's blocking
	// duration (t2-t1) stands in for the inter-byte arrival gap. A gap
	// under the threshold, on a non-Enter byte with the cursor at
	// end-of-buffer, is treated as paste input and echoed raw without a
	// full refresh — human typing is assumed slower than the threshold.
	if c != '\n' && c != '\r' && s.st.pos == s.st.Len() && t2-t1 < s.pasteThresholdMs() {
		if s.st.Insert(c) {
			out := c
			if s.opts.MaskMode {
				out = '*'
			}
			s.locker.Lock()
			if _, err := s.out.Write([]byte{out}); err != nil {
				s.opts.logger().Printf("lineedit: echoing pasted byte: %s", err)
			}
			s.locker.Unlock()
		}
		return "", false, nil
	}

	return s.dispatch(c)
}

func (s *Session) pasteThresholdMs() int64 {
	return s.opts.PasteThreshold.Milliseconds()
}

// feedDumb implements the degraded "echo and collect until newline" path
// (spec §4.7's "Dumb mode"): no refresh, no escape parsing, no
// completion, primitive single-character backspace.
func (s *Session) feedDumb() (line string, ok bool, err error) {
	c, rerr := s.in.ReadByte()
	if rerr != nil {
		return "", false, fmt.Errorf("lineedit: reading input: %w", rerr)
	}

	switch {
	case c == '\n' || c == '\r':
		line = s.st.String()
		s.history.popWorking()
		if line != "" {
			s.history.Add(line)
		}
		s.locker.Lock()
		io.WriteString(s.out, "\r\n")
		s.locker.Unlock()
		return line, true, nil
	case c == 0x03:
		s.history.popWorking()
		return "", false, ErrInterrupted
	case c == 0x04:
		if s.st.Len() > 0 {
			s.st.DeleteForward()
			return "", false, nil
		}
		s.history.popWorking()
		return "", false, ErrEOF
	case c == 0x7F || c == 0x08:
		if s.st.Backspace() {
			s.locker.Lock()
			io.WriteString(s.out, "\b \b")
			s.locker.Unlock()
		}
		return "", false, nil
	case c >= 0x1C && c <= 0x1F:
		return "", false, nil
	default:
		s.st.Insert(c)
		s.locker.Lock()
		s.out.Write([]byte{c})
		s.locker.Unlock()
		return "", false, nil
	}
}

// ReadLine is the blocking one-shot convenience API: it arms the
// editor, feeds it until a terminal result, and releases it.
func (s *Session) ReadLine(prompt string) (string, error) {
	if err := s.Start(prompt); err != nil {
		return "", err
	}
	defer s.Stop()
	for {
		line, ok, err := s.Feed()
		if err != nil {
			return "", err
		}
		if ok {
			return line, nil
		}
	}
}
