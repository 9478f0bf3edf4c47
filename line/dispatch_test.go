package line

import (
	"bytes"
	"testing"
)

// newTestSession builds a Session over a fixed byte sequence with a
// monotonically increasing fake clock, keeping every read comfortably
// above the paste-burst threshold so dispatch() (not the paste path)
// handles every byte unless a test says otherwise.
func newTestSession(input string, opts *Options, hist *History) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	if opts == nil {
		opts = DefaultOptions()
	}
	if hist == nil {
		hist = NewHistory(DefaultHistoryMaxLen)
	}
	var tick int64
	clock := func() int64 {
		tick += 50
		return tick
	}
	s := NewSession(bytes.NewReader([]byte(input)), &out, 80, opts, hist, WithClock(clock))
	return s, &out
}

func TestReadLineBasic(t *testing.T) {
	s, _ := newTestSession("hello\n", nil, nil)
	line, err := s.ReadLine("")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "hello" {
		t.Fatalf("line = %q, want hello", line)
	}
	if got := s.History().Entries(); len(got) != 1 || got[0] != "hello" {
		t.Fatalf("history = %v, want [hello]", got)
	}
}

func TestReadLineHomeAndEnd(t *testing.T) {
	s, _ := newTestSession("hi\x01\x05\n", nil, nil)
	line, err := s.ReadLine("")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "hi" {
		t.Fatalf("line = %q, want hi", line)
	}
}

func TestReadLineBackspaceTwice(t *testing.T) {
	s, _ := newTestSession("abc\x7f\x7f\n", nil, nil)
	line, err := s.ReadLine("")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "a" {
		t.Fatalf("line = %q, want a", line)
	}
}

func TestReadLineLeftArrowThenInsert(t *testing.T) {
	// type "foo", ESC [ D (left arrow), then "x": cursor moves from the
	// end before the final 'o', so the insert lands as "fox" + trailing
	// "o" -> "foxo".
	s, _ := newTestSession("foo\x1b[Dx\n", nil, nil)
	line, err := s.ReadLine("")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "foxo" {
		t.Fatalf("line = %q, want foxo", line)
	}
}

func TestReadLineSequentialCalls(t *testing.T) {
	s, _ := newTestSession("one\ntwo\nthree\n", nil, nil)
	for _, want := range []string{"one", "two", "three"} {
		got, err := s.ReadLine("")
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Fatalf("line = %q, want %q", got, want)
		}
	}
	if got := s.History().Entries(); len(got) != 3 {
		t.Fatalf("history = %v, want 3 entries", got)
	}
}

func TestReadLineMultiLineWrap(t *testing.T) {
	opts := DefaultOptions()
	opts.MultiLine = true
	var out bytes.Buffer
	var tick int64
	clock := func() int64 { tick += 50; return tick }
	s := NewSession(bytes.NewReader([]byte("abcdefghij\n")), &out, 10, opts, nil, WithClock(clock))

	line, err := s.ReadLine("> ")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "abcdefghij" {
		t.Fatalf("line = %q, want abcdefghij", line)
	}
	if s.State().oldRows != 2 {
		t.Fatalf("oldRows = %d, want 2", s.State().oldRows)
	}
}

func TestCtrlCInterrupts(t *testing.T) {
	s, _ := newTestSession("ab\x03", nil, nil)
	_, err := s.ReadLine("")
	if err != ErrInterrupted {
		t.Fatalf("err = %v, want ErrInterrupted", err)
	}
	if got := s.History().Len(); got != 0 {
		t.Fatalf("history len = %d, want 0 (working slot popped)", got)
	}
}

func TestCtrlDOnEmptyBufferIsEOF(t *testing.T) {
	s, _ := newTestSession("\x04", nil, nil)
	_, err := s.ReadLine("")
	if err != ErrEOF {
		t.Fatalf("err = %v, want ErrEOF", err)
	}
}

func TestCtrlDDeletesForwardWhenBufferNonEmpty(t *testing.T) {
	// "ab", move to start (Ctrl-A), Ctrl-D deletes 'a', then Enter.
	s, _ := newTestSession("ab\x01\x04\n", nil, nil)
	line, err := s.ReadLine("")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "b" {
		t.Fatalf("line = %q, want b", line)
	}
}

func TestHistoryNavigation(t *testing.T) {
	hist := NewHistory(10)
	hist.Add("first")
	// Ctrl-P recalls "first", Enter accepts it unmodified.
	s, _ := newTestSession("\x10\n", nil, hist)
	line, err := s.ReadLine("")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "first" {
		t.Fatalf("line = %q, want first", line)
	}
}

func TestEmptyEnterDoesNotGrowHistory(t *testing.T) {
	s, _ := newTestSession("\n", nil, nil)
	line, err := s.ReadLine("")
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if line != "" {
		t.Fatalf("line = %q, want empty", line)
	}
	if got := s.History().Len(); got != 0 {
		t.Fatalf("history len = %d, want 0", got)
	}
}
