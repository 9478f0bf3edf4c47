package line

import "testing"

func TestInsertBackspaceDeleteMove(t *testing.T) {
	e := newEditState("", 80, 64)

	for _, c := range []byte("hello") {
		if !e.Insert(c) {
			t.Fatalf("Insert(%q) failed", c)
		}
	}
	if got := e.String(); got != "hello" {
		t.Fatalf("buffer = %q, want hello", got)
	}
	if !e.checkInvariants() {
		t.Fatalf("invariants violated after inserts: %+v", e)
	}

	if !e.MoveLeft() || !e.MoveLeft() {
		t.Fatal("MoveLeft failed")
	}
	if e.pos != 3 {
		t.Fatalf("pos = %d, want 3", e.pos)
	}

	if !e.Backspace() {
		t.Fatal("Backspace failed")
	}
	if got := e.String(); got != "helo" {
		t.Fatalf("buffer after backspace = %q, want helo", got)
	}

	// buffer is "helo", pos=2 ("he|lo"); delete-forward removes the 'l'
	if !e.DeleteForward() {
		t.Fatal("DeleteForward failed")
	}
	if got := e.String(); got != "heo" {
		t.Fatalf("buffer after delete-forward = %q, want heo", got)
	}
}

func TestInsertAtCapacityIsNoop(t *testing.T) {
	e := newEditState("", 80, 64)
	for i := 0; i < 63; i++ {
		if !e.Insert('x') {
			t.Fatalf("insert %d should have succeeded", i)
		}
	}
	pos, length := e.pos, len(e.buf)
	if e.Insert('y') {
		t.Fatal("insert at capacity should be a no-op")
	}
	if e.pos != pos || len(e.buf) != length {
		t.Fatal("state changed on a no-op insert")
	}
	if !e.checkInvariants() {
		t.Fatal("invariants violated at capacity")
	}
}

func TestBackspaceAtStartIsNoop(t *testing.T) {
	e := newEditState("", 80, 64)
	e.Insert('a')
	e.MoveLeft()
	if e.Backspace() {
		t.Fatal("backspace at pos 0 should be a no-op")
	}
}

func TestDeleteForwardAtEndIsNoop(t *testing.T) {
	e := newEditState("", 80, 64)
	e.Insert('a')
	if e.DeleteForward() {
		t.Fatal("delete-forward at end should be a no-op")
	}
}

func TestTranspose(t *testing.T) {
	e := newEditState("", 80, 64)
	for _, c := range []byte("ab") {
		e.Insert(c)
	}
	// buffer "ab", pos=2 (end)
	if !e.Transpose() {
		t.Fatal("transpose failed")
	}
	if got := e.String(); got != "ba" {
		t.Fatalf("buffer = %q, want ba", got)
	}
}

func TestKillOperations(t *testing.T) {
	e := newEditState("", 80, 64)
	for _, c := range []byte("hello world") {
		e.Insert(c)
	}
	e.pos = 5 // "hello| world"
	if !e.KillToEnd() {
		t.Fatal("KillToEnd failed")
	}
	if got := e.String(); got != "hello" {
		t.Fatalf("buffer = %q, want hello", got)
	}

	e2 := newEditState("", 80, 64)
	for _, c := range []byte("hello") {
		e2.Insert(c)
	}
	if !e2.KillLine() {
		t.Fatal("KillLine failed")
	}
	if e2.Len() != 0 || e2.pos != 0 {
		t.Fatal("KillLine should empty the buffer and reset pos")
	}

	e3 := newEditState("", 80, 64)
	for _, c := range []byte("foo bar  baz") {
		e3.Insert(c)
	}
	// pos at end; kill-prev-word removes "baz" (no trailing space before cursor)
	if !e3.KillPrevWord() {
		t.Fatal("KillPrevWord failed")
	}
	if got := e3.String(); got != "foo bar  " {
		t.Fatalf("buffer = %q, want %q", got, "foo bar  ")
	}
	if !e3.KillPrevWord() {
		t.Fatal("KillPrevWord (spaces+word) failed")
	}
	if got := e3.String(); got != "foo " {
		t.Fatalf("buffer = %q, want %q", got, "foo ")
	}
}

func TestSetBufferTruncatesToCap(t *testing.T) {
	e := newEditState("", 80, 8) // clamped to the 64-byte floor: maxLen=64
	e.setBuffer(make([]byte, 70))
	if len(e.buf) != 63 { // maxLen-1
		t.Fatalf("len = %d, want 63", len(e.buf))
	}
	if e.pos != len(e.buf) {
		t.Fatalf("pos = %d, want %d", e.pos, len(e.buf))
	}
}
