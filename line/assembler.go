package line

import (
	"bytes"
	"io"
)

// assembler batches one full screen refresh into a single write, per
// spec §4.2: on slow channels, per-byte writes with intervening cursor
// moves produce visible flicker, so every refresh operation appends to
// one buffer and the session issues a single Write at the end.
type assembler struct {
	buf bytes.Buffer
}

func (a *assembler) str(s string) { a.buf.WriteString(s) }
func (a *assembler) bytes(b []byte) { a.buf.Write(b) }
func (a *assembler) byte(b byte) { a.buf.WriteByte(b) }

// flush writes the accumulated bytes to w in one call and resets the
// assembler for reuse.
func (a *assembler) flush(w io.Writer) error {
	if a.buf.Len() == 0 {
		return nil
	}
	_, err := w.Write(a.buf.Bytes())
	a.buf.Reset()
	return err
}
