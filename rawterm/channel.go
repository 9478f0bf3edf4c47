package rawterm

import (
	"bufio"
	"io"
	"strconv"
	"time"
)

// flusher is satisfied by an io.Writer that buffers and needs an
// explicit drain — bufio.Writer, or a UART/USB-CDC wrapper that holds
// data until flushed, per spec §4.1's "guaranteed flush" requirement.
type flusher interface {
	Flush() error
}

// deadlineReader is satisfied by readers that support a non-blocking
// read via a deadline (e.g. *os.File on a tty, or a net.Conn). Probe
// needs this to bound its wait; channels that don't support it get an
// explicit "unsupported" result rather than a false "no" (the bug fix
// called for in spec §9's last design note).
type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// Probe result codes. ProbeOK/ProbeFailed match spec §4.1 (0 on success,
// negative on timeout/I/O failure); ProbeUnsupported is the rewrite's
// addition for channels that can't be read with a deadline at all.
const (
	ProbeOK          = 0
	ProbeFailed      = -1
	ProbeUnsupported = -2
)

// Channel bundles a session's input, output, a millisecond clock, and
// (optionally) the file descriptor backing them, playing the role of
// spec §4.1's terminal I/O shim. It implements both io.Reader and
// io.ByteReader so it can be passed directly as the input channel to
// line.NewSession.
type Channel struct {
	raw io.Reader
	r   *bufio.Reader
	out io.Writer
	fd  int // -1 if this channel has no backing OS file descriptor
}

// NewChannel wraps in/out for the given descriptor. Pass fd=-1 for
// channels with no OS file descriptor (e.g. a UART byte stream), which
// forces width measurement onto the DSR fallback instead of ioctl.
func NewChannel(in io.Reader, out io.Writer, fd int) *Channel {
	return &Channel{
		raw: in,
		r:   bufio.NewReader(in),
		out: out,
		fd:  fd,
	}
}

// Read satisfies io.Reader.
func (c *Channel) Read(p []byte) (int, error) { return c.r.Read(p) }

// ReadByte satisfies io.ByteReader, the one-byte-at-a-time read the
// input dispatcher performs per spec §4.7.
func (c *Channel) ReadByte() (byte, error) { return c.r.ReadByte() }

// Write writes b and, if the underlying writer buffers, flushes it
// immediately — some UART/USB-CDC channels otherwise hold data
// indefinitely (spec §4.1).
func (c *Channel) Write(b []byte) (int, error) {
	n, err := c.out.Write(b)
	if err != nil {
		return n, err
	}
	if f, ok := c.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Millis returns the current time in milliseconds, usable as the
// paste-burst clock passed to line.WithClock (spec §4.1, §4.7).
func (c *Channel) Millis() int64 { return time.Now().UnixMilli() }

// Width measures the terminal width: an ioctl-style query first (spec
// §4.1, "try an ioctl-style host call first if available"), falling
// back to the two-step DSR probe, and finally to 80 columns on any
// parse failure.
func (c *Channel) Width() int {
	if c.fd >= 0 {
		if cols, err := IoctlWidth(c.fd); err == nil {
			return cols
		}
	}
	if cols, ok := c.widthByDSR(); ok {
		return cols
	}
	return 80
}

// widthByDSR implements the two-step probe: query cursor position,
// move as far right as possible (which the terminal clips to the right
// margin), re-query, and restore the cursor — the "999C" step is
// necessary because it clips at the margin instead of overrunning it.
func (c *Channel) widthByDSR() (int, bool) {
	if _, err := c.out.Write([]byte("\x1b[6n")); err != nil {
		return 0, false
	}
	_, col1, ok := c.readCursorReport()
	if !ok {
		return 0, false
	}

	if _, err := c.out.Write([]byte("\x1b[999C")); err != nil {
		return 0, false
	}
	if _, err := c.out.Write([]byte("\x1b[6n")); err != nil {
		return 0, false
	}
	_, col2, ok := c.readCursorReport()
	if !ok {
		return 0, false
	}

	if delta := col2 - col1; delta > 0 {
		c.out.Write([]byte("\x1b[" + strconv.Itoa(delta) + "D"))
	}
	return col2, true
}

// readCursorReport parses an ESC [ row ; col R device status report.
func (c *Channel) readCursorReport() (row, col int, ok bool) {
	if b, err := c.r.ReadByte(); err != nil || b != 0x1B {
		return 0, 0, false
	}
	if b, err := c.r.ReadByte(); err != nil || b != '[' {
		return 0, 0, false
	}
	rowDigits, err := c.readDigitsUntil(';')
	if err != nil {
		return 0, 0, false
	}
	colDigits, err := c.readDigitsUntil('R')
	if err != nil {
		return 0, 0, false
	}
	row, rerr := strconv.Atoi(string(rowDigits))
	col, cerr := strconv.Atoi(string(colDigits))
	if rerr != nil || cerr != nil {
		return 0, 0, false
	}
	return row, col, true
}

func (c *Channel) readDigitsUntil(terminator byte) ([]byte, error) {
	var digits []byte
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == terminator {
			return digits, nil
		}
		if b < '0' || b > '9' {
			return nil, io.ErrUnexpectedEOF
		}
		digits = append(digits, b)
	}
}

// Probe writes an ESC [ 5 n device status query in non-blocking mode and
// waits up to 500ms for a 4-byte ESC [ 0 n / ESC [ 3 n response,
// returning ProbeOK, ProbeFailed, or ProbeUnsupported if the channel
// can't be read with a deadline at all (spec §4.1, with the §9 fix
// distinguishing "can't tell" from "no").
func (c *Channel) Probe() int {
	if _, err := c.out.Write([]byte("\x1b[5n")); err != nil {
		return ProbeFailed
	}

	dr, ok := c.raw.(deadlineReader)
	if !ok {
		return ProbeUnsupported
	}
	if err := dr.SetReadDeadline(time.Now().Add(500 * time.Millisecond)); err != nil {
		return ProbeUnsupported
	}
	defer dr.SetReadDeadline(time.Time{})

	var resp [4]byte
	for i := range resp {
		b, err := c.r.ReadByte()
		if err != nil {
			return ProbeFailed
		}
		resp[i] = b
	}
	if resp[0] == 0x1B && resp[1] == '[' && resp[3] == 'n' && (resp[2] == '0' || resp[2] == '3') {
		return ProbeOK
	}
	return ProbeFailed
}
