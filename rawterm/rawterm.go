// Package rawterm is the terminal I/O shim described in spec §4.1: a
// thin wrapper over the host's byte channels and clock, raw-mode
// setup/teardown, and terminal width measurement.
//
// It is deliberately the only package in this module that touches an
// OS file descriptor or a real third-party terminal library — the line
// package above it only ever sees io.Reader/io.Writer and a millisecond
// clock, exactly the external-collaborator boundary spec §1 draws.
//
// Grounded on kylelemons-goat/termios (TermSettings.Raw/.Reset) and
// goat.go's termios.NewTermSettings(0)+defer tio.Reset() call shape, but
// built on golang.org/x/term and golang.org/x/sys/unix instead of the
// teacher's hand-rolled, pre-Go1 syscall code (see DESIGN.md).
package rawterm

import (
	"fmt"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// RawMode puts fd into raw mode and returns a State that Restore can use
// to put it back, mirroring the teacher's Raw()/Reset() pairing.
func RawMode(fd int) (*term.State, error) {
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("rawterm: entering raw mode: %w", err)
	}
	return old, nil
}

// Restore reverts fd to the state captured by RawMode.
func Restore(fd int, old *term.State) error {
	if old == nil {
		return nil
	}
	if err := term.Restore(fd, old); err != nil {
		return fmt.Errorf("rawterm: restoring terminal state: %w", err)
	}
	return nil
}

// IsTerminal reports whether fd refers to a terminal, the same check
// the teacher's goat.go implicitly assumed by running unconditionally —
// hosts should gate raw-mode setup on this.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// IoctlWidth queries the terminal width via TIOCGWINSZ, the "ioctl-style
// host call" spec §4.1 says to try first. It returns an error on
// channels with no underlying file descriptor (e.g. a UART/USB-CDC
// byte channel), in which case the caller should fall back to the DSR
// probe in channel.go.
func IoctlWidth(fd int) (cols int, err error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, fmt.Errorf("rawterm: ioctl TIOCGWINSZ: %w", err)
	}
	if ws.Col == 0 {
		return 0, fmt.Errorf("rawterm: ioctl reported zero columns")
	}
	return int(ws.Col), nil
}
