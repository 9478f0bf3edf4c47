package rawterm

import "testing"

// RawMode/Restore/IsTerminal/IoctlWidth wrap golang.org/x/term and
// golang.org/x/sys/unix calls that require a real file descriptor backed
// by a pty; they are exercised in integration, not here. Restore's nil
// guard is plain Go and worth covering directly.
func TestRestoreNilStateIsNoop(t *testing.T) {
	if err := Restore(0, nil); err != nil {
		t.Fatalf("Restore(fd, nil) = %v, want nil", err)
	}
}
