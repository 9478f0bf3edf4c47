package line

import "strconv"

// writeHint renders the host's hint callback result, clipped to the
// remaining columns, wrapped in an SGR escape, per spec §4.5. Hints are
// suppressed on the final Enter-refresh by the caller passing
// suppressHint=true to refresh (see refresh.go), so the accepted line is
// left in its natural appearance.
func writeHint(a *assembler, opts *Options, buf []byte, promptWidth, drawnLen, cols int) {
	if opts.HintFunc == nil {
		return
	}
	hint, color, bold := opts.HintFunc(buf)
	if hint == "" {
		return
	}
	avail := cols - (promptWidth + drawnLen)
	if avail <= 0 {
		return
	}
	if len(hint) > avail {
		hint = hint[:avail]
	}
	a.str("\x1b[" + strconv.Itoa(bold) + ";" + strconv.Itoa(color) + "m")
	a.str(hint)
	a.str("\x1b[0m")
}
