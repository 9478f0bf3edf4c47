package line

import "strconv"

// The refresh engine converts edit state plus a RefreshMode into a
// sequence of ANSI operations (spec §4.3). Two strategies exist,
// selected by Options.MultiLine; both are grounded on the retrieved
// peterh/liner refreshSingleLine/refreshMultiLine functions, the closest
// domain analogue in the pack, generalized from runes to bytes per the
// editor's byte-is-a-column non-goal.

func esc(a *assembler, s string) { a.str("\x1b[" + s) }

func cursorForward(a *assembler, n int) {
	if n > 0 {
		esc(a, strconv.Itoa(n)+"C")
	}
}

func cursorBack(a *assembler, n int) {
	if n > 0 {
		esc(a, strconv.Itoa(n)+"D")
	}
}

func cursorUp(a *assembler, n int) {
	if n > 0 {
		esc(a, strconv.Itoa(n)+"A")
	}
}

func cursorDown(a *assembler, n int) {
	if n > 0 {
		esc(a, strconv.Itoa(n)+"B")
	}
}

func eraseToEOL(a *assembler) { esc(a, "0K") }

// refresh dispatches to the single-line or multi-line strategy and
// updates old_pos/old_rows, per spec §4.3's closing "Store" step.
func refresh(a *assembler, st *EditState, opts *Options, mode RefreshMode, suppressHint bool) {
	if opts.MultiLine {
		multiLineRefresh(a, st, opts, mode, suppressHint)
	} else {
		singleLineRefresh(a, st, opts, mode, suppressHint)
	}
}

// visibleWindow implements the horizontal-scroll-then-clip step shared
// by the single-line strategy: while p+pos >= cols, drop the leading
// byte of the window; then clip trailing bytes until p+len <= cols.
func visibleWindow(p int, buf []byte, pos, cols int) (window []byte, visPos int) {
	start, visLen, visPos := 0, len(buf), pos
	for p+visPos >= cols && visLen > 0 {
		start++
		visLen--
		visPos--
	}
	for p+visLen > cols && visLen > 0 {
		visLen--
	}
	if start > len(buf) {
		start = len(buf)
	}
	end := start + visLen
	if end > len(buf) {
		end = len(buf)
	}
	return buf[start:end], visPos
}

func singleLineRefresh(a *assembler, st *EditState, opts *Options, mode RefreshMode, suppressHint bool) {
	window, visPos := visibleWindow(st.promptWidth, st.buf, st.pos, st.cols)

	a.str("\r")
	if mode&RefreshWrite != 0 {
		a.str(st.prompt)
		if opts.MaskMode {
			for i := 0; i < len(window); i++ {
				a.byte('*')
			}
		} else {
			a.bytes(window)
		}
		if !suppressHint {
			writeHint(a, opts, st.buf, st.promptWidth, len(window), st.cols)
		}
	}
	eraseToEOL(a)
	if mode&RefreshWrite != 0 {
		a.str("\r")
		cursorForward(a, visPos+st.promptWidth)
	}

	st.oldPos = st.pos
	st.oldRows = 1
}

func multiLineRefresh(a *assembler, st *EditState, opts *Options, mode RefreshMode, suppressHint bool) {
	p, cols := st.promptWidth, st.cols
	rows := (p + len(st.buf) + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}

	if mode&RefreshClean != 0 {
		rpos := (p + st.oldPos + cols) / cols
		if st.oldRows-rpos > 0 {
			cursorDown(a, st.oldRows-rpos)
		}
		for i := 0; i < st.oldRows-1; i++ {
			a.str("\r")
			eraseToEOL(a)
			cursorUp(a, 1)
		}
		a.str("\r")
		eraseToEOL(a)
	}

	if mode&RefreshWrite != 0 {
		a.str(st.prompt)
		if opts.MaskMode {
			for i := 0; i < len(st.buf); i++ {
				a.byte('*')
			}
		} else {
			a.bytes(st.buf)
		}
		if !suppressHint {
			writeHint(a, opts, st.buf, p, len(st.buf), cols)
		}

		if st.pos == len(st.buf) && (st.pos+p)%cols == 0 {
			a.str("\n\r")
			rows++
		}

		rpos2 := (p + st.pos + cols) / cols
		if rows-rpos2 > 0 {
			cursorUp(a, rows-rpos2)
		}
		col := (p + st.pos) % cols
		a.str("\r")
		cursorForward(a, col)
	}

	st.oldRows = rows
	st.oldPos = st.pos
}
