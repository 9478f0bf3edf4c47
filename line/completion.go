package line

// The completion engine cooperates with the input dispatcher (spec
// §4.6): on TAB it cycles through host-provided candidates, ESC cancels,
// and any other key commits the current candidate and is handed back to
// the dispatcher for normal processing. Grounded on the retrieved
// peterh/liner tabComplete/circularTabs functions, generalized into the
// cached-per-cycle contract called for by the REDESIGN FLAG in spec §9
// ("the completion callback is invoked twice per TAB cycle... a rewrite
// should cache the list for the duration of the cycle").

// completionOutcome is the explicit consumed-or-passthrough result the
// "Completion return-byte protocol" design note asks for, instead of a
// sentinel zero byte.
type completionOutcome struct {
	Consumed    bool
	Passthrough byte
	NeedRefresh bool
	Bell        bool
}

// startCompletion begins a new TAB cycle, fetching the candidate list
// exactly once. It reports whether a cycle was actually entered (false
// if the list came back empty, in which case the caller should beep).
func startCompletion(st *EditState, opts *Options) bool {
	if opts.Completer == nil {
		return false
	}
	list := opts.Completer(st.buf, st.pos)
	if len(list) == 0 {
		return false
	}
	st.inCompletion = true
	st.completionIdx = 0
	st.completionList = list
	return true
}

// advanceCompletion moves to the next candidate in the cached list,
// wrapping onto the "original buffer" slot (index == len(list)) before
// wrapping back to the first candidate.
func advanceCompletion(st *EditState) (onOriginal bool) {
	st.completionIdx = (st.completionIdx + 1) % (len(st.completionList) + 1)
	return st.completionIdx == len(st.completionList)
}

// cancelCompletion ends the cycle without mutating the real buffer.
func cancelCompletion(st *EditState) {
	st.inCompletion = false
	st.completionList = nil
	st.completionIdx = 0
}

// completionView returns the buffer/pos the refresh engine should draw
// for the current point in the cycle: either the candidate at the
// current index, or the untouched real buffer when the index has landed
// on the "original" slot. The real EditState is never mutated by this.
func completionView(st *EditState) (buf []byte, pos int) {
	if st.completionIdx >= len(st.completionList) {
		return st.buf, st.pos
	}
	cand := st.completionList[st.completionIdx]
	return []byte(cand), len(cand)
}

// commitCompletion copies the currently displayed candidate into the
// real buffer (unless the cursor is on the "original" slot, in which
// case the real buffer is left untouched) and ends the cycle.
func commitCompletion(st *EditState) {
	if st.completionIdx < len(st.completionList) {
		st.setBuffer([]byte(st.completionList[st.completionIdx]))
	}
	cancelCompletion(st)
}

// handleCompletionByte implements the full TAB-cycle protocol for one
// incoming byte, called by the dispatcher whenever a cycle is active or
// the byte is TAB and a completer is registered.
func handleCompletionByte(st *EditState, opts *Options, c byte) completionOutcome {
	const tab = 0x09
	const escByte = 0x1B

	if !st.inCompletion {
		if c != tab {
			return completionOutcome{Consumed: false, Passthrough: c}
		}
		if !startCompletion(st, opts) {
			return completionOutcome{Consumed: true, Bell: true}
		}
		return completionOutcome{Consumed: true, NeedRefresh: true}
	}

	switch c {
	case tab:
		onOriginal := advanceCompletion(st)
		return completionOutcome{Consumed: true, NeedRefresh: true, Bell: onOriginal}
	case escByte:
		cancelCompletion(st)
		return completionOutcome{Consumed: true, NeedRefresh: true}
	default:
		commitCompletion(st)
		return completionOutcome{Consumed: false, Passthrough: c}
	}
}
