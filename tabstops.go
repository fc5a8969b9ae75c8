package parinfer

// tabStop is the internal record of an indentation stop derived from
// an open paren visible from the cursor line.
type tabStop struct {
	ch     string
	x      int
	lineNo int
	argX   int
}

func makeTabStop(op *opener) tabStop {
	return tabStop{
		ch:     op.ch,
		x:      op.x,
		lineNo: op.lineNo,
		argX:   op.argX,
	}
}

// tabStopLine is the line whose open parens produce tab stops: the
// selection start when present, otherwise the cursor line.
func (r *result) tabStopLine() int {
	if r.selectionStartLine != unset {
		return r.selectionStartLine
	}
	return r.cursorLine
}

// setTabStops collects tab stops when the cursor or selection sits on
// the line about to be processed. Paren Mode also offers the openers
// already closed by the pending trail, since indenting past them
// would reopen them.
func (r *result) setTabStops() {
	if r.tabStopLine() != r.lineNo {
		return
	}

	for _, op := range r.parenStack {
		r.tabStops = append(r.tabStops, makeTabStop(op))
	}

	if r.mode == modeParen {
		for i := len(r.parenTrail.openers) - 1; i >= 0; i-- {
			r.tabStops = append(r.tabStops, makeTabStop(r.parenTrail.openers[i]))
		}
	}

	// drop an argX that falls at or beyond the next stop
	for i := 1; i < len(r.tabStops); i++ {
		x := r.tabStops[i].x
		prev := &r.tabStops[i-1]
		if prev.argX != unset && prev.argX >= x {
			prev.argX = unset
		}
	}
}
