package parinfer

import "strings"

// Cursor position predicates. All coordinates here are 0-based
// internal columns; unset compares false.

func (r *result) isCursorLeftOf(cursorX, cursorLine, x, lineNo int) bool {
	return cursorLine == lineNo &&
		x != unset &&
		cursorX != unset &&
		cursorX <= x
}

func (r *result) isCursorRightOf(cursorX, cursorLine, x, lineNo int) bool {
	return cursorLine == lineNo &&
		x != unset &&
		cursorX != unset &&
		cursorX > x
}

func (r *result) isCursorInComment(cursorX, cursorLine int) bool {
	return r.isCursorRightOf(cursorX, cursorLine, r.commentX, r.lineNo)
}

// resetParenTrail restarts the trail at (lineNo, x). Called after every
// character that could end a list element, and when a cursor hold or a
// Paren Mode leading close-paren restarts the trail. A new line does
// not reset it: the previous line's trail stays in place until the
// next indentation corrects it.
func (r *result) resetParenTrail(lineNo, x int) {
	r.parenTrail.lineNo = lineNo
	r.parenTrail.startX = x
	r.parenTrail.endX = x
	r.parenTrail.openers = nil
	r.parenTrail.clamped.startX = unset
	r.parenTrail.clamped.endX = unset
	r.parenTrail.clamped.openers = nil
}

func (r *result) isCursorClampingParenTrail() bool {
	return r.isCursorRightOf(r.cursorX, r.cursorLine, r.parenTrail.startX, r.parenTrail.lineNo) &&
		!r.isCursorInComment(r.cursorX, r.cursorLine)
}

// clampParenTrailToCursor keeps close-parens left of the cursor in
// place by moving the trail's visible extent forward to the cursor.
// The clamped prefix is preserved for the remembered trail.
func (r *result) clampParenTrailToCursor() {
	startX := r.parenTrail.startX
	endX := r.parenTrail.endX

	if !r.isCursorClampingParenTrail() {
		return
	}

	newStartX := maxInt(startX, r.cursorX)
	newEndX := maxInt(endX, r.cursorX)

	line := []rune(r.lines[r.lineNo])
	removeCount := 0
	for i := startX; i < newStartX && i < len(line); i++ {
		if isCloseParen(string(line[i])) {
			removeCount++
		}
	}

	openers := r.parenTrail.openers

	r.parenTrail.openers = openers[removeCount:]
	r.parenTrail.startX = newStartX
	r.parenTrail.endX = newEndX

	r.parenTrail.clamped.openers = openers[:removeCount]
	r.parenTrail.clamped.startX = startX
	r.parenTrail.clamped.endX = endX
}

// popParenTrail returns the trail's openers to the paren stack
// (Indent Mode per-line finalize).
func (r *result) popParenTrail() {
	startX := r.parenTrail.startX
	endX := r.parenTrail.endX

	if startX == endX {
		return
	}

	openers := r.parenTrail.openers
	for len(openers) > 0 {
		r.parenStack = append(r.parenStack, openers[len(openers)-1])
		openers = openers[:len(openers)-1]
	}
	r.parenTrail.openers = nil
}

// correctParenTrail rewrites the current paren trail to close every
// opener that no longer claims a line at indentX (Indent Mode).
func (r *result) correctParenTrail(indentX int) {
	var parens strings.Builder

	index := r.getParentOpenerIndex(indentX)
	for i := 0; i < index; i++ {
		op := peek(r.parenStack, 0)
		r.parenStack = r.parenStack[:len(r.parenStack)-1]
		r.parenTrail.openers = append(r.parenTrail.openers, op)
		closeCh := matchParen[op.ch]
		parens.WriteString(closeCh)

		if r.returnParens {
			setCloser(op, r.parenTrail.lineNo, r.parenTrail.startX+i, closeCh)
		}
	}

	if r.parenTrail.lineNo != unset {
		r.replaceWithinLine(r.parenTrail.lineNo, r.parenTrail.startX, r.parenTrail.endX, parens.String())
		r.parenTrail.endX = r.parenTrail.startX + parens.Len()
		r.rememberParenTrail()
	}
}

// cleanParenTrail removes whitespace mixed into the trail (Paren Mode
// per-line finalize).
func (r *result) cleanParenTrail() {
	startX := r.parenTrail.startX
	endX := r.parenTrail.endX

	if startX == endX || r.lineNo != r.parenTrail.lineNo {
		return
	}

	line := []rune(r.lines[r.lineNo])
	var newTrail strings.Builder
	spaceCount := 0
	for i := startX; i < endX && i < len(line); i++ {
		if isCloseParen(string(line[i])) {
			newTrail.WriteRune(line[i])
		} else {
			spaceCount++
		}
	}

	if spaceCount > 0 {
		r.replaceWithinLine(r.lineNo, startX, endX, newTrail.String())
		r.parenTrail.endX -= spaceCount
	}
}

// appendParenTrail closes the top opener at the end of the current
// trail (Paren Mode leading close-paren path).
func (r *result) appendParenTrail() {
	op := peek(r.parenStack, 0)
	r.parenStack = r.parenStack[:len(r.parenStack)-1]
	closeCh := matchParen[op.ch]
	if r.returnParens {
		setCloser(op, r.parenTrail.lineNo, r.parenTrail.endX, closeCh)
	}

	r.setMaxIndent(op)
	r.insertWithinLine(r.parenTrail.lineNo, r.parenTrail.endX, closeCh)

	r.parenTrail.endX++
	r.parenTrail.openers = append(r.parenTrail.openers, op)
	r.updateRememberedParenTrail()
}

func (r *result) invalidateParenTrail() {
	r.parenTrail = initialParenTrail()
}

// checkUnmatchedOutsideParenTrail raises the stray close-paren cached
// during the line if it sits before the line's final trail.
func (r *result) checkUnmatchedOutsideParenTrail() error {
	if cache, ok := r.errorPosCache[ErrUnmatchedCloseParen]; ok && cache.x < r.parenTrail.startX {
		return r.raise(ErrUnmatchedCloseParen)
	}
	return nil
}

// checkLeadingCloseParen raises the leading close-paren cached during
// the line when the line carries real code after it.
func (r *result) checkLeadingCloseParen() error {
	if _, ok := r.errorPosCache[ErrLeadingCloseParen]; ok && r.parenTrail.lineNo == r.lineNo {
		return r.raise(ErrLeadingCloseParen)
	}
	return nil
}

// setMaxIndent records how far children of the enclosing opener may
// be indented now that op has closed.
func (r *result) setMaxIndent(op *opener) {
	if op == nil {
		return
	}
	if parent := peekSafe(r.parenStack, 0); parent != nil {
		parent.maxChildIndent = op.x
	} else {
		r.maxIndent = op.x
	}
}

// rememberParenTrail exports the completed trail for editors that
// highlight them, using clamped extents when the cursor held part of
// the trail in place.
func (r *result) rememberParenTrail() {
	trail := &r.parenTrail
	openers := make([]*opener, 0, len(trail.clamped.openers)+len(trail.openers))
	openers = append(openers, trail.clamped.openers...)
	openers = append(openers, trail.openers...)
	if len(openers) == 0 {
		return
	}

	isClamped := trail.clamped.startX != unset
	allClamped := len(trail.openers) == 0
	span := trailSpan{
		lineNo: trail.lineNo,
		startX: trail.startX,
		endX:   trail.endX,
	}
	if isClamped {
		span.startX = trail.clamped.startX
	}
	if allClamped {
		span.endX = trail.clamped.endX
	}
	r.parenTrails = append(r.parenTrails, span)

	if r.returnParens {
		idx := len(r.parenTrails) - 1
		for _, op := range openers {
			if op.closer != nil {
				op.closer.trailIndex = idx
			}
		}
	}
}

// updateRememberedParenTrail extends the most recent remembered trail
// when it belongs to the current line, otherwise remembers a new one.
func (r *result) updateRememberedParenTrail() {
	n := len(r.parenTrails)
	if n == 0 || r.parenTrails[n-1].lineNo != r.parenTrail.lineNo {
		r.rememberParenTrail()
		return
	}
	r.parenTrails[n-1].endX = r.parenTrail.endX
}

// finishNewParenTrail post-processes the line's trail per mode.
func (r *result) finishNewParenTrail() {
	switch {
	case r.isInStr:
		r.invalidateParenTrail()
	case r.mode == modeIndent:
		r.clampParenTrailToCursor()
		r.popParenTrail()
	case r.mode == modeParen:
		if len(r.parenTrail.openers) > 0 {
			r.setMaxIndent(peek(r.parenTrail.openers, 0))
		}
		if r.lineNo != r.cursorLine {
			r.cleanParenTrail()
		}
		r.rememberParenTrail()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
