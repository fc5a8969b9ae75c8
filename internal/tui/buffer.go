package tui

import "strings"

// buffer is the editable text as lines plus a cursor. Lines and
// columns are 0-based here; the 1-based conversion happens at the
// transformation boundary.
type buffer struct {
	lines      []string
	cursorLine int
	cursorX    int
}

func newBuffer(text string) *buffer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return &buffer{lines: strings.Split(text, "\n")}
}

func (b *buffer) text() string {
	return strings.Join(b.lines, "\n")
}

// setText replaces the content, keeping the cursor inside the new
// text.
func (b *buffer) setText(text string) {
	b.lines = strings.Split(text, "\n")
	b.clampCursor()
}

func (b *buffer) clampCursor() {
	if b.cursorLine >= len(b.lines) {
		b.cursorLine = len(b.lines) - 1
	}
	if b.cursorLine < 0 {
		b.cursorLine = 0
	}
	line := []rune(b.lines[b.cursorLine])
	if b.cursorX > len(line) {
		b.cursorX = len(line)
	}
	if b.cursorX < 0 {
		b.cursorX = 0
	}
}

func (b *buffer) insertRune(r rune) {
	line := []rune(b.lines[b.cursorLine])
	next := make([]rune, 0, len(line)+1)
	next = append(next, line[:b.cursorX]...)
	next = append(next, r)
	next = append(next, line[b.cursorX:]...)
	b.lines[b.cursorLine] = string(next)
	b.cursorX++
}

func (b *buffer) insertNewline() {
	line := []rune(b.lines[b.cursorLine])
	head, tail := string(line[:b.cursorX]), string(line[b.cursorX:])

	lines := make([]string, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:b.cursorLine]...)
	lines = append(lines, head, tail)
	lines = append(lines, b.lines[b.cursorLine+1:]...)
	b.lines = lines

	b.cursorLine++
	b.cursorX = 0
}

func (b *buffer) backspace() {
	if b.cursorX > 0 {
		line := []rune(b.lines[b.cursorLine])
		b.lines[b.cursorLine] = string(line[:b.cursorX-1]) + string(line[b.cursorX:])
		b.cursorX--
		return
	}
	if b.cursorLine == 0 {
		return
	}
	// join with the previous line
	prev := b.lines[b.cursorLine-1]
	b.cursorX = len([]rune(prev))
	b.lines[b.cursorLine-1] = prev + b.lines[b.cursorLine]
	b.lines = append(b.lines[:b.cursorLine], b.lines[b.cursorLine+1:]...)
	b.cursorLine--
}

func (b *buffer) moveCursor(dLine, dX int) {
	b.cursorLine += dLine
	b.cursorX += dX
	b.clampCursor()
}
