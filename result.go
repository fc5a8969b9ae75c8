package parinfer

import (
	"strings"
	"unicode/utf8"
)

// unset flags an absent coordinate.
const unset = -999

type mode uint8

const (
	modeIndent mode = iota
	modeParen
)

// Character constants. ch values are strings because a dispatch step
// may rewrite a character to empty (delete) or to multiple characters
// (tab expansion).
const (
	backslash   = "\\"
	blankSpace  = " "
	doubleSpace = "  "
	doubleQuote = "\""
	newlineCh   = "\n"
	tabCh       = "\t"
)

// matchParen maps each paren character to its partner.
var matchParen = map[string]string{
	"{": "}", "}": "{",
	"[": "]", "]": "[",
	"(": ")", ")": "(",
}

// argTabStop is the micro-state that captures the argument column
// following an opener's head word.
type argTabStop uint8

const (
	tabStopNone argTabStop = iota
	tabStopSpace
	tabStopArg
)

// opener is a recorded open paren on the paren stack.
type opener struct {
	inputLineNo int
	inputX      int

	lineNo int
	x      int
	ch     string

	indentDelta    int
	maxChildIndent int
	argX           int

	// populated when returnParens is set
	children []*opener
	closer   *closerInfo
}

// closerInfo records where an opener was closed (returnParens only).
type closerInfo struct {
	lineNo     int
	x          int
	ch         string
	trailIndex int // index into result.parenTrails; -1 when none
}

func setCloser(o *opener, lineNo, x int, ch string) {
	o.closer = &closerInfo{lineNo: lineNo, x: x, ch: ch, trailIndex: -1}
}

// trailSpan is a completed paren trail remembered for the caller.
type trailSpan struct {
	lineNo int
	startX int
	endX   int
}

// parenTrail is the trailing run of close-parens on the current line.
type parenTrail struct {
	lineNo  int
	startX  int
	endX    int
	openers []*opener
	clamped struct {
		startX  int
		endX    int
		openers []*opener
	}
}

func initialParenTrail() parenTrail {
	t := parenTrail{lineNo: unset, startX: unset, endX: unset}
	t.clamped.startX = unset
	t.clamped.endX = unset
	return t
}

// result is the working value threaded through every operation of a
// single pass.
type result struct {
	mode  mode
	smart bool

	origText       string
	origCursorX    int
	origCursorLine int

	inputLines  []string
	inputLineNo int
	inputX      int

	lines  []string
	lineNo int
	ch     string
	x      int

	indentX int

	parenStack  []*opener
	parenTrail  parenTrail
	parenTrails []trailSpan

	returnParens bool
	parens       []*opener

	cursorX            int
	cursorLine         int
	prevCursorX        int
	prevCursorLine     int
	selectionStartLine int

	commentChars []rune
	changes      map[int]map[int]*transformedChange

	isInCode    bool
	isEscaping  bool
	isEscaped   bool
	isInStr     bool
	isInComment bool
	commentX    int

	quoteDanger    bool
	trackingIndent bool
	skipChar       bool
	success        bool
	partialResult  bool
	forceBalance   bool

	maxIndent   int
	indentDelta int

	trackingArgTabStop argTabStop

	tabStops []tabStop

	errorPosCache map[string]errPos
	err           *Error
}

// newResult builds the initial working value for one pass.
func newResult(text string, opts *Options, m mode, smart bool) *result {
	r := &result{
		mode:  m,
		smart: smart,

		origText:       text,
		origCursorX:    unset,
		origCursorLine: unset,

		inputLines:  splitLines(text),
		inputLineNo: -1,
		inputX:      -1,

		lineNo:  -1,
		indentX: unset,

		cursorX:            unset,
		cursorLine:         unset,
		prevCursorX:        unset,
		prevCursorLine:     unset,
		selectionStartLine: unset,

		commentChars: []rune{';'},

		isInCode: true,
		commentX: unset,

		maxIndent: unset,

		parenTrail: initialParenTrail(),

		errorPosCache: make(map[string]errPos),
	}
	r.lines = make([]string, 0, len(r.inputLines))

	if opts == nil {
		return r
	}

	if opts.CursorX > 0 {
		r.cursorX = opts.CursorX - 1
		r.origCursorX = r.cursorX
	}
	if opts.CursorLine > 0 {
		r.cursorLine = opts.CursorLine - 1
		r.origCursorLine = r.cursorLine
	}
	if opts.PrevCursorX > 0 {
		r.prevCursorX = opts.PrevCursorX - 1
	}
	if opts.PrevCursorLine > 0 {
		r.prevCursorLine = opts.PrevCursorLine - 1
	}
	if opts.SelectionStartLine > 0 {
		r.selectionStartLine = opts.SelectionStartLine - 1
	}
	if len(opts.Changes) > 0 {
		r.changes = transformChanges(opts.Changes)
	}
	if len(opts.CommentChars) > 0 {
		r.commentChars = opts.CommentChars
	}
	r.partialResult = opts.PartialResult
	r.forceBalance = opts.ForceBalance
	r.returnParens = opts.ReturnParens

	return r
}

// splitLines splits text on \r\n, \n, or \r, preserving a trailing
// empty line when the text ends with a line terminator.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// peek returns the element idxFromTop positions below the top of the
// stack. The caller must know the element exists.
func peek(stack []*opener, idxFromTop int) *opener {
	return stack[len(stack)-1-idxFromTop]
}

// peekSafe is peek for possibly missing elements.
func peekSafe(stack []*opener, idxFromTop int) *opener {
	i := len(stack) - 1 - idxFromTop
	if i < 0 {
		return nil
	}
	return stack[i]
}

// replaceWithinString splices replace over the rune range [start, end)
// of s.
func replaceWithinString(s string, start, end int, replace string) string {
	runes := []rune(s)
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[:start]) + replace + string(runes[end:])
}

// isCursorAffected reports whether an edit over [start, end) shifts
// the cursor column.
func (r *result) isCursorAffected(start, end int) bool {
	if r.cursorX == start && r.cursorX == end {
		return r.cursorX == 0
	}
	return r.cursorX >= end
}

func (r *result) shiftCursorOnEdit(lineNo, start, end int, replace string) {
	oldLength := end - start
	newLength := runeLen(replace)
	dx := newLength - oldLength

	if dx != 0 &&
		r.cursorLine == lineNo &&
		r.cursorX != unset &&
		r.isCursorAffected(start, end) {
		r.cursorX += dx
	}
}

func (r *result) replaceWithinLine(lineNo, start, end int, replace string) {
	r.lines[lineNo] = replaceWithinString(r.lines[lineNo], start, end, replace)
	r.shiftCursorOnEdit(lineNo, start, end, replace)
}

func (r *result) insertWithinLine(lineNo, idx int, insert string) {
	r.replaceWithinLine(lineNo, idx, idx, insert)
}

// initLine resets per-line state at the start of each output line.
func (r *result) initLine() {
	r.x = 0
	r.lineNo++

	r.indentX = unset
	r.commentX = unset
	r.indentDelta = 0

	delete(r.errorPosCache, ErrUnmatchedCloseParen)
	delete(r.errorPosCache, ErrUnmatchedOpenParen)
	delete(r.errorPosCache, ErrLeadingCloseParen)

	r.trackingArgTabStop = tabStopNone
	r.trackingIndent = !r.isInStr
}

// commitChar writes the (possibly rewritten) current character into
// the output line and advances x. A rewrite shifts indentDelta by the
// length difference; the indent correction math reads it as the
// line's accumulated displacement.
func (r *result) commitChar(origCh string) {
	ch := r.ch
	if origCh != ch {
		r.replaceWithinLine(r.lineNo, r.x, r.x+runeLen(origCh), ch)
		r.indentDelta -= runeLen(origCh) - runeLen(ch)
	}
	r.x += runeLen(ch)
}
