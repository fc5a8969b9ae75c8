package parinfer

// Options configures a pass. The zero value (or a nil *Options) asks
// for a plain transformation with no cursor.
//
// All coordinates are 1-based; zero means absent.
type Options struct {
	// CursorLine and CursorX locate the editor cursor in the input.
	CursorLine int
	CursorX    int

	// PrevCursorLine and PrevCursorX locate the cursor before the
	// edit currently being processed. Smart Mode uses them to detect
	// a released cursor hold.
	PrevCursorLine int
	PrevCursorX    int

	// SelectionStartLine is the first line of the editor selection,
	// when one exists. Its presence disables Smart Mode heuristics.
	SelectionStartLine int

	// Changes is the log of edits that produced the input text,
	// in input coordinates.
	Changes []Change

	// ForceBalance enables aggressive paren balancing.
	ForceBalance bool

	// PartialResult reports the transformation performed up to an
	// error instead of restoring the original text.
	PartialResult bool

	// ReturnParens includes the opener tree in the result.
	ReturnParens bool

	// CommentChars is the set of single characters that begin a
	// line comment. Defaults to {';'}.
	CommentChars []rune
}

// Change is an editor-reported text replacement: at (LineNo, X) in
// the old text, OldText was replaced by NewText. Used to attribute
// indentation shifts to the user rather than to the transformation.
type Change struct {
	LineNo  int
	X       int
	OldText string
	NewText string
}
