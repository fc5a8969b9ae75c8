package parinfer

import "errors"

// Error names reported in Error.Name.
const (
	ErrQuoteDanger         = "quote-danger"
	ErrEOLBackslash        = "eol-backslash"
	ErrUnclosedQuote       = "unclosed-quote"
	ErrUnclosedParen       = "unclosed-paren"
	ErrUnmatchedCloseParen = "unmatched-close-paren"
	ErrUnmatchedOpenParen  = "unmatched-open-paren"
	ErrLeadingCloseParen   = "leading-close-paren"
	ErrUnhandled           = "unhandled"
)

var errorMessages = map[string]string{
	ErrQuoteDanger:         "Quotes must balanced inside comment blocks.",
	ErrEOLBackslash:        "Line cannot end in a hanging backslash.",
	ErrUnclosedQuote:       "String is missing a closing quote.",
	ErrUnclosedParen:       "Unclosed open-paren.",
	ErrUnmatchedCloseParen: "Unmatched close-paren.",
	ErrUnmatchedOpenParen:  "Unmatched open-paren.",
	ErrLeadingCloseParen:   "Line cannot lead with a close-paren.",
	ErrUnhandled:           "Unhandled error.",
}

// Internal restart sentinels. A pass that raises one of these is
// rerun from scratch in Paren Mode; callers never observe them.
var (
	errLeadingCloseParen = errors.New("parinfer: leading close-paren restart")
	errReleaseCursorHold = errors.New("parinfer: cursor hold released restart")
)

// Error describes a failure detected during a pass.
//
// LineNo and X are 1-based and refer to the input text, unless the
// pass ran with Options.PartialResult, in which case they refer to
// the partially transformed output text.
type Error struct {
	Name    string
	Message string
	LineNo  int
	X       int

	// Extra carries the position of the unmatched open-paren for
	// unmatched-close-paren errors, when one is known.
	Extra *Error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Name + ": " + e.Message
}

// errPos is a captured error position, in both coordinate spaces.
type errPos struct {
	lineNo      int
	x           int
	inputLineNo int
	inputX      int
}

// cacheErrorPos records the current position under an error name so a
// later raise reports where the condition first appeared.
func (r *result) cacheErrorPos(name string) errPos {
	pos := errPos{
		lineNo:      r.lineNo,
		x:           r.x,
		inputLineNo: r.inputLineNo,
		inputX:      r.inputX,
	}
	r.errorPosCache[name] = pos
	return pos
}

// raise builds the domain error for name at the cached position, or
// at the current position when none was cached. Coordinates stay
// 0-based here; the public result converts them.
func (r *result) raise(name string) *Error {
	lineNo, x := r.inputLineNo, r.inputX
	if r.partialResult {
		lineNo, x = r.lineNo, r.x
	}
	if cache, ok := r.errorPosCache[name]; ok {
		if r.partialResult {
			lineNo, x = cache.lineNo, cache.x
		} else {
			lineNo, x = cache.inputLineNo, cache.inputX
		}
	}

	e := &Error{
		Name:    name,
		Message: errorMessages[name],
		LineNo:  lineNo,
		X:       x,
	}

	switch name {
	case ErrUnmatchedCloseParen:
		if cache, ok := r.errorPosCache[ErrUnmatchedOpenParen]; ok {
			extraLine, extraX := cache.inputLineNo, cache.inputX
			if r.partialResult {
				extraLine, extraX = cache.lineNo, cache.x
			}
			e.Extra = &Error{
				Name:    ErrUnmatchedOpenParen,
				Message: errorMessages[ErrUnmatchedOpenParen],
				LineNo:  extraLine,
				X:       extraX,
			}
		} else if opener := peekSafe(r.parenStack, 0); opener != nil {
			extraLine, extraX := opener.inputLineNo, opener.inputX
			if r.partialResult {
				extraLine, extraX = opener.lineNo, opener.x
			}
			e.Extra = &Error{
				Name:    ErrUnmatchedOpenParen,
				Message: errorMessages[ErrUnmatchedOpenParen],
				LineNo:  extraLine,
				X:       extraX,
			}
		}
	case ErrUnclosedParen:
		if len(r.parenStack) > 0 {
			opener := r.parenStack[0]
			if r.partialResult {
				e.LineNo, e.X = opener.lineNo, opener.x
			} else {
				e.LineNo, e.X = opener.inputLineNo, opener.inputX
			}
		}
	}

	return e
}

// recordError stores err on the result, wrapping anything that is not
// a domain error under the unhandled name.
func (r *result) recordError(err error) {
	var perr *Error
	if !errors.As(err, &perr) {
		perr = &Error{
			Name:    ErrUnhandled,
			Message: err.Error(),
			LineNo:  r.inputLineNo,
			X:       r.inputX,
		}
	}
	r.err = perr
	r.success = false
}
