package parinfer

import (
	"errors"
	"strings"
)

// Result is the outcome of a pass.
//
// On failure, Text, CursorX, and CursorLine restore the caller's
// input unless the pass ran with Options.PartialResult, in which case
// they reflect the work done up to the error.
type Result struct {
	Success    bool
	Text       string
	CursorX    int
	CursorLine int

	// TabStops lists indentation stops derived from open parens
	// visible from the cursor line.
	TabStops []TabStop

	// ParenTrails lists the trailing close-paren runs of the processed
	// code lines; a line whose trail closes nothing has no entry.
	ParenTrails []ParenTrail

	// Parens is the opener tree, present when Options.ReturnParens
	// was set.
	Parens []*Paren

	// Error is set when Success is false.
	Error *Error
}

// TabStop is an indentation stop for the editor's tab key. ArgX, when
// nonzero, is the column of the opener's first argument.
type TabStop struct {
	Ch     string
	X      int
	LineNo int
	ArgX   int
}

// ParenTrail is the span of a code line's trailing close-parens.
// StartX and EndX are a half-open column range.
type ParenTrail struct {
	LineNo int
	StartX int
	EndX   int
}

// Paren is a node of the opener tree returned under
// Options.ReturnParens.
type Paren struct {
	LineNo   int
	X        int
	Ch       string
	ArgX     int
	Children []*Paren
	Closer   *Closer
}

// Closer is where a Paren was closed.
type Closer struct {
	LineNo int
	X      int
	Ch     string
	Trail  *ParenTrail
}

// IndentMode rewrites trailing close-parens to match the indentation.
func IndentMode(text string, opts *Options) Result {
	return publicResult(processText(text, opts, modeIndent, false))
}

// ParenMode rewrites indentation to match the existing close-parens.
func ParenMode(text string, opts *Options) Result {
	return publicResult(processText(text, opts, modeParen, false))
}

// SmartMode runs Indent Mode with cursor heuristics that fall back to
// Paren Mode when an edit would destroy in-progress work. The
// heuristics are disabled while a selection exists.
func SmartMode(text string, opts *Options) Result {
	smart := opts == nil || opts.SelectionStartLine == 0
	return publicResult(processText(text, opts, modeIndent, smart))
}

// processText runs one pass, retrying in Paren Mode when the pass
// raises an internal restart sentinel. The retry constructs a fresh
// working value; nothing leaks from the aborted pass.
func processText(text string, opts *Options, m mode, smart bool) *result {
	r := newResult(text, opts, m, smart)
	if err := r.run(); err != nil {
		if errors.Is(err, errLeadingCloseParen) || errors.Is(err, errReleaseCursorHold) {
			return processText(text, opts, modeParen, smart)
		}
		r.recordError(err)
	}
	return r
}

func (r *result) run() error {
	for i, line := range r.inputLines {
		r.inputLineNo = i
		if err := r.processLine(line); err != nil {
			return err
		}
	}
	return r.finalize()
}

// processLine pushes the raw line into the output, feeds each
// character through the dispatch, and post-processes the line's paren
// trail.
func (r *result) processLine(line string) error {
	r.initLine()
	r.lines = append(r.lines, line)

	r.setTabStops()

	x := 0
	for _, ru := range line + newlineCh {
		r.inputX = x
		if err := r.processChar(string(ru)); err != nil {
			return err
		}
		x++
	}

	if !r.forceBalance {
		if err := r.checkUnmatchedOutsideParenTrail(); err != nil {
			return err
		}
		if err := r.checkLeadingCloseParen(); err != nil {
			return err
		}
	}

	if r.lineNo == r.parenTrail.lineNo {
		r.finishNewParenTrail()
	}
	return nil
}

// finalize validates residual state. Indent Mode synthesizes one more
// line start at column 0 so trailing openers are flushed into a final
// paren trail.
func (r *result) finalize() error {
	if r.quoteDanger {
		return r.raise(ErrQuoteDanger)
	}
	if r.isInStr {
		return r.raise(ErrUnclosedQuote)
	}
	if len(r.parenStack) != 0 && r.mode == modeParen {
		return r.raise(ErrUnclosedParen)
	}
	if r.mode == modeIndent {
		r.initLine()
		if err := r.onIndent(); err != nil {
			return err
		}
	}
	r.success = true
	return nil
}

// publicResult derives the caller-facing result, translating internal
// 0-based coordinates to the public 1-based convention and sentinel
// coordinates to zero.
func publicResult(r *result) Result {
	if r.success {
		res := Result{
			Success:     true,
			Text:        strings.Join(r.lines, "\n"),
			CursorX:     pubCoord(r.cursorX),
			CursorLine:  pubCoord(r.cursorLine),
			TabStops:    pubTabStops(r.tabStops),
			ParenTrails: pubTrails(r.parenTrails),
		}
		if r.returnParens {
			res.Parens = pubParens(r, r.parens)
		}
		return res
	}

	res := Result{
		Success: false,
		Error:   pubError(r.err),
	}
	if r.partialResult {
		res.Text = strings.Join(r.lines, "\n")
		res.CursorX = pubCoord(r.cursorX)
		res.CursorLine = pubCoord(r.cursorLine)
		res.ParenTrails = pubTrails(r.parenTrails)
		if r.returnParens {
			res.Parens = pubParens(r, r.parens)
		}
	} else {
		res.Text = r.origText
		res.CursorX = pubCoord(r.origCursorX)
		res.CursorLine = pubCoord(r.origCursorLine)
	}
	return res
}

func pubCoord(v int) int {
	if v == unset || v < 0 {
		return 0
	}
	return v + 1
}

func pubError(e *Error) *Error {
	if e == nil {
		return nil
	}
	out := &Error{
		Name:    e.Name,
		Message: e.Message,
		LineNo:  pubCoord(e.LineNo),
		X:       pubCoord(e.X),
	}
	if e.Extra != nil {
		out.Extra = pubError(e.Extra)
	}
	return out
}

func pubTabStops(stops []tabStop) []TabStop {
	if len(stops) == 0 {
		return nil
	}
	out := make([]TabStop, len(stops))
	for i, s := range stops {
		out[i] = TabStop{
			Ch:     s.ch,
			X:      pubCoord(s.x),
			LineNo: pubCoord(s.lineNo),
			ArgX:   pubCoord(s.argX),
		}
	}
	return out
}

func pubTrails(trails []trailSpan) []ParenTrail {
	if len(trails) == 0 {
		return nil
	}
	out := make([]ParenTrail, len(trails))
	for i, t := range trails {
		out[i] = ParenTrail{
			LineNo: pubCoord(t.lineNo),
			StartX: pubCoord(t.startX),
			EndX:   pubCoord(t.endX),
		}
	}
	return out
}

func pubParens(r *result, openers []*opener) []*Paren {
	if len(openers) == 0 {
		return nil
	}
	out := make([]*Paren, len(openers))
	for i, op := range openers {
		p := &Paren{
			LineNo: pubCoord(op.lineNo),
			X:      pubCoord(op.x),
			Ch:     op.ch,
			ArgX:   pubCoord(op.argX),
		}
		p.Children = pubParens(r, op.children)
		if op.closer != nil {
			c := &Closer{
				LineNo: pubCoord(op.closer.lineNo),
				X:      pubCoord(op.closer.x),
				Ch:     op.closer.ch,
			}
			if idx := op.closer.trailIndex; idx >= 0 && idx < len(r.parenTrails) {
				t := r.parenTrails[idx]
				c.Trail = &ParenTrail{
					LineNo: pubCoord(t.lineNo),
					StartX: pubCoord(t.startX),
					EndX:   pubCoord(t.endX),
				}
			}
			p.Closer = c
		}
		out[i] = p
	}
	return out
}
