package parinfer

import (
	"strings"
	"testing"
)

// ============================================================================
// Indent Mode
// ============================================================================

func TestIndentMode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trail follows child indent", "(foo\n  bar)", "(foo\n  bar)"},
		{"reindent closes the form", "(foo\n  bar\nbaz)", "(foo\n  bar)\nbaz"},
		{"stray trailing close dropped", "(foo))", "(foo)"},
		{"unclosed open gets closed", "(defn f [x]\n  x", "(defn f [x]\n  x)"},
		{"tab expands to two spaces", "(foo\n\tbar)", "(foo\n  bar)"},
		{"nested forms close at dedent", "(foo\n  (bar\nbaz)", "(foo\n  (bar))\nbaz"},
		{"brackets match by kind", "[foo {bar\nbaz]", "[foo {bar}]\nbaz"},
		{"empty input", "", ""},
		{"plain text untouched", "hello world", "hello world"},
		{"crlf input normalized", "(foo\r\n  bar)", "(foo\n  bar)"},
		{"unicode columns", "(λ α\nβ)", "(λ α)\nβ"},
		{"close paren in string kept", "(foo \")\"\n  bar)", "(foo \")\"\n  bar)"},
		{"comment does not close", "(foo\n  ; bar)\n  baz)", "(foo\n  ; bar)\n  baz)"},
		{"trail inserted before comment", "(foo ; bar", "(foo) ; bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := IndentMode(tt.in, nil)
			if !res.Success {
				t.Fatalf("unexpected failure: %+v", res.Error)
			}
			if res.Text != tt.want {
				t.Errorf("got %q, want %q", res.Text, tt.want)
			}
		})
	}
}

func TestIndentModeLeadingCloseParen(t *testing.T) {
	// a leading close-paren followed by nothing is silently dropped
	res := IndentMode("(foo\n)", nil)
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(foo)\n" {
		t.Errorf("got %q, want %q", res.Text, "(foo)\n")
	}

	// a leading close-paren followed by code is an error
	res = IndentMode("(foo\n) bar", nil)
	if res.Success {
		t.Fatalf("expected failure, got %q", res.Text)
	}
	if res.Error.Name != ErrLeadingCloseParen {
		t.Errorf("got error %q, want %q", res.Error.Name, ErrLeadingCloseParen)
	}
	if res.Error.LineNo != 2 || res.Error.X != 1 {
		t.Errorf("got position (%d,%d), want (2,1)", res.Error.LineNo, res.Error.X)
	}
	if res.Text != "(foo\n) bar" {
		t.Errorf("failed pass must restore input, got %q", res.Text)
	}
}

func TestIndentModeCommentChars(t *testing.T) {
	res := IndentMode("(foo # bar", &Options{CommentChars: []rune{'#'}})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(foo) # bar" {
		t.Errorf("got %q, want %q", res.Text, "(foo) # bar")
	}

	// semicolon is plain code under a custom comment set
	res = IndentMode("(foo ; bar", &Options{CommentChars: []rune{'#'}})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(foo ; bar)" {
		t.Errorf("got %q, want %q", res.Text, "(foo ; bar)")
	}
}

// ============================================================================
// Paren Mode
// ============================================================================

func TestParenMode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"child pulled inside opener", "(foo\nbar)", "(foo\n bar)"},
		{"leading close joins previous trail", "(foo\n)", "(foo)\n"},
		{"top level dedented after close", "(foo)\n  bar", "(foo)\nbar"},
		{"well formed input untouched", "(foo\n  bar)", "(foo\n  bar)"},
		{"trail whitespace cleaned", "(foo )", "(foo)"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParenMode(tt.in, nil)
			if !res.Success {
				t.Fatalf("unexpected failure: %+v", res.Error)
			}
			if res.Text != tt.want {
				t.Errorf("got %q, want %q", res.Text, tt.want)
			}
		})
	}
}

func TestParenModeErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		errName string
		lineNo  int
		x       int
	}{
		{"unmatched close", "(foo))", ErrUnmatchedCloseParen, 1, 6},
		{"unclosed paren", "(foo", ErrUnclosedParen, 1, 1},
		{"mismatched kind", "(foo]", ErrUnmatchedCloseParen, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParenMode(tt.in, nil)
			if res.Success {
				t.Fatalf("expected failure, got %q", res.Text)
			}
			if res.Error.Name != tt.errName {
				t.Errorf("got error %q, want %q", res.Error.Name, tt.errName)
			}
			if res.Error.LineNo != tt.lineNo || res.Error.X != tt.x {
				t.Errorf("got position (%d,%d), want (%d,%d)",
					res.Error.LineNo, res.Error.X, tt.lineNo, tt.x)
			}
			if res.Text != tt.in {
				t.Errorf("failed pass must restore input, got %q", res.Text)
			}
		})
	}
}

func TestParenModeUnmatchedCloseExtra(t *testing.T) {
	res := ParenMode("(foo]", nil)
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error.Extra == nil {
		t.Fatal("expected extra error info")
	}
	if res.Error.Extra.Name != ErrUnmatchedOpenParen {
		t.Errorf("got extra name %q, want %q", res.Error.Extra.Name, ErrUnmatchedOpenParen)
	}
	if res.Error.Extra.LineNo != 1 || res.Error.Extra.X != 1 {
		t.Errorf("got extra position (%d,%d), want (1,1)",
			res.Error.Extra.LineNo, res.Error.Extra.X)
	}
}

func TestParenModePartialResult(t *testing.T) {
	res := ParenMode("(foo\nbar", &Options{PartialResult: true})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error.Name != ErrUnclosedParen {
		t.Errorf("got error %q, want %q", res.Error.Name, ErrUnclosedParen)
	}
	// partial text reflects the indentation work done before the error
	if res.Text != "(foo\n bar" {
		t.Errorf("got partial text %q, want %q", res.Text, "(foo\n bar")
	}

	res = ParenMode("(foo\nbar", nil)
	if res.Text != "(foo\nbar" {
		t.Errorf("got restored text %q, want input", res.Text)
	}
}

// ============================================================================
// Shared Error Cases
// ============================================================================

func TestUnclosedQuote(t *testing.T) {
	for _, m := range []func(string, *Options) Result{IndentMode, ParenMode, SmartMode} {
		res := m("\"abc", nil)
		if res.Success {
			t.Fatalf("expected failure, got %q", res.Text)
		}
		if res.Error.Name != ErrUnclosedQuote {
			t.Errorf("got error %q, want %q", res.Error.Name, ErrUnclosedQuote)
		}
		if res.Error.LineNo != 1 || res.Error.X != 1 {
			t.Errorf("got position (%d,%d), want (1,1)", res.Error.LineNo, res.Error.X)
		}
		if res.Text != "\"abc" {
			t.Errorf("failed pass must restore input, got %q", res.Text)
		}
	}
}

func TestQuoteDanger(t *testing.T) {
	res := IndentMode("(foo\n; \"bar\n  baz)", nil)
	if res.Success {
		t.Fatalf("expected failure, got %q", res.Text)
	}
	if res.Error.Name != ErrQuoteDanger {
		t.Errorf("got error %q, want %q", res.Error.Name, ErrQuoteDanger)
	}
	if res.Error.LineNo != 2 || res.Error.X != 3 {
		t.Errorf("got position (%d,%d), want (2,3)", res.Error.LineNo, res.Error.X)
	}
}

func TestEOLBackslash(t *testing.T) {
	res := IndentMode("foo \\", nil)
	if res.Success {
		t.Fatalf("expected failure, got %q", res.Text)
	}
	if res.Error.Name != ErrEOLBackslash {
		t.Errorf("got error %q, want %q", res.Error.Name, ErrEOLBackslash)
	}

	// a backslash escaping a real character is fine
	res = IndentMode("(foo \\a)", nil)
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
}

// ============================================================================
// Smart Mode
// ============================================================================

func TestSmartModeLeadingCloseParenRestart(t *testing.T) {
	// the leading close-paren restarts the pass in Paren Mode, which
	// appends it to the previous trail and dedents the tail
	res := SmartMode("(foo\n) bar", nil)
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(foo)\nbar" {
		t.Errorf("got %q, want %q", res.Text, "(foo)\nbar")
	}
}

func TestSmartModeOpenerShiftCarriesChildren(t *testing.T) {
	// the user indented the opener line by two; the change log
	// attributes the shift to the user and the child line follows
	res := SmartMode("  (foo\n  bar)", &Options{
		Changes: []Change{{LineNo: 1, X: 1, OldText: "", NewText: "  "}},
	})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "  (foo\n    bar)" {
		t.Errorf("got %q, want %q", res.Text, "  (foo\n    bar)")
	}

	// without the change log the child stays put and the form closes
	res = SmartMode("  (foo\n  bar)", nil)
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "  (foo)\n  bar" {
		t.Errorf("got %q, want %q", res.Text, "  (foo)\n  bar")
	}
}

func TestSmartModeCursorHoldRelease(t *testing.T) {
	text := "(a (b)\nc)"

	// cursor not holding and never held: plain Indent Mode semantics
	res := SmartMode(text, &Options{CursorLine: 2, CursorX: 1})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(a (b))\nc" {
		t.Errorf("got %q, want %q", res.Text, "(a (b))\nc")
	}

	// the previous cursor held the trail open; releasing the hold
	// restarts the pass in Paren Mode, preserving the parens
	res = SmartMode(text, &Options{
		CursorLine: 2, CursorX: 1,
		PrevCursorLine: 1, PrevCursorX: 3,
	})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(a (b)\n c)" {
		t.Errorf("got %q, want %q", res.Text, "(a (b)\n c)")
	}
}

func TestSmartModeSelectionDisablesSmart(t *testing.T) {
	// with a selection the pass behaves like plain Indent Mode, so a
	// leading close-paren with trailing code is an error, not a restart
	res := SmartMode("(foo\n) bar", &Options{SelectionStartLine: 1})
	if res.Success {
		t.Fatalf("expected failure, got %q", res.Text)
	}
	if res.Error.Name != ErrLeadingCloseParen {
		t.Errorf("got error %q, want %q", res.Error.Name, ErrLeadingCloseParen)
	}
}

// ============================================================================
// Cursor
// ============================================================================

func TestCursorPreserved(t *testing.T) {
	res := IndentMode("(foo\n  bar)", &Options{CursorLine: 2, CursorX: 4})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.CursorLine != 2 || res.CursorX != 4 {
		t.Errorf("got cursor (%d,%d), want (2,4)", res.CursorLine, res.CursorX)
	}
}

func TestCursorShiftedByIndentCorrection(t *testing.T) {
	res := ParenMode("(foo\nbar)", &Options{CursorLine: 2, CursorX: 1})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(foo\n bar)" {
		t.Fatalf("got %q, want %q", res.Text, "(foo\n bar)")
	}
	if res.CursorLine != 2 || res.CursorX != 2 {
		t.Errorf("got cursor (%d,%d), want (2,2)", res.CursorLine, res.CursorX)
	}
}

func TestCursorAbsentInResultWhenAbsentInOptions(t *testing.T) {
	res := IndentMode("(foo)", nil)
	if res.CursorX != 0 || res.CursorLine != 0 {
		t.Errorf("got cursor (%d,%d), want absent (0,0)", res.CursorLine, res.CursorX)
	}
}

func TestCursorKeepsTrailOpen(t *testing.T) {
	// the cursor sits inside the paren trail, so the close-parens to
	// its left stay in place instead of collapsing
	res := IndentMode("(foo (bar)\n  baz)", &Options{CursorLine: 1, CursorX: 11})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if res.Text != "(foo (bar)\n  baz)" {
		t.Errorf("got %q, want %q", res.Text, "(foo (bar)\n  baz)")
	}
}

// ============================================================================
// Output Extras
// ============================================================================

func TestParenTrails(t *testing.T) {
	res := IndentMode("(foo\n  bar)", nil)
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if len(res.ParenTrails) != 1 {
		t.Fatalf("got %d trails, want 1: %+v", len(res.ParenTrails), res.ParenTrails)
	}
	trail := res.ParenTrails[0]
	if trail.LineNo != 2 || trail.StartX != 6 || trail.EndX != 7 {
		t.Errorf("got trail %+v, want {2 6 7}", trail)
	}
}

func TestTabStops(t *testing.T) {
	res := SmartMode("(foo bar\n  baz", &Options{CursorLine: 2, CursorX: 3})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if len(res.TabStops) != 1 {
		t.Fatalf("got %d tab stops, want 1: %+v", len(res.TabStops), res.TabStops)
	}
	stop := res.TabStops[0]
	if stop.Ch != "(" || stop.X != 1 || stop.LineNo != 1 {
		t.Errorf("got tab stop %+v, want {( 1 1}", stop)
	}
	if stop.ArgX != 6 {
		t.Errorf("got argX %d, want 6", stop.ArgX)
	}
}

func TestReturnParens(t *testing.T) {
	res := IndentMode("(foo)", &Options{ReturnParens: true})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if len(res.Parens) != 1 {
		t.Fatalf("got %d parens, want 1", len(res.Parens))
	}
	p := res.Parens[0]
	if p.Ch != "(" || p.LineNo != 1 || p.X != 1 {
		t.Errorf("got paren %+v, want ( at (1,1)", p)
	}
	if p.Closer == nil {
		t.Fatal("expected closer")
	}
	if p.Closer.Ch != ")" || p.Closer.X != 5 {
		t.Errorf("got closer %+v, want ) at x 5", p.Closer)
	}
}

func TestReturnParensNesting(t *testing.T) {
	res := IndentMode("(a (b) (c))", &Options{ReturnParens: true})
	if !res.Success {
		t.Fatalf("unexpected failure: %+v", res.Error)
	}
	if len(res.Parens) != 1 {
		t.Fatalf("got %d roots, want 1", len(res.Parens))
	}
	if len(res.Parens[0].Children) != 2 {
		t.Errorf("got %d children, want 2", len(res.Parens[0].Children))
	}
}

// ============================================================================
// Properties
// ============================================================================

var propertySamples = []string{
	"(foo\n  bar)",
	"(foo\n  bar\nbaz)",
	"(defn f [x]\n  (let [y 1]\n    (+ x y)))",
	"(a (b) (c))",
	"(foo \"(\")",
	"(foo ; comment\n  bar)",
	"[1 2 {3 4}]",
	"(foo\n  (bar\n    baz))",
}

func TestIdempotence(t *testing.T) {
	modes := map[string]func(string, *Options) Result{
		"indent": IndentMode,
		"paren":  ParenMode,
	}
	for name, m := range modes {
		t.Run(name, func(t *testing.T) {
			for _, sample := range propertySamples {
				first := m(sample, nil)
				if !first.Success {
					t.Fatalf("first pass failed on %q: %+v", sample, first.Error)
				}
				second := m(first.Text, nil)
				if !second.Success {
					t.Fatalf("second pass failed on %q: %+v", first.Text, second.Error)
				}
				if second.Text != first.Text {
					t.Errorf("not idempotent on %q: %q != %q", sample, second.Text, first.Text)
				}
			}
		})
	}
}

func TestCrossModeFixedPoint(t *testing.T) {
	trimTrailing := func(text string) string {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " ")
		}
		return strings.Join(lines, "\n")
	}

	for _, sample := range propertySamples {
		indented := IndentMode(sample, nil)
		if !indented.Success {
			t.Fatalf("indent failed on %q: %+v", sample, indented.Error)
		}
		roundTrip := ParenMode(indented.Text, nil)
		if !roundTrip.Success {
			t.Fatalf("paren failed on %q: %+v", indented.Text, roundTrip.Error)
		}
		if trimTrailing(roundTrip.Text) != trimTrailing(indented.Text) {
			t.Errorf("Paren(Indent(%q)) = %q, want %q", sample, roundTrip.Text, indented.Text)
		}

		parened := ParenMode(sample, nil)
		if !parened.Success {
			continue
		}
		roundTrip = IndentMode(parened.Text, nil)
		if !roundTrip.Success {
			t.Fatalf("indent failed on %q: %+v", parened.Text, roundTrip.Error)
		}
		if trimTrailing(roundTrip.Text) != trimTrailing(parened.Text) {
			t.Errorf("Indent(Paren(%q)) = %q, want %q", sample, roundTrip.Text, parened.Text)
		}
	}
}
