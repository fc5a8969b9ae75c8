// Package parinfer infers the structure of Lisp-family source code by
// reconciling two redundant cues: the indentation of each line and the
// closing parens at the end of each form.
//
// The package provides three pure transformation functions over buffer
// text:
//
//   - IndentMode: indentation is authoritative; trailing close-parens
//     are rewritten to match it.
//   - ParenMode: existing close-parens are authoritative; indentation
//     is rewritten to match them.
//   - SmartMode: Indent Mode that falls back to Paren Mode on cursor
//     events that would otherwise destroy in-progress edits.
//
// # Basic Usage
//
// Transform a buffer and inspect the outcome:
//
//	res := parinfer.IndentMode("(foo\n  bar\nbaz)", nil)
//	if res.Success {
//		fmt.Println(res.Text) // "(foo\n  bar)\nbaz"
//	}
//
// Pass the cursor so edits near it are preserved:
//
//	res := parinfer.SmartMode(text, &parinfer.Options{
//		CursorLine: 2,
//		CursorX:    5,
//	})
//
// # Coordinates
//
// All public coordinates (options, results, errors) are 1-based. A
// zero value means the coordinate is unknown or absent.
//
// # Concurrency
//
// Each call runs a single synchronous pass over its own working state.
// Functions are safe to call from multiple goroutines as long as each
// call owns its inputs.
package parinfer
