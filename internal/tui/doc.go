// Package tui is a live preview screen for the parinfer
// transformations.
//
// The screen edits a single buffer; every editing keystroke reruns
// Smart Mode with the cursor position and renders the corrected text.
// Cursor movement and saving do not rerun the transformation. The status
// line shows the active file and any structural error.
package tui
