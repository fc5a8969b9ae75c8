// Package session tracks a buffer across editor invocations.
//
// Smart Mode works best when it knows the previous cursor position
// and the edit that produced the current text. A Session holds that
// state between calls: each Apply computes the change from the
// previous text, runs Smart Mode with the full context, and rolls
// the session forward to the transformed result.
package session
