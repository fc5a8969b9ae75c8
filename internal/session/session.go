package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/parinfer"
)

// Session tracks one buffer between invocations.
type Session struct {
	mu sync.Mutex

	id string

	// state from the previous successful Apply
	text       string
	cursorLine int
	cursorX    int

	commentChars []rune
}

// Option configures a Session.
type Option func(*Session)

// WithCommentChars sets the comment character set for every pass.
func WithCommentChars(chars []rune) Option {
	return func(s *Session) {
		s.commentChars = chars
	}
}

// New creates a session seeded with the buffer's initial text.
func New(text string, opts ...Option) *Session {
	s := &Session{
		id:   uuid.New().String(),
		text: text,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Text returns the text of the last successful pass, or the initial
// text when no pass has succeeded yet.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Apply runs Smart Mode over the edited text. The previous cursor and
// the diff against the previous text are supplied to the pass, then
// the session state rolls forward to the transformed result.
//
// On failure the session keeps its previous state so the next edit is
// diffed against known-good text.
func (s *Session) Apply(text string, cursorLine, cursorX int) parinfer.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	opts := &parinfer.Options{
		CursorLine:     cursorLine,
		CursorX:        cursorX,
		PrevCursorLine: s.cursorLine,
		PrevCursorX:    s.cursorX,
		CommentChars:   s.commentChars,
	}
	if change, ok := Diff(s.text, text); ok {
		opts.Changes = []parinfer.Change{change}
	}

	res := parinfer.SmartMode(text, opts)
	if res.Success {
		s.text = res.Text
		s.cursorLine = res.CursorLine
		s.cursorX = res.CursorX
	}
	return res
}

// Diff computes the single change record turning oldText into
// newText, by trimming the common prefix and suffix. Reports false
// when the texts are equal.
func Diff(oldText, newText string) (parinfer.Change, bool) {
	if oldText == newText {
		return parinfer.Change{}, false
	}

	oldRunes := []rune(oldText)
	newRunes := []rune(newText)

	prefix := 0
	for prefix < len(oldRunes) && prefix < len(newRunes) && oldRunes[prefix] == newRunes[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(oldRunes)-prefix && suffix < len(newRunes)-prefix &&
		oldRunes[len(oldRunes)-1-suffix] == newRunes[len(newRunes)-1-suffix] {
		suffix++
	}

	head := string(oldRunes[:prefix])
	lineNo := strings.Count(head, "\n")
	x := prefix
	if idx := strings.LastIndexByte(head, '\n'); idx >= 0 {
		x = len([]rune(head[idx+1:]))
	}

	return parinfer.Change{
		LineNo:  lineNo + 1,
		X:       x + 1,
		OldText: string(oldRunes[prefix : len(oldRunes)-suffix]),
		NewText: string(newRunes[prefix : len(newRunes)-suffix]),
	}, true
}
