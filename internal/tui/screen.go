package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/parinfer"
)

// Screen is the live preview application.
type Screen struct {
	screen tcell.Screen
	buf    *buffer
	path   string

	tabWidth     int
	commentChars []rune

	status string
	dirty  bool
}

// Option configures a Screen.
type Option func(*Screen)

// WithTabWidth sets the number of spaces the tab key inserts.
func WithTabWidth(w int) Option {
	return func(s *Screen) {
		if w > 0 {
			s.tabWidth = w
		}
	}
}

// WithCommentChars sets the comment character set for every pass.
func WithCommentChars(chars []rune) Option {
	return func(s *Screen) {
		s.commentChars = chars
	}
}

// New creates a live preview over the file at path. A missing file
// starts empty and is created on save.
func New(path string, opts ...Option) (*Screen, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	s := &Screen{
		screen:   screen,
		buf:      newBuffer(string(data)),
		path:     path,
		tabWidth: 2,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run initializes the terminal and processes events until quit.
func (s *Screen) Run() error {
	if err := s.screen.Init(); err != nil {
		return err
	}
	defer s.screen.Fini()

	s.apply()
	s.draw()

	for {
		switch ev := s.screen.PollEvent().(type) {
		case *tcell.EventResize:
			s.screen.Sync()
			s.draw()
		case *tcell.EventKey:
			if quit := s.handleKey(ev); quit {
				return nil
			}
			s.draw()
		}
	}
}

// handleKey edits the buffer and reruns the transformation. Returns
// true on quit.
func (s *Screen) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlS:
		s.save()
		return false
	case tcell.KeyUp:
		s.buf.moveCursor(-1, 0)
		return false
	case tcell.KeyDown:
		s.buf.moveCursor(1, 0)
		return false
	case tcell.KeyLeft:
		s.buf.moveCursor(0, -1)
		return false
	case tcell.KeyRight:
		s.buf.moveCursor(0, 1)
		return false
	case tcell.KeyEnter:
		s.buf.insertNewline()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.buf.backspace()
	case tcell.KeyTab:
		for i := 0; i < s.tabWidth; i++ {
			s.buf.insertRune(' ')
		}
	case tcell.KeyRune:
		s.buf.insertRune(ev.Rune())
	default:
		return false
	}

	s.dirty = true
	s.apply()
	return false
}

// apply reruns Smart Mode over the buffer and adopts the corrected
// text and cursor.
func (s *Screen) apply() {
	res := parinfer.SmartMode(s.buf.text(), &parinfer.Options{
		CursorLine:   s.buf.cursorLine + 1,
		CursorX:      s.buf.cursorX + 1,
		CommentChars: s.commentChars,
	})
	if !res.Success {
		s.status = fmt.Sprintf("%s  [%s at %d:%d]",
			s.path, res.Error.Name, res.Error.LineNo, res.Error.X)
		return
	}

	s.buf.setText(res.Text)
	if res.CursorLine > 0 {
		s.buf.cursorLine = res.CursorLine - 1
		s.buf.cursorX = res.CursorX - 1
		s.buf.clampCursor()
	}
	s.status = s.path
	if s.dirty {
		s.status += " [+]"
	}
}

func (s *Screen) save() {
	if err := os.WriteFile(s.path, []byte(s.buf.text()), 0o644); err != nil {
		s.status = fmt.Sprintf("%s  [save failed: %v]", s.path, err)
		return
	}
	s.dirty = false
	s.status = s.path + " [saved]"
}

func (s *Screen) draw() {
	s.screen.Clear()
	width, height := s.screen.Size()
	if height < 2 {
		s.screen.Show()
		return
	}

	textHeight := height - 1

	// view follows the cursor vertically
	top := 0
	if s.buf.cursorLine >= textHeight {
		top = s.buf.cursorLine - textHeight + 1
	}

	style := tcell.StyleDefault
	for row := 0; row < textHeight; row++ {
		lineNo := top + row
		if lineNo >= len(s.buf.lines) {
			break
		}
		col := 0
		for _, r := range s.buf.lines[lineNo] {
			if col >= width {
				break
			}
			s.screen.SetContent(col, row, r, nil, style)
			col++
		}
	}

	s.drawStatus(width, height-1)
	s.screen.ShowCursor(s.buf.cursorX, s.buf.cursorLine-top)
	s.screen.Show()
}

func (s *Screen) drawStatus(width, row int) {
	style := tcell.StyleDefault.Reverse(true)
	text := " " + s.status + "  (Ctrl-S save, Ctrl-Q quit)"
	text += strings.Repeat(" ", maxInt(0, width-len([]rune(text))))
	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		s.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
