package lua

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/parinfer"
)

// ErrStateClosed indicates a call on a closed State.
var ErrStateClosed = errors.New("lua state is closed")

// State owns a Lua interpreter with the parinfer module preloaded.
// A State is not safe for concurrent use.
type State struct {
	l      *lua.LState
	closed bool
}

// NewState creates a Lua state with the parinfer module available via
// require("parinfer").
func NewState() *State {
	l := lua.NewState()
	l.PreloadModule("parinfer", loader)
	return &State{l: l}
}

// Close releases the interpreter.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.l.Close()
}

// RunString executes a Lua chunk.
func (s *State) RunString(src string) error {
	if s.closed {
		return ErrStateClosed
	}
	if err := s.l.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// RunFile executes a Lua script file.
func (s *State) RunFile(path string) error {
	if s.closed {
		return ErrStateClosed
	}
	if err := s.l.DoFile(path); err != nil {
		return fmt.Errorf("lua %s: %w", path, err)
	}
	return nil
}

// L returns the underlying interpreter, for embedders that register
// their own modules alongside parinfer.
func (s *State) L() *lua.LState {
	return s.l
}

// loader builds the parinfer module table.
func loader(l *lua.LState) int {
	mod := l.SetFuncs(l.NewTable(), map[string]lua.LGFunction{
		"indent": modeFunc(parinfer.IndentMode),
		"paren":  modeFunc(parinfer.ParenMode),
		"smart":  modeFunc(parinfer.SmartMode),
	})
	l.Push(mod)
	return 1
}

// modeFunc wraps one of the three transformations as a Lua function
// taking (text, opts?) and returning a result table.
func modeFunc(mode func(string, *parinfer.Options) parinfer.Result) lua.LGFunction {
	return func(l *lua.LState) int {
		text := l.CheckString(1)
		var opts *parinfer.Options
		if l.GetTop() >= 2 && l.Get(2) != lua.LNil {
			opts = optionsFromTable(l, l.CheckTable(2))
		}
		l.Push(resultToTable(l, mode(text, opts)))
		return 1
	}
}
