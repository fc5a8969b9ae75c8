package lua

import (
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/parinfer"
)

// optionsFromTable converts a Lua options table to core options.
// Unknown keys are ignored.
func optionsFromTable(l *lua.LState, t *lua.LTable) *parinfer.Options {
	opts := &parinfer.Options{
		CursorLine:         intField(t, "cursor_line"),
		CursorX:            intField(t, "cursor_x"),
		PrevCursorLine:     intField(t, "prev_cursor_line"),
		PrevCursorX:        intField(t, "prev_cursor_x"),
		SelectionStartLine: intField(t, "selection_start_line"),
		ForceBalance:       boolField(t, "force_balance"),
		PartialResult:      boolField(t, "partial_result"),
		ReturnParens:       boolField(t, "return_parens"),
	}

	switch chars := t.RawGetString("comment_chars").(type) {
	case lua.LString:
		for _, r := range string(chars) {
			opts.CommentChars = append(opts.CommentChars, r)
		}
	case *lua.LTable:
		chars.ForEach(func(_, v lua.LValue) {
			if s, ok := v.(lua.LString); ok && utf8.RuneCountInString(string(s)) == 1 {
				r, _ := utf8.DecodeRuneInString(string(s))
				opts.CommentChars = append(opts.CommentChars, r)
			}
		})
	}

	if changes, ok := t.RawGetString("changes").(*lua.LTable); ok {
		changes.ForEach(func(_, v lua.LValue) {
			ct, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			opts.Changes = append(opts.Changes, parinfer.Change{
				LineNo:  intField(ct, "line_no"),
				X:       intField(ct, "x"),
				OldText: stringField(ct, "old_text"),
				NewText: stringField(ct, "new_text"),
			})
		})
	}

	return opts
}

// resultToTable converts a core result to a Lua table.
func resultToTable(l *lua.LState, res parinfer.Result) *lua.LTable {
	t := l.NewTable()
	t.RawSetString("success", lua.LBool(res.Success))
	t.RawSetString("text", lua.LString(res.Text))
	if res.CursorX > 0 {
		t.RawSetString("cursor_x", lua.LNumber(res.CursorX))
	}
	if res.CursorLine > 0 {
		t.RawSetString("cursor_line", lua.LNumber(res.CursorLine))
	}

	if res.Error != nil {
		t.RawSetString("error", errorToTable(l, res.Error))
	}

	if len(res.ParenTrails) > 0 {
		trails := l.NewTable()
		for _, trail := range res.ParenTrails {
			entry := l.NewTable()
			entry.RawSetString("line_no", lua.LNumber(trail.LineNo))
			entry.RawSetString("start_x", lua.LNumber(trail.StartX))
			entry.RawSetString("end_x", lua.LNumber(trail.EndX))
			trails.Append(entry)
		}
		t.RawSetString("paren_trails", trails)
	}

	if len(res.TabStops) > 0 {
		stops := l.NewTable()
		for _, stop := range res.TabStops {
			entry := l.NewTable()
			entry.RawSetString("ch", lua.LString(stop.Ch))
			entry.RawSetString("x", lua.LNumber(stop.X))
			entry.RawSetString("line_no", lua.LNumber(stop.LineNo))
			if stop.ArgX > 0 {
				entry.RawSetString("arg_x", lua.LNumber(stop.ArgX))
			}
			stops.Append(entry)
		}
		t.RawSetString("tab_stops", stops)
	}

	return t
}

func errorToTable(l *lua.LState, e *parinfer.Error) *lua.LTable {
	t := l.NewTable()
	t.RawSetString("name", lua.LString(e.Name))
	t.RawSetString("message", lua.LString(e.Message))
	t.RawSetString("line_no", lua.LNumber(e.LineNo))
	t.RawSetString("x", lua.LNumber(e.X))
	if e.Extra != nil {
		t.RawSetString("extra", errorToTable(l, e.Extra))
	}
	return t
}

func intField(t *lua.LTable, key string) int {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

func boolField(t *lua.LTable, key string) bool {
	if b, ok := t.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return false
}

func stringField(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}
