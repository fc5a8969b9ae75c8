// Package lua exposes the parinfer transformations to Lua scripts.
//
// A State owns a Lua interpreter with a preloaded "parinfer" module:
//
//	local parinfer = require("parinfer")
//	local result = parinfer.smart("(foo\n  bar", {cursor_line = 2, cursor_x = 6})
//	if result.success then
//	  print(result.text)
//	end
//
// Editors embedding Lua for configuration can run user hooks through
// RunString or RunFile.
package lua
