package config

import "errors"

// Errors returned by configuration loading and validation.
var (
	// ErrUnknownMode indicates a mode other than indent, paren, or smart.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrBadCommentChar indicates a comment char that is not a single character.
	ErrBadCommentChar = errors.New("comment char must be a single character")

	// ErrUnsupportedFormat indicates a config file extension with no loader.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)
