// Package watcher rewrites Lisp source files as they change on disk.
//
// A Watcher wraps fsnotify, filters events by extension, and
// debounces editor save bursts. A Runner consumes the events, applies
// a transformation to each changed file, and writes the result back,
// suppressing the event its own write triggers.
package watcher
