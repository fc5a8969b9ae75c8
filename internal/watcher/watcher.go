package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by the watcher.
var (
	// ErrWatcherClosed indicates an operation on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrPathNotExist indicates a watch path that does not exist.
	ErrPathNotExist = errors.New("path does not exist")
)

// Event is a debounced file change.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Time is when the last write in the burst occurred.
	Time time.Time
}

// Config holds watcher settings.
type Config struct {
	// Extensions is the set of file extensions to report. Empty
	// means every file.
	Extensions []string

	// Debounce is the quiet period before a change is reported.
	Debounce time.Duration

	// BufferSize is the event channel capacity.
	BufferSize int
}

// DefaultConfig returns the default watcher settings.
func DefaultConfig() Config {
	return Config{
		Debounce:   50 * time.Millisecond,
		BufferSize: 64,
	}
}

// Option configures a Watcher.
type Option func(*Config)

// WithExtensions sets the extensions to report.
func WithExtensions(exts []string) Option {
	return func(c *Config) {
		c.Extensions = exts
	}
}

// WithDebounce sets the debounce quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.Debounce = d
	}
}

// Watcher reports debounced writes to files of interest. All event
// delivery happens from a single goroutine, so Events is closed
// exactly once when the watcher shuts down.
type Watcher struct {
	mu sync.Mutex

	fsw    *fsnotify.Watcher
	config Config

	events chan Event
	errors chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher. Callers receive changes on Events until
// Close.
func New(opts ...Option) (*Watcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		config:  config,
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching a file or directory.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}

	return w.fsw.Add(absPath)
}

// Events returns the debounced change channel. It is closed when the
// watcher shuts down.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

// processLoop owns debouncing and event delivery. Pending paths are
// flushed once their quiet period passes.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	pending := make(map[string]time.Time)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	rearm := func() {
		timer.Stop()
		var earliest time.Time
		for _, deadline := range pending {
			if earliest.IsZero() || deadline.Before(earliest) {
				earliest = deadline
			}
		}
		if !earliest.IsZero() {
			timer.Reset(time.Until(earliest))
		}
	}

	flush := func() {
		now := time.Now()
		for path, deadline := range pending {
			if deadline.After(now) {
				continue
			}
			delete(pending, path)
			select {
			case w.events <- Event{Path: path, Time: deadline.Add(-w.config.Debounce)}:
			case <-w.closeCh:
				return
			}
		}
	}

	for {
		select {
		case <-w.closeCh:
			return
		case <-timer.C:
			flush()
			rearm()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !w.wants(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now().Add(w.config.Debounce)
			rearm()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// wants reports whether the path matches the extension filter.
func (w *Watcher) wants(path string) bool {
	if len(w.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.config.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
