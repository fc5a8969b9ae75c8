package watcher

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Transform rewrites file text. It returns the new text and whether
// the text changed, or an error describing why the file was left
// alone.
type Transform func(text string) (string, bool, error)

// Runner consumes watcher events and rewrites changed files in place.
type Runner struct {
	watcher   *Watcher
	transform Transform

	// Log receives one line per rewritten file and per file that
	// could not be processed; unchanged files are not logged. Nil
	// discards.
	Log func(format string, args ...any)

	mu    sync.Mutex
	wrote map[string]time.Time
}

// selfWriteWindow is how long a watcher event after our own write is
// attributed to that write and ignored.
const selfWriteWindow = time.Second

// NewRunner creates a runner over an existing watcher.
func NewRunner(w *Watcher, transform Transform) *Runner {
	return &Runner{
		watcher:   w,
		transform: transform,
		wrote:     make(map[string]time.Time),
	}
}

// Run processes events until the watcher closes.
func (r *Runner) Run() {
	for ev := range r.watcher.Events() {
		if r.isSelfWrite(ev.Path) {
			continue
		}
		if err := r.process(ev.Path); err != nil {
			r.logf("%s: %v", ev.Path, err)
		}
	}
}

func (r *Runner) isSelfWrite(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.wrote[path]
	if !ok {
		return false
	}
	if time.Since(at) > selfWriteWindow {
		delete(r.wrote, path)
		return false
	}
	return true
}

// process transforms one file and writes it back when the text
// changed.
func (r *Runner) process(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	text, changed, err := r.transform(string(data))
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	if !changed {
		return nil
	}

	r.mu.Lock()
	r.wrote[path] = time.Now()
	r.mu.Unlock()

	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return err
	}
	r.logf("%s: rewritten", path)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log(format, args...)
	}
}
