// Package watch re-runs work when puzzle inputs change on disk
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poltergeist/reflector/pkg/logger"
)

// DefaultDebounce is used when no debounce period is configured
const DefaultDebounce = 200 * time.Millisecond

// EventType classifies a debounced change
type EventType string

const (
	EventModified EventType = "modified"
	EventCreated  EventType = "created"
	EventRemoved  EventType = "removed"
)

// Event is delivered to the change callback once per settled burst of
// filesystem events on one watched file
type Event struct {
	Path      string    `json:"path"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// ChangeFunc handles a settled change. It is never called concurrently for
// the same path.
type ChangeFunc func(ctx context.Context, ev Event)

// Watcher watches a fixed set of files through their parent directories so
// that editors replacing files via rename are still seen
type Watcher struct {
	logger   logger.Logger
	debounce time.Duration
	onChange ChangeFunc

	mu       sync.Mutex
	files    map[string]struct{}
	timers   map[string]*time.Timer
	modTimes map[string]time.Time
	running  map[string]*sync.Mutex
	wg       sync.WaitGroup
}

// New creates a watcher for the given files
func New(paths []string, debounce time.Duration, log logger.Logger, onChange ChangeFunc) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		logger:   log,
		debounce: debounce,
		onChange: onChange,
		files:    make(map[string]struct{}, len(paths)),
		timers:   make(map[string]*time.Timer),
		modTimes: make(map[string]time.Time),
		running:  make(map[string]*sync.Mutex),
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		w.running[abs] = &sync.Mutex{}
		if stat, err := os.Stat(abs); err == nil {
			w.modTimes[abs] = stat.ModTime()
		}
	}

	return w, nil
}

// Files returns the absolute paths being watched
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	return files
}

// Run blocks until ctx is cancelled, delivering debounced changes
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.logger.Debug("Watching directory", logger.WithField("path", dir))
	}
	w.logger.Info(fmt.Sprintf("Watching %d input(s)", len(w.files)))

	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			path, ok := w.match(event.Name)
			if !ok {
				continue
			}

			w.logger.Debug("File event received",
				logger.WithField("event", event.String()))
			w.schedule(ctx, path, mapOp(event.Op))

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logger.WithField("error", err))
		}
	}
}

// match maps an event path, including editor temp files written beside a
// watched file, onto the watched file
func (w *Watcher) match(eventPath string) (string, bool) {
	abs, err := filepath.Abs(eventPath)
	if err != nil {
		return "", false
	}
	if _, ok := w.files[abs]; ok {
		return abs, true
	}

	dir, base := filepath.Split(abs)
	for f := range w.files {
		name := filepath.Base(f)
		if filepath.Dir(f)+string(filepath.Separator) != dir {
			continue
		}
		if strings.HasPrefix(base, name) && (strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, "~")) {
			return f, true
		}
	}
	return "", false
}

func mapOp(op fsnotify.Op) EventType {
	switch {
	case op&fsnotify.Remove == fsnotify.Remove, op&fsnotify.Rename == fsnotify.Rename:
		return EventRemoved
	case op&fsnotify.Create == fsnotify.Create:
		return EventCreated
	default:
		return EventModified
	}
}

// schedule arms the debounce timer of path. Every armed timer holds one
// count on wg, released by fire or by stopping the timer before it fires.
func (w *Watcher) schedule(ctx context.Context, path string, typ EventType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok && t.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.fire(ctx, path, typ)
	})
}

func (w *Watcher) fire(ctx context.Context, path string, typ EventType) {
	defer w.wg.Done()

	if ctx.Err() != nil {
		return
	}

	// A remove followed by a create within the window is an atomic save.
	stat, err := os.Stat(path)
	if err != nil {
		if typ != EventRemoved {
			return
		}
	} else {
		typ = EventModified
		w.mu.Lock()
		last := w.modTimes[path]
		if !stat.ModTime().After(last) {
			w.mu.Unlock()
			w.logger.Debug("File not modified, skipping", logger.WithField("path", path))
			return
		}
		w.modTimes[path] = stat.ModTime()
		w.mu.Unlock()
	}

	lock := w.running[path]
	lock.Lock()
	defer lock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Change handler panic recovered",
				logger.WithField("path", path),
				logger.WithField("panic", r))
		}
	}()

	w.onChange(ctx, Event{Path: path, Type: typ, Timestamp: time.Now()})
}

// stop cancels pending timers and waits for handlers already running
func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
