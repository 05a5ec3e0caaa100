// Package watch re-runs work when specific files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits for a burst of events on the
// same files to settle before calling back
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches a fixed set of files for changes
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	onChange func(path string, op fsnotify.Op)
	logger   zerolog.Logger
	debounce time.Duration
}

// NewFileWatcher creates a watcher for files. Editors often replace a file
// instead of writing it in place, so the parent directories are watched and
// events are filtered by path.
func NewFileWatcher(files []string, onChange func(path string, op fsnotify.Op), logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]struct{}),
		onChange: onChange,
		logger:   logger,
		debounce: DefaultDebounce,
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	return fw, nil
}

// SetDebounce changes the quiet period; zero calls back on every event
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.debounce = d
}

// Start blocks, calling onChange from this goroutine, until ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
		lastOp  fsnotify.Op
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if !fw.shouldWatch(event) {
				continue
			}
			fw.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file event")

			if fw.debounce <= 0 {
				fw.onChange(event.Name, event.Op)
				continue
			}
			pending, lastOp = event.Name, event.Op
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fw.onChange(pending, lastOp)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldWatch reports whether an event concerns one of the watched files
func (fw *FileWatcher) shouldWatch(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := fw.files[abs]
	return ok
}

// Files returns the watched paths
func (fw *FileWatcher) Files() []string {
	files := make([]string, 0, len(fw.files))
	for f := range fw.files {
		files = append(files, f)
	}
	return files
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
