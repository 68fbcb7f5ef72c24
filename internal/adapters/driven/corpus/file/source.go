// Package file provides a corpus source backed by a text file on disk,
// with optional change notifications via fsnotify.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scoperag/internal/core/ports/driven"
	"github.com/custodia-labs/scoperag/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// DefaultDebounce coalesces bursts of file events into one reload.
const DefaultDebounce = 250 * time.Millisecond

// ErrNotRegularFile is returned when the corpus path is a directory or device.
var ErrNotRegularFile = errors.New("corpus path is not a regular file")

// Source reads corpus text from a file.
type Source struct {
	path     string
	debounce time.Duration
}

// NewSource creates a source for path.
func NewSource(path string) *Source {
	return &Source{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
	}
}

// WithDebounce sets the quiet period that must follow a change before
// Watch fires.
func (s *Source) WithDebounce(d time.Duration) *Source {
	s.debounce = d
	return s
}

// Location returns the file path.
func (s *Source) Location() string {
	return s.path
}

// Check verifies the file exists and is a regular file.
func (s *Source) Check() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("corpus file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, s.path)
	}
	return nil
}

// Read returns the full file contents.
func (s *Source) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.Check(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read corpus file: %w", err)
	}
	return string(data), nil
}

// Watch calls onChange after the file is written or replaced, once the
// debounce period passes without further events. It watches the parent
// directory so editors that save by rename are noticed. Blocks until ctx
// is cancelled.
func (s *Source) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("Watching corpus file %s", s.path)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.isRelevant(event) {
				continue
			}
			logger.Debug("Corpus file event: %s", event)

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(s.debounce, func() {
				if ctx.Err() == nil {
					onChange()
				}
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Corpus watcher error: %v", err)
		}
	}
}

// isRelevant reports whether event means the corpus content may have changed.
func (s *Source) isRelevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != s.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
