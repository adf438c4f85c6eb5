// Package indexwatcher monitors the persisted index directory for rewrites.
// Clean Architecture: Adapter implementing ports.IndexWatcher.
package indexwatcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/coderngaonger/rorishop.io/internal/domain/ports"
)

// FSNotifyWatcher implements ports.IndexWatcher using fsnotify. It emits an
// event whenever the external index builder writes one of the watched files,
// so the vector store can reload without a process restart.
type FSNotifyWatcher struct {
	watcher   *fsnotify.Watcher
	filenames []string // Base names to watch (e.g., "vectors.db")
}

// NewFSNotifyWatcher creates a new index watcher.
func NewFSNotifyWatcher(filenames []string) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(filenames) == 0 {
		filenames = []string{"vectors.db"}
	}

	return &FSNotifyWatcher{
		watcher:   w,
		filenames: filenames,
	}, nil
}

// Watch starts monitoring the directory and emits an event per index rewrite.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan ports.IndexEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan ports.IndexEvent, 16)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatchedFile(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}

				select {
				case events <- ports.IndexEvent{Path: event.Name}:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

// isWatchedFile checks if the path is one of the watched index files.
func (w *FSNotifyWatcher) isWatchedFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range w.filenames {
		if base == name {
			return true
		}
	}
	return false
}
