package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileBackend persists the encoded state layout as a single JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend returns a Backend that reads and writes path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Save writes data to the backing file, creating parent directories if
// needed.
func (f *FileBackend) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

// Load reads the backing file. A missing file is not an error: it reports
// ok=false.
func (f *FileBackend) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// HasPersistedState reports whether the backing file exists.
func (f *FileBackend) HasPersistedState() (bool, error) {
	_, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Watch starts watching the backing file's directory for writes to this
// file and delivers a (coalesced) notification on the returned channel
// each time it changes on disk. The watcher and its goroutine stop when ctx
// is done. A caller typically reacts to a notification by calling Load and
// feeding the result through ApplyExternalStates.
func (f *FileBackend) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(f.path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return changed, nil
}
