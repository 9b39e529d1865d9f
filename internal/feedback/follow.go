package feedback

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Follow streams state-file contents on change to out until ctx is
// cancelled. It watches the file's parent directory rather than the file
// itself: an atomic rename replaces the inode fsnotify would otherwise be
// watching, and watching the directory survives both that rename and a
// full daemon restart (new inode, same path) without the caller needing
// to re-open anything.
func Follow(ctx context.Context, path string, out chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	emit := func() {
		state, err := ReadState(path)
		if err != nil {
			return
		}
		select {
		case out <- state:
		case <-ctx.Done():
		}
	}

	emit()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			emit()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}
