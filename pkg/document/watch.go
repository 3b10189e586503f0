package document

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates open files of a Workspace that are removed, renamed or
// rewritten on disk.
type Watcher struct {
	ws       *Workspace
	watcher  *fsnotify.Watcher
	onChange func(path string)
}

// Watch starts watching the directories of the currently open files.
// onChange, if not nil, is called from Run with the path of every file it
// invalidates.
func (w *Workspace) Watch(onChange func(path string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dirs := make(map[string]struct{})
	for _, f := range w.Files() {
		dirs[filepath.Dir(f.Path())] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	return &Watcher{ws: w, watcher: watcher, onChange: onChange}, nil
}

// Run handles file events until ctx is done, then closes the watcher.
func (wt *Watcher) Run(ctx context.Context) error {
	defer func() { _ = wt.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-wt.watcher.Events:
			if !ok {
				return nil
			}
			wt.handle(event)

		case err, ok := <-wt.watcher.Errors:
			if !ok {
				return nil
			}
			wt.ws.logger.Warn("watcher error", "error", err)
		}
	}
}

func (wt *Watcher) handle(event fsnotify.Event) {
	// Atomic saves replace the file by renaming over it, which is reported
	// as Create on the target path.
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(event.Name)
	if !wt.ws.Invalidate(path) {
		return
	}
	wt.ws.logger.Debug("file changed on disk", "path", path, "op", event.Op.String())
	if wt.onChange != nil {
		wt.onChange(path)
	}
}
