package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/c8/host"
)

// watchPrograms restarts the running program whenever its file in dir is
// written. Bursts of events are coalesced into one reload.
func watchPrograms(ctx context.Context, dir string, sel *host.Selector) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(dir); err != nil {
		return err
	}

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reload:
			reload = nil
			name := sel.Current()
			if name == "" {
				break
			}
			log.Printf("watch: reload %s", name)
			sel.Select(ctx, name)
		case ev := <-watcher.Event:
			if ev.IsAttrib() || !watchedProgram(dir, ev.Name, sel.Current()) {
				break
			}
			reload = time.After(100 * time.Millisecond)
		case err := <-watcher.Error:
			log.Printf("watch: %v", err)
		}
	}
}

// watchedProgram reports whether the file event path names the program
// cur, a slash-separated name relative to dir.
func watchedProgram(dir, path, cur string) bool {
	if cur == "" {
		return false
	}
	return filepath.Clean(path) == filepath.Join(dir, filepath.FromSlash(cur))
}
