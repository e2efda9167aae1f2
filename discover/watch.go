package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch calls fn with the path of every script under root that is created
// or written, until ctx is done. Directories created after the watch starts
// are added as they appear. If root is a file, only that file is watched.
func Watch(ctx context.Context, root string, opts WalkOptions, logger *zap.Logger, fn func(path string)) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := addDirs(watcher, root, opts); err != nil {
			return err
		}
	} else if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	logger.Debug("watching for changes", zap.String("root", root), zap.Strings("dirs", watcher.WatchList()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := addDirs(watcher, event.Name, opts); err != nil {
						logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
					continue
				}
			}
			if !opts.IsScript(event.Name) {
				continue
			}
			logger.Debug("script changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			fn(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func addDirs(watcher *fsnotify.Watcher, root string, opts WalkOptions) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if opts.skipDir(path, root) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
