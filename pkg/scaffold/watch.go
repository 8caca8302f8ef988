package scaffold

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/specvital/scaffold/pkg/manifest"
)

// Watch creates tests for source files under dirs as they are created or
// changed, until ctx is done. Files are handled like in CreateTests: no
// prompts, nothing opened, existing tests left alone. report receives every
// handled file. Watching requires the workspace to be on the local
// filesystem.
func (s *Scaffolder) Watch(ctx context.Context, dirs []string, report func(Result, error), opts ...BatchOption) error {
	options := s.batchOptions(opts)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := s.watchTree(watcher, s.abs(dir)); err != nil {
			return err
		}
	}
	s.logger.Info("watching for source changes", "dirs", dirs, "debounce", options.Debounce)

	ready := make(chan string)
	stop := make(chan struct{})
	defer close(stop)

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Reset(options.Debounce)
			return
		}
		timers[path] = time.AfterFunc(options.Debounce, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()
			select {
			case ready <- path:
			case <-stop:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-ready:
			if !s.src.Exists(path) {
				continue
			}
			res, err := s.createTest(ctx, path, false)
			if report != nil {
				report(res, err)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if filepath.Base(event.Name) == manifest.FileName {
				s.manifests.Invalidate()
				continue
			}
			if event.Has(fsnotify.Create) && s.isWatchableDir(event.Name) {
				if err := s.watchTree(watcher, event.Name); err != nil {
					s.logger.Warn("cannot watch new directory", "dir", event.Name, "error", err)
				}
				continue
			}
			if s.batchCandidate(event.Name, options.ExcludePatterns) {
				schedule(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "error", err)
		}
	}
}

// watchTree adds root and every directory below it that batch discovery
// would descend into.
func (s *Scaffolder) watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walk %s", path)
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !s.isWatchableDir(path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

func (s *Scaffolder) isWatchableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	name := filepath.Base(path)
	for _, skip := range DefaultSkipPatterns {
		if name == skip {
			return false
		}
	}
	return name != s.cfg.TestDirectoryName && name != s.cfg.MockDirectoryName
}
