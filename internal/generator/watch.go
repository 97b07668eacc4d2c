package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/swiss-ai/evalgroups/internal/lock"
	"github.com/swiss-ai/evalgroups/internal/yaml"
)

// DefaultDebounce is how long watch mode waits for a burst of changes to
// settle before regenerating.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Options
	Debounce time.Duration
	// Ready, if set, is closed after the initial run once every base
	// directory is watched.
	Ready chan<- struct{}
	// Regenerated, if set, receives the name of each task regenerated after a
	// change.
	Regenerated chan<- string
}

// Watch runs the requested tasks once and then regenerates a task whenever
// its base directory changes, until ctx is cancelled. Concurrent
// regenerations of the same task are coalesced.
func (g *Generator) Watch(ctx context.Context, opts WatchOptions) error {
	if g.cfg.LockFile != "" && !opts.DryRun {
		fl := lock.NewFileLock(g.cfg.LockFile)
		if err := fl.TryLock(); err != nil {
			return fmt.Errorf("run lock %s: %w", fl.Path(), err)
		}
		defer fl.Unlock()
	}
	if _, err := g.selectGroups(opts.Groups); err != nil {
		return err
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dirTasks := make(map[string][]string)
	subjectBases := make(map[string]string)
	for _, name := range g.selectTasks(opts.Tasks) {
		task, ok := g.cfg.Task(name)
		if !ok {
			g.logger.Warn("unknown task, not watched", zap.String("task", name))
			continue
		}
		base := g.cfg.ResolvePath(task.BaseDir)
		if !g.storage.IsDir(base) {
			g.logger.Warn("base directory missing, not watched",
				zap.String("task", name), zap.String("dir", base))
			continue
		}
		dirs := []string{base}
		if task.HasSubjects {
			subjectBases[base] = name
			entries, err := g.storage.ReadDir(base)
			if err != nil {
				return fmt.Errorf("scan %s: %w", base, err)
			}
			for _, e := range entries {
				if e.IsDir {
					dirs = append(dirs, filepath.Join(base, e.Name))
				}
			}
		}
		for _, dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirTasks[dir] = append(dirTasks[dir], name)
		}
	}

	if _, err := g.run(ctx, opts.Options); err != nil {
		g.logger.Error("initial generation failed", zap.Error(err))
	}
	if opts.Ready != nil {
		close(opts.Ready)
	}
	g.logger.Info("watching base directories", zap.Int("dirs", len(dirTasks)))

	var wg sync.WaitGroup
	defer wg.Wait()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if yaml.IsTempFile(filepath.Base(event.Name)) || event.Op == fsnotify.Chmod {
				continue
			}
			g.logger.Debug("fsnotify event", zap.Stringer("op", event.Op), zap.String("file", event.Name))
			dir := filepath.Dir(event.Name)
			if name, ok := subjectBases[dir]; ok && event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						g.logger.Warn("watch language directory", zap.String("dir", event.Name), zap.Error(err))
					} else {
						dirTasks[event.Name] = append(dirTasks[event.Name], name)
					}
				}
			}
			tasks := dirTasks[dir]
			if len(tasks) == 0 {
				continue
			}
			for _, name := range tasks {
				pending[name] = true
			}
			timer.Reset(debounce)
		case <-timer.C:
			for name := range pending {
				delete(pending, name)
				wg.Add(1)
				go func() {
					defer wg.Done()
					g.regenerate(ctx, name, opts)
				}()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("fsnotify error", zap.Error(err))
		}
	}
}

func (g *Generator) regenerate(ctx context.Context, name string, opts WatchOptions) {
	_, err, _ := g.flights.Do(name, func() (any, error) {
		run := opts.Options
		run.Tasks = []string{name}
		run.Jobs = 1
		return g.run(ctx, run)
	})
	if err != nil {
		g.logger.Error("regeneration failed", zap.String("task", name), zap.Error(err))
		return
	}
	if opts.Regenerated != nil {
		select {
		case opts.Regenerated <- name:
		case <-ctx.Done():
		}
	}
}
