package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/funvibe/implres/internal/config"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-resolve whenever a declaration file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := targetArg(args)
			cfg, err := opts.loadConfig(cmd, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			run := func() {
				p := &printer{out: out, color: useColor(cfg.Color, out)}
				ctx := runPipeline(target, cfg)
				fmt.Fprintf(out, "== pass %s\n", ctx.PassID)
				p.printResults(ctx)
			}
			run()

			w, err := newProjectWatcher(target, debounce)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return w.Run(ctx, func(c change) {
				if c.config {
					// A broken config keeps the previous one in effect.
					reloaded, err := opts.loadConfig(cmd, target)
					if err != nil {
						fmt.Fprintf(out, "config: %v\n", err)
					} else {
						cfg = reloaded
					}
				}
				fmt.Fprintf(out, "changed: %s\n", strings.Join(c.paths, ", "))
				run()
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "wait this long after the last change before re-running")
	return cmd
}

// change is one debounced batch of filesystem events.
type change struct {
	paths  []string
	config bool
}

// projectWatcher follows the directory tree holding a project's declaration
// files. Directories are registered as they appear and forgotten when they
// are removed or renamed away, so a recreated directory is picked up again.
type projectWatcher struct {
	fs       *fsnotify.Watcher
	root     string
	dirs     map[string]bool
	debounce time.Duration
}

func newProjectWatcher(target string, debounce time.Duration) (*projectWatcher, error) {
	root, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		root = filepath.Dir(root)
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &projectWatcher{fs: fsw, root: filepath.Clean(root), dirs: map[string]bool{}, debounce: debounce}
	if err := w.addTree(w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *projectWatcher) Close() error { return w.fs.Close() }

// addTree registers dir and every non-hidden directory below it.
func (w *projectWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		if w.dirs[path] {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return err
		}
		w.dirs[path] = true
		return nil
	})
}

// forget drops dir and everything below it from the watch set.
func (w *projectWatcher) forget(dir string) {
	prefix := dir + string(filepath.Separator)
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			// The kernel drops watches on deleted directories; Remove may fail.
			_ = w.fs.Remove(d)
			delete(w.dirs, d)
		}
	}
}

// classify updates the watch set for ev and reports whether ev should
// trigger a re-run, and whether it touched the project config.
func (w *projectWatcher) classify(ev fsnotify.Event) (relevant, cfg bool) {
	path := filepath.Clean(ev.Name)
	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if w.dirs[path] {
			// Declarations below a vanished directory are gone too.
			w.forget(path)
			return true, false
		}
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") {
				return false, false
			}
			if err := w.addTree(path); err != nil {
				return false, false
			}
			return hasDeclarations(path), false
		}
	case !ev.Has(fsnotify.Write):
		return false, false
	}

	if filepath.Dir(path) == w.root && filepath.Base(path) == config.ConfigFileName {
		return true, true
	}
	return config.IsDeclarationFile(path), false
}

// Run blocks until ctx is done, calling onChange once per batch of relevant
// events separated by at least the debounce interval.
func (w *projectWatcher) Run(ctx context.Context, onChange func(change)) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]bool{}
		cfg     bool
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			relevant, isConfig := w.classify(ev)
			if !relevant {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			cfg = cfg || isConfig
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			c := change{paths: paths, config: cfg}
			pending, cfg = map[string]bool{}, false
			onChange(c)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// hasDeclarations reports whether a declaration file exists at or below dir.
func hasDeclarations(dir string) bool {
	var found bool
	_ = filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() && config.IsDeclarationFile(path) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
