package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/internal/ui/pretty"
	"github.com/yaklabco/gobqlint/pkg/fsutil"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

// debounceDelay groups the burst of events an editor save produces.
const debounceDelay = 150 * time.Millisecond

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

func newWatchCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-check SQL files when they change",
		Long: `Check the targets once, then watch their directories and re-check each
SQL file whose content changes. The screen is cleared between runs when
standard output is a terminal. Configuration is read once at start.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd, cmd.Flags(), info.Version)
			if err != nil {
				return err
			}
			w := &watcher{
				sess:  sess,
				paths: args,
				out:   checkOutput{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()},
				cache: make(map[string]*fsutil.FileInfo),
			}
			return w.run(cmd.Context())
		},
	}

	addCheckFlags(cmd)

	return cmd
}

// watcher re-runs checks for changed files.
type watcher struct {
	sess  *session
	paths []string
	out   checkOutput
	cache map[string]*fsutil.FileInfo
}

func (w *watcher) run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	dirs, err := watchDirs(w.paths, w.sess.cfg.Exclude)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if err := w.pass(ctx, w.paths, nil); err != nil {
		return err
	}
	logger.Info("watching for changes", logging.FieldDirectories, len(dirs))

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.addDir(fsw, event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.wanted(event.Name) {
				continue
			}

			pending[event.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounceDelay)
			fire = timer.C

		case <-fire:
			fire = nil
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			clear(pending)

			changed := w.changed(ctx, names)
			if len(changed) == 0 {
				continue
			}
			if err := w.pass(ctx, changed, changed); err != nil {
				return err
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)
		}
	}
}

// pass checks paths and prints a summary line. Diagnostics and unreadable
// files are expected while editing; only crashes and configuration errors
// end the watch.
func (w *watcher) pass(ctx context.Context, paths, changed []string) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(w.sess.cfg.Color, w.out.Out))
	if changed != nil {
		if isTerminal(w.out.Out) {
			_, _ = io.WriteString(w.out.Out, clearScreen)
		}
		_, _ = io.WriteString(w.out.Out, styles.FormatWatchHeader(time.Now(), changed))
	}

	result, err := w.sess.check(ctx, paths, w.out)
	w.remember(ctx, result)
	_, _ = io.WriteString(w.out.Err, styles.FormatSummaryOneLine(result))

	var ruleErr *lint.RuleError
	switch {
	case err == nil, errors.Is(err, ErrDiagnosticsFound), errors.Is(err, runner.ErrTargetFailed):
		return nil
	case errors.As(err, &ruleErr):
		logging.FromContext(ctx).Error("rule failed", logging.FieldError, err)
		return nil
	case ctx.Err() != nil:
		return nil
	default:
		return err
	}
}

// remember records the content state of every checked file.
func (w *watcher) remember(ctx context.Context, result *runner.Result) {
	if result == nil {
		return
	}
	for _, outcome := range result.Files {
		if outcome.Error != nil {
			delete(w.cache, outcome.Path)
			continue
		}
		if info, err := fsutil.Stat(ctx, outcome.Path); err == nil {
			w.cache[outcome.Path] = info
		}
	}
}

// changed returns the sorted names whose content differs from the last
// check. Files that no longer exist are forgotten.
func (w *watcher) changed(ctx context.Context, names []string) []string {
	var out []string
	for _, name := range names {
		if info, ok := w.cache[name]; ok {
			modified, err := fsutil.CheckModified(ctx, info)
			if err == nil && !modified {
				continue
			}
		}
		if _, err := os.Stat(name); err != nil {
			delete(w.cache, name)
			continue
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// wanted reports whether a changed file would be checked by a directory walk.
func (w *watcher) wanted(name string) bool {
	base := filepath.Base(name)
	cfg := w.sess.cfg
	for _, pattern := range cfg.Exclude {
		if runner.MatchPattern(pattern, base) {
			return false
		}
	}
	for _, pattern := range cfg.Filename {
		if runner.MatchPattern(pattern, base) {
			return true
		}
	}
	if _, ok := w.cache[name]; ok {
		return true
	}
	return slices.Contains(w.paths, name)
}

// addDir starts watching a newly created directory tree. It reports
// whether name was a directory.
func (w *watcher) addDir(fsw *fsnotify.Watcher, name string) bool {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return false
	}
	dirs, err := watchDirs([]string{name}, w.sess.cfg.Exclude)
	if err != nil {
		return true
	}
	for _, dir := range dirs {
		_ = fsw.Add(dir)
	}
	return true
}

// watchDirs lists the directories to watch for the targets: every
// directory under a directory target that is not excluded, and the parent
// of each file target.
func watchDirs(paths, exclude []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	for _, target := range paths {
		info, err := os.Stat(target)
		if err != nil || !info.IsDir() {
			add(filepath.Dir(target))
			continue
		}

		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != target && excluded(exclude, d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}
	return dirs, nil
}

func excluded(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if runner.MatchPattern(pattern, name) {
			return true
		}
	}
	return false
}
