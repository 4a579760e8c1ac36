package runner

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/pkg/langdetect"
)

// Discovery is the ordered outcome of walking the targets.
type Discovery struct {
	// Files are the files to check, in check order.
	Files []string

	// Directories is the number of directories walked.
	Directories int
}

// Discover expands targets into the files to check. Directories are walked
// in sorted order with the files of a directory before its subdirectories.
// A target whose base name matches an exclude pattern is skipped, whether it
// is a file or a directory. Any other non-directory target is kept as a
// file; a missing file surfaces later as a read error.
func Discover(ctx context.Context, opts Options) (*Discovery, error) {
	logger := logging.FromContext(ctx)
	disc := &Discovery{}
	exclude := opts.effectiveExclude()

	for _, target := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		base := filepath.Base(target)
		info, err := os.Stat(target)
		if err != nil || !info.IsDir() {
			if !matchAny(exclude, base, base) {
				disc.Files = append(disc.Files, target)
			}
			continue
		}

		if matchAny(exclude, base, base) {
			logger.Debug("skipping excluded directory", logging.FieldDirectory, target)
			continue
		}
		if err := walkDirectory(ctx, target, target, opts, disc); err != nil {
			return nil, err
		}
	}

	logger.Debug("discovery complete",
		logging.FieldFiles, len(disc.Files),
		logging.FieldDirectories, disc.Directories)
	return disc, nil
}

func walkDirectory(ctx context.Context, root, dir string, opts Options, disc *Discovery) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("discovery cancelled: %w", ctx.Err())
	default:
	}

	disc.Directories++
	if opts.Verbose >= 1 {
		logging.FromContext(ctx).Info("directory " + dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			logging.FromContext(ctx).Warn("skipping unreadable directory",
				logging.FieldDirectory, dir, logging.FieldError, err)
			return nil
		}
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files, subdirs []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			// Directory symlinks are not followed.
			info, statErr := os.Stat(full)
			if statErr != nil || info.IsDir() {
				continue
			}
		}
		if isDir {
			subdirs = append(subdirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	slices.Sort(files)
	slices.Sort(subdirs)

	exclude := opts.effectiveExclude()
	for _, name := range files {
		full := filepath.Join(dir, name)
		rel := relative(root, full)
		if matchAny(exclude, name, rel) {
			continue
		}
		if !selected(full, name, rel, opts) {
			continue
		}
		disc.Files = append(disc.Files, full)
	}

	for _, name := range subdirs {
		full := filepath.Join(dir, name)
		if matchAny(exclude, name, relative(root, full)) {
			continue
		}
		if err := walkDirectory(ctx, root, full, opts, disc); err != nil {
			return err
		}
	}
	return nil
}

// selected reports whether a file found in a directory should be checked.
func selected(full, name, rel string, opts Options) bool {
	if matchAny(opts.effectiveFilename(), name, rel) {
		return true
	}
	if !opts.Detect || filepath.Ext(name) != "" {
		return false
	}
	lang, err := langdetect.DetectFile(full)
	return err == nil && lang == langdetect.LangSQL
}

// matchAny reports whether any doublestar pattern matches the base name or
// the slash-separated path relative to the target.
func matchAny(patterns []string, name, rel string) bool {
	for _, pattern := range patterns {
		if MatchPattern(pattern, name) || MatchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// MatchPattern matches a slash-separated path against a doublestar pattern.
// Invalid patterns never match.
func MatchPattern(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// ValidPattern reports whether pattern is a valid doublestar glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(pattern)
}

func relative(root, full string) string {
	rel, err := filepath.Rel(root, full)
	if err != nil {
		return filepath.ToSlash(full)
	}
	return path.Clean(filepath.ToSlash(rel))
}
