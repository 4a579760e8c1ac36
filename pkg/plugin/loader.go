// Package plugin loads user-defined lint rules written in Starlark.
//
// A plugin file is a .star file. Every exported function whose first
// parameter is named after a granularity (physical_line, token or
// logical_line) becomes a rule. Parameters are bound by facet name, the
// function's docstring becomes the rule description, and docstring lines
// of the form "W123: source" or "Okay: source" become self-test examples.
//
//	def no_select_star(logical_line):
//	    """Name the columns you select.
//
//	    Okay: SELECT a FROM t
//	    W801: SELECT * FROM t
//	    """
//	    idx = logical_line.find("SELECT *")
//	    if idx >= 0:
//	        return (idx + 7, "W801 avoid SELECT *")
package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/pkg/lint"
)

// Extension is the file extension of plugin files.
const Extension = ".star"

// LoadError represents an error loading a plugin file.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("plugin %s: %s", e.File, e.Message)
}

// Load loads every plugin file named by paths. A directory contributes its
// .star files in name order. Rules are returned in file order, then in
// function name order within a file.
func Load(ctx context.Context, paths []string) ([]lint.Rule, error) {
	files, err := expand(paths)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)

	var rules []lint.Rule
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("load plugins: %w", ctx.Err())
		default:
		}

		loaded, err := loadFile(file, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded plugin", logging.FieldPlugin, file, "rules", len(loaded))
		rules = append(rules, loaded...)
	}
	return rules, nil
}

// Register loads the plugins named by paths into a copy of base. The copy
// is returned so the base registry stays untouched. A plugin rule whose
// name is already taken is a load error.
func Register(ctx context.Context, base *lint.Registry, paths []string) (*lint.Registry, error) {
	if len(paths) == 0 {
		return base, nil
	}

	rules, err := Load(ctx, paths)
	if err != nil {
		return nil, err
	}

	reg := base.Clone()
	for _, rule := range rules {
		if err := reg.Register(rule); err != nil {
			file := ""
			if sr, ok := rule.(*Rule); ok {
				file = sr.File()
			}
			return nil, &LoadError{File: file, Message: err.Error()}
		}
	}
	return reg, nil
}

// expand turns paths into a list of plugin files.
func expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &LoadError{File: path, Message: err.Error()}
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(path, "*"+Extension))
		if err != nil {
			return nil, &LoadError{File: path, Message: err.Error()}
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// loadFile executes one plugin file and turns its rule functions into
// rules. Globals returned by ExecFile are frozen, so the functions may be
// called from several goroutines.
func loadFile(path string, logger *log.Logger) ([]lint.Rule, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: plugin paths come from configuration
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	thread := &starlark.Thread{
		Name:  "load:" + filepath.Base(path),
		Print: printer(logger, path),
	}

	globals, err := starlark.ExecFile(thread, path, content, nil) //nolint:staticcheck // SA1019: ExecFileOptions adds nothing here
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("Starlark execution error: %v", err)}
	}

	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	slices.Sort(names)

	var rules []lint.Rule
	for _, name := range names {
		if strings.HasPrefix(name, "_") {
			continue
		}
		fn, ok := globals[name].(*starlark.Function)
		if !ok || fn.NumParams() == 0 {
			continue
		}
		facets := params(fn)
		if _, ok := lint.GranularityOf(facets); !ok {
			continue
		}

		rule, err := newRule(path, fn, facets, logger)
		if err != nil {
			return nil, &LoadError{File: path, Message: err.Error()}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func params(fn *starlark.Function) []string {
	names := make([]string, 0, fn.NumParams())
	for i := range fn.NumParams() {
		name, _ := fn.Param(i)
		names = append(names, name)
	}
	return names
}

func printer(logger *log.Logger, source string) func(*starlark.Thread, string) {
	return func(_ *starlark.Thread, msg string) {
		logger.Debug(msg, logging.FieldPlugin, source)
	}
}
