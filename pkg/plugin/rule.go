package plugin

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/sqltoken"
)

var (
	// ErrBadResult is returned when a rule function returns something other
	// than None or an (offset, message) tuple.
	ErrBadResult = errors.New("rule must return None or (offset, message)")

	// ErrUnknownFacet is returned when a rule function declares a parameter
	// that is not a facet name.
	ErrUnknownFacet = errors.New("unknown facet")
)

// Rule is a lint rule backed by a Starlark function.
type Rule struct {
	lint.BaseRule

	file   string
	fn     *starlark.Function
	logger *log.Logger
}

func newRule(file string, fn *starlark.Function, facets []string, logger *log.Logger) (*Rule, error) {
	if fn.HasVarargs() || fn.HasKwargs() {
		return nil, fmt.Errorf("function %s: *args and **kwargs are not supported", fn.Name())
	}
	for _, facet := range facets {
		if !lint.IsFacet(facet) {
			return nil, fmt.Errorf("function %s: %w %q", fn.Name(), ErrUnknownFacet, facet)
		}
	}

	desc, examples, codes := parseDoc(fn.Doc())
	return &Rule{
		BaseRule: lint.NewBaseRule(fn.Name(), desc, facets, codes, examples...),
		file:     file,
		fn:       fn,
		logger:   logger,
	}, nil
}

// File returns the plugin file that defines the rule.
func (r *Rule) File() string {
	return r.file
}

// Check calls the Starlark function with the facets it declares. Each call
// runs on its own thread.
func (r *Rule) Check(s *lint.Subject) (*lint.Result, error) {
	args := make(starlark.Tuple, 0, len(r.Facets()))
	for _, facet := range r.Facets() {
		value, ok := s.Facet(facet)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownFacet, facet)
		}
		arg, err := toStarlark(value)
		if err != nil {
			return nil, fmt.Errorf("facet %s: %w", facet, err)
		}
		args = append(args, arg)
	}

	thread := &starlark.Thread{
		Name:  r.Name(),
		Print: printer(r.logger, r.file),
	}

	out, err := starlark.Call(thread, r.fn, args, nil)
	if err != nil {
		return nil, fmt.Errorf("starlark: %w", err)
	}
	return toResult(out)
}

// toStarlark converts a facet value to a Starlark value.
func toStarlark(v any) (starlark.Value, error) {
	switch val := v.(type) {
	case string:
		return starlark.String(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case []string:
		list := make([]starlark.Value, len(val))
		for i, s := range val {
			list[i] = starlark.String(s)
		}
		return starlark.NewList(list), nil
	case sqltoken.Token:
		return tokenValue(val), nil
	case []sqltoken.Token:
		list := make([]starlark.Value, len(val))
		for i, tok := range val {
			list[i] = tokenValue(tok)
		}
		return starlark.NewList(list), nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

func tokenValue(tok sqltoken.Token) starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("token"), starlark.StringDict{
		"type":       starlark.String(tok.Type.String()),
		"value":      starlark.String(tok.Value),
		"normalized": starlark.String(tok.Normalized),
		"is_keyword": starlark.Bool(tok.IsKeyword),
	})
}

// toResult converts a rule function's return value.
func toResult(v starlark.Value) (*lint.Result, error) {
	if v == starlark.None {
		return nil, nil
	}

	tuple, ok := v.(starlark.Tuple)
	if !ok || tuple.Len() != 2 {
		return nil, fmt.Errorf("%w, got %s", ErrBadResult, v.Type())
	}

	offset, err := starlark.AsInt32(tuple[0])
	if err != nil {
		return nil, fmt.Errorf("%w: offset: %w", ErrBadResult, err)
	}
	message, ok := starlark.AsString(tuple[1])
	if !ok {
		return nil, fmt.Errorf("%w: message is %s", ErrBadResult, tuple[1].Type())
	}
	return lint.Found(offset, message)
}

// parseDoc splits a docstring into a description, the self-test examples
// it contains and the codes those examples name.
func parseDoc(doc string) (string, []string, []string) {
	var desc []string
	var examples []string
	var codes []string

	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if ex, ok := lint.ParseExample(line); ok {
			examples = append(examples, line)
			if ex.Code != "Okay" && !slices.Contains(codes, ex.Code) {
				codes = append(codes, ex.Code)
			}
			continue
		}
		if len(examples) == 0 {
			desc = append(desc, line)
		}
	}
	return strings.Join(strings.Fields(strings.Join(desc, " ")), " "), examples, codes
}
