package lint

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry holds all registered lint rules, keyed by name.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Rule),
	}
}

// Register adds a rule to the registry. Registering a nil rule, a rule
// without a name, or a name that is already taken is an error.
func (r *Registry) Register(rule Rule) error {
	if rule == nil || rule.Name() == "" {
		return ErrInvalidRule
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[rule.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, rule.Name())
	}
	r.byName[rule.Name()] = rule
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// built-in rules registered during init.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Get retrieves a rule by name.
func (r *Registry) Get(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.byName[name]
	return rule, ok
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Rules returns all registered rules sorted by name.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byName))
	for _, rule := range r.byName {
		result = append(result, rule)
	}

	// Sort by name for consistent, deterministic output.
	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.Name(), b.Name())
	})

	return result
}

// Names returns all registered rule names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byName))
	for name := range r.byName {
		result = append(result, name)
	}

	slices.Sort(result)
	return result
}

// Discover returns the rules of one granularity sorted by name. Rules that
// declare no facets are never returned.
func (r *Registry) Discover(g Granularity) []Rule {
	var result []Rule
	for _, rule := range r.Rules() {
		facets := rule.Facets()
		if len(facets) == 0 {
			continue
		}
		if strings.HasPrefix(facets[0], string(g)) {
			result = append(result, rule)
		}
	}
	return result
}

// FindByCode returns the rules whose declared codes include code.
func (r *Registry) FindByCode(code string) []Rule {
	var result []Rule
	for _, rule := range r.Rules() {
		if slices.Contains(rule.Codes(), code) {
			result = append(result, rule)
		}
	}
	return result
}

// Clone returns a new registry holding the same rules.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clone := NewRegistry()
	for name, rule := range r.byName {
		clone.byName[name] = rule
	}
	return clone
}

// Snapshot freezes the registry into a RuleSet for one run. Options are
// keyed by rule name and applied to rules implementing Configurable.
func (r *Registry) Snapshot(options map[string]map[string]any) (*RuleSet, error) {
	set := &RuleSet{}

	for _, g := range Granularities() {
		for _, rule := range r.Discover(g) {
			configured, err := configure(rule, options[rule.Name()])
			if err != nil {
				return nil, err
			}
			set.add(g, configured)
		}
	}

	return set, nil
}

func configure(rule Rule, opts map[string]any) (Rule, error) {
	if len(opts) == 0 {
		return rule, nil
	}

	configurable, ok := rule.(Configurable)
	if !ok {
		return rule, nil
	}

	configured, err := configurable.Configure(opts)
	if err != nil {
		return nil, fmt.Errorf("configure rule %s: %w", rule.Name(), err)
	}
	return configured, nil
}

// DefaultRegistry is the global registry for built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()
