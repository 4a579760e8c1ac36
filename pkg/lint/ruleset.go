package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// RuleSet is an immutable, per-run view of the registry split by
// granularity. Each slice is sorted by rule name.
type RuleSet struct {
	physical []Rule
	token    []Rule
	logical  []Rule
}

// NewRuleSet builds a RuleSet from rules, sorting them by granularity.
// Rules without a recognizable granularity are dropped.
func NewRuleSet(rules ...Rule) *RuleSet {
	reg := NewRegistry()
	for _, rule := range rules {
		_ = reg.Register(rule)
	}
	set, _ := reg.Snapshot(nil)
	return set
}

func (s *RuleSet) add(g Granularity, rule Rule) {
	switch g {
	case GranularityPhysical:
		s.physical = append(s.physical, rule)
	case GranularityToken:
		s.token = append(s.token, rule)
	case GranularityLogical:
		s.logical = append(s.logical, rule)
	}
}

// Physical returns the physical-line rules.
func (s *RuleSet) Physical() []Rule { return s.physical }

// Token returns the token rules.
func (s *RuleSet) Token() []Rule { return s.token }

// Logical returns the logical-line rules.
func (s *RuleSet) Logical() []Rule { return s.logical }

// Len returns the total number of rules.
func (s *RuleSet) Len() int {
	return len(s.physical) + len(s.token) + len(s.logical)
}

// All returns every rule in checking order.
func (s *RuleSet) All() []Rule {
	all := make([]Rule, 0, s.Len())
	all = append(all, s.physical...)
	all = append(all, s.token...)
	return append(all, s.logical...)
}

// Lookup returns the rule with the given name.
func (s *RuleSet) Lookup(name string) (Rule, bool) {
	for _, rule := range s.All() {
		if rule.Name() == name {
			return rule, true
		}
	}
	return nil, false
}

// DecodeOptions decodes a rule's raw option map into target, which must be
// a pointer to a struct with mapstructure tags. Unknown keys are an error.
func DecodeOptions(opts map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("create options decoder: %w", err)
	}
	if err := decoder.Decode(opts); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	return nil
}
