package lint

import "strings"

// DefaultIgnore returns the code prefixes ignored when neither select nor
// ignore is configured.
func DefaultIgnore() []string {
	return []string{"E24"}
}

// Filter decides which codes are reported. Both lists hold code prefixes.
type Filter struct {
	selected []string
	ignored  []string
}

// NewFilter builds a Filter. A nil ignore list means "not configured": the
// effective ignore list is then [""] (ignore everything not selected) when
// a select list is given, and DefaultIgnore otherwise. A non-nil empty
// ignore list ignores nothing.
func NewFilter(selectPrefixes, ignorePrefixes []string) Filter {
	ignored := ignorePrefixes
	if ignored == nil {
		if len(selectPrefixes) > 0 {
			ignored = []string{""}
		} else {
			ignored = DefaultIgnore()
		}
	}
	return Filter{
		selected: append([]string(nil), selectPrefixes...),
		ignored:  append([]string{}, ignored...),
	}
}

// Ignored reports whether code is suppressed. A code matching both lists is
// reported: select wins.
func (f Filter) Ignored(code string) bool {
	return hasPrefix(f.ignored, code) && !hasPrefix(f.selected, code)
}

// Selected returns the configured select prefixes.
func (f Filter) Selected() []string { return f.selected }

// EffectiveIgnore returns the ignore prefixes in force.
func (f Filter) EffectiveIgnore() []string { return f.ignored }

func hasPrefix(prefixes []string, code string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}
