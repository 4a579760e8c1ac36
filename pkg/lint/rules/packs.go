package rules

// Pack describes a named selection of codes for a particular use case.
// Packs are configuration fragments used as starting points for
// .gobqlint.yml files.
type Pack struct {
	// Name is the short identifier for the pack (e.g., "default", "strict").
	Name string

	// Description explains the purpose and characteristics of the pack.
	Description string

	// Select lists code prefixes to report. Empty means all.
	Select []string

	// Ignore lists code prefixes to suppress. Nil keeps the default.
	Ignore []string

	// Rules contains rule options keyed by rule name.
	Rules map[string]map[string]any
}

// DefaultPack returns the pack matching the built-in defaults.
func DefaultPack() Pack {
	return Pack{
		Name:        "default",
		Description: "All rules except the E24 family, 79 character lines",
	}
}

// StrictPack returns a pack that reports every code.
func StrictPack() Pack {
	return Pack{
		Name:        "strict",
		Description: "Every rule, including E241/E242",
		Ignore:      []string{},
	}
}

// LayoutPack returns a pack limited to whitespace and layout codes.
func LayoutPack() Pack {
	return Pack{
		Name:        "layout",
		Description: "Whitespace and layout only: indentation, trailing space, line length",
		Select:      []string{"E1", "E2", "E5", "W1", "W2", "W3"},
	}
}

// RelaxedPack returns a pack with minimal noise for legacy code.
func RelaxedPack() Pack {
	return Pack{
		Name:        "relaxed",
		Description: "Relaxed pack: 120 character lines, no keyword or alias style checks",
		Ignore:      []string{"E24", "W000"},
		Rules: map[string]map[string]any{
			"maximum_line_length": {"max": 120},
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		DefaultPack(),
		StrictPack(),
		LayoutPack(),
		RelaxedPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}
