package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// Template file formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string

	// Pack holds the settings written into the template.
	Pack PackInfo

	// Rules are documented in the template header.
	Rules []RuleInfo
}

// PackInfo is the data of a rule pack. It mirrors rules.Pack so that this
// package does not depend on the rule set.
type PackInfo struct {
	Name        string
	Description string
	Select      []string
	Ignore      []string
	Rules       map[string]map[string]any
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	Name        string
	Codes       []string
	Description string
}

// GenerateTemplate creates a commented configuration file for a pack.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# gobqlint configuration\n")
	if opts.Pack.Name != "" {
		fmt.Fprintf(&buf, "# Pack: %s\n", opts.Pack.Name)
	}
	if opts.Pack.Description != "" {
		fmt.Fprintf(&buf, "# %s\n", wrapComment(opts.Pack.Description, commentWrapWidth, "# "))
	}
	buf.WriteString("#\n")
	buf.WriteString("# select and ignore take code prefixes such as E2 or W291.\n")
	buf.WriteString("# A selected code is reported even when it is also ignored.\n")
	if opts.Pack.Ignore == nil {
		buf.WriteString("# Without ignore, codes outside select are ignored, or E24 when\n")
		buf.WriteString("# select is empty.\n")
	}

	writeRuleDocs(&buf, opts.Rules)
	buf.WriteString("\n")

	settings := templateSettings(opts.Pack)

	switch opts.Format {
	case "", TemplateYAML:
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(YAMLIndent())
		if err := encoder.Encode(settings); err != nil {
			return nil, fmt.Errorf("encode yaml template: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("close encoder: %w", err)
		}
	case TemplateTOML:
		if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
			return nil, fmt.Errorf("encode toml template: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid template format %q: must be %s or %s", opts.Format, TemplateYAML, TemplateTOML)
	}

	return buf.Bytes(), nil
}

// templateSettings builds the file settings for a pack. Ignore is only
// written when the pack sets it, so that an empty list survives.
func templateSettings(pack PackInfo) map[string]any {
	defaults := NewConfig()
	settings := map[string]any{
		"exclude":  defaults.Exclude,
		"filename": defaults.Filename,
		"format":   string(defaults.Format),
		"encoding": defaults.Encoding,
		"jobs":     defaults.Jobs,
	}
	if len(pack.Select) > 0 {
		settings["select"] = pack.Select
	}
	if pack.Ignore != nil {
		settings["ignore"] = pack.Ignore
	}
	if len(pack.Rules) > 0 {
		settings["rules"] = pack.Rules
	}
	return settings
}

func writeRuleDocs(buf *bytes.Buffer, rules []RuleInfo) {
	if len(rules) == 0 {
		return
	}

	sorted := slices.Clone(rules)
	slices.SortFunc(sorted, func(a, b RuleInfo) int { return strings.Compare(a.Name, b.Name) })

	buf.WriteString("#\n# Rules:\n")
	for _, rule := range sorted {
		fmt.Fprintf(buf, "#   %s", rule.Name)
		if len(rule.Codes) > 0 {
			fmt.Fprintf(buf, " (%s)", strings.Join(rule.Codes, ", "))
		}
		buf.WriteString("\n")
		if rule.Description != "" {
			fmt.Fprintf(buf, "#     %s\n", wrapComment(rule.Description, commentWrapWidth, "#     "))
		}
	}
}

// wrapComment wraps a comment to fit within maxWidth characters. Lines
// after the first start with prefix.
func wrapComment(text string, maxWidth int, prefix string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+prefix)
}
