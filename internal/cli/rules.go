package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gobqlint/internal/ui/pretty"
	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/plugin"
)

type rulesFlags struct {
	format string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	Name        string   `json:"name"`
	Granularity string   `json:"granularity"`
	Codes       []string `json:"codes"`
	Facets      []string `json:"facets"`
	Description string   `json:"description"`
	Source      string   `json:"source,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		Long: `List every registered rule with its granularity, the codes it may
report and the facets it declares. Plugins named in the configuration are
included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := loadSession(cmd, nil, "")
			if err != nil {
				return err
			}

			infos := collectRuleInfo(sess.registry.Rules())
			if flags.format == formatJSON {
				return outputRulesJSON(cmd.OutOrStdout(), infos)
			}
			color := sess.cfg.Color
			if cmd.Flags().Changed("color") {
				value, _ := cmd.Flags().GetString("color")
				color = config.ColorMode(value)
			}
			return outputRulesTable(cmd.OutOrStdout(), infos, color)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

func collectRuleInfo(rules []lint.Rule) []ruleInfo {
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		granularity := "-"
		if g, ok := lint.GranularityOf(rule.Facets()); ok {
			granularity = string(g)
		}

		info := ruleInfo{
			Name:        rule.Name(),
			Granularity: granularity,
			Codes:       rule.Codes(),
			Facets:      rule.Facets(),
			Description: strings.TrimSpace(rule.Description()),
		}
		if sr, ok := rule.(*plugin.Rule); ok {
			info.Source = sr.File()
		}
		infos = append(infos, info)
	}
	return infos
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}

func outputRulesTable(w io.Writer, infos []ruleInfo, color config.ColorMode) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, w))

	t := pretty.NewTable(w, styles)
	t.AppendHeader(table.Row{"Rule", "Granularity", "Codes", "Facets"})
	for _, info := range infos {
		t.AppendRow(table.Row{
			info.Name,
			info.Granularity,
			strings.Join(info.Codes, ", "),
			strings.Join(info.Facets, ", "),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d rules", len(infos)), "", "", ""})
	t.Render()
	return nil
}
