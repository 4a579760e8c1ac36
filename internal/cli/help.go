package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobqlint/internal/configloader"
	"github.com/yaklabco/gobqlint/internal/ui/pretty"
	"github.com/yaklabco/gobqlint/pkg/config"
)

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]
{{- end}}

{{- if .HasAvailableSubCommands}}

{{heading "Commands:"}}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{subcommand (rpad .Name .NamePadding)}} {{.Short}}
{{- end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}
{{- end}}

{{- if not .HasParent}}

{{heading "Environment:"}}
{{environment}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}`

// applyHelp installs styled help and usage output on cmd and its
// subcommands. Colors follow the --color flag of the command being helped
// and its output stream.
func applyHelp(cmd *cobra.Command) {
	render := func(command *cobra.Command, tmpl string) error {
		t, err := template.New("help").Funcs(helpFuncs(helpStyles(command))).Parse(tmpl)
		if err != nil {
			return fmt.Errorf("parse help template: %w", err)
		}
		return t.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render(command, usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command, helpTemplate+usageTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

func helpStyles(cmd *cobra.Command) *pretty.Styles {
	mode := config.ColorAuto
	if flag := cmd.Flags().Lookup("color"); flag != nil {
		mode = config.ColorMode(flag.Value.String())
	}
	return pretty.NewStyles(pretty.IsColorEnabled(mode, cmd.OutOrStdout()))
}

func helpFuncs(styles *pretty.Styles) template.FuncMap {
	return template.FuncMap{
		"heading":    func(s string) string { return styles.Render(styles.Warning, s) },
		"command":    func(s string) string { return styles.Render(styles.Bold, s) },
		"subcommand": func(s string) string { return styles.Render(styles.Success, s) },
		"flags": func(f interface{ FlagUsages() string }) string {
			return flagUsages(styles, f.FlagUsages())
		},
		"environment": func() string { return environmentUsage(styles) },
		"rpad":        rpad,
		"trimRight":   trimTrailingWhitespaces,
	}
}

// flagUsages colors the flag names of pflag usage lines and dims their
// value types. Lines keep pflag's alignment.
func flagUsages(styles *pretty.Styles, usages string) string {
	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		names, rest, found := strings.Cut(trimmed, "  ")
		if !found || trimmed == "" {
			continue
		}

		fields := strings.Fields(names)
		for j, field := range fields {
			if strings.HasPrefix(field, "-") {
				name, comma := strings.CutSuffix(field, ",")
				fields[j] = styles.Render(styles.Code, name)
				if comma {
					fields[j] += ","
				}
				continue
			}
			fields[j] = styles.Render(styles.Dim, field)
		}

		lines[i] = line[:len(line)-len(trimmed)] + strings.Join(fields, " ") + "  " + rest
	}
	return strings.Join(lines, "\n")
}

// environmentUsage lists the configuration environment variables, sorted.
func environmentUsage(styles *pretty.Styles) string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "  "+styles.Render(styles.Code, rpad(name, width))+"   "+vars[name])
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
