package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/pkg/config"
	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/lint/rules"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	pack   string
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gobqlint configuration file",
		Long: `Create a new .gobqlint.yaml configuration file in the current directory.
The file starts from a rule pack and documents every built-in rule.

Packs: ` + strings.Join(rules.PackNames(), ", ") + `

Examples:
  gobqlint init                      Create .gobqlint.yaml from the default pack
  gobqlint init --pack strict        Report every code, including E241/E242
  gobqlint init --format toml        Create .gobqlint.toml instead
  gobqlint init --output custom.yaml Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVar(&flags.pack, "pack", "default", "Rule pack to start from")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .gobqlint.yaml or .gobqlint.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractiveWithWriter(cmd.OutOrStdout())

	if flags.format != config.TemplateYAML && flags.format != config.TemplateTOML {
		return &UsageError{Err: fmt.Errorf("invalid format %q: must be yaml or toml", flags.format)}
	}

	pack := rules.PackByName(flags.pack)
	if pack == nil {
		return &UsageError{Err: fmt.Errorf("unknown pack %q: must be one of %s",
			flags.pack, strings.Join(rules.PackNames(), ", "))}
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".gobqlint." + flags.format
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return &UsageError{Err: fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format: flags.format,
		Pack: config.PackInfo{
			Name:        pack.Name,
			Description: pack.Description,
			Select:      pack.Select,
			Ignore:      pack.Ignore,
			Rules:       pack.Rules,
		},
		Rules: templateRules(lint.DefaultRegistry.Rules()),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath, "pack", pack.Name)
	logger.Info("run 'gobqlint rules' to see all available rules")

	return nil
}

// templateRules documents each rule by the first line of its description.
func templateRules(registered []lint.Rule) []config.RuleInfo {
	infos := make([]config.RuleInfo, 0, len(registered))
	for _, rule := range registered {
		summary, _, _ := strings.Cut(strings.TrimSpace(rule.Description()), "\n")
		infos = append(infos, config.RuleInfo{
			Name:        rule.Name(),
			Codes:       rule.Codes(),
			Description: summary,
		})
	}
	return infos
}
