package rules

import "github.com/yaklabco/gobqlint/pkg/lint"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Physical line rules
	registry.MustRegister(NewTabsOrSpacesRule())       // E101
	registry.MustRegister(NewTabsObsoleteRule())       // W191
	registry.MustRegister(NewTrailingWhitespaceRule()) // W291, W293
	registry.MustRegister(NewTrailingBlankLinesRule()) // W391
	registry.MustRegister(NewMissingNewlineRule())     // W292
	registry.MustRegister(NewMaxLineLengthRule())      // E501
	registry.MustRegister(NewHyphenCommentRule())      // W000

	// Token rules
	registry.MustRegister(NewUpperCaseKeywordRule()) // W000
	registry.MustRegister(NewExplicitAliasRule())    // W000

	// Logical line rules
	registry.MustRegister(NewExtraneousWhitespaceRule())     // E201, E202, E203
	registry.MustRegister(NewWhitespaceAroundOperatorRule()) // E221-E224
	registry.MustRegister(NewMissingWhitespaceRule())        // E231
	registry.MustRegister(NewWhitespaceAfterCommaRule())     // E241, E242
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
}
