package configloader

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
)

// envVarPrefix is the prefix for all gobqlint environment variables.
const envVarPrefix = "GOBQLINT_"

// envListKeys are config keys whose environment values are comma lists.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envListKeys = map[string]bool{
	"select":   true,
	"ignore":   true,
	"exclude":  true,
	"filename": true,
	"plugins":  true,
}

// envProvider maps GOBQLINT_SHOW_SOURCE=1 to show_source and splits comma
// lists. An empty list variable yields an empty, not missing, list.
func envProvider() *env.Env {
	return env.ProviderWithValue(envVarPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, envVarPrefix))
		if envListKeys[key] {
			return key, parseSliceValue(value)
		}
		return key, value
	})
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns the supported environment variables with their
// descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"GOBQLINT_SELECT":          "Comma-separated code prefixes to report",
		"GOBQLINT_IGNORE":          "Comma-separated code prefixes to suppress",
		"GOBQLINT_EXCLUDE":         "Comma-separated patterns of files and directories to skip",
		"GOBQLINT_FILENAME":        "Comma-separated patterns of files to check",
		"GOBQLINT_MAX_LINE_LENGTH": "Maximum allowed line length",
		"GOBQLINT_FORMAT":          "Output format: text, json, or sarif",
		"GOBQLINT_ENCODING":        "Source encoding: utf-8 or latin-1",
		"GOBQLINT_JOBS":            "Number of parallel workers (0 = auto)",
		"GOBQLINT_PLUGINS":         "Comma-separated Starlark plugin files or directories",
		"GOBQLINT_COLOR":           "Color mode: auto, always, or never",
	}
}
