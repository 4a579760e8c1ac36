package pretty

import (
	"fmt"
	"strings"
	"time"

	"github.com/yaklabco/gobqlint/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 diagnostics in 3 files (10 files checked)".
func (s *Styles) FormatSummaryOneLine(result *runner.Result) string {
	if result == nil {
		return ""
	}
	stats := result.Stats
	checked := s.Render(s.Dim, fmt.Sprintf(" (%d %s checked)", stats.FilesChecked, plural(stats.FilesChecked, wordFile, wordFiles)))

	if result.Total == 0 {
		return s.Render(s.Success, "No issues found") + checked + "\n"
	}

	var parts []string
	parts = append(parts, s.Render(s.Failure, fmt.Sprintf("%d %s", result.Total, plural(result.Total, "diagnostic", "diagnostics"))))
	if stats.FilesWithIssues > 0 {
		parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Render(s.Error, fmt.Sprintf("%d unreadable", stats.FilesErrored)))
	}

	return strings.Join(parts, " ") + checked + "\n"
}

// FormatWatchHeader formats the banner printed before each watch run.
func (s *Styles) FormatWatchHeader(at time.Time, changed []string) string {
	title := s.Render(s.SummaryTitle, "gobqlint watch")
	stamp := s.Render(s.Dim, at.Format(time.TimeOnly))
	if len(changed) == 0 {
		return fmt.Sprintf("%s %s\n", title, stamp)
	}
	return fmt.Sprintf("%s %s %s\n", title, stamp, s.Render(s.Dim, strings.Join(changed, ", ")))
}
