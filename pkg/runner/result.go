package runner

import "github.com/yaklabco/gobqlint/pkg/lint"

// FileOutcome is the result of checking one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the checker result for this file.
	// Nil if the file could not be read.
	Result *lint.FileResult

	// Error is set if the file could not be read.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesChecked is the number of files read and checked.
	FilesChecked int

	// FilesErrored is the number of files that could not be read.
	FilesErrored int

	// FilesWithIssues is the number of files with at least one printed
	// diagnostic.
	FilesWithIssues int

	// DiagnosticsPrinted is the number of diagnostics sent to the sink.
	DiagnosticsPrinted int
}

// Result is the overall runner result.
type Result struct {
	// Total is the number of counted diagnostics, State.Total().
	Total int

	// Files contains the outcome for each file, in discovery order.
	Files []FileOutcome

	// State is the run state the reporter wrote into.
	State *lint.RunState

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasIssues reports whether any diagnostics were counted.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Total > 0
}

// accumulate records a replayed file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesChecked++
	r.Stats.DiagnosticsPrinted += outcome.Result.ErrorCount
	if outcome.Result.ErrorCount > 0 {
		r.Stats.FilesWithIssues++
	}
}
