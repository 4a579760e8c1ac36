package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError       = "error"
	FieldPath        = "path"
	FieldPaths       = "paths"
	FieldFiles       = "files"
	FieldInput       = "input"
	FieldOutput      = "output"
	FieldWorkingDir  = "working_dir"
	FieldDirectory   = "directory"
	FieldDirectories = "directories"

	// Configuration fields.
	FieldConfigFile = "config_file"
	FieldFormat     = "format"
	FieldJobs       = "jobs"
	FieldEncoding   = "encoding"
	FieldPlugin     = "plugin"

	// Checking fields.
	FieldLine        = "line"
	FieldLogicalLine = "logical_line"
	FieldRule        = "rule"
	FieldCode        = "code"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesChecked     = "files_checked"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldElapsed          = "elapsed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldName        = "name"
	FieldGranularity = "granularity"
	FieldDescription = "description"
)
