package lint

import (
	"fmt"
	"strings"
)

const codeLength = 4

// Diagnostic is one raw finding produced by the checker, before filtering.
type Diagnostic struct {
	// Path is the file path as given on the command line.
	Path string

	// Line is the 1-based line number, including any line offset.
	Line int

	// Offset is the 0-based rune offset within the line.
	Offset int

	// Message is the full rule message, code first.
	Message string

	// Rule is the name of the rule that produced the finding.
	Rule string

	// Source is the physical line the finding points into, without its
	// terminator.
	Source string
}

// Code returns the first four characters of the message.
func (d Diagnostic) Code() string {
	return CodeOf(d.Message)
}

// Text returns the message with its code prefix removed.
func (d Diagnostic) Text() string {
	return TextOf(d.Message)
}

// Column returns the 1-based column.
func (d Diagnostic) Column() int {
	return d.Offset + 1
}

// Class returns the letter that prefixes the code, e.g. "E" or "W".
func (d Diagnostic) Class() string {
	code := d.Code()
	if code == "" {
		return ""
	}
	return code[:1]
}

// String formats the diagnostic as path:line:column:type message, where
// message is the full rule message including its code.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d:%s %s", d.Path, d.Line, d.Column(), d.Class(), d.Message)
}

// CodeOf returns the code prefix of a rule message.
func CodeOf(message string) string {
	if len(message) < codeLength {
		return message
	}
	return message[:codeLength]
}

// TextOf returns a rule message without its code and separator.
func TextOf(message string) string {
	if len(message) <= codeLength+1 {
		return ""
	}
	return message[codeLength+1:]
}

// FileResult holds the raw outcome of checking one file.
type FileResult struct {
	// Path is the file path as given on the command line.
	Path string

	// Diagnostics holds every finding in the order rules produced them.
	Diagnostics []Diagnostic

	// Expected lists codes that are counted but never printed.
	Expected []string

	// PhysicalLines is the number of lines read.
	PhysicalLines int

	// LogicalLines is the number of logical lines checked.
	LogicalLines int

	// ErrorCount is the number of diagnostics printed for this file. It is
	// set by Reporter.ReportFile.
	ErrorCount int
}

// sourceLine trims the terminator from a physical line.
func sourceLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}
