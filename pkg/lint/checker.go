package lint

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gobqlint/internal/logging"
	"github.com/yaklabco/gobqlint/pkg/fsutil"
	"github.com/yaklabco/gobqlint/pkg/sqltoken"
)

// CheckerState is the lifecycle state of a Checker.
type CheckerState int

// Checker states. A checker moves forward only.
const (
	StateIdle CheckerState = iota
	StateReadingLines
	StatePerLinePass
	StateDone
)

// String returns the state name.
func (s CheckerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReadingLines:
		return "reading"
	case StatePerLinePass:
		return "checking"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Verbosity levels that enable checker logging.
const (
	VerboseLogicalLines = 2
	VerboseRuleNames    = 4

	logicalLogWidth = 80
)

// CheckerOptions configures a single file check.
type CheckerOptions struct {
	// LineOffset is added to every reported line number.
	LineOffset int

	// Expected lists codes that are counted but not printed.
	Expected []string

	// Encoding is the source encoding; empty means utf-8.
	Encoding string

	// Verbose enables logical line and rule name logging.
	Verbose int
}

// Checker runs every rule of a RuleSet over one file. A Checker is used
// for a single file and is not safe for concurrent use.
type Checker struct {
	path  string
	rules *RuleSet
	opts  CheckerOptions

	state      CheckerState
	lines      []string
	indentChar rune
	result     *FileResult
}

// NewChecker creates a checker for path.
func NewChecker(path string, rules *RuleSet, opts CheckerOptions) *Checker {
	return &Checker{
		path:       path,
		rules:      rules,
		opts:       opts,
		state:      StateIdle,
		indentChar: ' ',
	}
}

// State returns the checker's lifecycle state.
func (c *Checker) State() CheckerState {
	return c.state
}

// Run reads the file and checks it. Read failures are wrapped with
// ErrFileNotFound, ErrPermissionDenied or ErrReadFailure. A failing rule
// is returned as *RuleError.
func (c *Checker) Run(ctx context.Context) (*FileResult, error) {
	c.state = StateReadingLines

	text, _, err := fsutil.ReadSource(ctx, c.path, c.opts.Encoding)
	if err != nil {
		c.state = StateDone
		return nil, categorizeError(err)
	}

	return c.RunLines(ctx, SplitLines(text))
}

// RunLines checks lines that are already in memory. Each line keeps its
// terminator.
func (c *Checker) RunLines(ctx context.Context, lines []string) (*FileResult, error) {
	c.state = StatePerLinePass
	defer func() { c.state = StateDone }()

	c.lines = lines
	c.result = &FileResult{
		Path:          c.path,
		Expected:      c.opts.Expected,
		PhysicalLines: len(lines),
	}

	logger := logging.FromContext(ctx)
	scanner := sqltoken.NewScanner()
	builder := &logicalBuilder{}
	seenIndent := false

	for idx, line := range lines {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("check %s: %w", c.path, ctx.Err())
		default:
		}

		lineNumber := idx + 1
		if !seenIndent && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			c.indentChar = rune(line[0])
			seenIndent = true
		}

		tokens := scanner.ScanLine(line)
		if err := c.checkPhysical(line, lineNumber, tokens); err != nil {
			return nil, err
		}

		if err := c.checkTokens(line, lineNumber, tokens); err != nil {
			return nil, err
		}

		for _, logical := range builder.feed(lineNumber, tokens) {
			if err := c.checkLogical(logger, logical); err != nil {
				return nil, err
			}
		}
	}

	if logical := builder.flush(); logical != nil {
		if err := c.checkLogical(logger, logical); err != nil {
			return nil, err
		}
	}

	return c.result, nil
}

func (c *Checker) checkPhysical(line string, lineNumber int, tokens []sqltoken.Token) error {
	subject := &Subject{
		Filename:     c.path,
		PhysicalLine: line,
		IndentChar:   c.indentChar,
		Lines:        c.lines,
		LineNumber:   lineNumber,
		Tokens:       tokens,
	}

	defer c.sortFrom(len(c.result.Diagnostics))
	for _, rule := range c.rules.Physical() {
		res, err := c.runCheck(rule, subject, lineNumber)
		if err != nil {
			return err
		}
		if res != nil {
			c.report(rule, lineNumber, res.Offset, res.Message)
		}
	}
	return nil
}

func (c *Checker) checkTokens(line string, lineNumber int, tokens []sqltoken.Token) error {
	if len(c.rules.Token()) == 0 {
		return nil
	}

	defer c.sortFrom(len(c.result.Diagnostics))
	offset := 0
	for idx, tok := range tokens {
		subject := &Subject{
			Filename:     c.path,
			PhysicalLine: line,
			IndentChar:   c.indentChar,
			Lines:        c.lines,
			LineNumber:   lineNumber,
			Token:        tok,
			Offset:       offset,
			Tokens:       tokens,
			TokenIndex:   idx,
		}

		for _, rule := range c.rules.Token() {
			res, err := c.runCheck(rule, subject, lineNumber)
			if err != nil {
				return err
			}
			if res != nil {
				c.report(rule, lineNumber, res.Offset, res.Message)
			}
		}
		offset += tok.Len()
	}
	return nil
}

func (c *Checker) checkLogical(logger *log.Logger, logical *LogicalLine) error {
	c.result.LogicalLines++

	if c.opts.Verbose >= VerboseLogicalLines {
		text := []rune(logical.Text)
		if len(text) > logicalLogWidth {
			text = text[:logicalLogWidth]
		}
		logger.Info("logical line", logging.FieldLine, logical.Line+c.opts.LineOffset,
			logging.FieldLogicalLine, strings.TrimRight(string(text), " "))
	}

	subject := &Subject{
		Filename:    c.path,
		IndentChar:  c.indentChar,
		Lines:       c.lines,
		LineNumber:  logical.Line,
		Tokens:      logical.Tokens,
		LogicalLine: logical.Text,
	}
	if logical.Line-1 < len(c.lines) {
		subject.PhysicalLine = c.lines[logical.Line-1]
	}

	defer c.sortFrom(len(c.result.Diagnostics))
	for _, rule := range c.rules.Logical() {
		if c.opts.Verbose >= VerboseRuleNames {
			logger.Info("running rule", logging.FieldRule, rule.Name())
		}

		res, err := c.runCheck(rule, subject, logical.Line)
		if err != nil {
			return err
		}
		if res != nil {
			line, col := logical.Position(res.Offset)
			c.report(rule, line, col, res.Message)
		}
	}
	return nil
}

// runCheck invokes a rule, turning both returned errors and panics into a
// *RuleError.
func (c *Checker) runCheck(rule Rule, subject *Subject, lineNumber int) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &RuleError{
				Rule: rule.Name(),
				File: c.path,
				Line: lineNumber + c.opts.LineOffset,
				Err:  fmt.Errorf("panic: %v", r),
			}
		}
	}()

	res, err = rule.Check(subject)
	if err != nil {
		return nil, &RuleError{Rule: rule.Name(), File: c.path, Line: lineNumber + c.opts.LineOffset, Err: err}
	}
	return res, nil
}

func (c *Checker) report(rule Rule, lineNumber, offset int, message string) {
	source := ""
	if lineNumber >= 1 && lineNumber <= len(c.lines) {
		source = sourceLine(c.lines[lineNumber-1])
	}

	c.result.Diagnostics = append(c.result.Diagnostics, Diagnostic{
		Path:    c.path,
		Line:    lineNumber + c.opts.LineOffset,
		Offset:  offset,
		Message: message,
		Rule:    rule.Name(),
		Source:  source,
	})
}

// sortFrom orders the diagnostics of the current pass by line and offset.
// Rules run in name order, so the stable sort keeps that as the tie-break.
func (c *Checker) sortFrom(start int) {
	slices.SortStableFunc(c.result.Diagnostics[start:], func(a, b Diagnostic) int {
		if n := cmp.Compare(a.Line, b.Line); n != 0 {
			return n
		}
		return cmp.Compare(a.Offset, b.Offset)
	})
}

// SplitLines splits text after each newline, keeping terminators. A final
// line without a newline is kept as is.
func SplitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// CheckFile checks one file and replays its diagnostics into reporter. It
// returns the number of diagnostics printed.
func CheckFile(ctx context.Context, path string, rules *RuleSet, reporter *Reporter, opts CheckerOptions) (int, error) {
	result, err := NewChecker(path, rules, opts).Run(ctx)
	if err != nil {
		return 0, err
	}
	return reporter.ReportFile(result)
}
