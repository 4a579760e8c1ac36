package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yaklabco/gobqlint/pkg/lint"
	"github.com/yaklabco/gobqlint/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// informationURI points at the project home page.
const informationURI = "https://github.com/yaklabco/gobqlint"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool              `json:"tool"`
	AutomationDetails SARIFAutomationDetails `json:"automationDetails"`
	Invocations       []SARIFInvocation      `json:"invocations"`
	Results           []SARIFResult          `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one diagnostic code.
type SARIFRule struct {
	ID               string                `json:"id"`
	Name             string                `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText  `json:"shortDescription"`
	FullDescription  *SARIFMultiformatText `json:"fullDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig      `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid"`
}

// SARIFInvocation reports whether the run completed and which files could
// not be read.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification is a tool-level message such as a read failure.
type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int           `json:"startLine"`
	StartColumn int           `json:"startColumn,omitempty"`
	Snippet     *SARIFMessage `json:"snippet,omitempty"`
}

// SARIFReporter collects diagnostics and writes a SARIF log when the run
// finishes.
type SARIFReporter struct {
	opts    Options
	bw      *bufio.Writer
	results []SARIFResult
	rules   []SARIFRule
	index   map[string]int
}

// NewSARIFReporter creates a new SARIF reporter. Every code of every rule
// in opts.Rules is listed in the driver's rule table.
func NewSARIFReporter(opts Options) *SARIFReporter {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	r := &SARIFReporter{
		opts:    opts,
		bw:      bufio.NewWriterSize(opts.Writer, bufWriterSize),
		results: make([]SARIFResult, 0),
		rules:   make([]SARIFRule, 0),
		index:   make(map[string]int),
	}
	if opts.Rules != nil {
		for _, rule := range opts.Rules.All() {
			for _, code := range rule.Codes() {
				r.addRule(code, rule.Name(), rule.Description())
			}
		}
	}
	return r
}

func (r *SARIFReporter) addRule(code, name, description string) int {
	if i, ok := r.index[code]; ok {
		return i
	}

	short, _, _ := strings.Cut(strings.TrimSpace(description), "\n")
	rule := SARIFRule{
		ID:               code,
		Name:             name,
		ShortDescription: SARIFMultiformatText{Text: short},
		DefaultConfig:    &SARIFRuleConfig{Level: classToSARIFLevel(code)},
	}
	if full := strings.TrimSpace(description); full != short {
		rule.FullDescription = &SARIFMultiformatText{Text: full}
	}

	r.index[code] = len(r.rules)
	r.rules = append(r.rules, rule)
	return r.index[code]
}

// Filename implements lint.Sink. SARIF has no file-only entries.
func (r *SARIFReporter) Filename(string) error {
	return nil
}

// Diagnostic implements lint.Sink.
func (r *SARIFReporter) Diagnostic(d lint.Diagnostic) error {
	code := d.Code()
	ruleIndex := r.addRule(code, d.Rule, r.opts.describe(d.Rule))

	region := &SARIFRegion{StartLine: d.Line, StartColumn: d.Column()}
	if d.Source != "" {
		region.Snippet = &SARIFMessage{Text: d.Source}
	}

	r.results = append(r.results, SARIFResult{
		RuleID:    code,
		RuleIndex: ruleIndex,
		Level:     classToSARIFLevel(code),
		Message:   SARIFMessage{Text: d.Message},
		Locations: []SARIFLocation{{
			PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: d.Path},
				Region:           region,
			},
		}},
	})
	return nil
}

// Finish implements Reporter.
func (r *SARIFReporter) Finish(_ context.Context, result *runner.Result) error {
	encoder := json.NewEncoder(r.bw)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.buildOutput(result)); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	if err := r.bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	invocation := SARIFInvocation{ExecutionSuccessful: result != nil}
	if result != nil {
		for _, outcome := range result.Files {
			if outcome.Error == nil {
				continue
			}
			invocation.ExecutionSuccessful = false
			invocation.ToolExecutionNotifications = append(invocation.ToolExecutionNotifications, SARIFNotification{
				Level:   "error",
				Message: SARIFMessage{Text: outcome.Error.Error()},
				Locations: []SARIFLocation{{
					PhysicalLocation: SARIFPhysicalLocation{
						ArtifactLocation: SARIFArtifactLocation{URI: outcome.Path},
					},
				}},
			})
		}
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           toolName,
					Version:        r.opts.Version,
					InformationURI: informationURI,
					Rules:          r.rules,
				},
			},
			AutomationDetails: SARIFAutomationDetails{GUID: r.opts.RunID},
			Invocations:       []SARIFInvocation{invocation},
			Results:           r.results,
		}},
	}
}

// classToSARIFLevel maps E codes to errors and everything else to
// warnings.
func classToSARIFLevel(code string) string {
	if strings.HasPrefix(code, "E") {
		return "error"
	}
	return "warning"
}
