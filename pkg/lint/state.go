package lint

import (
	"slices"
	"strings"
)

// Aggregate counter keys reported by --benchmark.
const (
	KeyDirectories   = "directories"
	KeyFiles         = "files"
	KeyLogicalLines  = "logical lines"
	KeyPhysicalLines = "physical lines"
)

// BenchmarkKeys returns the aggregate counters in display order.
func BenchmarkKeys() []string {
	return []string{KeyDirectories, KeyFiles, KeyLogicalLines, KeyPhysicalLines}
}

// Statistic is one row of the per-code statistics report.
type Statistic struct {
	Code    string
	Count   int
	Message string
}

// RunState is the mutable state of one lint run. It is owned by the
// goroutine replaying results and is not safe for concurrent use.
type RunState struct {
	// Rules is the frozen rule snapshot for the run.
	Rules *RuleSet

	// Filter is the select/ignore policy.
	Filter Filter

	counters map[string]int
	messages map[string]string
	totals   map[string]int
}

// NewRunState returns an empty state for a run.
func NewRunState(rules *RuleSet, filter Filter) *RunState {
	return &RunState{
		Rules:    rules,
		Filter:   filter,
		counters: make(map[string]int),
		messages: make(map[string]string),
		totals:   make(map[string]int),
	}
}

// record counts one occurrence of code and remembers the text of its first
// occurrence. It returns true on the first occurrence.
func (s *RunState) record(code, text string) bool {
	s.counters[code]++
	if _, seen := s.messages[code]; seen {
		return false
	}
	s.messages[code] = text
	return true
}

// AddTotal increments an aggregate counter such as KeyFiles.
func (s *RunState) AddTotal(key string, n int) {
	s.totals[key] += n
}

// Totals returns the value of an aggregate counter.
func (s *RunState) Totals(key string) int {
	return s.totals[key]
}

// Counter returns the number of occurrences of one code.
func (s *RunState) Counter(code string) int {
	return s.counters[code]
}

// Message returns the text of the first occurrence of code.
func (s *RunState) Message(code string) string {
	return s.messages[code]
}

// Codes returns the counted codes in sorted order.
func (s *RunState) Codes() []string {
	codes := make([]string, 0, len(s.counters))
	for code := range s.counters {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Count sums the counters of all codes starting with prefix.
func (s *RunState) Count(prefix string) int {
	total := 0
	for code, n := range s.counters {
		if strings.HasPrefix(code, prefix) {
			total += n
		}
	}
	return total
}

// Total returns the number of counted diagnostics.
func (s *RunState) Total() int {
	return s.Count("")
}

// Statistics returns one row per counted code, sorted by code.
func (s *RunState) Statistics() []Statistic {
	codes := s.Codes()
	stats := make([]Statistic, 0, len(codes))
	for _, code := range codes {
		stats = append(stats, Statistic{Code: code, Count: s.counters[code], Message: s.messages[code]})
	}
	return stats
}

// Reset clears all counters, keeping the rule snapshot and filter.
func (s *RunState) Reset() {
	clear(s.counters)
	clear(s.messages)
	clear(s.totals)
}
