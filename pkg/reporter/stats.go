package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/yaklabco/gobqlint/internal/ui/pretty"
	"github.com/yaklabco/gobqlint/pkg/lint"
)

// StatisticsOptions control WriteStatistics.
type StatisticsOptions struct {
	// Table renders a bordered table instead of plain lines.
	Table bool

	// Styles colors the table header. Nil means no color.
	Styles *pretty.Styles
}

// WriteStatistics writes one row per counted code, sorted by code: the
// count, the code and the message of its first occurrence.
func WriteStatistics(w io.Writer, state *lint.RunState, opts StatisticsOptions) error {
	if state == nil {
		return nil
	}
	stats := state.Statistics()

	if !opts.Table {
		for _, stat := range stats {
			if _, err := fmt.Fprintf(w, "%-7d %s %s\n", stat.Count, stat.Code, stat.Message); err != nil {
				return fmt.Errorf("write statistics: %w", err)
			}
		}
		return nil
	}

	if len(stats) == 0 {
		return nil
	}

	t := pretty.NewTable(w, opts.Styles)
	t.AppendHeader(table.Row{"Count", "Code", "Message"})
	for _, stat := range stats {
		t.AppendRow(table.Row{stat.Count, stat.Code, stat.Message})
	}
	t.AppendFooter(table.Row{state.Total(), "", "total"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	t.Render()
	return nil
}

// WriteBenchmark writes the elapsed time and, for each aggregate counter,
// its rate per second and total.
func WriteBenchmark(w io.Writer, state *lint.RunState, elapsed time.Duration) error {
	if state == nil {
		return nil
	}

	seconds := elapsed.Seconds()
	if _, err := fmt.Fprintf(w, "%-7.2f %s\n", seconds, "seconds elapsed"); err != nil {
		return fmt.Errorf("write benchmark: %w", err)
	}

	for _, key := range lint.BenchmarkKeys() {
		total := state.Totals(key)
		rate := 0
		if seconds > 0 {
			rate = int(float64(total) / seconds)
		}
		if _, err := fmt.Fprintf(w, "%-7d %s per second (%d total)\n", rate, key, total); err != nil {
			return fmt.Errorf("write benchmark: %w", err)
		}
	}
	return nil
}

// WriteCount writes the total number of counted diagnostics.
func WriteCount(w io.Writer, total int) error {
	if _, err := fmt.Fprintln(w, total); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	return nil
}
