package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/mfinch/virtadm/internal/vm"
)

// TableFormatter formats summaries as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatSummary formats a single summary as a table row.
func (f *TableFormatter) FormatSummary(s vm.Summary) (string, error) {
	return f.FormatSummaries([]vm.Summary{s})
}

// FormatSummaries formats a listing as a table.
func (f *TableFormatter) FormatSummaries(list []vm.Summary) (string, error) {
	if len(list) == 0 {
		return "No domains found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tSTATE\tMEMORY")
	}

	for _, s := range list {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d MiB\n", s.Name, s.State, s.MemoryMiB)
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to format table: %w", err)
	}

	return buf.String(), nil
}
