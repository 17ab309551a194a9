package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"trestle/internal/testlog"
	"trestle/internal/uploader"
)

// RenderSummary writes a per-case table for a completed run, followed by a
// totals line.
func RenderSummary(w io.Writer, report *uploader.Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Test", "Status", "Module Hierarchy", "Remote ID"})

	counts := map[string]int{}
	for _, entry := range report.Entries {
		counts[entry.Log.Status]++

		remoteID := "new"
		if entry.TestCaseKnown {
			remoteID = fmt.Sprintf("%d", entry.TestCaseID)
		}

		tw.AppendRow(table.Row{
			entry.Log.Name,
			colorizeStatus(entry.Log.Status),
			strings.Join(entry.Log.ModuleHierarchy, " / "),
			remoteID,
		})
	}

	tw.Render()
	fmt.Fprintf(w, "Cycle %q: %d passed, %d failed, %d skipped\n",
		report.TestCycle,
		counts[testlog.StatusPassed],
		counts[testlog.StatusFailed],
		counts[testlog.StatusSkipped])
}

func colorizeStatus(status string) string {
	switch status {
	case testlog.StatusPassed:
		return text.FgGreen.Sprint(status)
	case testlog.StatusFailed:
		return text.FgRed.Sprint(status)
	case testlog.StatusSkipped:
		return text.FgYellow.Sprint(status)
	default:
		return status
	}
}
