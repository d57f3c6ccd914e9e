package journal

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// RenderReport writes a Markdown execution trace for one run.
// Entries are expected in step order, as returned by ReadRun.
func RenderReport(w io.Writer, entries []*Entry) error {
	if len(entries) == 0 {
		_, err := io.WriteString(w, "# Run Report\n\nNo journal entries recorded.\n")
		return err
	}

	first, last := entries[0], entries[len(entries)-1]

	var b strings.Builder
	b.WriteString("# Run Report\n\n")
	fmt.Fprintf(&b, "**Run:** %s\n", first.RunID)
	fmt.Fprintf(&b, "**Started:** %s\n", first.Timestamp.Format(time.DateTime))
	fmt.Fprintf(&b, "**Duration:** %s\n\n", last.Timestamp.Sub(first.Timestamp).Round(time.Millisecond))

	b.WriteString("## Execution Trace\n\n")
	b.WriteString("| Step | Time | Agent | Next | Duration | Details |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, e := range entries {
		agent := e.Agent
		if agent == "" {
			agent = "-"
		}
		next := e.NextAgent
		if next == "" {
			next = "-"
		}
		fmt.Fprintf(&b, "| %d | %s | **%s** | %s | %s | %s |\n",
			e.Step,
			e.Timestamp.Format(time.TimeOnly),
			agent,
			next,
			e.Duration.Round(time.Millisecond),
			details(e),
		)
	}

	b.WriteString("\n## Final Status\n\n")
	switch {
	case last.Complete && len(last.Errors) == 0:
		fmt.Fprintf(&b, "Completed successfully. Generated %d artifacts.\n", len(last.Pages))
	case last.Complete:
		fmt.Fprintf(&b, "Completed with %d recorded errors:\n\n", len(last.Errors))
		for _, msg := range last.Errors {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	default:
		fmt.Fprintf(&b, "Stopped before completion after %d steps. Pages present: %s.\n",
			last.Step, pageList(last.Pages))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func details(e *Entry) string {
	var parts []string
	if len(e.Pages) > 0 {
		parts = append(parts, "pages: "+strings.Join(e.Pages, ", "))
	}
	if e.StepFailed && len(e.Errors) > 0 {
		parts = append(parts, "error: "+escapeCell(e.Errors[len(e.Errors)-1]))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ")
}

func pageList(pages []string) string {
	if len(pages) == 0 {
		return "none"
	}
	return strings.Join(pages, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
