package report

import (
	"fmt"
	"sort"
	"strings"
)

// ConsoleSink renders a human-readable summary followed by one line per
// finding, for interactive terminal use.
type ConsoleSink struct{}

func (ConsoleSink) Name() string { return "console" }

func (ConsoleSink) Render(r *Report) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "adrscan report - %s\n", r.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "scanned: %s\n", r.ScannedDirectory)
	fmt.Fprintf(&b, "total findings: %d (Critical=%d High=%d Medium=%d Low=%d)\n\n",
		r.TotalItems, r.SeveritySummary.Critical, r.SeveritySummary.High, r.SeveritySummary.Medium, r.SeveritySummary.Low)

	if len(r.Items) == 0 {
		b.WriteString("no drift detected\n")
		return []byte(b.String()), nil
	}

	cats := make([]string, 0, len(r.CategorySummary))
	for c := range r.CategorySummary {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(&b, "  %s: %d\n", c, r.CategorySummary[c])
	}
	b.WriteString("\n")

	for _, f := range r.Items {
		loc := ""
		if f.Location != nil && f.Location.FilePath != "" {
			loc = fmt.Sprintf(" (%s:%d)", f.Location.FilePath, f.Location.Line)
		}
		fmt.Fprintf(&b, "[%s] %s: %s%s\n", f.Severity, f.Kind, f.Title, loc)
		if f.Description != "" {
			fmt.Fprintf(&b, "    %s\n", f.Description)
		}
	}

	return []byte(b.String()), nil
}
