// Package report implements C11: assembling one canonical Report from a
// finding sequence and writing it through a pluggable sink (console, json,
// yaml, csv).
//
// Grounded on davetashner-stringer's pluggable-output-format idiom
// (cmd/stringer/scan.go selects an output format via --format; the formats
// share one underlying signal sequence) and its internal/output/sarif.go as
// the model for "one canonical finding sequence, N dumb format sinks" — SARIF
// itself is not in this spec's format list and is not reproduced here. CSV
// sink uses stdlib encoding/csv, the same package the pack reaches for
// wherever CSV output appears (e.g. nelssec-qualys-dspm's sample-report
// generator). YAML sink reuses gopkg.in/yaml.v3, already pulled in for C1/C2.
package report

import (
	"time"

	"github.com/photondrift/adrscan/internal/driftmodel"
)

// Report is the sink-agnostic, fully assembled output of one run.
type Report struct {
	Timestamp        time.Time
	ScannedDirectory string
	TotalItems       int
	SeveritySummary  SeveritySummary
	CategorySummary  map[string]int
	Items            []driftmodel.Finding
}

// SeveritySummary is the fixed four-bucket severity count spec §6 requires.
type SeveritySummary struct {
	Critical int
	High     int
	Medium   int
	Low      int
}

// Assemble builds a Report from a finding sequence without mutating it.
func Assemble(findings []driftmodel.Finding, scannedDirectory string, now time.Time) *Report {
	items := append([]driftmodel.Finding{}, findings...)

	var sev SeveritySummary
	cat := map[string]int{}
	for _, f := range items {
		switch f.Severity {
		case driftmodel.SeverityCritical:
			sev.Critical++
		case driftmodel.SeverityHigh:
			sev.High++
		case driftmodel.SeverityMedium:
			sev.Medium++
		case driftmodel.SeverityLow:
			sev.Low++
		}
		cat[f.Category]++
	}

	return &Report{
		Timestamp:        now.UTC(),
		ScannedDirectory: scannedDirectory,
		TotalItems:       len(items),
		SeveritySummary:  sev,
		CategorySummary:  cat,
		Items:            items,
	}
}

// Sink renders an assembled Report to a byte stream in one output format.
type Sink interface {
	Render(r *Report) ([]byte, error)
	Name() string
}

// SinkFor returns the Sink for the named format ("console", "json", "yaml",
// "csv"), or nil for an unrecognized name.
func SinkFor(format string) Sink {
	switch format {
	case "console":
		return ConsoleSink{}
	case "json":
		return JSONSink{}
	case "yaml":
		return YAMLSink{}
	case "csv":
		return CSVSink{}
	default:
		return nil
	}
}
