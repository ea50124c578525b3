package report

import (
	"bytes"
	"encoding/json"
)

// JSONSink renders the report as sorted-key JSON per spec §6.
type JSONSink struct{}

func (JSONSink) Name() string { return "json" }

func (JSONSink) Render(r *Report) ([]byte, error) {
	w := toWireReport(r)
	// Round-trip through a generic value so struct fields, not only map
	// keys, come out in sorted order.
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var sorted any
	if err := dec.Decode(&sorted); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type wireSeveritySummary struct {
	Critical int `json:"Critical" yaml:"Critical"`
	High     int `json:"High" yaml:"High"`
	Medium   int `json:"Medium" yaml:"Medium"`
	Low      int `json:"Low" yaml:"Low"`
}

type wireFinding struct {
	Kind              string              `json:"kind" yaml:"kind"`
	Severity          string              `json:"severity" yaml:"severity"`
	Category          string              `json:"category" yaml:"category"`
	Title             string              `json:"title" yaml:"title"`
	Description       string              `json:"description" yaml:"description"`
	FilePath          string              `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Line              int                 `json:"line,omitempty" yaml:"line,omitempty"`
	Column            int                 `json:"column,omitempty" yaml:"column,omitempty"`
	RelatedADRs       []wireRelatedADR    `json:"related_adrs,omitempty" yaml:"related_adrs,omitempty"`
	MLScore           *float64            `json:"ml_score,omitempty" yaml:"ml_score,omitempty"`
	Confidence        *float64            `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Explanation       string              `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	SupportingSignals []wireSupportSignal `json:"supporting_signals,omitempty" yaml:"supporting_signals,omitempty"`
}

type wireRelatedADR struct {
	ID     string `json:"id" yaml:"id"`
	Reason string `json:"reason" yaml:"reason"`
}

type wireSupportSignal struct {
	PatternName string `json:"pattern_name" yaml:"pattern_name"`
	FilePath    string `json:"file_path" yaml:"file_path"`
	Line        int    `json:"line" yaml:"line"`
}

type wireReport struct {
	Timestamp        string              `json:"timestamp" yaml:"timestamp"`
	ScannedDirectory string              `json:"scanned_directory" yaml:"scanned_directory"`
	TotalItems       int                 `json:"total_items" yaml:"total_items"`
	SeveritySummary  wireSeveritySummary `json:"severity_summary" yaml:"severity_summary"`
	CategorySummary  map[string]int      `json:"category_summary" yaml:"category_summary"`
	Items            []wireFinding       `json:"items" yaml:"items"`
}

func toWireReport(r *Report) wireReport {
	items := make([]wireFinding, 0, len(r.Items))
	for _, f := range r.Items {
		wf := wireFinding{
			Kind:        string(f.Kind),
			Severity:    f.Severity.String(),
			Category:    f.Category,
			Title:       f.Title,
			Description: f.Description,
			MLScore:     f.MLScore,
			Confidence:  f.Confidence,
			Explanation: f.Explanation,
		}
		if f.Location != nil {
			wf.FilePath = f.Location.FilePath
			wf.Line = f.Location.Line
			wf.Column = f.Location.Column
		}
		for _, ra := range f.RelatedADRs {
			wf.RelatedADRs = append(wf.RelatedADRs, wireRelatedADR{ID: ra.ID, Reason: ra.Reason})
		}
		for _, s := range f.SupportingSignals {
			wf.SupportingSignals = append(wf.SupportingSignals, wireSupportSignal{PatternName: s.PatternName, FilePath: s.FilePath, Line: s.Line})
		}
		items = append(items, wf)
	}

	return wireReport{
		Timestamp:        r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		ScannedDirectory: r.ScannedDirectory,
		TotalItems:       r.TotalItems,
		SeveritySummary: wireSeveritySummary{
			Critical: r.SeveritySummary.Critical,
			High:     r.SeveritySummary.High,
			Medium:   r.SeveritySummary.Medium,
			Low:      r.SeveritySummary.Low,
		},
		CategorySummary: r.CategorySummary,
		Items:           items,
	}
}
