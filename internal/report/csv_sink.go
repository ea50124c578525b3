package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// CSVSink flattens one row per finding with the fixed column order spec §6
// requires: kind,severity,category,title,file_path,line,column,related_adrs,
// ml_score,confidence.
type CSVSink struct{}

func (CSVSink) Name() string { return "csv" }

func (CSVSink) Render(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"kind", "severity", "category", "title", "file_path", "line", "column", "related_adrs", "ml_score", "confidence"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, f := range r.Items {
		filePath, line, col := "", "", ""
		if f.Location != nil {
			filePath = f.Location.FilePath
			if f.Location.HasLine {
				line = strconv.Itoa(f.Location.Line)
			}
			if f.Location.HasCol {
				col = strconv.Itoa(f.Location.Column)
			}
		}

		var adrIDs []string
		for _, ra := range f.RelatedADRs {
			adrIDs = append(adrIDs, ra.ID)
		}

		mlScore, confidence := "", ""
		if f.MLScore != nil {
			mlScore = strconv.FormatFloat(*f.MLScore, 'f', -1, 64)
		}
		if f.Confidence != nil {
			confidence = strconv.FormatFloat(*f.Confidence, 'f', -1, 64)
		}

		row := []string{
			string(f.Kind),
			f.Severity.String(),
			f.Category,
			f.Title,
			filePath,
			line,
			col,
			strings.Join(adrIDs, ";"),
			mlScore,
			confidence,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv render: %w", err)
	}
	return buf.Bytes(), nil
}
