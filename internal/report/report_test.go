package report

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photondrift/adrscan/internal/driftmodel"
)

func sampleFindings() []driftmodel.Finding {
	return []driftmodel.Finding{
		{Kind: driftmodel.KindNewTechnology, Severity: driftmodel.SeverityHigh, Category: "caching", Title: "New Redis", Description: "desc"},
		{Kind: driftmodel.KindMissingMandated, Severity: driftmodel.SeverityMedium, Category: "mandate", Title: "Missing TLS"},
	}
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	findings := sampleFindings()
	original := append([]driftmodel.Finding{}, findings...)

	_ = Assemble(findings, "/repo", time.Now())

	assert.Equal(t, original, findings)
}

func TestAssemble_SeverityAndCategorySummaries(t *testing.T) {
	r := Assemble(sampleFindings(), "/repo", time.Now())
	assert.Equal(t, 2, r.TotalItems)
	assert.Equal(t, 1, r.SeveritySummary.High)
	assert.Equal(t, 1, r.SeveritySummary.Medium)
	assert.Equal(t, 1, r.CategorySummary["caching"])
}

func TestJSONSink_Renders(t *testing.T) {
	r := Assemble(sampleFindings(), "/repo", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	out, err := JSONSink{}.Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"total_items": 2`)
}

func TestCSVSink_FixedColumnOrder(t *testing.T) {
	r := Assemble(sampleFindings(), "/repo", time.Now())
	out, err := CSVSink{}.Render(r)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(out)))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"kind", "severity", "category", "title", "file_path", "line", "column", "related_adrs", "ml_score", "confidence"}, rows[0])
	require.Len(t, rows, 3)
}

func TestYAMLSink_Renders(t *testing.T) {
	r := Assemble(sampleFindings(), "/repo", time.Now())
	out, err := YAMLSink{}.Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "total_items:")
}

func TestSinkFor_UnknownReturnsNil(t *testing.T) {
	assert.Nil(t, SinkFor("xml"))
	assert.NotNil(t, SinkFor("console"))
}
