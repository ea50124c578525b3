package drift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

func mkADR(id, title string, status driftmodel.Status, tags []string, date time.Time) *driftmodel.AdrRecord {
	d := date
	return &driftmodel.AdrRecord{ID: id, Title: title, Status: status, Tags: tags, Date: &d}
}

func TestDiff_NewTechnologyWhenUnmentioned(t *testing.T) {
	sig := driftmodel.Signal{PatternName: "Redis Client", Category: "caching", FilePath: "svc/cache.go", Line: 10, SeverityDefault: driftmodel.SeverityMedium}
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := Diff([]driftmodel.Signal{sig}, idx, nil, Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, driftmodel.KindNewTechnology, findings[0].Kind)
	assert.Equal(t, driftmodel.SeverityMedium, findings[0].Severity)
}

// TestDiff_NewTechnologySeverityFromPattern confirms a NewTechnology
// finding's base severity comes from the originating pattern's configured
// default rather than a hard-coded constant.
func TestDiff_NewTechnologySeverityFromPattern(t *testing.T) {
	sig := driftmodel.Signal{PatternName: "gRPC Framework", Category: "framework", FilePath: "svc/server.go", Line: 4, SeverityDefault: driftmodel.SeverityLow}
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := Diff([]driftmodel.Signal{sig}, idx, nil, Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, driftmodel.SeverityLow, findings[0].Severity)
}

func TestDiff_AcceptedTechnologyProducesNoFinding(t *testing.T) {
	sig := driftmodel.Signal{PatternName: "Postgres Driver", Category: "database", FilePath: "svc/db.go", Line: 5}
	adr := mkADR("0001", "Use Postgres", driftmodel.StatusAccepted, []string{"Postgres Driver"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	idx, err := adrindex.Build([]*driftmodel.AdrRecord{adr}, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := Diff([]driftmodel.Signal{sig}, idx, nil, Options{})

	assert.Empty(t, findings)
}

func TestDiff_RejectedTechnologyViolates(t *testing.T) {
	sig := driftmodel.Signal{PatternName: "MongoDB", Category: "database", FilePath: "svc/store.go", Line: 3}
	adr := mkADR("0002", "Reject MongoDB", driftmodel.StatusRejected, []string{"MongoDB"}, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	idx, err := adrindex.Build([]*driftmodel.AdrRecord{adr}, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := Diff([]driftmodel.Signal{sig}, idx, nil, Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, driftmodel.KindViolatesRejectedDecision, findings[0].Kind)
	assert.Equal(t, driftmodel.SeverityHigh, findings[0].Severity)
}

func TestDiff_MissingMandatedTechnology(t *testing.T) {
	adr := mkADR("0003", "Mandate TLS", driftmodel.StatusAccepted, []string{"mandate:TLS Configuration"}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	idx, err := adrindex.Build([]*driftmodel.AdrRecord{adr}, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := Diff(nil, idx, nil, Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, driftmodel.KindMissingMandated, findings[0].Kind)
	assert.True(t, findings[0].Valid())
}

func TestDiff_SeverityPromotedInProductionPath(t *testing.T) {
	sig := driftmodel.Signal{PatternName: "Redis Client", Category: "caching", FilePath: "prod/cache.go", Line: 1, SeverityDefault: driftmodel.SeverityMedium}
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := Diff([]driftmodel.Signal{sig}, idx, nil, Options{ProductionGlobs: []string{"prod/**"}})

	require.Len(t, findings, 1)
	assert.Equal(t, driftmodel.SeverityHigh, findings[0].Severity)
}

func TestDiff_RemovedSinceSnapshot(t *testing.T) {
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	prev := &driftmodel.Snapshot{
		Signals: []driftmodel.Signal{{PatternName: "Chi Router", Category: "framework", FilePath: "old/router.go", Line: 1}},
	}

	findings := Diff(nil, idx, prev, Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, driftmodel.KindRemovedSinceSnapshot, findings[0].Kind)
}

func TestDiff_ChangedLocation(t *testing.T) {
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	prev := &driftmodel.Snapshot{
		Signals: []driftmodel.Signal{{PatternName: "Chi Router", Category: "framework", FilePath: "old/router.go", Line: 1, MatchedText: "go-chi/chi"}},
	}
	current := []driftmodel.Signal{{PatternName: "Chi Router", Category: "framework", FilePath: "new/router.go", Line: 1, MatchedText: "go-chi/chi"}}

	findings := Diff(current, idx, prev, Options{})

	require.Len(t, findings, 1)
	assert.Equal(t, driftmodel.KindChangedLocation, findings[0].Kind)
}

func TestDiff_DeterministicOrdering(t *testing.T) {
	sigs := []driftmodel.Signal{
		{PatternName: "AWS SDK", Category: "cloud", FilePath: "a.go", Line: 1},
		{PatternName: "Redis Client", Category: "caching", FilePath: "b.go", Line: 1},
	}
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	first := Diff(sigs, idx, nil, Options{})
	second := Diff(sigs, idx, nil, Options{})

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Title, second[i].Title)
	}
}
