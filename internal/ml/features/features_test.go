package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/photondrift/adrscan/internal/driftmodel"
)

func TestExtract_BasicCounts(t *testing.T) {
	sigs := []driftmodel.Signal{
		{PatternName: "Redis Client", Category: "caching", FilePath: "svc/cache.go", SurroundingContext: "redis.Redis client"},
		{PatternName: "Redis Client", Category: "caching", FilePath: "svc/other.go", SurroundingContext: "another redis use"},
	}
	f := driftmodel.Finding{Description: "New technology detected: Redis Client violates nothing", SupportingSignals: sigs}

	ex := New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour*24*30)
	out := ex.Extract(f, sigs, nil, nil)

	assert.Equal(t, 2.0, out.FileCount)
	assert.Equal(t, 1.0, out.TechDiversity)
	assert.GreaterOrEqual(t, out.TechnicalTermCount, 1.0)
}

func TestExtract_ComplexityBounded(t *testing.T) {
	sigs := []driftmodel.Signal{{FilePath: "big.go"}}
	f := driftmodel.Finding{SupportingSignals: sigs}
	sizes := map[string]int64{"big.go": 50_000_000}

	ex := New(time.Now(), 0)
	out := ex.Extract(f, sigs, sizes, nil)

	assert.Less(t, out.ComplexityScore, 1.0)
	assert.Greater(t, out.ComplexityScore, 0.9)
}

func TestExtract_SentimentNegativeForViolation(t *testing.T) {
	f := driftmodel.Finding{Description: "this violates a rejected and deprecated decision"}
	ex := New(time.Now(), 0)
	out := ex.Extract(f, nil, nil, nil)
	assert.Less(t, out.TextSentiment, 0.0)
}

func TestExtract_CouplingAndCohesionComplementary(t *testing.T) {
	all := []driftmodel.Signal{
		{FilePath: "svc/a.go", Category: "caching"},
		{FilePath: "svc/b.go", Category: "database"},
	}
	f := driftmodel.Finding{SupportingSignals: []driftmodel.Signal{all[0]}}

	ex := New(time.Now(), 0)
	out := ex.Extract(f, all, nil, nil)

	assert.InDelta(t, 1.0, out.StructuralCoupling+out.StructuralCohesion, 0.0001)
}
