package propose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

func TestGenerate_AllocatesIDsAboveMax(t *testing.T) {
	adr := &driftmodel.AdrRecord{ID: "0012", Title: "Existing", Status: driftmodel.StatusAccepted}
	idx, err := adrindex.Build([]*driftmodel.AdrRecord{adr}, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := []driftmodel.Finding{
		{Kind: driftmodel.KindNewTechnology, Title: "New technology detected: Kafka", Category: "messaging"},
	}

	drafts, err := Generate(findings, idx, Options{Format: "madr", Now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "0013", drafts[0].ID)
	assert.Contains(t, drafts[0].Content, "Kafka")
}

func TestGenerate_SkipsIneligibleKinds(t *testing.T) {
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := []driftmodel.Finding{
		{Kind: driftmodel.KindMissingMandated, Title: "Missing TLS"},
		{Kind: driftmodel.KindRemovedSinceSnapshot, Title: "Removed Redis"},
	}

	drafts, err := Generate(findings, idx, Options{Format: "madr"})
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestGenerate_DisambiguatesDuplicateTitles(t *testing.T) {
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := []driftmodel.Finding{
		{Kind: driftmodel.KindNewTechnology, Title: "New technology detected: Kafka", Category: "messaging"},
		{Kind: driftmodel.KindNewTechnology, Title: "New technology detected: Kafka", Category: "messaging"},
	}

	drafts, err := Generate(findings, idx, Options{Format: "madr"})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.NotEqual(t, drafts[0].Title, drafts[1].Title)
}

func TestGenerate_CustomTemplateSubstitution(t *testing.T) {
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	findings := []driftmodel.Finding{
		{Kind: driftmodel.KindNewTechnology, Title: "New tech: Kafka", Category: "messaging", Description: "evidence"},
	}

	drafts, err := Generate(findings, idx, Options{
		Format:         "custom",
		CustomTemplate: "id={{id}} title={{title}} category={{category}} evidence={{supporting_evidence}}",
	})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Contains(t, drafts[0].Content, "title=New tech: Kafka")
	assert.Contains(t, drafts[0].Content, "category=messaging")
	assert.Contains(t, drafts[0].Content, "evidence=evidence")
}

func TestGenerate_CustomFormatRequiresTemplate(t *testing.T) {
	idx, err := adrindex.Build(nil, adrindex.CollisionFatal)
	require.NoError(t, err)

	_, err = Generate(nil, idx, Options{Format: "custom"})
	assert.Error(t, err)
}
