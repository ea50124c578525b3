package trainstore

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 0, 0)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	saved, err := s.Append(nil, []Sample{{Vector: []float64{1, 2, 3}, StoredAt: now}}, now)
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	loaded, err := s.Load(now)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, []float64{1, 2, 3}, loaded[0].Vector)
}

func TestStore_TTLEvictsOldSamples(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, time.Hour, 0)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := Sample{Vector: []float64{9}, StoredAt: now.Add(-2 * time.Hour)}
	fresh := Sample{Vector: []float64{1}, StoredAt: now}

	saved, err := s.Append(nil, []Sample{old, fresh}, now)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, []float64{1}, saved[0].Vector)
}

func TestStore_MaxSamplesKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 0, 2)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Vector: []float64{1}, StoredAt: now.Add(-3 * time.Minute)},
		{Vector: []float64{2}, StoredAt: now.Add(-2 * time.Minute)},
		{Vector: []float64{3}, StoredAt: now.Add(-1 * time.Minute)},
	}

	saved, err := s.Append(nil, samples, now)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	for _, sm := range saved {
		assert.NotEqual(t, []float64{1}, sm.Vector)
	}
}

func TestStore_LoadMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 0, 0)
	require.NoError(t, err)

	loaded, err := s.Load(time.Now())
	require.NoError(t, err)
	assert.Empty(t, loaded)

	_, statErr := os.Stat(dir)
	require.NoError(t, statErr)
}
