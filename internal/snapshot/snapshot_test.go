package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")

	orig := &driftmodel.Snapshot{
		SchemaVersion: driftmodel.CurrentSchemaVersion,
		CreatedAt:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Roots:         []string{"/repo"},
		FileDigests:   map[string]string{"a.go": "deadbeef"},
		Signals: []driftmodel.Signal{
			{PatternName: "Redis Client", Category: "caching", FilePath: "a.go", Line: 1, Column: 2, MatchedText: "redis"},
		},
		ADRSummary: []driftmodel.ADRSummary{
			{ID: "0001", Status: driftmodel.StatusAccepted, TagsSorted: []string{"b", "a"}, TitleHash: "abc"},
		},
	}

	require.NoError(t, Write(path, orig))

	got, err := Read(path)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, orig.SchemaVersion, got.SchemaVersion)
	assert.Equal(t, orig.Roots, got.Roots)
	assert.Equal(t, orig.FileDigests, got.FileDigests)
	require.Len(t, got.Signals, 1)
	assert.Equal(t, "Redis Client", got.Signals[0].PatternName)
	require.Len(t, got.ADRSummary, 1)
	assert.Equal(t, []string{"a", "b"}, got.ADRSummary[0].TagsSorted)
}

func TestRead_MissingFileReturnsNilNil(t *testing.T) {
	dir := t.TempDir()
	got, err := Read(filepath.Join(dir, "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRead_FutureVersionRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": 999}`), 0644))

	_, err := Read(path)
	require.Error(t, err)
	var verErr *direrr.SnapshotVersionError
	assert.ErrorAs(t, err, &verErr)
}

func TestDigestFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	d1, err := DigestFile(path)
	require.NoError(t, err)
	d2, err := DigestFile(path)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.NotEmpty(t, d1)
}
