package patternmatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
	"github.com/photondrift/adrscan/internal/walk"
)

func TestMatchFile_CarriesPatternSeverityDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.py")
	require.NoError(t, os.WriteFile(path, []byte("cache = redis.Redis(host='localhost')\n"), 0644))

	patterns, err := CompilePatterns([]PatternSpec{
		{Name: "Redis Client", FileGlob: "**/*.py", ContentRegex: `redis\.Redis`, Category: "caching", SeverityDefault: "Low"},
	})
	require.NoError(t, err)

	m := New(patterns)
	var diags direrr.Diagnostics
	signals := m.MatchFile(context.Background(), walk.FileEntry{AbsPath: path, RelPath: "cache.py"}, &diags)

	require.Len(t, signals, 1)
	assert.Equal(t, driftmodel.SeverityLow, signals[0].SeverityDefault)
}
