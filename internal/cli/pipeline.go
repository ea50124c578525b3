package cli

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/photondrift/adrscan/internal/adr"
	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/config"
	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
	"github.com/photondrift/adrscan/internal/patternmatch"
	"github.com/photondrift/adrscan/internal/snapshot"
	"github.com/photondrift/adrscan/internal/walk"
)

// parseConcurrency bounds the number of ADR files / scanned files processed
// at once by the errgroup-based fan-out below, per the concurrency model's
// walker/matcher pipeline and C5's parallel ADR parse.
func parseConcurrency() int {
	if n := runtime.GOMAXPROCS(0); n > 1 {
		return n
	}
	return 1
}

// loadADRRecords walks cfg.AdrDir for Markdown files and parses each one,
// collecting non-fatal parse diagnostics rather than aborting the run (spec
// §4.1: malformed frontmatter degrades a single ADR, it does not abort the
// scan).
func loadADRRecords(cfg *config.Config, diags *direrr.Diagnostics) ([]*driftmodel.AdrRecord, error) {
	entries, _, err := walk.Walk([]string{cfg.AdrDir}, walk.Options{
		Include:      []string{"**/*.md", "**/*.markdown"},
		MaxFileBytes: cfg.MaxFileBytes,
	}, diags)
	if err != nil {
		return nil, err
	}

	results := make([]*driftmodel.AdrRecord, len(entries))

	g := new(errgroup.Group)
	g.SetLimit(parseConcurrency())
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			rec, diag := adr.ParseFile(e.AbsPath)
			if diag != nil {
				if diags != nil {
					diags.Add(diag)
				}
				if rec == nil {
					return nil
				}
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]*driftmodel.AdrRecord, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

// buildIndex loads and indexes every ADR under cfg.AdrDir with the given
// collision policy (fatal for inventory/index, warn for diff, per spec §4.5).
func buildIndex(cfg *config.Config, policy adrindex.CollisionPolicy, diags *direrr.Diagnostics) (*adrindex.Index, error) {
	records, err := loadADRRecords(cfg, diags)
	if err != nil {
		return nil, err
	}
	return adrindex.Build(records, policy)
}

// compiledPatterns returns the configured detection patterns compiled once,
// falling back to patternmatch.DefaultSpecs when the config declares none
// (spec §4.4's representative starter set).
func compiledPatterns(cfg *config.Config) ([]driftmodel.DetectionPattern, error) {
	specs := make([]patternmatch.PatternSpec, 0, len(cfg.Drift.DetectionPatterns))
	for _, p := range cfg.Drift.DetectionPatterns {
		specs = append(specs, patternmatch.PatternSpec{
			Name:            p.Name,
			FileGlob:        p.FilePattern,
			ContentRegex:    p.ContentPattern,
			Category:        p.Category,
			SeverityDefault: p.SeverityDefault,
		})
	}
	if len(specs) == 0 {
		specs = patternmatch.DefaultSpecs()
	}
	return patternmatch.CompilePatterns(specs)
}

// scanSignals walks the given roots with cfg's include/exclude globs and
// runs the compiled patterns over every selected file, returning the combined
// sorted signal set (spec §4.3/§4.4) and the walked entries (for digesting).
func scanSignals(cfg *config.Config, roots []string, patterns []driftmodel.DetectionPattern, diags *direrr.Diagnostics) ([]driftmodel.Signal, []walk.FileEntry, error) {
	entries, _, err := walk.Walk(roots, walk.Options{
		Include:      cfg.IncludePatterns,
		Exclude:      cfg.ExcludePatterns,
		MaxFileBytes: cfg.MaxFileBytes,
	}, diags)
	if err != nil {
		return nil, nil, err
	}
	return matchEntries(cfg, entries, patterns, diags), entries, nil
}

// scanGitScopedSignals runs the compiled patterns over an explicit,
// git-derived file list instead of walking root, backing the `diff` command's
// --staged/--changed/--tracked scan-scoping flags (internal/git.GetStagedFiles,
// GetUncommittedFiles, GetAllTrackedFiles).
func scanGitScopedSignals(cfg *config.Config, root string, files []string, patterns []driftmodel.DetectionPattern, diags *direrr.Diagnostics) ([]driftmodel.Signal, []walk.FileEntry, error) {
	entries := walk.FilterFiles(root, files, walk.Options{
		Include:      cfg.IncludePatterns,
		Exclude:      cfg.ExcludePatterns,
		MaxFileBytes: cfg.MaxFileBytes,
	}, diags)
	return matchEntries(cfg, entries, patterns, diags), entries, nil
}

// matchEntries runs the compiled patterns concurrently over entries,
// shared by scanSignals and scanGitScopedSignals.
func matchEntries(cfg *config.Config, entries []walk.FileEntry, patterns []driftmodel.DetectionPattern, diags *direrr.Diagnostics) []driftmodel.Signal {
	ctx := context.Background()
	matcher := patternmatch.New(patterns)
	perFile := make([][]driftmodel.Signal, len(entries))

	g := new(errgroup.Group)
	g.SetLimit(parseConcurrency())
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			perFile[i] = matcher.MatchFile(ctx, e, diags)
			return nil
		})
	}
	g.Wait()

	var signals []driftmodel.Signal
	for _, s := range perFile {
		signals = append(signals, s...)
		if cfg.MaxInMemorySignals > 0 && len(signals) > cfg.MaxInMemorySignals {
			break
		}
	}
	return driftmodel.SortSignals(signals)
}

// fileDigests computes a SHA-256 digest for every walked entry, keyed by
// root-joined relative path, for the snapshot's file_digests map (spec §6).
func fileDigests(entries []walk.FileEntry) map[string]string {
	digests := make(map[string]string, len(entries))
	for _, e := range entries {
		if sum, err := snapshot.DigestFile(e.AbsPath); err == nil {
			digests[filepath.ToSlash(filepath.Join(e.Root, e.RelPath))] = sum
		}
	}
	return digests
}

// adrSummaries reduces an index's records to the minimal fingerprint stored
// in a Snapshot (spec §6).
func adrSummaries(idx *adrindex.Index) []driftmodel.ADRSummary {
	var out []driftmodel.ADRSummary
	for _, rec := range idx.All() {
		tags := append([]string{}, rec.Tags...)
		sort.Strings(tags)
		out = append(out, driftmodel.ADRSummary{
			ID:         rec.ID,
			Status:     rec.Status,
			TagsSorted: tags,
			TitleHash:  snapshot.DigestString(rec.Title),
		})
	}
	return out
}
