// Package features implements C7: deriving a fixed-width DriftFeatures vector
// from one Finding, for the anomaly models in internal/ml/anomaly to score.
//
// No example repo extracts an ML feature vector from a classified finding;
// this package is new code following spec.md §4.7's field table exactly, in
// the plain-struct style the pack uses throughout (no ML framework — see
// internal/ml/anomaly for why). The structural.* fields are grounded
// conceptually on gunjanjp-gunj-operator's per-resource grouping-by-directory
// idiom: co-occurrence is computed over signals sharing a directory, the same
// granularity that operator uses to group Kubernetes resources for its own
// drift classification.
package features

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/photondrift/adrscan/internal/driftmodel"
)

// negativeWords and positiveWords form a small fixed lexicon used to score
// finding descriptions.
// Negative terms dominate this domain's vocabulary since most findings
// describe a problem.
var negativeWords = map[string]bool{
	"violates": true, "rejected": true, "deprecated": true, "missing": true,
	"removed": true, "unsanctioned": true, "drift": true, "fail": true,
}

var positiveWords = map[string]bool{
	"sanctioned": true, "accepted": true, "aligned": true, "mandated": true,
}

// technicalTerms is the recognized-technology vocabulary technical_term_count
// scans supporting context against. Matching is substring, case-insensitive.
var technicalTerms = []string{
	"postgres", "mysql", "redis", "aws", "gcp", "kubernetes", "grpc", "chi",
	"jwt", "oauth2", "tls", "docker", "kafka", "graphql", "rest", "grpc",
}

// Extractor derives features for findings belonging to one run. RecencyWindow
// is the configured window temporal_recency is normalized against.
type Extractor struct {
	Now           time.Time
	RecencyWindow time.Duration
}

// New returns an Extractor anchored at now with the given recency window.
func New(now time.Time, recencyWindow time.Duration) *Extractor {
	if recencyWindow <= 0 {
		recencyWindow = 30 * 24 * time.Hour
	}
	return &Extractor{Now: now, RecencyWindow: recencyWindow}
}

// Extract computes the DriftFeatures vector for one finding, given the full
// signal population of the run (used for structural co-occurrence) and the
// file size of each signal's source file, keyed by relative path (used for
// complexity_score's normalized-file-size sum; a file absent from sizes
// contributes zero).
func (e *Extractor) Extract(f driftmodel.Finding, allSignals []driftmodel.Signal, fileSizes map[string]int64, lastChanged map[string]time.Time) driftmodel.DriftFeatures {
	sigs := f.SupportingSignals

	files := distinctFiles(sigs)
	categories := distinctCategories(sigs)
	patternCounts := countByPattern(sigs)

	var totalLines int
	for _, s := range sigs {
		totalLines += strings.Count(s.SurroundingContext, "\n") + 1
	}

	complexity := normalizedFileSizeSum(files, fileSizes)

	recency := 0.0
	if len(lastChanged) > 0 {
		recency = e.temporalRecency(files, lastChanged)
	}

	return driftmodel.DriftFeatures{
		FileCount:                float64(len(files)),
		LinesChanged:             float64(totalLines),
		ComplexityScore:          complexity,
		TechDiversity:            float64(len(categories)),
		PatternFrequency:         float64(maxCount(patternCounts)),
		TemporalRecency:          recency,
		TextSentiment:            sentiment(f.Description),
		TechnicalTermCount:       float64(technicalTermCount(sigs)),
		StructuralDirectoryDepth: float64(maxDirectoryDepth(files)),
		StructuralCoupling:       couplingScore(sigs, allSignals),
		StructuralCohesion:       cohesionScore(sigs, allSignals),
	}
}

func distinctFiles(sigs []driftmodel.Signal) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range sigs {
		if !seen[s.FilePath] {
			seen[s.FilePath] = true
			out = append(out, s.FilePath)
		}
	}
	sort.Strings(out)
	return out
}

func distinctCategories(sigs []driftmodel.Signal) map[string]bool {
	out := map[string]bool{}
	for _, s := range sigs {
		out[s.Category] = true
	}
	return out
}

func countByPattern(sigs []driftmodel.Signal) map[string]int {
	out := map[string]int{}
	for _, s := range sigs {
		out[s.PatternName]++
	}
	return out
}

func maxCount(counts map[string]int) int {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return max
}

// normalizedFileSizeSum sums the known sizes of files and squashes the sum
// into [0,1] via x/(x+k), a smooth saturating normalization that needs no
// global maximum (spec.md leaves the normalization basis unspecified; this
// keeps complexity_score bounded regardless of repository size).
func normalizedFileSizeSum(files []string, sizes map[string]int64) float64 {
	var sum int64
	for _, f := range files {
		sum += sizes[f]
	}
	const k = 10_000.0
	x := float64(sum)
	return x / (x + k)
}

func (e *Extractor) temporalRecency(files []string, lastChanged map[string]time.Time) float64 {
	var most time.Time
	for _, f := range files {
		if t, ok := lastChanged[f]; ok && t.After(most) {
			most = t
		}
	}
	if most.IsZero() {
		return 0
	}
	elapsed := e.Now.Sub(most).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	v := elapsed / e.RecencyWindow.Seconds()
	if v > 1 {
		v = 1
	}
	return v
}

// sentiment scores text in [-1, 1] by counting lexicon hits; zero when no
// recognized word appears.
func sentiment(text string) float64 {
	lc := strings.ToLower(text)
	words := strings.FieldsFunc(lc, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	pos, neg := 0, 0
	for _, w := range words {
		if positiveWords[w] {
			pos++
		}
		if negativeWords[w] {
			neg++
		}
	}
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

func technicalTermCount(sigs []driftmodel.Signal) int {
	count := 0
	for _, s := range sigs {
		lc := strings.ToLower(s.SurroundingContext + " " + s.MatchedText)
		for _, term := range technicalTerms {
			if strings.Contains(lc, term) {
				count++
			}
		}
	}
	return count
}

func maxDirectoryDepth(files []string) int {
	max := 0
	for _, f := range files {
		depth := strings.Count(filepath.ToSlash(filepath.Dir(f)), "/") + 1
		if filepath.Dir(f) == "." {
			depth = 0
		}
		if depth > max {
			max = depth
		}
	}
	return max
}

// couplingScore measures how often this finding's signals share a directory
// with signals of a *different* category, across the whole run — high
// coupling means this finding's technology is entangled with others.
func couplingScore(sigs, allSignals []driftmodel.Signal) float64 {
	dirs := directoriesOf(sigs)
	if len(dirs) == 0 {
		return 0
	}
	myCategories := distinctCategories(sigs)

	var other, total int
	for _, s := range allSignals {
		if !dirs[filepath.ToSlash(filepath.Dir(s.FilePath))] {
			continue
		}
		total++
		if !myCategories[s.Category] {
			other++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(other) / float64(total)
}

// cohesionScore is couplingScore's complement: the share of same-directory
// signals that belong to this finding's own categories.
func cohesionScore(sigs, allSignals []driftmodel.Signal) float64 {
	dirs := directoriesOf(sigs)
	if len(dirs) == 0 {
		return 0
	}
	myCategories := distinctCategories(sigs)

	var same, total int
	for _, s := range allSignals {
		if !dirs[filepath.ToSlash(filepath.Dir(s.FilePath))] {
			continue
		}
		total++
		if myCategories[s.Category] {
			same++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(same) / float64(total)
}

func directoriesOf(sigs []driftmodel.Signal) map[string]bool {
	out := map[string]bool{}
	for _, s := range sigs {
		out[filepath.ToSlash(filepath.Dir(s.FilePath))] = true
	}
	return out
}
