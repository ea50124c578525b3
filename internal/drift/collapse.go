package drift

import (
	"sort"

	"github.com/photondrift/adrscan/internal/driftmodel"
)

// kindRank breaks the final sort's remaining ties between findings of equal
// severity, category and title: highest-signal kinds first.
var kindRank = map[driftmodel.Kind]int{
	driftmodel.KindViolatesRejectedDecision: 0,
	driftmodel.KindMissingMandated:          1,
	driftmodel.KindNewTechnology:            2,
	driftmodel.KindUnsanctionedPattern:      3,
	driftmodel.KindChangedLocation:          4,
	driftmodel.KindRemovedSinceSnapshot:     5,
}

// collapseAndPromote implements spec §4.6 stage 4's non-ordering half: when
// two or more findings describe the same (kind, category, title) — for
// example two ADRs mandating the same missing technology — they collapse into
// one finding carrying the union of supporting signals and related ADRs, at
// the higher of the two severities. Findings of different kinds are never
// merged, even when they concern the same technology.
func collapseAndPromote(findings []driftmodel.Finding) []driftmodel.Finding {
	type key struct {
		kind  driftmodel.Kind
		cat   string
		title string
	}

	order := make([]key, 0, len(findings))
	byKey := make(map[key]*driftmodel.Finding, len(findings))

	for _, f := range findings {
		k := key{f.Kind, f.Category, f.Title}
		if existing, ok := byKey[k]; ok {
			existing.SupportingSignals = append(existing.SupportingSignals, f.SupportingSignals...)
			existing.RelatedADRs = append(existing.RelatedADRs, f.RelatedADRs...)
			if f.Severity > existing.Severity {
				existing.Severity = f.Severity
			}
			continue
		}
		fCopy := f
		byKey[k] = &fCopy
		order = append(order, k)
	}

	out := make([]driftmodel.Finding, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	return out
}

// sortFindings establishes the final deterministic order: descending
// severity, then category, then title, per spec §4.6 stage 4, with kind rank
// as the last tie-break.
func sortFindings(findings []driftmodel.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return kindRank[a.Kind] < kindRank[b.Kind]
	})
}
