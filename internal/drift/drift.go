// Package drift implements C6: the canonical reducer from
// (signals, adr_index, previous_snapshot?) to a deterministic, ordered
// sequence of Findings (spec §4.6).
//
// Grounded on three independent "drift detector" services in the pack, none
// ADR-shaped but each sharing the classify-and-rank contract this spec
// requires:
//   - thc1006-O-RAN-Intent-MANO .../drift_detector.go: desired-vs-observed
//     classification into typed finding kinds with a severity field.
//   - gunjanjp-gunj-operator/internal/gitops/drift-detector.go: per-resource
//     classification plus snapshot-vs-current diffing.
//   - EmundoT-git-vendor/internal/core/drift_service.go: a single
//     Diff(prev, curr) -> findings entrypoint over a stored snapshot.
// The stage-by-stage reduce itself (group -> correlate -> snapshot-diff ->
// collapse/sort) has no direct pack analog and is new code, written in the
// teacher's plain-function style (see internal/analysis/engine.go: no
// generics-heavy abstraction, direct slice/map operations).
package drift

import (
	"sort"
	"strings"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

// Options configures classification thresholds that are not part of the
// per-technology correlation itself.
type Options struct {
	// ProductionGlobs are file-glob patterns (doublestar syntax) that, when a
	// NewTechnology signal's file matches, cause the finding's severity to be
	// raised to High, per spec §4.6 stage 2.
	ProductionGlobs []string
}

// Diff runs the full four-stage reduce described in spec §4.6 and returns the
// findings in their final, totally-ordered sequence. prevSnapshot is nil on a
// first run.
func Diff(signals []driftmodel.Signal, idx *adrindex.Index, prevSnapshot *driftmodel.Snapshot, opts Options) []driftmodel.Finding {
	grouped := groupByCategory(signals)

	var findings []driftmodel.Finding
	for category, sigs := range grouped {
		deduped := dedupeByFileAndPattern(sigs)
		for _, tech := range technologiesOf(deduped) {
			techSignals := signalsForTechnology(deduped, tech)
			findings = append(findings, correlate(category, tech, techSignals, idx, opts)...)
		}
	}

	for _, m := range idx.Mandates() {
		if !anySignalForTechnology(signals, m.Technology) {
			findings = append(findings, driftmodel.Finding{
				Kind:        driftmodel.KindMissingMandated,
				Severity:    driftmodel.SeverityMedium,
				Category:    "mandate",
				Title:       "Mandated technology not found: " + m.Technology,
				Description: "ADR " + m.ADR.ID + " mandates " + m.Technology + " but no scanned file matches it.",
				RelatedADRs: []driftmodel.RelatedADR{{ID: m.ADR.ID, Reason: "mandate"}},
			})
		}
	}

	if prevSnapshot != nil {
		findings = append(findings, diffAgainstSnapshot(signals, prevSnapshot)...)
	}

	findings = collapseAndPromote(findings)
	sortFindings(findings)
	return findings
}

func groupByCategory(signals []driftmodel.Signal) map[string][]driftmodel.Signal {
	out := make(map[string][]driftmodel.Signal)
	for _, s := range signals {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}

// dedupeByFileAndPattern keeps the first signal seen per (file_path,
// pattern_name), per spec §4.6 stage 1.
func dedupeByFileAndPattern(signals []driftmodel.Signal) []driftmodel.Signal {
	seen := map[[2]string]bool{}
	var out []driftmodel.Signal
	for _, s := range signals {
		key := [2]string{s.FilePath, s.PatternName}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// technologiesOf enumerates the distinct technology tokens implied by a
// group's signals. In this build a signal's pattern name is the technology
// token (spec leaves "the technologies implied by matching signal tokens"
// implementation-defined; the pattern name is the stable, human-meaningful
// identity a DetectionPattern already carries).
func technologiesOf(signals []driftmodel.Signal) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range signals {
		if !seen[s.PatternName] {
			seen[s.PatternName] = true
			out = append(out, s.PatternName)
		}
	}
	sort.Strings(out)
	return out
}

func signalsForTechnology(signals []driftmodel.Signal, tech string) []driftmodel.Signal {
	var out []driftmodel.Signal
	for _, s := range signals {
		if s.PatternName == tech {
			out = append(out, s)
		}
	}
	return out
}

func anySignalForTechnology(signals []driftmodel.Signal, tech string) bool {
	for _, s := range signals {
		if strings.EqualFold(s.PatternName, tech) {
			return true
		}
	}
	return false
}

func correlate(category, tech string, signals []driftmodel.Signal, idx *adrindex.Index, opts Options) []driftmodel.Finding {
	result := idx.Sanctions(tech)

	if !result.Found {
		sev := patternSeverity(signals)
		if anyInProductionPath(signals, opts.ProductionGlobs) && sev < driftmodel.SeverityHigh {
			sev = driftmodel.SeverityHigh
		}
		return []driftmodel.Finding{{
			Kind:              driftmodel.KindNewTechnology,
			Severity:          sev,
			Category:          category,
			Title:             "New technology detected: " + tech,
			Description:       tech + " appears in scanned files but is not mentioned by any ADR.",
			SupportingSignals: signals,
		}}
	}

	switch result.AggregateStatus {
	case driftmodel.StatusAccepted:
		return nil
	case driftmodel.StatusRejected, driftmodel.StatusDeprecated:
		return []driftmodel.Finding{{
			Kind:              driftmodel.KindViolatesRejectedDecision,
			Severity:          driftmodel.SeverityHigh,
			Category:          category,
			Title:             tech + " violates a rejected/deprecated decision",
			Description:       tech + " is present in scanned files but the governing ADR(s) reject or deprecate it.",
			SupportingSignals: signals,
			RelatedADRs:       relatedADRs(result.Refs, "governs status"),
		}}
	default:
		return nil
	}
}

// patternSeverity returns the originating DetectionPattern's configured
// default severity for a technology's signals (spec §4.6 stage 2: "severity =
// pattern's default"). Every signal gathered for one technology token shares
// a single pattern, and therefore a single SeverityDefault.
func patternSeverity(signals []driftmodel.Signal) driftmodel.Severity {
	if len(signals) == 0 {
		return driftmodel.SeverityMedium
	}
	return signals[0].SeverityDefault
}

func anyInProductionPath(signals []driftmodel.Signal, globs []string) bool {
	if len(globs) == 0 {
		return false
	}
	for _, s := range signals {
		for _, g := range globs {
			if globMatch(g, s.FilePath) {
				return true
			}
		}
	}
	return false
}

func relatedADRs(refs []*driftmodel.AdrRecord, reason string) []driftmodel.RelatedADR {
	out := make([]driftmodel.RelatedADR, 0, len(refs))
	for _, r := range refs {
		out = append(out, driftmodel.RelatedADR{ID: r.ID, Reason: reason})
	}
	return out
}
