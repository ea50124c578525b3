package drift

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/photondrift/adrscan/internal/driftmodel"
)

// globMatch reports whether rel matches the doublestar pattern g, treating a
// malformed pattern as no match rather than propagating an error (the pattern
// comes from user configuration already validated at load time).
func globMatch(g, rel string) bool {
	ok, _ := doublestar.Match(g, rel)
	return ok
}

// diffAgainstSnapshot implements spec §4.6 stage 3: signals present in the
// previous snapshot but absent now become RemovedSinceSnapshot; signals for
// the same pattern whose file_path changed become ChangedLocation.
func diffAgainstSnapshot(current []driftmodel.Signal, prev *driftmodel.Snapshot) []driftmodel.Finding {
	curByKey := map[[4]string]driftmodel.Signal{}
	for _, s := range current {
		curByKey[s.Key()] = s
	}

	curByPattern := map[string][]driftmodel.Signal{}
	for _, s := range current {
		curByPattern[s.PatternName] = append(curByPattern[s.PatternName], s)
	}

	var findings []driftmodel.Finding
	handledRemoval := map[[4]string]bool{}

	for _, old := range prev.Signals {
		if _, stillPresent := curByKey[old.Key()]; stillPresent {
			continue
		}

		if newLoc, moved := findMovedSignal(old, curByPattern); moved {
			findings = append(findings, driftmodel.Finding{
				Kind:     driftmodel.KindChangedLocation,
				Severity: driftmodel.SeverityLow,
				Category: old.Category,
				Title:    old.PatternName + " moved",
				Description: old.PatternName + " was at " + old.FilePath +
					" in the previous snapshot and is now at " + newLoc.FilePath,
				SupportingSignals: []driftmodel.Signal{old, newLoc},
			})
			handledRemoval[old.Key()] = true
			continue
		}

		if !handledRemoval[old.Key()] {
			findings = append(findings, driftmodel.Finding{
				Kind:              driftmodel.KindRemovedSinceSnapshot,
				Severity:          driftmodel.SeverityLow,
				Category:          old.Category,
				Title:             old.PatternName + " removed since last scan",
				Description:       old.PatternName + " was present at " + old.FilePath + " in the previous snapshot and is no longer detected.",
				SupportingSignals: []driftmodel.Signal{old},
			})
		}
	}

	return findings
}

// findMovedSignal looks for exactly one current signal of the same pattern
// whose matched text is identical but whose file path differs, treating that
// as a moved (not removed+added) signal.
func findMovedSignal(old driftmodel.Signal, curByPattern map[string][]driftmodel.Signal) (driftmodel.Signal, bool) {
	candidates := curByPattern[old.PatternName]
	var match driftmodel.Signal
	count := 0
	for _, c := range candidates {
		if c.FilePath != old.FilePath && c.MatchedText == old.MatchedText {
			match = c
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return driftmodel.Signal{}, false
}
