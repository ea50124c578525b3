// Package adrindex implements C5: an in-memory catalog of ADRs keyed by
// id/status/tag, with the "is technology T sanctioned?" query the drift
// engine (C6) runs once per candidate technology.
//
// Grounded on the teacher's internal/index.Store (a struct owning a slice of
// parsed ADRs, built by walking a directory once) with the embedding/vector
// search concern removed — the spec's sanctioning query is lexical (exact
// tag, then title, then body substring), not semantic — and the
// (found, refs, aggregate_status) result shape borrowed from
// regul4rj0hn-architecture-mcp/pkg/tools/check_adr_alignment.go's
// adrAlignment struct (ADRID/Status/Reason/Score), renamed to the spec's
// vocabulary.
package adrindex

import (
	"sort"
	"strings"
	"time"

	"github.com/photondrift/adrscan/internal/driftmodel"
)

// Index is the built ADR catalog for one run.
type Index struct {
	byID       map[string]*driftmodel.AdrRecord
	byStatus   map[driftmodel.Status][]*driftmodel.AdrRecord
	byTag      map[string][]*driftmodel.AdrRecord
	byCategory map[string][]*driftmodel.AdrRecord
	all        []*driftmodel.AdrRecord
	Warnings   []string
}

// CollisionPolicy controls how a duplicate ADR id is handled while building.
type CollisionPolicy int

const (
	// CollisionFatal makes Build return an error on a duplicate id, used by
	// the `inventory`/`index` operations per spec §4.5.
	CollisionFatal CollisionPolicy = iota
	// CollisionWarn records a warning and keeps the first ADR seen, used by
	// `diff` per spec §4.5.
	CollisionWarn
)

// Build constructs an Index from parsed ADR records, applying the id
// collision policy and the superseded_by existence check (spec §3: a
// violation surfaces as a warning, not a fatal error).
func Build(records []*driftmodel.AdrRecord, policy CollisionPolicy) (*Index, error) {
	idx := &Index{
		byID:       make(map[string]*driftmodel.AdrRecord),
		byStatus:   make(map[driftmodel.Status][]*driftmodel.AdrRecord),
		byTag:      make(map[string][]*driftmodel.AdrRecord),
		byCategory: make(map[string][]*driftmodel.AdrRecord),
	}

	for _, rec := range records {
		if existing, dup := idx.byID[rec.ID]; dup {
			msg := "duplicate ADR id " + rec.ID + " in " + existing.Path + " and " + rec.Path
			if policy == CollisionFatal {
				return nil, &collisionError{msg: msg}
			}
			idx.Warnings = append(idx.Warnings, msg)
			continue
		}

		idx.byID[rec.ID] = rec
		idx.all = append(idx.all, rec)
		idx.byStatus[rec.Status] = append(idx.byStatus[rec.Status], rec)
		for _, t := range rec.Tags {
			key := strings.ToLower(t)
			idx.byTag[key] = append(idx.byTag[key], rec)
		}
		for _, c := range categoriesOf(rec) {
			idx.byCategory[c] = append(idx.byCategory[c], rec)
		}
	}

	for _, rec := range records {
		for _, sb := range rec.SupersededBy {
			if _, ok := idx.byID[sb]; !ok {
				idx.Warnings = append(idx.Warnings, "ADR "+rec.ID+" claims superseded_by "+sb+" but no such ADR exists")
			}
		}
	}

	return idx, nil
}

type collisionError struct{ msg string }

func (e *collisionError) Error() string { return e.msg }

// categoriesOf derives category tokens from tags and title keywords, per
// spec §4.5 ("per-category set derived from tags and title keywords").
func categoriesOf(rec *driftmodel.AdrRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range rec.Tags {
		lc := strings.ToLower(t)
		if strings.Contains(lc, ":") {
			continue // mandate:/requires: tags aren't categories
		}
		if !seen[lc] {
			seen[lc] = true
			out = append(out, lc)
		}
	}
	for _, w := range strings.Fields(strings.ToLower(rec.Title)) {
		if len(w) < 3 {
			continue
		}
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// ByID returns the ADR with the given id, if any.
func (idx *Index) ByID(id string) (*driftmodel.AdrRecord, bool) {
	r, ok := idx.byID[id]
	return r, ok
}

// All returns every indexed ADR, in insertion order.
func (idx *Index) All() []*driftmodel.AdrRecord { return idx.all }

// MaxID returns the numerically-largest 4-digit-style id present, used by
// the proposal generator (C10) to allocate the next free id.
func (idx *Index) MaxID() int {
	max := 0
	for id := range idx.byID {
		if n := parseLeadingInt(id); n > max {
			max = n
		}
	}
	return max
}

func parseLeadingInt(s string) int {
	n := 0
	any := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		any = true
		n = n*10 + int(c-'0')
	}
	if !any {
		return 0
	}
	return n
}

// Mandates returns every (technology, *AdrRecord) pair declared via a
// "mandate:" or "requires:" tag, across the whole index.
func (idx *Index) Mandates() []Mandate {
	var out []Mandate
	for _, rec := range idx.all {
		for _, tech := range rec.Mandates() {
			out = append(out, Mandate{Technology: tech, ADR: rec})
		}
	}
	return out
}

// Mandate pairs a mandated technology name with the ADR declaring it.
type Mandate struct {
	Technology string
	ADR        *driftmodel.AdrRecord
}

// SanctionResult is the answer to "is technology T sanctioned?" (spec §4.5).
type SanctionResult struct {
	Found           bool
	Refs            []*driftmodel.AdrRecord
	AggregateStatus driftmodel.Status
}

// Sanctions answers whether technology is sanctioned: exact tag match
// preferred, then a tag equal to one word of a multi-word technology name
// (so "Postgres Driver" finds an ADR tagged "postgres"), then title, then
// body substring. AggregateStatus is Accepted
// iff some accepted ADR mentions technology and no newer ADR supersedes it
// with Rejected/Deprecated. When multiple ADRs disagree on status for the
// same technology with no supersession link, the Open Question in spec §9 is
// resolved here: prefer the ADR with the latest Date, ties broken by the
// lexicographically later ID.
func (idx *Index) Sanctions(technology string) SanctionResult {
	lc := strings.ToLower(technology)

	var refs []*driftmodel.AdrRecord
	if byTag, ok := idx.byTag[lc]; ok {
		refs = append(refs, byTag...)
	}
	if len(refs) == 0 {
		seen := map[*driftmodel.AdrRecord]bool{}
		for _, word := range strings.Fields(lc) {
			for _, rec := range idx.byTag[word] {
				if !seen[rec] {
					seen[rec] = true
					refs = append(refs, rec)
				}
			}
		}
	}
	if len(refs) == 0 {
		for _, rec := range idx.all {
			if strings.Contains(strings.ToLower(rec.Title), lc) {
				refs = append(refs, rec)
			}
		}
	}
	if len(refs) == 0 {
		for _, rec := range idx.all {
			if strings.Contains(strings.ToLower(rec.Body), lc) {
				refs = append(refs, rec)
			}
		}
	}

	if len(refs) == 0 {
		return SanctionResult{Found: false, AggregateStatus: driftmodel.StatusUnknown}
	}

	return SanctionResult{
		Found:           true,
		Refs:            refs,
		AggregateStatus: aggregateStatus(refs),
	}
}

func aggregateStatus(refs []*driftmodel.AdrRecord) driftmodel.Status {
	sorted := append([]*driftmodel.AdrRecord{}, refs...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ad, bd := dateOf(a), dateOf(b)
		if !ad.Equal(bd) {
			return ad.After(bd)
		}
		return a.ID > b.ID
	})

	// A supersession link to a Rejected/Deprecated ADR always wins, even over
	// a newer unrelated Accepted ADR for the same technology.
	byID := map[string]*driftmodel.AdrRecord{}
	for _, r := range sorted {
		byID[r.ID] = r
	}
	for _, r := range sorted {
		for _, sb := range r.SupersededBy {
			if succ, ok := byID[sb]; ok {
				if succ.Status == driftmodel.StatusRejected || succ.Status == driftmodel.StatusDeprecated {
					return succ.Status
				}
			}
		}
	}

	return sorted[0].Status
}

func dateOf(rec *driftmodel.AdrRecord) time.Time {
	if rec.Date != nil {
		return *rec.Date
	}
	return time.Time{}
}
