// Package driftmodel holds the plain data types shared by every stage of the
// drift-detection pipeline: ADR records, detection patterns, signals, findings
// and snapshots. None of these types carry behavior beyond small invariant
// helpers — the stages that produce and consume them live in their own
// packages (internal/adr, internal/patternmatch, internal/drift, ...).
package driftmodel

import "time"

// Status is the lifecycle state of an ADR. Unrecognized frontmatter values map
// to StatusUnknown rather than failing the parse.
type Status string

const (
	StatusProposed   Status = "Proposed"
	StatusAccepted   Status = "Accepted"
	StatusRejected   Status = "Rejected"
	StatusDeprecated Status = "Deprecated"
	StatusSuperseded Status = "Superseded"
	StatusUnknown    Status = "Unknown"
)

// ParseStatus matches s case-insensitively against the known status values.
func ParseStatus(s string) Status {
	switch normalizeStatus(s) {
	case "proposed":
		return StatusProposed
	case "accepted", "active":
		return StatusAccepted
	case "rejected":
		return StatusRejected
	case "deprecated":
		return StatusDeprecated
	case "superseded":
		return StatusSuperseded
	default:
		return StatusUnknown
	}
}

func normalizeStatus(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// AdrRecord is one parsed ADR, see spec §3.
type AdrRecord struct {
	ID            string
	Path          string
	Title         string
	Status        Status
	Date          *time.Time
	Deciders      []string
	Tags          []string
	SupersededBy  []string
	Supersedes    []string
	Body          string
	RawSizeBytes  int
	LineCount     int
	UnknownFields map[string]any
	Warnings      []string
}

// HasTag reports whether the ADR carries tag, case-insensitively.
func (a *AdrRecord) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if normalizeStatus(t) == normalizeStatus(tag) {
			return true
		}
	}
	return false
}

// Mandates returns the technology name x of every tag of the form
// "mandate:x" or "requires:x" on a, in tag order; nil if a has none.
func (a *AdrRecord) Mandates() []string {
	var out []string
	for _, t := range a.Tags {
		if v, ok := cutPrefix(t, "mandate:"); ok {
			out = append(out, v)
		} else if v, ok := cutPrefix(t, "requires:"); ok {
			out = append(out, v)
		}
	}
	return out
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) {
		return "", false
	}
	if normalizeStatus(s[:len(prefix)]) != normalizeStatus(prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
