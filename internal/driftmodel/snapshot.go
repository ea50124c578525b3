package driftmodel

import "time"

// CurrentSchemaVersion is the schema_version this build writes. Readers accept
// any version <= this; see internal/snapshot for the migration table.
const CurrentSchemaVersion = 1

// ADRSummary is the minimal per-ADR fingerprint stored in a Snapshot.
type ADRSummary struct {
	ID         string
	Status     Status
	TagsSorted []string
	TitleHash  string
}

// Snapshot is the canonical persisted scan state, see spec §3/§6.
type Snapshot struct {
	SchemaVersion int
	CreatedAt     time.Time
	Roots         []string
	FileDigests   map[string]string
	Signals       []Signal
	ADRSummary    []ADRSummary
}
