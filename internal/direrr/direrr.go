// Package direrr defines the error kinds of spec §7. Each kind is a small
// struct wrapping an underlying cause so callers can branch on kind with
// errors.As while the teacher's habit of fmt.Errorf("...: %w", err) still
// gives a readable message at the top level.
package direrr

import "fmt"

// ConfigError signals invalid configuration, a regex compile failure, or a
// missing template. Fatal at process entry; returned as-is to library callers.
type ConfigError struct {
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("config error: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// ReadError is a per-file I/O failure. Non-fatal: counted and reported.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error: %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error { return e.Cause }

// ParseError is malformed frontmatter or bad YAML. Non-fatal: the record is
// still created with StatusUnknown.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s: %v", e.Path, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// SnapshotVersionError signals a snapshot whose schema_version is newer than
// this build supports. Fatal to the diff operation only; the scan itself may
// still complete. A snapshot that cannot be parsed or migrated is reported as
// ParseError, not as this type.
type SnapshotVersionError struct {
	Found, Max int
}

func (e *SnapshotVersionError) Error() string {
	return fmt.Sprintf("snapshot schema_version %d is newer than supported %d", e.Found, e.Max)
}

// PatternTimeout signals a regex that exceeded its per-file budget. The
// offending pattern is skipped for that file only.
type PatternTimeout struct {
	Pattern, Path string
}

func (e *PatternTimeout) Error() string {
	return fmt.Sprintf("pattern %q timed out evaluating %s", e.Pattern, e.Path)
}

// ModelError is a training or predict failure in an anomaly model. It
// degrades the caller to a neutral confidence; it never drops a finding.
type ModelError struct {
	Model string
	Cause error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s unavailable: %v", e.Model, e.Cause)
}

func (e *ModelError) Unwrap() error { return e.Cause }

// Cancelled signals an external cancellation of a run.
type Cancelled struct{}

func (e *Cancelled) Error() string { return "cancelled" }
