// Package snapshot implements C9: canonical JSON read/write of the persisted
// scan state, with schema_version migration and SHA-256 file digests.
//
// Grounded on the teacher's internal/index/store.go Load/Save: JSON via
// encoding/json, atomic write via a temp file plus os.Rename, and a
// CalculateHash helper that walks a tree hashing file contents with
// crypto/sha256 — the same primitive this package uses for per-file digests.
// The schema_version migration table follows the general "version check,
// reject unknown, else transform" pattern used by EmundoT-git-vendor's drift
// service, which versions its own stored vendor-snapshot format the same way.
package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

// wireSnapshot is the canonical JSON shape of spec §6; Write emits every
// object's keys in sorted order. driftmodel.Snapshot is the in-memory form;
// this package only converts at the read/write boundary.
type wireSignal struct {
	PatternName string `json:"pattern_name"`
	Category    string `json:"category"`
	FilePath    string `json:"file_path"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	MatchedText string `json:"matched_text"`
}

type wireADRSummary struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	TagsSorted []string `json:"tags_sorted"`
	TitleHash  string   `json:"title_hash"`
}

type wireSnapshot struct {
	SchemaVersion int               `json:"schema_version"`
	CreatedAt     string            `json:"created_at"`
	Roots         []string          `json:"roots"`
	FileDigests   map[string]string `json:"file_digests"`
	Signals       []wireSignal      `json:"signals"`
	ADRSummary    []wireADRSummary  `json:"adr_summary"`
}

// Write renders snap to its canonical JSON form and atomically replaces path
// (write-to-temp then rename), per spec §5's cancellation-safety requirement.
func Write(path string, snap *driftmodel.Snapshot) error {
	w := toWire(snap)

	// Round-trip through a generic value so struct fields, not only map
	// keys, come out in sorted order.
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var sorted any
	if err := dec.Decode(&sorted); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &direrr.ConfigError{Msg: "failed to create snapshot directory " + dir, Cause: err}
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return &direrr.ReadError{Path: tmp, Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &direrr.ReadError{Path: path, Cause: err}
	}
	return nil
}

// Read loads and validates the snapshot at path, applying migrations for any
// schema_version below CurrentSchemaVersion and rejecting versions above it.
// A missing file returns (nil, nil): diff treats it as "no baseline".
func Read(path string) (*driftmodel.Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &direrr.ReadError{Path: path, Cause: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &direrr.ParseError{Path: path, Cause: err}
	}

	version := 0
	if v, ok := raw["schema_version"]; ok {
		_ = json.Unmarshal(v, &version)
	}

	if version > driftmodel.CurrentSchemaVersion {
		return nil, &direrr.SnapshotVersionError{Found: version, Max: driftmodel.CurrentSchemaVersion}
	}

	migrated, err := migrate(data, version)
	if err != nil {
		return nil, &direrr.ParseError{Path: path, Cause: err}
	}

	var w wireSnapshot
	if err := json.Unmarshal(migrated, &w); err != nil {
		return nil, &direrr.ParseError{Path: path, Cause: err}
	}

	return fromWire(&w), nil
}

// migrate transforms an older schema_version's bytes forward to the current
// shape. There is, so far, only one version in the wild, so this is
// presently the identity transform for version 1 and an error for anything
// unrecognized below it (a version of 0 means the key was absent or
// malformed).
func migrate(data []byte, version int) ([]byte, error) {
	switch version {
	case driftmodel.CurrentSchemaVersion:
		return data, nil
	case 0:
		return nil, fmt.Errorf("snapshot missing or invalid schema_version")
	default:
		return nil, fmt.Errorf("no migration path from schema_version %d", version)
	}
}

func toWire(s *driftmodel.Snapshot) wireSnapshot {
	digests := s.FileDigests
	if digests == nil {
		digests = map[string]string{}
	}

	signals := make([]wireSignal, 0, len(s.Signals))
	for _, sig := range s.Signals {
		signals = append(signals, wireSignal{
			PatternName: sig.PatternName,
			Category:    sig.Category,
			FilePath:    sig.FilePath,
			Line:        sig.Line,
			Column:      sig.Column,
			MatchedText: sig.MatchedText,
		})
	}

	summaries := make([]wireADRSummary, 0, len(s.ADRSummary))
	for _, a := range s.ADRSummary {
		tags := append([]string{}, a.TagsSorted...)
		sort.Strings(tags)
		summaries = append(summaries, wireADRSummary{
			ID:         a.ID,
			Status:     string(a.Status),
			TagsSorted: tags,
			TitleHash:  a.TitleHash,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	roots := append([]string{}, s.Roots...)
	sort.Strings(roots)

	return wireSnapshot{
		SchemaVersion: s.SchemaVersion,
		CreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339),
		Roots:         roots,
		FileDigests:   digests,
		Signals:       signals,
		ADRSummary:    summaries,
	}
}

func fromWire(w *wireSnapshot) *driftmodel.Snapshot {
	createdAt, _ := time.Parse(time.RFC3339, w.CreatedAt)

	signals := make([]driftmodel.Signal, 0, len(w.Signals))
	for _, sig := range w.Signals {
		signals = append(signals, driftmodel.Signal{
			PatternName: sig.PatternName,
			Category:    sig.Category,
			FilePath:    sig.FilePath,
			Line:        sig.Line,
			Column:      sig.Column,
			MatchedText: sig.MatchedText,
		})
	}

	summaries := make([]driftmodel.ADRSummary, 0, len(w.ADRSummary))
	for _, a := range w.ADRSummary {
		summaries = append(summaries, driftmodel.ADRSummary{
			ID:         a.ID,
			Status:     driftmodel.ParseStatus(a.Status),
			TagsSorted: a.TagsSorted,
			TitleHash:  a.TitleHash,
		})
	}

	return &driftmodel.Snapshot{
		SchemaVersion: w.SchemaVersion,
		CreatedAt:     createdAt,
		Roots:         w.Roots,
		FileDigests:   w.FileDigests,
		Signals:       signals,
		ADRSummary:    summaries,
	}
}

// DigestFile computes the SHA-256 hex digest of the file at path.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestString computes the SHA-256 hex digest of s, used for ADRSummary's
// title_hash.
func DigestString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
