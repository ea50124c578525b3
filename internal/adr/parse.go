// Package adr implements C1: parsing an ADR Markdown file (optional YAML
// frontmatter + body) into a driftmodel.AdrRecord.
//
// Grounded on the teacher's internal/index/adr.go ParseADR, generalized to
// the exact-fence rule and full field set of spec §4.1/§6: the teacher
// accepted any "---" substring as a fence (bytes.SplitN on "---"); here a
// fence is only recognized on a line that is exactly "---".
package adr

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

func yamlUnmarshal(raw []byte, out any) error { return yaml.Unmarshal(raw, out) }

const dateLayout = "2006-01-02"

// Parse parses the content of one ADR file. path is used for id/title
// fallbacks and is stored relative-as-given on the returned record. Parse
// never fails fatally on malformed frontmatter: it returns a record with
// StatusUnknown and appends a warning, matching spec §4.1's "malformed YAML
// -> diagnostic, record still created" contract. The second return value,
// when non-nil, is the diagnostic to surface via direrr.Diagnostics; the
// record itself is always usable.
func Parse(path string, content []byte) (*driftmodel.AdrRecord, error) {
	rec := &driftmodel.AdrRecord{
		Path:         path,
		Status:       driftmodel.StatusUnknown,
		RawSizeBytes: len(content),
		LineCount:    countLines(content),
	}

	fence, body, ok := splitFrontMatter(content)
	var diag error

	if ok {
		var fm frontMatter
		if err := unmarshalStrict(fence, &fm); err != nil {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("malformed frontmatter: %v", err))
			diag = &direrr.ParseError{Path: path, Cause: err}
		} else {
			applyFrontMatter(rec, &fm)
			if unknown, err := extractUnknownFields(fence); err == nil {
				rec.UnknownFields = unknown
			}
		}
		rec.Body = lstripOneBlankLine(body)
	} else {
		rec.Body = string(content)
	}

	if rec.Title == "" {
		rec.Title = firstH1(rec.Body)
	}
	if rec.Title == "" {
		rec.Title = "Untitled ADR"
	}

	if rec.ID == "" {
		rec.ID = idFromFilename(path)
	}
	if rec.ID == "" {
		rec.ID = stableShortID(path, content)
	}

	return rec, diag
}

func unmarshalStrict(raw []byte, fm *frontMatter) error {
	return yamlUnmarshal(raw, fm)
}

func applyFrontMatter(rec *driftmodel.AdrRecord, fm *frontMatter) {
	rec.ID = strings.TrimSpace(fm.ID)
	rec.Title = strings.TrimSpace(fm.Title)
	rec.Status = driftmodel.ParseStatus(fm.Status)
	rec.Deciders = fm.Deciders
	rec.Tags = fm.Tags
	rec.Supersedes = fm.Supersedes
	rec.SupersededBy = fm.SupersededBy

	if fm.Date != "" {
		if t, err := time.Parse(dateLayout, strings.TrimSpace(fm.Date)); err == nil {
			rec.Date = &t
		} else {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("unparseable date %q", fm.Date))
		}
	}

	if fm.Status != "" && rec.Status == driftmodel.StatusUnknown {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("unrecognized status %q, treated as Unknown", fm.Status))
	}
}

// splitFrontMatter recognizes a YAML frontmatter block delimited by a line
// that is exactly "---" at the start of the file and a second line that is
// exactly "---". Returns the bytes between the fences and the remainder.
func splitFrontMatter(content []byte) (fence, body []byte, ok bool) {
	sc := bufio.NewScanner(bytesReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	if !sc.Scan() {
		return nil, nil, false
	}
	if strings.TrimRight(sc.Text(), "\r") != "---" {
		return nil, nil, false
	}

	var fenceLines []string
	closed := false
	var rest []string
	for sc.Scan() {
		line := sc.Text()
		if !closed && strings.TrimRight(line, "\r") == "---" {
			closed = true
			continue
		}
		if closed {
			rest = append(rest, line)
		} else {
			fenceLines = append(fenceLines, line)
		}
	}
	if !closed {
		return nil, nil, false
	}
	return []byte(strings.Join(fenceLines, "\n")), []byte(strings.Join(rest, "\n")), true
}

func lstripOneBlankLine(body []byte) string {
	s := string(body)
	trimmed := strings.TrimPrefix(s, "\n")
	if trimmed != s {
		return trimmed
	}
	return s
}

func firstH1(body string) string {
	for _, line := range strings.Split(body, "\n") {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(l, "# "))
		}
	}
	return ""
}

func idFromFilename(path string) string {
	name := filepath.Base(path)
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 {
		return ""
	}
	return name[:i]
}

func stableShortID(path string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write(content)
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:8]
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := 1
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n
}
