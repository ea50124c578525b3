// Package patternmatch implements C4: compiling DetectionPatterns once and
// running them against selected file contents to emit driftmodel.Signals.
//
// No single pack file does exactly this job. Assembled from
// varalys-redactyl/internal/engine/engine.go (pre-compiled detector set run
// over file contents, with a byte-size guard before reading) and the
// coregx/coregex meta-engine's "compile once, reuse concurrently" principle
// (applied here with stdlib regexp.Regexp, which is safe for concurrent use
// once compiled — no need for coregex's own NFA/DFA machinery, a regex
// *implementation* library rather than a regex *consumption* one; see
// DESIGN.md for why this component is built on stdlib regexp rather than a
// third-party engine).
package patternmatch

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
	"github.com/photondrift/adrscan/internal/walk"
)

// contextLines is the number of lines of bounded context kept on either side
// of a match, per spec §4.4 ("±2 lines").
const contextLines = 2

// streamThreshold is the size above which file reads are bufio-streamed
// rather than slurped whole, per spec §4.4's performance note.
const streamThreshold = 256 * 1024

// Matcher holds the compiled pattern set for one run.
type Matcher struct {
	Patterns    []driftmodel.DetectionPattern
	SoftTimeout time.Duration
}

// New returns a Matcher with a default 5s per-file soft deadline (spec §5).
func New(patterns []driftmodel.DetectionPattern) *Matcher {
	return &Matcher{Patterns: patterns, SoftTimeout: 5 * time.Second}
}

// applicablePatterns returns the patterns whose file_glob matches rel.
func (m *Matcher) applicablePatterns(rel string) []driftmodel.DetectionPattern {
	var out []driftmodel.DetectionPattern
	for _, p := range m.Patterns {
		if ok, _ := doublestar.Match(p.FileGlob, rel); ok {
			out = append(out, p)
		}
	}
	return out
}

// MatchFile reads and scans one file, returning the signals found in it. The
// returned signals are already sorted and deduplicated per spec §4.4. The
// deadline is m.SoftTimeout from the start of evaluation, or the context's
// deadline if that is earlier. It is checked before each pattern: every
// pattern not yet started once it has passed is skipped and recorded as
// *direrr.PatternTimeout; a pattern already running is not interrupted.
func (m *Matcher) MatchFile(ctx context.Context, f walk.FileEntry, diags *direrr.Diagnostics) []driftmodel.Signal {
	patterns := m.applicablePatterns(f.RelPath)
	if len(patterns) == 0 {
		return nil
	}

	lines, err := readLines(f.AbsPath, f.Size)
	if err != nil {
		if diags != nil {
			diags.Add(&direrr.ReadError{Path: f.RelPath, Cause: err})
		}
		return nil
	}

	deadline := time.Now().Add(m.SoftTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	var signals []driftmodel.Signal
	for _, p := range patterns {
		if time.Now().After(deadline) {
			if diags != nil {
				diags.Add(&direrr.PatternTimeout{Pattern: p.Name, Path: f.RelPath})
			}
			continue
		}
		signals = append(signals, matchPattern(p, f.RelPath, lines)...)
	}

	return driftmodel.SortSignals(signals)
}

func matchPattern(p driftmodel.DetectionPattern, relPath string, lines []string) []driftmodel.Signal {
	var out []driftmodel.Signal
	full := strings.Join(lines, "\n")

	locs := p.ContentRegex.FindAllStringIndex(full, -1)
	if locs == nil {
		return nil
	}

	offsets := lineOffsets(lines)
	for _, loc := range locs {
		lineIdx, col := positionOf(offsets, loc[0])
		out = append(out, driftmodel.Signal{
			PatternName:        p.Name,
			Category:           p.Category,
			FilePath:           relPath,
			Line:               lineIdx + 1,
			Column:             col + 1,
			MatchedText:        full[loc[0]:loc[1]],
			SurroundingContext: surrounding(lines, lineIdx),
			SeverityDefault:    p.SeverityDefault,
		})
	}
	return out
}

// lineOffsets returns, for each line, the byte offset of its first character
// within the \n-joined full text built by matchPattern.
func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	pos := 0
	for i, l := range lines {
		offsets[i] = pos
		pos += len(l) + 1
	}
	return offsets
}

func positionOf(offsets []int, byteOffset int) (line, col int) {
	line = 0
	for i := len(offsets) - 1; i >= 0; i-- {
		if offsets[i] <= byteOffset {
			line = i
			break
		}
	}
	col = byteOffset - offsets[line]
	return line, col
}

func surrounding(lines []string, lineIdx int) string {
	start := lineIdx - contextLines
	if start < 0 {
		start = 0
	}
	end := lineIdx + contextLines + 1
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func readLines(path string, size int64) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	if size > streamThreshold {
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		lines = strings.Split(string(data), "\n")
	}
	return lines, nil
}

// CompilePatterns compiles the configured detection patterns once, for reuse
// across every worker and file in a run (spec §5: "Pattern compilation
// happens once on the main thread before workers start").
func CompilePatterns(specs []PatternSpec) ([]driftmodel.DetectionPattern, error) {
	out := make([]driftmodel.DetectionPattern, 0, len(specs))
	for _, s := range specs {
		re, err := regexp.Compile(s.ContentRegex)
		if err != nil {
			return nil, err
		}
		out = append(out, driftmodel.DetectionPattern{
			Name:            s.Name,
			FileGlob:        s.FileGlob,
			ContentRegex:    re,
			Category:        s.Category,
			SeverityDefault: driftmodel.ParseSeverity(s.SeverityDefault),
		})
	}
	return out, nil
}

// PatternSpec is the uncompiled form of a DetectionPattern, as loaded from
// configuration (config.PatternConfig maps onto this one-to-one).
type PatternSpec struct {
	Name            string
	FileGlob        string
	ContentRegex    string
	Category        string
	SeverityDefault string
}
