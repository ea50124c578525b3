package driftmodel

import "sort"

// Signal is one regex match at scan time, before correlation with ADRs.
type Signal struct {
	PatternName        string
	Category           string
	FilePath           string
	Line               int
	Column             int
	MatchedText        string
	SurroundingContext string
	// SeverityDefault carries the originating DetectionPattern's configured
	// severity (spec §4.6 stage 2: "severity = pattern's default"), so the
	// correlation stage can use it as a NewTechnology finding's base severity
	// instead of a hard-coded constant.
	SeverityDefault Severity
}

// Key returns the tuple signals are deduplicated and ordered on.
func (s Signal) Key() [4]string {
	return [4]string{s.FilePath, itoa(s.Line), itoa(s.Column), s.PatternName}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// SortSignals orders signals by (file_path, line, column, pattern_name) and
// collapses exact duplicates, per spec §3/§4.4.
func SortSignals(signals []Signal) []Signal {
	sort.Slice(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.PatternName < b.PatternName
	})

	out := signals[:0:0]
	var prev *Signal
	for i := range signals {
		s := signals[i]
		if prev != nil && *prev == s {
			continue
		}
		out = append(out, s)
		prevCopy := s
		prev = &prevCopy
	}
	return out
}
