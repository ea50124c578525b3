// Package walk implements C3: enumerating files under one or more roots,
// honoring include/exclude globs, in deterministic relative-path order.
//
// Grounded on the teacher's filepath.Walk directory crawl in
// internal/index/store.go, generalized to multiple roots and upgraded from
// the teacher's hand-rolled "**"-glob-to-regexp compiler
// (internal/analysis/glob.go) to github.com/bmatcuk/doublestar/v4, the real
// third-party doublestar engine the pack already reaches for in
// varalys-redactyl/internal/engine/engine.go for this exact include/exclude
// job.
package walk

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/photondrift/adrscan/internal/direrr"
)

// FileEntry is one selected file, relative to its root.
type FileEntry struct {
	Root    string
	RelPath string
	AbsPath string
	Size    int64
	ModTime time.Time
}

// Options controls the walk.
type Options struct {
	Include      []string
	Exclude      []string
	MaxFileBytes int64
}

// Stats counts files skipped for various reasons, for reporting.
type Stats struct {
	HiddenSkipped   int
	TooLargeSkipped int
	SymlinkSkipped  int
}

// Walk enumerates files under roots, applying Include (default: all files)
// then Exclude (default: none), skipping hidden files and files larger than
// MaxFileBytes. A symlink to a file is kept only when it resolves inside the
// root it was found under; otherwise it is skipped. Symlinked directories are
// not descended into. Results are sorted by
// relative path for determinism (spec §4.3).
func Walk(roots []string, opts Options, diags *direrr.Diagnostics) ([]FileEntry, Stats, error) {
	var stats Stats
	var entries []FileEntry

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, stats, err
		}
		canonRoot, err := filepath.EvalSymlinks(absRoot)
		if err != nil {
			canonRoot = absRoot
		}

		err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if diags != nil {
					diags.Add(&direrr.ReadError{Path: path, Cause: err})
				}
				return nil
			}

			rel, relErr := filepath.Rel(absRoot, path)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if info.Mode()&os.ModeSymlink != 0 {
				target, err := filepath.EvalSymlinks(path)
				if err != nil || !withinRoot(canonRoot, target) {
					stats.SymlinkSkipped++
					return nil
				}
				info, err = os.Stat(target)
				if err != nil {
					return nil
				}
			}

			if info.IsDir() {
				if rel != "." && isHiddenComponent(rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if rel != "." && isHiddenComponent(rel) {
				stats.HiddenSkipped++
				return nil
			}

			if opts.MaxFileBytes > 0 && info.Size() > opts.MaxFileBytes {
				stats.TooLargeSkipped++
				return nil
			}

			if !matchesInclude(rel, opts.Include) || matchesExclude(rel, opts.Exclude) {
				return nil
			}

			entries = append(entries, FileEntry{
				Root:    root,
				RelPath: rel,
				AbsPath: path,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			return nil
		})
		if err != nil {
			return nil, stats, err
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Root != entries[j].Root {
			return entries[i].Root < entries[j].Root
		}
		return entries[i].RelPath < entries[j].RelPath
	})

	return entries, stats, nil
}

// FilterFiles builds FileEntry values for an explicit list of files relative
// to root, applying the same hidden/include/exclude/size filtering Walk
// applies during a full directory crawl. Used by the CLI's git-scoped scan
// flags (--staged/--changed/--tracked), where the file list comes from `git`
// rather than from walking the filesystem.
func FilterFiles(root string, relFiles []string, opts Options, diags *direrr.Diagnostics) []FileEntry {
	var entries []FileEntry
	for _, rel := range relFiles {
		rel = filepath.ToSlash(rel)
		if rel == "" || isHiddenComponent(rel) {
			continue
		}
		if !matchesInclude(rel, opts.Include) || matchesExclude(rel, opts.Exclude) {
			continue
		}

		abs := filepath.Join(root, rel)
		info, err := os.Stat(abs)
		if err != nil {
			if diags != nil {
				diags.Add(&direrr.ReadError{Path: rel, Cause: err})
			}
			continue
		}
		if info.IsDir() {
			continue
		}
		if opts.MaxFileBytes > 0 && info.Size() > opts.MaxFileBytes {
			continue
		}

		entries = append(entries, FileEntry{
			Root:    root,
			RelPath: rel,
			AbsPath: abs,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries
}

func withinRoot(root, target string) bool {
	root = filepath.Clean(root)
	target = filepath.Clean(target)
	if root == target {
		return true
	}
	return strings.HasPrefix(target, root+string(filepath.Separator))
}

func isHiddenComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func matchesInclude(rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func matchesExclude(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
