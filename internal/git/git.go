// Package git provides the optional --staged/--changed scan scoping the CLI
// offers on top of a plain directory walk, plus the git-root path
// normalization every subcommand applies before resolving relative config
// paths.
//
// Adapted from the teacher's internal/git/git.go: GetStagedFileContent,
// GetStagedDiff and GetWorktreeDiff are dropped (they fed per-file diff text
// to the teacher's LLM analysis step, a concern this spec's pattern-matching
// pipeline has no use for — patterns run over whole-file contents, not
// diffs); GetStagedFiles, GetUncommittedFiles and GetAllTrackedFiles are kept
// and exercised by the `diff` command's --staged/--changed/--tracked flags
// (internal/cli/diff.go), and GetRepoRoot by its PersistentPreRunE root
// normalization (internal/cli/root.go).
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// GetStagedFiles returns files with changes in the index.
func GetStagedFiles() ([]string, error) {
	return runGitLines("diff", "--cached", "--name-only", "--diff-filter=ACMR")
}

// GetUncommittedFiles returns files with changes in the worktree relative to
// the index.
func GetUncommittedFiles() ([]string, error) {
	return runGitLines("diff", "--name-only", "--diff-filter=ACMR")
}

// GetAllTrackedFiles returns all files tracked by git.
func GetAllTrackedFiles() ([]string, error) {
	return runGitLines("ls-files")
}

// GetRepoRoot returns the absolute path to the git repository root.
func GetRepoRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("failed to find git root (are you in a git repo?): %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func runGitLines(args ...string) ([]string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git command failed %v: %w", args, err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	var result []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			result = append(result, l)
		}
	}
	return result, nil
}
