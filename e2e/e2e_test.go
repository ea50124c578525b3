// Package e2e builds the adrscan binary and drives it as a subprocess against
// throwaway repo fixtures, covering the canonical scenarios of spec §8.
//
// Grounded on the teacher's test/e2e_test.go: build the real binary with `go
// build`, run it with its working directory set to a fixture tree, and
// assert on stdout/exit code rather than calling internal packages directly.
package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const binaryName = "e2e_adrscan.exe"

func buildBinary(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	rootDir := filepath.Dir(wd)

	binaryPath := filepath.Join(t.TempDir(), binaryName)
	buildCmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/adrscan")
	buildCmd.Dir = rootDir
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build adrscan binary: %v\noutput: %s", err, out)
	}
	return binaryPath
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func writeConfig(t *testing.T, repoDir string) {
	t.Helper()
	writeFile(t, filepath.Join(repoDir, "adrscan.yaml"), `
adr_dir: docs/adr
include_patterns: ["**/*"]
exclude_patterns: ["**/.git/**"]
snapshot_file: .adrscan_snapshot.json
drift:
  enabled: true
  detection_patterns:
    - name: "Postgres Driver"
      file_pattern: "**/*.py"
      content_pattern: "psycopg2"
      category: "database"
      severity_default: "Medium"
    - name: "Redis Client"
      file_pattern: "**/*.py"
      content_pattern: "redis\\.Redis"
      category: "caching"
      severity_default: "Medium"
`)
}

func runCLI(t *testing.T, binaryPath, repoDir string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = repoDir
	out, err := cmd.CombinedOutput()
	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run adrscan %v: %v\noutput: %s", args, err, out)
	}
	return string(out), code
}

// TestE2E_S1_SanctionedTechnologyNoFindings covers spec §8 S1: an accepted
// ADR sanctioning Postgres plus a matching import produces zero findings.
func TestE2E_S1_SanctionedTechnologyNoFindings(t *testing.T) {
	binaryPath := buildBinary(t)
	repoDir := t.TempDir()
	writeConfig(t, repoDir)

	writeFile(t, filepath.Join(repoDir, "docs/adr/0001-use-postgres.md"), `---
id: "0001"
title: "Use Postgres"
status: "Accepted"
tags: ["database", "postgres"]
date: "2026-01-05"
---

# Use Postgres

## Context
We need a relational datastore.

## Decision
Use Postgres via psycopg2.
`)
	writeFile(t, filepath.Join(repoDir, "src/db.py"), "import psycopg2\n")

	out, code := runCLI(t, binaryPath, repoDir, "diff", "--format", "json")
	if code != 0 {
		t.Fatalf("expected exit 0 (no drift), got %d\noutput: %s", code, out)
	}
	if !strings.Contains(out, `"total_items": 0`) {
		t.Fatalf("expected zero findings, got: %s", out)
	}
}

// TestE2E_S2_RejectedDecisionViolation covers spec §8 S2: the same Postgres
// signal against a Rejected ADR yields a ViolatesRejectedDecision finding.
func TestE2E_S2_RejectedDecisionViolation(t *testing.T) {
	binaryPath := buildBinary(t)
	repoDir := t.TempDir()
	writeConfig(t, repoDir)

	writeFile(t, filepath.Join(repoDir, "docs/adr/0001-use-postgres.md"), `---
id: "0001"
title: "Use Postgres"
status: "Rejected"
tags: ["database", "postgres"]
date: "2026-01-05"
---

# Use Postgres

## Decision
Rejected in favor of MySQL.
`)
	writeFile(t, filepath.Join(repoDir, "src/db.py"), "import psycopg2\n")

	out, code := runCLI(t, binaryPath, repoDir, "diff", "--format", "json", "--fail-on-drift")
	if code != 1 {
		t.Fatalf("expected exit 1 (drift), got %d\noutput: %s", code, out)
	}
	if !strings.Contains(out, "ViolatesRejectedDecision") {
		t.Fatalf("expected a ViolatesRejectedDecision finding, got: %s", out)
	}
	if !strings.Contains(out, `"related_adrs"`) || !strings.Contains(out, "0001") {
		t.Fatalf("expected related_adrs to reference 0001, got: %s", out)
	}
}

// TestE2E_S3_NewTechnology covers spec §8 S3: Redis appears with no
// correlating ADR, producing a NewTechnology finding.
func TestE2E_S3_NewTechnology(t *testing.T) {
	binaryPath := buildBinary(t)
	repoDir := t.TempDir()
	writeConfig(t, repoDir)

	writeFile(t, filepath.Join(repoDir, "docs/adr/0001-use-postgres.md"), `---
id: "0001"
title: "Use Postgres"
status: "Accepted"
tags: ["database", "postgres"]
date: "2026-01-05"
---
# Use Postgres
`)
	writeFile(t, filepath.Join(repoDir, "src/cache.py"), "cache = redis.Redis(host='localhost')\n")

	out, code := runCLI(t, binaryPath, repoDir, "diff", "--format", "json", "--fail-on-drift")
	if code != 1 {
		t.Fatalf("expected exit 1 (drift), got %d\noutput: %s", code, out)
	}
	if !strings.Contains(out, "NewTechnology") {
		t.Fatalf("expected a NewTechnology finding, got: %s", out)
	}
}

// TestE2E_S5_MissingMandated covers spec §8 S5: an ADR mandating TLS with no
// matching signal anywhere in the scan produces a MissingMandated finding.
func TestE2E_S5_MissingMandated(t *testing.T) {
	binaryPath := buildBinary(t)
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "adrscan.yaml"), `
adr_dir: docs/adr
include_patterns: ["**/*"]
drift:
  enabled: true
  detection_patterns:
    - name: "TLS Configuration"
      file_pattern: "**/*.go"
      content_pattern: "crypto/tls"
      category: "security"
      severity_default: "Low"
`)

	writeFile(t, filepath.Join(repoDir, "docs/adr/0002-require-tls.md"), `---
id: "0002"
title: "Require TLS"
status: "Accepted"
tags: ["mandate:tls"]
date: "2026-01-05"
---
# Require TLS
`)
	writeFile(t, filepath.Join(repoDir, "src/main.go"), "package main\n\nfunc main() {}\n")

	out, code := runCLI(t, binaryPath, repoDir, "diff", "--format", "json", "--fail-on-drift")
	if code != 1 {
		t.Fatalf("expected exit 1 (drift), got %d\noutput: %s", code, out)
	}
	if !strings.Contains(out, "MissingMandated") {
		t.Fatalf("expected a MissingMandated finding, got: %s", out)
	}
	if !strings.Contains(out, "0002") {
		t.Fatalf("expected related_adrs to reference 0002, got: %s", out)
	}
}

// TestE2E_S6_ProposeDryRun covers spec §8 S6: proposing over the S3 fixture
// with --dry-run renders a draft without writing any file.
func TestE2E_S6_ProposeDryRun(t *testing.T) {
	binaryPath := buildBinary(t)
	repoDir := t.TempDir()
	writeConfig(t, repoDir)

	writeFile(t, filepath.Join(repoDir, "docs/adr/0001-use-postgres.md"), `---
id: "0001"
title: "Use Postgres"
status: "Accepted"
tags: ["database", "postgres"]
date: "2026-01-05"
---
# Use Postgres
`)
	writeFile(t, filepath.Join(repoDir, "src/cache.py"), "cache = redis.Redis(host='localhost')\n")

	out, code := runCLI(t, binaryPath, repoDir, "propose", "--dry-run")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d\noutput: %s", code, out)
	}
	if !strings.Contains(out, "Redis") {
		t.Fatalf("expected draft title to mention Redis, got: %s", out)
	}
	if !strings.Contains(out, "## Context") || !strings.Contains(out, "## Decision") || !strings.Contains(out, "## Consequences") {
		t.Fatalf("expected MADR sections in the rendered draft, got: %s", out)
	}

	entries, err := os.ReadDir(filepath.Join(repoDir, "docs/adr"))
	if err != nil {
		t.Fatalf("failed to read ADR directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected --dry-run to write no new ADR file, found %d entries", len(entries))
	}
}
