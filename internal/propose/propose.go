// Package propose implements C10: synthesizing draft ADR text from selected
// findings, via a built-in MADR-style template or a user-supplied one.
//
// Grounded on the teacher's internal/cli/cli.go: its adrTemplateContent
// constant plus generateConfig's templating-by-fmt.Sprintf idiom, generalized
// to Go's text/template for the named {{title}}-style variable substitution
// spec §4.10 requires — the teacher's raw fmt.Sprintf approach has no named
// placeholders. MADR section layout additionally grounded on
// HendryAvila-Hoofy/internal/tools/adr.go and odvcencio-buckley/pkg/docs/adr.go,
// two independent MADR-template generators in the pack.
package propose

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/driftmodel"
)

// builtinMADR mirrors the teacher's adrTemplateContent shape (title/status
// frontmatter, Context/Decision/Consequences body) but uses text/template
// placeholders instead of the teacher's raw Sprintf interpolation.
const builtinMADR = `---
id: "{{.ID}}"
title: "{{.Title}}"
status: "{{.Status}}"
date: "{{.Date}}"
tags: [{{.CategoryTag}}]
---

# {{.Title}}

## Status

{{.Status}}

## Context

{{.Category}} was observed at the following locations but is not presently covered by any accepted ADR:

{{.Locations}}

## Decision

[Describe the decision: sanction, reject, or replace this technology.]

## Consequences

{{.SupportingEvidence}}
`

// Draft is one rendered proposal, ready either to write to disk or to return
// in-memory under --dry-run.
type Draft struct {
	ID       string
	Title    string
	Filename string
	Content  string
}

// Options configures generation.
type Options struct {
	// Format is "madr" (built-in) or "custom"; Format=="custom" requires
	// CustomTemplate to be non-empty.
	Format         string
	CustomTemplate string
	Now            time.Time
}

// templateVars is the substitution context for both the built-in and a
// custom template. Custom templates written against spec §4.10's documented
// lowercase placeholders ({{title}}, {{category}}, ...) are rewritten onto
// these exported fields by rewriteSpecPlaceholders before parsing.
type templateVars struct {
	ID                 string
	Title              string
	Status             string
	Category           string
	CategoryTag        string
	Date               string
	Locations          string
	SupportingEvidence string
}

// Generate drafts one proposal per eligible finding (NewTechnology or
// UnsanctionedPattern), allocating ids as the lowest free 4-digit value above
// idx's current maximum, and disambiguating duplicate titles within the run
// with numeric suffixes.
func Generate(findings []driftmodel.Finding, idx *adrindex.Index, opts Options) ([]Draft, error) {
	tmpl, err := resolveTemplate(opts)
	if err != nil {
		return nil, err
	}

	nextID := idx.MaxID() + 1
	titleCounts := map[string]int{}

	var drafts []Draft
	for _, f := range findings {
		if f.Kind != driftmodel.KindNewTechnology && f.Kind != driftmodel.KindUnsanctionedPattern {
			continue
		}

		title := disambiguate(f.Title, titleCounts)
		id := fmt.Sprintf("%04d", nextID)
		nextID++

		vars := buildVars(id, title, f, opts.Now)

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, vars); err != nil {
			return nil, &direrr.ConfigError{Msg: "failed to render proposal template", Cause: err}
		}

		drafts = append(drafts, Draft{
			ID:       id,
			Title:    title,
			Filename: fmt.Sprintf("%s-%s.md", id, slugify(title)),
			Content:  buf.String(),
		})
	}

	return drafts, nil
}

func resolveTemplate(opts Options) (*template.Template, error) {
	source := builtinMADR
	if strings.EqualFold(opts.Format, "custom") {
		if strings.TrimSpace(opts.CustomTemplate) == "" {
			return nil, &direrr.ConfigError{Msg: "template.format is custom but no custom template was supplied"}
		}
		source = rewriteSpecPlaceholders(opts.CustomTemplate)
	}

	tmpl, err := template.New("proposal").Parse(source)
	if err != nil {
		return nil, &direrr.ConfigError{Msg: "proposal template failed to parse", Cause: err}
	}
	return tmpl, nil
}

// rewriteSpecPlaceholders maps the spec's documented lowercase placeholder
// syntax ({{title}}, {{category}}, {{locations}}, {{supporting_evidence}},
// {{date}}, {{id}}) onto templateVars' exported fields, so a user-supplied
// custom template can use the spec's vocabulary directly rather than Go's
// exported-field convention.
func rewriteSpecPlaceholders(src string) string {
	replacer := strings.NewReplacer(
		"{{title}}", "{{.Title}}",
		"{{category}}", "{{.Category}}",
		"{{locations}}", "{{.Locations}}",
		"{{supporting_evidence}}", "{{.SupportingEvidence}}",
		"{{date}}", "{{.Date}}",
		"{{id}}", "{{.ID}}",
	)
	return replacer.Replace(src)
}

func buildVars(id, title string, f driftmodel.Finding, now time.Time) templateVars {
	if now.IsZero() {
		now = time.Now()
	}

	var locs []string
	for _, s := range f.SupportingSignals {
		locs = append(locs, fmt.Sprintf("- %s:%d", s.FilePath, s.Line))
	}
	sort.Strings(locs)
	if len(locs) == 0 {
		locs = []string{"- (no supporting locations recorded)"}
	}

	return templateVars{
		ID:                 id,
		Title:              title,
		Status:             "Proposed",
		Category:           f.Category,
		CategoryTag:        fmt.Sprintf("%q", f.Category),
		Date:               now.UTC().Format("2006-01-02"),
		Locations:          strings.Join(locs, "\n"),
		SupportingEvidence: f.Description,
	}
}

func disambiguate(title string, counts map[string]int) string {
	counts[title]++
	n := counts[title]
	if n == 1 {
		return title
	}
	return fmt.Sprintf("%s (%d)", title, n)
}

func slugify(title string) string {
	lc := strings.ToLower(title)
	var b strings.Builder
	lastDash := false
	for _, r := range lc {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
