package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/drift"
	"github.com/photondrift/adrscan/internal/driftmodel"
	"github.com/photondrift/adrscan/internal/propose"
)

// newProposeCommand runs the same scan/correlate pipeline as `diff`, then
// drafts an ADR proposal (C10) for each eligible NewTechnology or
// UnsanctionedPattern finding. --dry-run renders drafts in-memory and prints
// them instead of writing files under the configured ADR directory.
func newProposeCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "propose [path]",
		Short: "Draft ADR proposals for unsanctioned or new technology findings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanRoot := ""
			if len(args) == 1 {
				scanRoot = args[0]
			}
			if scanRoot == "" {
				scanRoot = "."
			}

			cfg, err := loadConfig()
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			var diags direrr.Diagnostics
			idx, err := buildIndex(cfg, adrindex.CollisionWarn, &diags)
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			patterns, err := compiledPatterns(cfg)
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			signals, _, err := scanSignals(cfg, []string{scanRoot}, patterns, &diags)
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			findings := drift.Diff(signals, idx, nil, drift.Options{ProductionGlobs: cfg.Drift.ProductionGlobs})
			findings = aboveProposalConfidence(findings, cfg.Proposal.ConfidenceThreshold)

			opts := propose.Options{Format: cfg.Template.Format, Now: time.Now()}
			if cfg.Template.Format == "custom" {
				content, err := os.ReadFile(cfg.Template.CustomPath)
				if err != nil {
					exitWithCode(exitIOError, err)
					return nil
				}
				opts.CustomTemplate = string(content)
			}

			drafts, err := propose.Generate(findings, idx, opts)
			if err != nil {
				exitWithCode(exitInternalErr, err)
				return nil
			}

			if len(drafts) == 0 {
				fmt.Println("no eligible findings to propose")
				return nil
			}

			for _, d := range drafts {
				if dryRun {
					fmt.Printf("--- %s ---\n%s\n", d.Filename, d.Content)
					continue
				}
				path := filepath.Join(cfg.AdrDir, d.Filename)
				if err := os.WriteFile(path, []byte(d.Content), 0644); err != nil {
					exitWithCode(exitIOError, err)
					return nil
				}
				fmt.Println("wrote", path)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render drafts without writing files")

	return cmd
}

// aboveProposalConfidence drops findings whose ML confidence falls below
// threshold, a cutoff distinct from ml.confidence_threshold per the Open
// Question resolution in DESIGN.md: findings never scored by the ML stage
// (Confidence == nil) are always kept, since that filter cannot apply to them.
func aboveProposalConfidence(findings []driftmodel.Finding, threshold float64) []driftmodel.Finding {
	out := findings[:0:0]
	for _, f := range findings {
		if f.Confidence != nil && *f.Confidence < threshold {
			continue
		}
		out = append(out, f)
	}
	return out
}
