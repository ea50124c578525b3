package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/photondrift/adrscan/internal/adrindex"
	"github.com/photondrift/adrscan/internal/config"
	"github.com/photondrift/adrscan/internal/direrr"
	"github.com/photondrift/adrscan/internal/drift"
	"github.com/photondrift/adrscan/internal/driftmodel"
	"github.com/photondrift/adrscan/internal/git"
	"github.com/photondrift/adrscan/internal/ml/anomaly"
	"github.com/photondrift/adrscan/internal/ml/features"
	"github.com/photondrift/adrscan/internal/ml/trainstore"
	"github.com/photondrift/adrscan/internal/report"
	"github.com/photondrift/adrscan/internal/snapshot"
	"github.com/photondrift/adrscan/internal/walk"
)

// newDiffCommand runs the full scan -> correlate -> classify -> report
// pipeline: walk+match (C3/C4), build the ADR index with the warn collision
// policy (C5, spec §4.5), reduce to findings (C6), optionally score them with
// the anomaly models (C7/C8), assemble a report (C11) and render it through
// the requested sink, optionally persisting a new snapshot (C9).
func newDiffCommand() *cobra.Command {
	var (
		savePath     string
		baselinePath string
		format       string
		outputPath   string
		failOnDrift  bool
		staged       bool
		changed      bool
		tracked      bool
	)

	cmd := &cobra.Command{
		Use:   "diff [path]",
		Short: "Detect drift between ADRs and the scanned codebase",
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

			anomaly.SetThreshold(cfg.ML.ConfidenceThreshold)

			var diags direrr.Diagnostics
			idx, err := buildIndex(cfg, adrindex.CollisionWarn, &diags)
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}
			for _, w := range idx.Warnings {
				log.Warn().Str("reason", w).Msg("adr index warning")
			}

			patterns, err := compiledPatterns(cfg)
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			var (
				signals []driftmodel.Signal
				entries []walk.FileEntry
			)
			switch {
			case staged:
				files, gerr := git.GetStagedFiles()
				if gerr != nil {
					exitWithCode(exitIOError, gerr)
					return nil
				}
				signals, entries, err = scanGitScopedSignals(cfg, scanRoot, files, patterns, &diags)
			case changed:
				files, gerr := git.GetUncommittedFiles()
				if gerr != nil {
					exitWithCode(exitIOError, gerr)
					return nil
				}
				signals, entries, err = scanGitScopedSignals(cfg, scanRoot, files, patterns, &diags)
			case tracked:
				files, gerr := git.GetAllTrackedFiles()
				if gerr != nil {
					exitWithCode(exitIOError, gerr)
					return nil
				}
				signals, entries, err = scanGitScopedSignals(cfg, scanRoot, files, patterns, &diags)
			default:
				signals, entries, err = scanSignals(cfg, []string{scanRoot}, patterns, &diags)
			}
			if err != nil {
				exitWithCode(exitCodeFor(err), err)
				return nil
			}

			var prev *driftmodel.Snapshot
			if baselinePath != "" {
				prev, err = snapshot.Read(baselinePath)
				if err != nil {
					exitWithCode(exitCodeFor(err), err)
					return nil
				}
			}

			findings := drift.Diff(signals, idx, prev, drift.Options{ProductionGlobs: cfg.Drift.ProductionGlobs})

			if cfg.ML.Enabled {
				findings, err = scoreFindings(cfg, findings, signals, entries)
				if err != nil {
					log.Warn().Err(err).Msg("ml scoring degraded, findings left unscored")
				}
			}

			now := time.Now()
			rep := report.Assemble(findings, scanRoot, now)

			sink := report.SinkFor(format)
			if sink == nil {
				err := fmt.Errorf("unknown report format %q", format)
				exitWithCode(exitCodeFor(err), err)
				return nil
			}
			out, err := sink.Render(rep)
			if err != nil {
				exitWithCode(exitInternalErr, err)
				return nil
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, out, 0644); err != nil {
					exitWithCode(exitIOError, err)
					return nil
				}
			} else {
				fmt.Print(string(out))
			}

			for _, d := range diags.Items() {
				log.Debug().Err(d).Msg("scan diagnostic")
			}

			if savePath != "" {
				snap := &driftmodel.Snapshot{
					SchemaVersion: driftmodel.CurrentSchemaVersion,
					CreatedAt:     now,
					Roots:         []string{scanRoot},
					FileDigests:   fileDigests(entries),
					Signals:       signals,
					ADRSummary:    adrSummaries(idx),
				}
				if err := snapshot.Write(savePath, snap); err != nil {
					exitWithCode(exitIOError, err)
					return nil
				}
			}

			if failOnDrift && len(findings) > 0 {
				os.Exit(exitDriftFound)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&savePath, "save-snapshot", "", "write a snapshot of this run's signals to PATH")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "diff against a previously saved snapshot")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "report format: console, json, yaml, csv")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to PATH instead of stdout")
	cmd.Flags().BoolVar(&failOnDrift, "fail-on-drift", false, "exit 1 when any finding is detected")
	cmd.Flags().BoolVar(&staged, "staged", false, "scan only files staged in the git index")
	cmd.Flags().BoolVar(&changed, "changed", false, "scan only files with uncommitted worktree changes")
	cmd.Flags().BoolVar(&tracked, "tracked", false, "scan only files tracked by git, skipping ignored/untracked files")
	cmd.MarkFlagsMutuallyExclusive("staged", "changed", "tracked")

	return cmd
}

// recencyWindow bounds how far back a file's last-modified time still counts
// as "recent" for the temporal_recency feature (spec §4.7).
const recencyWindow = 30 * 24 * time.Hour

// scoreFindings extracts a feature vector per finding, trains the configured
// anomaly model on this run's vectors plus any retained training samples
// (spec §4.9's online_learning), and attaches MLScore/Confidence/Explanation
// to each finding.
func scoreFindings(cfg *config.Config, findings []driftmodel.Finding, signals []driftmodel.Signal, entries []walk.FileEntry) ([]driftmodel.Finding, error) {
	if len(findings) == 0 {
		return findings, nil
	}

	fileSizes := make(map[string]int64, len(entries))
	lastChanged := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		fileSizes[e.RelPath] = e.Size
		lastChanged[e.RelPath] = e.ModTime
	}

	extractor := features.New(time.Now(), recencyWindow)
	vectors := make([][]float64, len(findings))
	for i, f := range findings {
		vec := extractor.Extract(f, signals, fileSizes, lastChanged)
		vectors[i] = vec.Vector()
	}

	var store *trainstore.Store
	var trainingVectors [][]float64
	if cfg.ML.OnlineLearning {
		s, err := trainstore.New(".", 30*24*time.Hour, cfg.ML.MaxTrainingSamples)
		if err == nil {
			store = s
			if samples, err := store.Load(time.Now()); err == nil {
				trainingVectors = trainstore.Vectors(samples)
			}
		}
	}

	model := anomaly.New(cfg.ML.ModelType)
	model.Train(append(trainingVectors, vectors...))

	for i := range findings {
		pred := model.Predict(vectors[i])
		score := pred.AnomalyScore
		confidence := pred.Confidence
		findings[i].MLScore = &score
		findings[i].Confidence = &confidence
		findings[i].Explanation = pred.Explanation
	}

	if store != nil {
		fresh := make([]trainstore.Sample, len(vectors))
		now := time.Now()
		for i, v := range vectors {
			fresh[i] = trainstore.Sample{Vector: v, StoredAt: now}
		}
		existing, _ := store.Load(now)
		if _, err := store.Append(existing, fresh, now); err != nil {
			log.Warn().Err(err).Msg("failed to persist ml training samples")
		}
	}

	return findings, nil
}
