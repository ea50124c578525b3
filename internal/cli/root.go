// Package cli implements the adrscan command tree with cobra, replacing the
// teacher's manual os.Args-index routing (internal/cli/cli.go's Execute
// switch on os.Args[1]) with the pack's dominant CLI idiom
// (github.com/spf13/cobra, as used throughout e.g. davetashner-stringer's
// cmd/stringer). The git-root path normalization Execute performed before
// dispatch is kept, adapted into a cobra PersistentPreRunE.
//
// Structured logging follows gosuda-Aira's zerolog idiom: a console writer
// for interactive use, level controlled by -v/--verbose.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/photondrift/adrscan/internal/buildinfo"
	"github.com/photondrift/adrscan/internal/config"
	"github.com/photondrift/adrscan/internal/git"
)

const defaultConfigFilename = "adrscan.yaml"

var (
	cfgPath string
	verbose bool
	noGit   bool

	log zerolog.Logger
)

// NewRootCommand builds the adrscan command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "adrscan",
		Short:         "Detect architectural drift between ADRs and your codebase",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			if cmd.Name() == "init" || noGit {
				return nil
			}
			return normalizeToGitRoot(cmd)
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigFilename, "path to adrscan.yaml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&noGit, "no-git-root", false, "skip git-root path normalization")

	root.AddCommand(
		newInitCommand(),
		newInventoryCommand(),
		newIndexCommand(),
		newDiffCommand(),
		newProposeCommand(),
	)

	return root
}

func setupLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// normalizeToGitRoot rewrites any positional path argument relative to the
// git repository root and chdirs there, exactly as the teacher's Execute did
// before dispatching to a subcommand — generalized from os.Args-index
// rewriting to cobra's own flag-parsed arg list.
func normalizeToGitRoot(cmd *cobra.Command) error {
	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		log.Debug().Err(err).Msg("not inside a git repository; skipping root normalization")
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	repoRoot = filepath.Clean(repoRoot)
	cwd = filepath.Clean(cwd)

	if strings.EqualFold(cwd, repoRoot) {
		return nil
	}

	args := cmd.Flags().Args()
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		absPath := filepath.Join(cwd, arg)
		if relPath, err := filepath.Rel(repoRoot, absPath); err == nil {
			args[i] = filepath.ToSlash(relPath)
		}
	}

	return os.Chdir(repoRoot)
}

func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

func exitWithCode(code int, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(code)
}
