// Package config implements C2: the recognized configuration option set of
// spec §6, YAML-unmarshaled the way the teacher's internal/config/config.go
// does, extended to the full option table and a validation pass (spec §4.2).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/photondrift/adrscan/internal/direrr"
)

// Config is the root recognized configuration document.
type Config struct {
	AdrDir             string         `yaml:"adr_dir"`
	IncludePatterns    []string       `yaml:"include_patterns"`
	ExcludePatterns    []string       `yaml:"exclude_patterns"`
	SnapshotFile       string         `yaml:"snapshot_file"`
	Template           TemplateConfig `yaml:"template"`
	Drift              DriftConfig    `yaml:"drift"`
	ML                 MLConfig       `yaml:"ml"`
	Proposal           ProposalConfig `yaml:"proposal"`
	MaxFileBytes       int64          `yaml:"max_file_bytes"`
	MaxInMemorySignals int            `yaml:"max_in_memory_signals"`
}

// TemplateConfig controls proposal generation rendering, see spec §4.10/§6.
type TemplateConfig struct {
	Format     string `yaml:"format"` // "madr" or "custom"
	CustomPath string `yaml:"custom_path"`
}

// DriftConfig controls the drift engine and its detection patterns.
type DriftConfig struct {
	Enabled           bool            `yaml:"enabled"`
	DetectionPatterns []PatternConfig `yaml:"detection_patterns"`
	ProductionGlobs   []string        `yaml:"production_path_patterns"`
}

// PatternConfig is one detection-pattern entry, see spec §6.
type PatternConfig struct {
	Name            string `yaml:"name"`
	FilePattern     string `yaml:"file_pattern"`
	ContentPattern  string `yaml:"content_pattern"`
	Category        string `yaml:"category"`
	SeverityDefault string `yaml:"severity_default"`
}

// MLConfig controls the anomaly-scoring stage (C8).
type MLConfig struct {
	Enabled             bool    `yaml:"enabled"`
	ModelType           string  `yaml:"model_type"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	OnlineLearning      bool    `yaml:"online_learning"`
	MaxTrainingSamples  int     `yaml:"max_training_samples"`
}

// ProposalConfig controls which findings get drafted into ADR proposals.
// proposal.confidence_threshold is distinct from ml.confidence_threshold
// per the Open Question resolution in spec §9.
type ProposalConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
}

// Default returns the recognized defaults of spec §6.
func Default() *Config {
	return &Config{
		AdrDir:          "docs/adr",
		IncludePatterns: []string{"**/*"},
		ExcludePatterns: []string{
			"**/.git/**", "**/vendor/**", "**/node_modules/**",
			"**/target/**", "**/dist/**", "**/build/**",
		},
		SnapshotFile: ".adrscan_snapshot.json",
		Template:     TemplateConfig{Format: "madr"},
		Drift:        DriftConfig{Enabled: true},
		ML: MLConfig{
			Enabled:             false,
			ModelType:           "Ensemble",
			ConfidenceThreshold: 0.7,
			OnlineLearning:      false,
			MaxTrainingSamples:  10000,
		},
		Proposal:           ProposalConfig{ConfidenceThreshold: 0.6},
		MaxFileBytes:       10 * 1024 * 1024,
		MaxInMemorySignals: 1_000_000,
	}
}

// Load reads and parses a YAML configuration file, applying defaults for any
// field the document omits, then validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &direrr.ConfigError{Msg: fmt.Sprintf("failed to read config file %s", path), Cause: err}
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &direrr.ConfigError{Msg: fmt.Sprintf("failed to parse config file %s", path), Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg back to YAML, used by `init` to write the scaffold
// config file.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks the invariants of spec §4.2: patterns compile, adr_dir
// exists or is creatable, snapshot_file's parent exists, globs are valid.
func (c *Config) Validate() error {
	var problems []string

	for _, p := range c.Drift.DetectionPatterns {
		if _, err := regexp.Compile(p.ContentPattern); err != nil {
			problems = append(problems, fmt.Sprintf("pattern %q: invalid content_pattern: %v", p.Name, err))
		}
		if _, err := filepath.Match(normalizeForMatch(p.FilePattern), "x"); err != nil {
			problems = append(problems, fmt.Sprintf("pattern %q: invalid file_pattern: %v", p.Name, err))
		}
	}

	for _, g := range append(append([]string{}, c.IncludePatterns...), c.ExcludePatterns...) {
		if _, err := filepath.Match(normalizeForMatch(g), "x"); err != nil {
			problems = append(problems, fmt.Sprintf("invalid glob %q: %v", g, err))
		}
	}

	if c.SnapshotFile != "" {
		dir := filepath.Dir(c.SnapshotFile)
		if dir != "." {
			if st, err := os.Stat(dir); err != nil || !st.IsDir() {
				problems = append(problems, fmt.Sprintf("snapshot_file parent directory %q does not exist", dir))
			}
		}
	}

	if c.AdrDir != "" {
		if st, err := os.Stat(c.AdrDir); err == nil && !st.IsDir() {
			problems = append(problems, fmt.Sprintf("adr_dir %q exists but is not a directory", c.AdrDir))
		}
	}

	if c.Template.Format == "custom" && c.Template.CustomPath == "" {
		problems = append(problems, "template.custom_path is required when template.format=custom")
	}

	if len(problems) > 0 {
		return &direrr.ConfigError{Msg: fmt.Sprintf("%d problem(s): %v", len(problems), problems)}
	}
	return nil
}

// normalizeForMatch strips a leading "**/" that filepath.Match can't express,
// since Validate only needs to know the glob compiles, not which files it
// selects (doublestar, used by the walker, accepts "**" directly).
func normalizeForMatch(pattern string) string {
	if len(pattern) >= 3 && pattern[:3] == "**/" {
		return pattern[3:]
	}
	return pattern
}

// EnsureADRDir creates AdrDir if it does not already exist, used by the
// `init` operation.
func (c *Config) EnsureADRDir() error {
	if _, err := os.Stat(c.AdrDir); err == nil {
		return nil
	}
	return os.MkdirAll(c.AdrDir, 0o755)
}
