// Package config holds the analysis configuration surface: keyword
// presets, sentiment thresholds, hashing, output artifacts and chart
// appearance. A Config is an immutable value passed into the analyzer;
// nothing here is ambient global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/forensiq/abusescan/pkg/abusescan/hash"
	"github.com/forensiq/abusescan/pkg/abusescan/internalerr"
	"github.com/forensiq/abusescan/pkg/abusescan/keywords"
	"github.com/forensiq/abusescan/pkg/abusescan/sentiment"
)

// Output names the run artifacts. File names are relative to Dir.
type Output struct {
	Dir          string `yaml:"dir"`
	ResultsCSV   string `yaml:"results_csv"`
	ReportTXT    string `yaml:"report_txt"`
	ChartPNG     string `yaml:"chart_png"`
	IntegrityLog string `yaml:"integrity_log"`

	// IntegrityBackend selects the integrity log implementation:
	// "file" (append-only text lines) or "sqlite".
	IntegrityBackend string `yaml:"integrity_backend"`
}

// Chart controls the rendered visualization.
type Chart struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Bins   int `yaml:"bins"`

	ColorNegative     string `yaml:"color_negative"`
	ColorNeutral      string `yaml:"color_neutral"`
	ColorPositive     string `yaml:"color_positive"`
	ColorAbusive      string `yaml:"color_abusive"`
	ColorSafe         string `yaml:"color_safe"`
	ColorPolarity     string `yaml:"color_polarity"`
	ColorSubjectivity string `yaml:"color_subjectivity"`
}

// Config is the full configuration surface.
type Config struct {
	// KeywordSets maps preset names to lowercase keyword lists. The
	// combined preset is always computed as the union of the others.
	KeywordSets map[string][]string `yaml:"keyword_sets"`

	NegativeThreshold float64 `yaml:"negative_threshold"`
	PositiveThreshold float64 `yaml:"positive_threshold"`

	HashAlgorithm string `yaml:"hash_algorithm"`
	HashChunkSize int    `yaml:"hash_chunk_size"`

	Output Output `yaml:"output"`
	Chart  Chart  `yaml:"chart"`

	// MaxDetailedFindings caps the per-row table in the forensic
	// report; rows beyond the cap collapse into a truncation notice.
	MaxDetailedFindings int `yaml:"max_detailed_findings"`

	// StripHTML removes markup from message text before matching and
	// scoring. Off by default: it changes what the matcher sees.
	StripHTML bool `yaml:"strip_html"`

	// Workers controls per-row analysis fan-out. 1 means sequential.
	Workers int `yaml:"workers"`

	Verbose         bool `yaml:"verbose"`
	ShowWarnings    bool `yaml:"show_warnings"`
	ContinueOnError bool `yaml:"continue_on_error"`
	CreateBackups   bool `yaml:"create_backups"`
}

// Default returns the standard configuration.
func Default() Config {
	builtin := keywords.BuiltIn()
	sets := make(map[string][]string, len(builtin))
	for name, set := range builtin {
		if name == keywords.CombinedPreset {
			continue
		}
		sets[name] = set.Terms()
	}

	return Config{
		KeywordSets:       sets,
		NegativeThreshold: -0.1,
		PositiveThreshold: 0.1,
		HashAlgorithm:     hash.DefaultAlgorithm,
		HashChunkSize:     hash.DefaultChunkSize,
		Output: Output{
			Dir:              "results",
			ResultsCSV:       "analysis_results.csv",
			ReportTXT:        "forensic_report.txt",
			ChartPNG:         "sentiment_analysis.png",
			IntegrityLog:     "integrity_hashes.txt",
			IntegrityBackend: "file",
		},
		Chart: Chart{
			Width:             1400,
			Height:            1000,
			Bins:              30,
			ColorNegative:     "#e74c3c",
			ColorNeutral:      "#95a5a6",
			ColorPositive:     "#2ecc71",
			ColorAbusive:      "#e74c3c",
			ColorSafe:         "#2ecc71",
			ColorPolarity:     "#3498db",
			ColorSubjectivity: "#f39c12",
		},
		MaxDetailedFindings: 10000,
		Workers:             1,
		Verbose:             true,
		ShowWarnings:        true,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the invariants the rest of the system relies on:
// lowercase keywords, ordered thresholds, a known hash algorithm and a
// positive chunk size.
func (c Config) Validate() error {
	for name, terms := range c.KeywordSets {
		for _, term := range terms {
			if term != strings.ToLower(term) {
				return fmt.Errorf("%w: keyword %q in set %q must be lowercase",
					internalerr.ErrInvalidConfig, term, name)
			}
		}
	}
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	if _, err := hash.New(c.HashAlgorithm); err != nil {
		return err
	}
	if c.HashChunkSize <= 0 {
		return fmt.Errorf("%w: hash chunk size must be positive, got %d",
			internalerr.ErrInvalidConfig, c.HashChunkSize)
	}
	switch c.Output.IntegrityBackend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("%w: unknown integrity backend %q",
			internalerr.ErrInvalidConfig, c.Output.IntegrityBackend)
	}
	return nil
}

// Presets builds the keyword presets, including the computed combined
// union.
func (c Config) Presets() keywords.Presets {
	p := make(keywords.Presets, len(c.KeywordSets)+1)
	var all []keywords.Set
	for name, terms := range c.KeywordSets {
		if name == keywords.CombinedPreset {
			continue
		}
		set := keywords.NewSet(terms)
		p[name] = set
		all = append(all, set)
	}
	p[keywords.CombinedPreset] = keywords.Union(all...)
	return p
}

// LogLevel maps the verbosity toggles to a log level: Info when
// verbose, Warn otherwise, Error when warnings are suppressed.
// ShowWarnings wins over Verbose.
func (c Config) LogLevel() zapcore.Level {
	if !c.ShowWarnings {
		return zapcore.ErrorLevel
	}
	if !c.Verbose {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

// Thresholds returns the configured classification thresholds.
func (c Config) Thresholds() sentiment.Thresholds {
	return sentiment.Thresholds{
		Negative: c.NegativeThreshold,
		Positive: c.PositiveThreshold,
	}
}

// ResultsCSVPath returns the full path of the enriched CSV artifact.
func (c Config) ResultsCSVPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ResultsCSV)
}

// ReportPath returns the full path of the forensic report artifact.
func (c Config) ReportPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ReportTXT)
}

// ChartPath returns the full path of the chart artifact.
func (c Config) ChartPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ChartPNG)
}

// IntegrityLogPath returns the full path of the integrity log.
func (c Config) IntegrityLogPath() string {
	return filepath.Join(c.Output.Dir, c.Output.IntegrityLog)
}
