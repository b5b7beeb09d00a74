package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/colloc/pkg/colloc/ingest"
	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/pmi"
)

// Output types
const (
	OutputSeparate = "separate"
	OutputGathered = "gathered"
)

// Defaults
const (
	DefaultWindow    = 5
	DefaultOutputDir = "output"
)

// Settings represents the run configuration file
type Settings struct {
	Window       int    `yaml:"window"`
	OutputType   string `yaml:"output_type"`
	OutputDir    string `yaml:"output_dir"`
	MaxLength    int    `yaml:"max_length"`
	MaxFileBytes int64  `yaml:"max_file_bytes"` // 0 disables the cap
	StripHTML    bool   `yaml:"strip_html"`
	UnicodeWords bool   `yaml:"unicode_words"`
	ExcludePath  string `yaml:"exclude"`
	ArchivePath  string `yaml:"archive"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		Window:     DefaultWindow,
		OutputType: OutputSeparate,
		OutputDir:  DefaultOutputDir,
		MaxLength:  ingest.DefaultMaxLength,
	}
}

// Load reads settings from a YAML file. Keys missing from the file keep
// their defaults.
func Load(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}

	if s.OutputType == "" {
		s.OutputType = OutputSeparate
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}

	return s, nil
}

// Validate checks field ranges and enumerations.
func (s Settings) Validate() error {
	if s.Window < 0 {
		return fmt.Errorf("window must be >= 0, got %d: %w", s.Window, internalerr.ErrInvalidConfig)
	}
	if s.Window > pmi.MaxWindow {
		return fmt.Errorf("window must be <= %d, got %d: %w", pmi.MaxWindow, s.Window, internalerr.ErrInvalidConfig)
	}
	if s.OutputType != OutputSeparate && s.OutputType != OutputGathered {
		return fmt.Errorf("output_type must be %q or %q, got %q: %w",
			OutputSeparate, OutputGathered, s.OutputType, internalerr.ErrInvalidConfig)
	}
	if s.MaxLength < 0 {
		return fmt.Errorf("max_length must be >= 0, got %d: %w", s.MaxLength, internalerr.ErrInvalidConfig)
	}
	if s.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0, got %d: %w", s.MaxFileBytes, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Stoplist represents a list of collocates to leave out of results
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads terms from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
