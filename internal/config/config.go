// =============================================================================
// XLSX to CSV Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file and applies
// defaults. Command-line flags are layered on top of the loaded values by the
// cmd package, so every setting here can also be given on the command line.
//
// EXAMPLE (config.yaml):
//   sheet_name: Tabelle1
//   delimiter: "|"
//   use_crlf: false
//   log_level: info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ginjaninja78/xlsx2csv/internal/types"
	"gopkg.in/yaml.v3"
)

// DefaultDelimiter separates the two output fields when nothing else is set.
const DefaultDelimiter = "|"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter settings.
type Config struct {
	// SheetName is the worksheet to convert. It is matched exactly, never by
	// position.
	// Default: "Tabelle1"
	SheetName string `yaml:"sheet_name"`

	// Delimiter is the single character placed between the two output fields.
	// Default: "|"
	Delimiter string `yaml:"delimiter"`

	// UseCRLF terminates output lines with "\r\n" instead of "\n".
	UseCRLF bool `yaml:"use_crlf"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file.
//
// When optional is true a missing file yields the defaults instead of an
// error; this is how the implicit default config path is handled.
func Load(configPath string, optional bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.SheetName == "" {
		cfg.SheetName = types.DefaultSheetName
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = DefaultDelimiter
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the configuration for values the converter cannot use.
func (c *Config) Validate() error {
	if c.SheetName == "" {
		return fmt.Errorf("sheet_name must not be empty")
	}

	if _, err := c.DelimiterByte(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	return nil
}

// DelimiterByte returns the delimiter as a single byte.
//
// The delimiter must be exactly one byte and must not collide with the
// quoting or line-terminator characters of the output format.
func (c *Config) DelimiterByte() (byte, error) {
	if len(c.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single byte character, got %q", c.Delimiter)
	}

	d := c.Delimiter[0]
	switch d {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("delimiter %q is not allowed", c.Delimiter)
	}
	if d >= 0x80 {
		return 0, fmt.Errorf("delimiter %q is not an ASCII character", c.Delimiter)
	}

	return d, nil
}
