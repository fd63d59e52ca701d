// =============================================================================
// Medição Jurídica - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. Config file (config.yaml), optional
//   3. Environment variables prefixed with MEDICAO_, e.g. MEDICAO_OUTPUT_DIR
//
// A .env file is loaded into the environment by the root command before
// Load runs, so its values arrive through step 3.
//
// EXAMPLE config.yaml:
//
//   output_dir: ./output
//   archive_dir: ./output_archive
//   catalog_file: ./catalogo.xlsx
//   export_format: xlsx
//   file_name_format: "Medições_{measurement}"
//   log_level: info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "MEDICAO"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where generated artifacts are written.
	// Default: "./output"
	OutputDir string `mapstructure:"output_dir"`

	// ArchiveDir receives a previous artifact with the same name before it
	// is overwritten.
	// Default: "./output_archive"
	ArchiveDir string `mapstructure:"archive_dir"`

	// ArchiveSubdirs stores archived files under YYYY/MM/DD subdirectories.
	ArchiveSubdirs bool `mapstructure:"archive_subdirs"`

	// ArchiveRetentionDays removes archived files older than this many days
	// after each export. 0 keeps everything.
	ArchiveRetentionDays int `mapstructure:"archive_retention_days"`

	// =========================================================================
	// CATALOG AND EXPORT SETTINGS
	// =========================================================================

	// CatalogFile is a .yaml or .xlsx catalog. Empty uses the built-in one.
	CatalogFile string `mapstructure:"catalog_file"`

	// ExportFormat selects the exporter ("xlsx" or "csv").
	ExportFormat string `mapstructure:"export_format"`

	// FileNameFormat is the artifact name format; see
	// utils.GenerateOutputFileName. {measurement} is the internal
	// measurement number.
	FileNameFormat string `mapstructure:"file_name_format"`

	// SheetPassword protects the workbook sheets. Empty uses the exporter
	// default.
	SheetPassword string `mapstructure:"sheet_password"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level"`
}

// ArchiveRetention returns ArchiveRetentionDays as a duration.
func (c Config) ArchiveRetention() time.Duration {
	return time.Duration(c.ArchiveRetentionDays) * 24 * time.Hour
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"output_dir":             "./output",
		"archive_dir":            "./output_archive",
		"archive_subdirs":        false,
		"archive_retention_days": 0,
		"catalog_file":           "",
		"export_format":          "xlsx",
		"file_name_format":       "Medições_{measurement}",
		"sheet_password":         "",
		"log_level":              "info",
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - path: The config file. A missing file is not an error; defaults and
//     environment overrides still apply.
//
// RETURNS:
//   - The configuration, and the config file actually used ("" if none).
//   - An error if the file exists but cannot be parsed, or the result is
//     invalid.
func Load(path string) (*Config, string, error) {
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, "", fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			used = v.ConfigFileUsed()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ExportFormat = strings.ToLower(strings.TrimSpace(cfg.ExportFormat))

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, used, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	var errs []error

	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.ExportFormat == "" {
		errs = append(errs, errors.New("export_format is required"))
	}
	if c.FileNameFormat == "" {
		errs = append(errs, errors.New("file_name_format is required"))
	}
	if c.ArchiveRetentionDays < 0 {
		errs = append(errs, errors.New("archive_retention_days cannot be negative"))
	}

	return errors.Join(errs...)
}
