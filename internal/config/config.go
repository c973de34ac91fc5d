// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables that override config file values.
const (
	EnvAPIURL    = "RESUME_API_URL"
	EnvLayout    = "RESUME_LAYOUT"
	EnvOutputDir = "RESUME_OUTPUT_DIR"
)

// Default values applied by MergeWithDefaults.
const (
	DefaultAPIURL         = "http://localhost:8000"
	DefaultLayout         = "consolidated"
	DefaultOutputDir      = "."
	DefaultPDFName        = "resume.pdf"
	DefaultTimeoutSeconds = 120
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Service
	APIURL         string `json:"api_url,omitempty"`         // Base URL of the generation/export service
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Per-request timeout

	// Wizard
	Layout     string `json:"layout,omitempty"`      // Built-in step layout: consolidated or granular
	LayoutFile string `json:"layout_file,omitempty"` // Path to a custom YAML layout (wins over layout)

	// Output
	OutputDir   string `json:"output_dir,omitempty"`   // Directory the PDF is saved to
	PDFName     string `json:"pdf_name,omitempty"`     // File name of the saved PDF
	MetricsFile string `json:"metrics_file,omitempty"` // Prometheus textfile written at exit

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print debug logs
	Strict  bool `json:"strict,omitempty"`  // Panic on draft invariant violations
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: DefaultTimeoutSeconds,
		Layout:         DefaultLayout,
		OutputDir:      DefaultOutputDir,
		PDFName:        DefaultPDFName,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with the non-empty environment values returned by getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(getenv(EnvLayout)); v != "" {
		c.Layout = v
	}
	if v := strings.TrimSpace(getenv(EnvOutputDir)); v != "" {
		c.OutputDir = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'api_url' must be an absolute URL, got %q", c.APIURL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("config error: 'api_url' scheme must be http or https, got %q", u.Scheme)
		}
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}

	if c.PDFName != "" {
		if strings.ContainsAny(c.PDFName, `/\`) {
			return fmt.Errorf("config error: 'pdf_name' must be a file name, got %q", c.PDFName)
		}
		if !strings.EqualFold(filepath.Ext(c.PDFName), ".pdf") {
			return fmt.Errorf("config error: 'pdf_name' must end in .pdf")
		}
	}

	if c.LayoutFile != "" {
		if _, err := os.Stat(c.LayoutFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: layout file not found: %s", c.LayoutFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.Layout == "" {
		result.Layout = defaults.Layout
	}
	if result.LayoutFile == "" {
		result.LayoutFile = defaults.LayoutFile
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.PDFName == "" {
		result.PDFName = defaults.PDFName
	}
	if result.MetricsFile == "" {
		result.MetricsFile = defaults.MetricsFile
	}

	// Int fields: use default if zero
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
