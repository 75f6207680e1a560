package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical assembly defaults file.
const DefaultConfigPath = "config/assembly.defaults.json"

// Defaults applied by the Get* methods when a field is unset.
const (
	DefaultMinOverlap    = 12
	DefaultReferenceScan = 0
)

// AssemblyConfig holds the tunable parameters of scan assembly. Every field
// is optional; unset fields fall back to the defaults returned by the Get*
// methods, so partial files are safe.
type AssemblyConfig struct {
	// Matching
	MinOverlap *int `json:"min_overlap,omitempty"`

	// Assembly
	ReferenceScan   *int `json:"reference_scan,omitempty"` // index into the input, not the scanner ID
	Workers         *int `json:"workers,omitempty"`        // 0 = one per CPU
	MaxMatcherCalls *int `json:"max_matcher_calls,omitempty"`

	// Run control
	Timeout     *string `json:"timeout,omitempty"` // duration string like "30s"; empty = none
	LogProgress *bool   `json:"log_progress,omitempty"`
}

// Helper functions to create pointers
func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }

// EmptyAssemblyConfig returns an AssemblyConfig with all fields set to nil.
func EmptyAssemblyConfig() *AssemblyConfig {
	return &AssemblyConfig{}
}

// DefaultAssemblyConfig returns a config with every field set to its default.
func DefaultAssemblyConfig() *AssemblyConfig {
	return &AssemblyConfig{
		MinOverlap:      ptrInt(DefaultMinOverlap),
		ReferenceScan:   ptrInt(DefaultReferenceScan),
		Workers:         ptrInt(0),
		MaxMatcherCalls: ptrInt(0),
		Timeout:         ptrString(""),
		LogProgress:     ptrBool(false),
	}
}

// LoadAssemblyConfig loads an AssemblyConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadAssemblyConfig(path string) (*AssemblyConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAssemblyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadBaseConfig returns the built-in defaults overlaid with the file at
// path. A missing file leaves the built-in defaults in place; any other
// load failure is returned.
func LoadBaseConfig(path string) (*AssemblyConfig, error) {
	cfg := DefaultAssemblyConfig()
	if _, err := os.Stat(filepath.Clean(path)); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	fileCfg, err := LoadAssemblyConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults from %s: %w", path, err)
	}
	cfg.Merge(fileCfg)
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *AssemblyConfig) Validate() error {
	if c.MinOverlap != nil && *c.MinOverlap < 1 {
		return fmt.Errorf("min_overlap must be at least 1, got %d", *c.MinOverlap)
	}
	if c.ReferenceScan != nil && *c.ReferenceScan < 0 {
		return fmt.Errorf("reference_scan must be non-negative, got %d", *c.ReferenceScan)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.MaxMatcherCalls != nil && *c.MaxMatcherCalls < 0 {
		return fmt.Errorf("max_matcher_calls must be non-negative, got %d", *c.MaxMatcherCalls)
	}
	if c.Timeout != nil && *c.Timeout != "" {
		d, err := time.ParseDuration(*c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", *c.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf("timeout must be non-negative, got %s", d)
		}
	}
	return nil
}

// GetMinOverlap returns the min_overlap value or the default.
func (c *AssemblyConfig) GetMinOverlap() int {
	if c.MinOverlap == nil {
		return DefaultMinOverlap
	}
	return *c.MinOverlap
}

// GetReferenceScan returns the reference_scan value or the default.
func (c *AssemblyConfig) GetReferenceScan() int {
	if c.ReferenceScan == nil {
		return DefaultReferenceScan
	}
	return *c.ReferenceScan
}

// GetWorkers returns the workers value or 0 (one per CPU).
func (c *AssemblyConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetMaxMatcherCalls returns the max_matcher_calls value or 0 (scans²).
func (c *AssemblyConfig) GetMaxMatcherCalls() int {
	if c.MaxMatcherCalls == nil {
		return 0
	}
	return *c.MaxMatcherCalls
}

// GetTimeout parses and returns the Timeout as a time.Duration. Zero means
// no timeout.
func (c *AssemblyConfig) GetTimeout() time.Duration {
	if c.Timeout == nil || *c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.Timeout)
	if err != nil {
		return 0 // default on parse error
	}
	return d
}

// GetLogProgress returns the log_progress value or the default.
func (c *AssemblyConfig) GetLogProgress() bool {
	if c.LogProgress == nil {
		return false
	}
	return *c.LogProgress
}

// Merge copies every field set in other over c.
func (c *AssemblyConfig) Merge(other *AssemblyConfig) {
	if other == nil {
		return
	}
	if other.MinOverlap != nil {
		c.MinOverlap = ptrInt(*other.MinOverlap)
	}
	if other.ReferenceScan != nil {
		c.ReferenceScan = ptrInt(*other.ReferenceScan)
	}
	if other.Workers != nil {
		c.Workers = ptrInt(*other.Workers)
	}
	if other.MaxMatcherCalls != nil {
		c.MaxMatcherCalls = ptrInt(*other.MaxMatcherCalls)
	}
	if other.Timeout != nil {
		c.Timeout = ptrString(*other.Timeout)
	}
	if other.LogProgress != nil {
		c.LogProgress = ptrBool(*other.LogProgress)
	}
}
