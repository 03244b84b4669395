package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config represents the effective configuration for one mirror run
type Config struct {
	// ChannelURL is the root release-channel document
	ChannelURL string `json:"channel_url"`
	// OutputDir is the positional output directory
	OutputDir string `json:"output_dir"`
	// TargetsPath optionally points at a YAML target-set file
	TargetsPath string `json:"targets_path,omitempty"`

	Debug       bool   `json:"debug"`
	Verbose     bool   `json:"verbose"`
	LogFilePath string `json:"log_file_path,omitempty"`

	// Retry settings for payload transfers
	MaxRetries int `json:"max_retries"` // attempts per payload
	RetryDelay int `json:"retry_delay"` // seconds between attempts

	// DownloadMaxConcurrency bounds the download worker pool
	DownloadMaxConcurrency int `json:"download_max_concurrency"`

	// Refresh forces cached manifest documents to be re-fetched
	Refresh bool `json:"refresh"`

	// HTTPHeaders are added to every request (auth tokens, etc.)
	HTTPHeaders map[string]string `json:"http_headers,omitempty"`
}

// DefaultChannelURL points at the release-channel document mirrored when no
// override is given.
const DefaultChannelURL = "https://aka.ms/vs/16/release/channel"

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{
		ChannelURL:             DefaultChannelURL,
		MaxRetries:             3,
		RetryDelay:             3,
		DownloadMaxConcurrency: 4,
		HTTPHeaders:            map[string]string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.ChannelURL == "" {
		return fmt.Errorf("channel URL is required")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

// DownloadDir is the persistent content-addressed cache directory
func (c *Config) DownloadDir() string {
	return filepath.Join(c.OutputDir, "download")
}

// ExtractedDir is the output tree rebuilt from scratch every run
func (c *Config) ExtractedDir() string {
	return filepath.Join(c.OutputDir, "extracted")
}

// RetryWait returns the delay between attempts as a duration
func (c *Config) RetryWait() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// RedactedForLogging returns a snapshot of the effective configuration
// suitable for debug logs, with header values masked.
func (c *Config) RedactedForLogging() map[string]interface{} {
	maskMap := func(in map[string]string) map[string]string {
		if len(in) == 0 {
			return nil
		}
		out := make(map[string]string, len(in))
		for k := range in {
			out[k] = "***redacted***"
		}
		return out
	}

	return map[string]interface{}{
		"ChannelURL":             c.ChannelURL,
		"OutputDir":              c.OutputDir,
		"TargetsPath":            c.TargetsPath,
		"Debug":                  c.Debug,
		"Verbose":                c.Verbose,
		"LogFilePath":            c.LogFilePath,
		"MaxRetries":             c.MaxRetries,
		"RetryDelay":             c.RetryDelay,
		"DownloadMaxConcurrency": c.DownloadMaxConcurrency,
		"Refresh":                c.Refresh,
		"HTTPHeaders":            maskMap(c.HTTPHeaders),
	}
}
