// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration for one mirror run. It is
// built once in main and passed into every component constructor; no
// package keeps configuration state of its own.
type Config struct {
	// APIKey is the YouTube Data API v3 key.
	APIKey string `json:"-"`
	// FolderID is the Drive folder that holds the mirrored files and
	// the channel catalog.
	FolderID string `json:"folder_id"`
	// CredentialsFile is the path to the Drive service account JSON key.
	CredentialsFile string `json:"credentials_file"`

	// HistoryPath is the local history file. It must already exist.
	HistoryPath string `json:"history_path"`
	// ScratchDir is the local directory for in-flight downloads.
	ScratchDir string `json:"scratch_dir"`

	// RetentionDays is the age beyond which mirrored files are deleted.
	RetentionDays int `json:"retention_days"`
	// LatestN is how many recent uploads to consider per channel.
	LatestN int `json:"latest_n"`
	// Quality is the preferred progressive stream resolution label.
	Quality string `json:"quality"`
	// Container restricts stream selection to a single container format.
	Container string `json:"container"`
	// UploadChunkSize is the chunk size for resumable Drive uploads.
	UploadChunkSize int `json:"upload_chunk_size"`
	// IncrementalPersist writes the history after every successful
	// transfer instead of only at the end of the run.
	IncrementalPersist bool `json:"incremental_persist"`

	// MaxRetries is the maximum number of retries for failed external calls.
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries.
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries.
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1).
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		CredentialsFile:   "service_account.json",
		HistoryPath:       "past_videos.json",
		ScratchDir:        "videos",
		RetentionDays:     14,
		LatestN:           3,
		Quality:           "480p",
		Container:         "mp4",
		UploadChunkSize:   8 << 20, // 8 MiB
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytmirror.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytmirror.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytmirror", "ytmirror.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables. The three
// credential variables keep the names the deployment already uses;
// everything else is YTMIRROR_-prefixed.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("PARENT_FOLDER_ID"); v != "" {
		c.FolderID = v
	}
	if v := os.Getenv("SERVICE_ACCOUNT_FILE"); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv("YTMIRROR_HISTORY_PATH"); v != "" {
		c.HistoryPath = v
	}
	if v := os.Getenv("YTMIRROR_SCRATCH_DIR"); v != "" {
		c.ScratchDir = v
	}
	if v := os.Getenv("YTMIRROR_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RetentionDays = n
		}
	}
	if v := os.Getenv("YTMIRROR_LATEST_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LatestN = n
		}
	}
	if v := os.Getenv("YTMIRROR_QUALITY"); v != "" {
		c.Quality = v
	}
	if v := os.Getenv("YTMIRROR_CONTAINER"); v != "" {
		c.Container = v
	}
	if v := os.Getenv("YTMIRROR_INCREMENTAL_PERSIST"); v != "" {
		c.IncrementalPersist = v == "true" || v == "1"
	}
	if v := os.Getenv("YTMIRROR_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTMIRROR_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTMIRROR_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	if c.FolderID == "" {
		return fmt.Errorf("PARENT_FOLDER_ID is required")
	}
	if c.CredentialsFile == "" {
		return fmt.Errorf("credentials_file must not be empty")
	}
	if c.Quality == "" {
		return fmt.Errorf("quality must not be empty")
	}
	if c.Container == "" {
		return fmt.Errorf("container must not be empty")
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention_days must be non-negative")
	}
	if c.LatestN <= 0 {
		return fmt.Errorf("latest_n must be positive")
	}
	if c.UploadChunkSize <= 0 {
		return fmt.Errorf("upload_chunk_size must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
