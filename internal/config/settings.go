package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Retrieval settings
	OutputDir    string `json:"output_dir"`
	ZoomLevel    int    `json:"zoom_level"` // 0 selects the maximum level per image
	Recursive    bool   `json:"recursive"`
	MaxDepth     int    `json:"max_depth"` // 0 = unlimited
	MetadataOnly bool   `json:"metadata_only"`

	// Concurrency settings
	MaxConcurrentTileFetches    int `json:"max_concurrent_tile_fetches"`
	MaxConcurrentImageDownloads int `json:"max_concurrent_image_downloads"`
	MaxConcurrentBranches       int `json:"max_concurrent_branches"`

	// Transport settings
	FetchTimeoutSeconds   int     `json:"fetch_timeout_seconds"`
	DownloadMaxRetries    int     `json:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent"`

	// Output settings
	BestEffort        bool `json:"best_effort"`          // keep images with missing tiles, blanked
	MaxSavedImageSize int  `json:"max_saved_image_size"` // 0 = save at native size
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir: ".",
		ZoomLevel: 0,

		MaxConcurrentTileFetches:    10,
		MaxConcurrentImageDownloads: 2,
		MaxConcurrentBranches:       4,

		FetchTimeoutSeconds:   20,
		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,

		BestEffort:        false,
		MaxSavedImageSize: 0,
	}
}

// Load reads settings from a JSON file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
