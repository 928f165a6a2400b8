// Package config provides configuration management for grabs.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Saves to the current directory
//	// Maximum zoom level per image
//	// 10 concurrent tile fetches, 2 concurrent image downloads
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// Uses defaults if the file doesn't exist
//
// # Saving Settings
//
//	settings.OutputDir = "/archives/paris"
//	err := settings.Save("/path/to/config.json")
//
// CLI flags override loaded settings in the binaries' main functions.
package config
