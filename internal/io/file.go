// Package ioutils provides the save collaborator and file-name utilities.
//
// This package contains functions for:
//   - Writing fetched content and metadata to disk
//   - Filename sanitization
//   - Directory creation
//
// The core retrieval pipeline never touches disk; only callers of the
// pipeline (the download manager, the CLI) go through this package.
package ioutils

import (
	"context"
	"os"
	"regexp"
	"strings"
)

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644 and truncated if it already exists.
// The context parameter is reserved for cancellation of future streaming
// variants.
func WriteFile(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't
// exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names, keeping names valid across operating systems
// (Windows has the most restrictive rules).
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("ark:/12345/abc")  // Returns "ark_/12345/abc" style underscores
//	SanitizeFileName("Page...")         // Returns "Page"
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Windows doesn't allow filenames ending with dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")

	return name
}
