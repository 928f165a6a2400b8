package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.jpg", "normal-file.jpg"},
		{"ark:_12345_abc.jpg", "ark__12345_abc.jpg"},
		{"file/with\\slashes.png", "file_with_slashes.png"},
		{"file<with>brackets.jpg", "file_with_brackets.jpg"},
		{"file|with|pipes.jpg", "file_with_pipes.jpg"},
		{"file?with*wildcards.jpg", "file_with_wildcards.jpg"},
		{"file\"with\"quotes.jpg", "file_with_quotes.jpg"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	if err := WriteFile(context.Background(), path, []byte("payload")); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q, want %q", data, "payload")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")

	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir() error: %v", err)
	}

	info, err := os.Stat(nested)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("created path is not a directory")
	}

	// Idempotent on an existing directory.
	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir() on existing dir: %v", err)
	}
}
