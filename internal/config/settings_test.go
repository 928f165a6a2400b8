package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := DefaultSettings()
	if *settings != *defaults {
		t.Errorf("Load() = %+v, want defaults %+v", settings, defaults)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	want := DefaultSettings()
	want.OutputDir = "/tmp/out"
	want.ZoomLevel = 12
	want.Recursive = true
	want.MaxDepth = 3
	want.BestEffort = true

	if err := want.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	data := []byte(`{"output_dir": "/elsewhere"}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.OutputDir != "/elsewhere" {
		t.Errorf("OutputDir = %q, want %q", got.OutputDir, "/elsewhere")
	}
	if got.MaxConcurrentTileFetches != DefaultSettings().MaxConcurrentTileFetches {
		t.Error("unset fields did not keep their defaults")
	}
}
