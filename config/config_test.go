package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults failed: %v", err)
	}

	if cfg.World.Cols != 300 || cfg.World.Rows != 280 {
		t.Errorf("world = %dx%d, want 300x280", cfg.World.Cols, cfg.World.Rows)
	}
	if cfg.Species.Vegetation.MoveRate != 0 {
		t.Errorf("vegetation move_rate = %d, want 0", cfg.Species.Vegetation.MoveRate)
	}
	if cfg.Species.Herbivore.ReproduceThreshold != 140 {
		t.Errorf("herbivore threshold = %d, want 140", cfg.Species.Herbivore.ReproduceThreshold)
	}
	if cfg.Species.Carnivore.ReproduceThreshold != 300 {
		t.Errorf("carnivore threshold = %d, want 300", cfg.Species.Carnivore.ReproduceThreshold)
	}
	if cfg.Resource.InjectionCount != 3 {
		t.Errorf("injection_count = %d, want 3", cfg.Resource.InjectionCount)
	}
	if cfg.Derived.Cells != 300*280 {
		t.Errorf("derived cells = %d, want %d", cfg.Derived.Cells, 300*280)
	}
	if cfg.Derived.TickInterval != 2*time.Second {
		t.Errorf("derived tick interval = %v, want 2s", cfg.Derived.TickInterval)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("world:\n  cols: 12\nspecies:\n  herbivore:\n    move_rate: 3\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load overlay failed: %v", err)
	}

	if cfg.World.Cols != 12 {
		t.Errorf("cols = %d, want 12", cfg.World.Cols)
	}
	// Untouched keys keep their defaults
	if cfg.World.Rows != 280 {
		t.Errorf("rows = %d, want 280", cfg.World.Rows)
	}
	if cfg.Species.Herbivore.MoveRate != 3 {
		t.Errorf("herbivore move_rate = %d, want 3", cfg.Species.Herbivore.MoveRate)
	}
	if cfg.Species.Herbivore.ReproduceThreshold != 140 {
		t.Errorf("herbivore threshold = %d, want 140", cfg.Species.Herbivore.ReproduceThreshold)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"zero cols", "world:\n  cols: 0\n"},
		{"negative rows", "world:\n  rows: -4\n"},
		{"negative move rate", "species:\n  carnivore:\n    move_rate: -1\n"},
		{"negative injection", "resource:\n  injection_count: -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.World.Cols = 17
	cfg.Species.Vegetation.Initial = 5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config failed: %v", err)
	}
	if loaded.World.Cols != 17 {
		t.Errorf("cols = %d, want 17", loaded.World.Cols)
	}
	if loaded.Species.Vegetation.Initial != 5 {
		t.Errorf("vegetation initial = %d, want 5", loaded.Species.Vegetation.Initial)
	}
}
