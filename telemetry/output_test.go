package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/habitat/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Nil manager must be safe to use
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Errorf("nil WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
	if om.Dir() != "" {
		t.Error("nil Dir should be empty")
	}
}

func TestOutputManagerWritesTelemetryCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		stats := WindowStats{
			WindowEndTick: int32(i * 50),
			Vegetation:    100 * i,
			Herbivores:    10 * i,
			Carnivores:    i,
			Kills:         i,
		}
		if err := om.WriteTelemetry(stats); err != nil {
			t.Fatalf("WriteTelemetry failed: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, TelemetryFile))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "window_end"); n != 1 {
		t.Errorf("header written %d times, want 1", n)
	}

	f, err := os.Open(filepath.Join(dir, TelemetryFile))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rows []WindowStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[2].WindowEndTick != 150 || rows[2].Herbivores != 30 || rows[2].Kills != 3 {
		t.Errorf("last row = %+v", rows[2])
	}
}

func TestOutputManagerWritesBookmarksAndPerf(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	if err := om.WriteBookmark(Bookmark{Type: BookmarkHerbivoreCrash, Tick: 300, Description: "crash"}); err != nil {
		t.Fatalf("WriteBookmark failed: %v", err)
	}
	if err := om.WritePerf(NewPerfCollector(4).Stats(), 300); err != nil {
		t.Fatalf("WritePerf failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, BookmarksFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "herbivore_crash") {
		t.Errorf("bookmarks.csv missing type, got:\n%s", data)
	}

	data, err = os.ReadFile(filepath.Join(dir, PerfFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "window_end,") {
		t.Errorf("perf.csv header unexpected:\n%s", data)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg := config.Default()
	cfg.World.Cols = 42
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := config.Load(filepath.Join(dir, ConfigFile))
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if loaded.World.Cols != 42 {
		t.Errorf("cols = %d, want 42", loaded.World.Cols)
	}
}
