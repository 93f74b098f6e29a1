package telemetry

import (
	"testing"

	"github.com/pthm-cable/habitat/config"
)

func testBookmarksConfig() config.BookmarksConfig {
	return config.BookmarksConfig{
		HerbivoreCrash: config.HerbivoreCrashConfig{
			DropPercent: 0.30,
			MinDrop:     10,
		},
		StableEcosystem: config.StableEcosystemConfig{
			MinHerbivores: 10,
			MinCarnivores: 3,
			CVThreshold:   0.2,
			StableWindows: 5,
		},
	}
}

func hasBookmark(bookmarks []Bookmark, want BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == want {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HerbivoreCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	// Build up herbivore population
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 50),
			Herbivores:    100,
			Carnivores:    10,
		})
	}

	// Crash to 50 (50% drop)
	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 300,
		Herbivores:    50,
		Carnivores:    10,
	})

	if !hasBookmark(bookmarks, BookmarkHerbivoreCrash) {
		t.Error("expected herbivore_crash bookmark")
	}

	// Peak resets after a crash, so the same level does not fire again
	bookmarks = bd.Check(WindowStats{WindowEndTick: 350, Herbivores: 50, Carnivores: 10})
	if hasBookmark(bookmarks, BookmarkHerbivoreCrash) {
		t.Error("crash should not fire twice for the same drop")
	}
}

func TestBookmarkDetector_SmallDropIgnored(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	bd.Check(WindowStats{Herbivores: 20})
	// 40% drop but only 8 individuals: below min_drop
	bookmarks := bd.Check(WindowStats{Herbivores: 12})
	if hasBookmark(bookmarks, BookmarkHerbivoreCrash) {
		t.Error("drop smaller than min_drop should not fire")
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	// Never-present populations do not go extinct
	bookmarks := bd.Check(WindowStats{Herbivores: 0, Carnivores: 0})
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks, got %v", bookmarks)
	}

	bd.Check(WindowStats{WindowEndTick: 50, Herbivores: 5, Carnivores: 2})

	bookmarks = bd.Check(WindowStats{WindowEndTick: 100, Herbivores: 5, Carnivores: 0})
	if !hasBookmark(bookmarks, BookmarkCarnivoreExtinction) {
		t.Error("expected carnivore_extinction bookmark")
	}
	if hasBookmark(bookmarks, BookmarkHerbivoreExtinction) {
		t.Error("herbivores are still alive")
	}

	bookmarks = bd.Check(WindowStats{WindowEndTick: 150, Herbivores: 0, Carnivores: 0})
	if !hasBookmark(bookmarks, BookmarkHerbivoreExtinction) {
		t.Error("expected herbivore_extinction bookmark")
	}
	if hasBookmark(bookmarks, BookmarkCarnivoreExtinction) {
		t.Error("carnivore extinction should fire only once")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	var fired int
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 50),
			Herbivores:    100 + i%2,
			Carnivores:    20,
		})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("stable_ecosystem fired %d times, want exactly 1", fired)
	}
}

func TestBookmarkDetector_UnstableNeverStable(t *testing.T) {
	bd := NewBookmarkDetector(10, testBookmarksConfig())

	for i := 0; i < 12; i++ {
		herbs := 40
		if i%2 == 0 {
			herbs = 200
		}
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 50),
			Herbivores:    herbs,
			Carnivores:    20,
		})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			t.Fatalf("oscillating population flagged stable at window %d", i)
		}
	}
}

func TestBookmarkDetector_DefaultsLoad(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	bd := NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks)
	if bd.historySize != cfg.Telemetry.BookmarkHistorySize {
		t.Errorf("history size = %d, want %d", bd.historySize, cfg.Telemetry.BookmarkHistorySize)
	}
}

func TestBookmarkDetector_SmallHistoryStillDetectsStable(t *testing.T) {
	for _, size := range []int{0, 2, 3} {
		bd := NewBookmarkDetector(size, testBookmarksConfig())
		if bd.historySize < stableLookback {
			t.Errorf("history size %d clamped to %d, want at least %d", size, bd.historySize, stableLookback)
		}

		var fired bool
		for i := 0; i < 12; i++ {
			bookmarks := bd.Check(WindowStats{
				WindowEndTick: int32(i * 50),
				Herbivores:    60,
				Carnivores:    8,
			})
			fired = fired || hasBookmark(bookmarks, BookmarkStableEcosystem)
		}
		if !fired {
			t.Errorf("history size %d: stable_ecosystem never fired", size)
		}
	}
}
