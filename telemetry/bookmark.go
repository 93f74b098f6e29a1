package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/habitat/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHerbivoreCrash      BookmarkType = "herbivore_crash"
	BookmarkHerbivoreExtinction BookmarkType = "herbivore_extinction"
	BookmarkCarnivoreExtinction BookmarkType = "carnivore_extinction"
	BookmarkStableEcosystem     BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the population history.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentHerbPeak     int
	herbivoresSeen     bool
	carnivoresSeen     bool
	stableWindowsCount int
}

// stableLookback is the number of windows the stable-ecosystem check measures CV over.
const stableLookback = 4

// NewBookmarkDetector creates a detector with the given history size.
// The history never holds fewer than stableLookback windows.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < stableLookback {
		historySize = stableLookback
	}
	if cfg.StableEcosystem.StableWindows < 1 {
		cfg.StableEcosystem.StableWindows = 1
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, b...)
	}
	if b := bd.checkHerbivoreCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	// Stability looks at the window just added
	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Herbivores > bd.recentHerbPeak {
		bd.recentHerbPeak = stats.Herbivores
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

// checkExtinction fires once when an animal population that was present hits zero.
func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var out []Bookmark

	if stats.Herbivores > 0 {
		bd.herbivoresSeen = true
	} else if bd.herbivoresSeen {
		bd.herbivoresSeen = false
		out = append(out, Bookmark{
			Type:        BookmarkHerbivoreExtinction,
			Tick:        stats.WindowEndTick,
			Description: "Herbivore population died out",
		})
	}

	if stats.Carnivores > 0 {
		bd.carnivoresSeen = true
	} else if bd.carnivoresSeen {
		bd.carnivoresSeen = false
		out = append(out, Bookmark{
			Type:        BookmarkCarnivoreExtinction,
			Tick:        stats.WindowEndTick,
			Description: "Carnivore population died out",
		})
	}

	return out
}

func (bd *BookmarkDetector) checkHerbivoreCrash(stats WindowStats) *Bookmark {
	if bd.recentHerbPeak == 0 {
		return nil
	}

	crash := bd.cfg.HerbivoreCrash
	dropPercent := 1.0 - float64(stats.Herbivores)/float64(bd.recentHerbPeak)
	if dropPercent > crash.DropPercent && stats.Herbivores < bd.recentHerbPeak-crash.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentHerbPeak
		bd.recentHerbPeak = stats.Herbivores

		return &Bookmark{
			Type:        BookmarkHerbivoreCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Herbivores),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	stable := bd.cfg.StableEcosystem

	// Need both animal populations present
	if stats.Herbivores < stable.MinHerbivores || stats.Carnivores < stable.MinCarnivores {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(stableLookback)
	if len(history) < stableLookback {
		return nil
	}

	herbs := make([]float64, len(history))
	carns := make([]float64, len(history))
	for i, h := range history {
		herbs[i] = float64(h.Herbivores)
		carns[i] = float64(h.Carnivores)
	}

	if CoefficientOfVariation(herbs) < stable.CVThreshold && CoefficientOfVariation(carns) < stable.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	// Trigger exactly once per stable run
	if bd.stableWindowsCount == stable.StableWindows {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d carnivores over %d+ windows", stats.Herbivores, stats.Carnivores, stable.StableWindows),
		}
	}

	return nil
}
