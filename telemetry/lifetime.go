package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/habitat/components"
)

// LifetimeStats tracks per-entity statistics over its lifetime.
type LifetimeStats struct {
	BirthTick int32
	Species   components.Species

	Meals      int // Successful feeds (animals only)
	Children   int
	PeakEnergy int
}

// Age returns the number of ticks lived as of currentTick.
func (ls *LifetimeStats) Age(currentTick int32) int32 {
	return currentTick - ls.BirthTick
}

// LogValue implements slog.LogValuer.
func (ls *LifetimeStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("birth_tick", int(ls.BirthTick)),
		slog.Int("meals", ls.Meals),
		slog.Int("children", ls.Children),
		slog.Int("peak_energy", ls.PeakEnergy),
	)
}

// LifetimeTracker manages per-entity lifetime statistics, keyed by entity ID.
// IDs may be reused once an entity is removed, so Remove must be called on death.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new entity.
func (lt *LifetimeTracker) Register(entityID uint32, birthTick int32, s components.Species, energy int) {
	lt.stats[entityID] = &LifetimeStats{
		BirthTick:  birthTick,
		Species:    s,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes an entity's stats and returns them.
func (lt *LifetimeTracker) Remove(entityID uint32) *LifetimeStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// RecordMeal increments the feed count and tracks the resulting energy.
func (lt *LifetimeTracker) RecordMeal(entityID uint32, energy int) {
	if s := lt.stats[entityID]; s != nil {
		s.Meals++
		if energy > s.PeakEnergy {
			s.PeakEnergy = energy
		}
	}
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(entityID uint32, energy int) {
	if s := lt.stats[entityID]; s != nil {
		if energy > s.PeakEnergy {
			s.PeakEnergy = energy
		}
	}
}

// Count returns the number of tracked entities.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
