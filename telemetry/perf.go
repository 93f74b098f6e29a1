package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation tick.
const (
	PhaseFeed      = "feed"
	PhaseReproduce = "reproduce"
	PhaseMove      = "move"
	PhaseReap      = "reap"
	PhaseInject    = "inject"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in pipeline order.
var Phases = []string{PhaseFeed, PhaseReproduce, PhaseMove, PhaseReap, PhaseInject, PhaseTelemetry}

const phaseCount = 6

// phaseIndex maps a phase name to its slot in a tickSample.
var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, name := range Phases {
		m[name] = i
	}
	return m
}()

// tickSample is one tick's timing. Phase slots follow Phases order; ran marks
// the slots that were entered during the tick.
type tickSample struct {
	total  time.Duration
	phases [phaseCount]time.Duration
	ran    uint8
}

// PerfCollector times the tick pipeline and keeps the last windowSize ticks
// in a ring.
type PerfCollector struct {
	ring    []tickSample
	next    int
	filled  int
	current tickSample

	tickStart  time.Time
	phaseStart time.Time
	active     int // slot of the running phase, -1 if none
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// Sizes below one fall back to 50.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	return &PerfCollector{
		ring:   make([]tickSample, windowSize),
		active: -1,
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickSample{}
	p.active = -1
}

// StartPhase closes the running phase and opens the named one. Names outside
// Phases only close the running phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	if slot, ok := phaseIndex[phase]; ok {
		p.active = slot
		p.current.ran |= 1 << slot
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active >= 0 {
		p.current.phases[p.active] += now.Sub(p.phaseStart)
		p.active = -1
	}
}

// EndTick closes the running phase and stores the tick in the ring,
// overwriting the oldest sample once the window is full.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration per phase, only for phases that ran in the window
	PhaseAvg map[string]time.Duration

	// Phase share of the average tick, in percent
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration, len(Phases)),
		PhasePct: make(map[string]float64, len(Phases)),
	}
	if p.filled == 0 {
		return stats
	}

	var total time.Duration
	var sums [phaseCount]time.Duration
	var ran uint8
	window := p.ring[:p.filled]

	stats.MinTickDuration = window[0].total
	for _, s := range window {
		total += s.total
		stats.MinTickDuration = min(stats.MinTickDuration, s.total)
		stats.MaxTickDuration = max(stats.MaxTickDuration, s.total)
		for slot, d := range s.phases {
			sums[slot] += d
		}
		ran |= s.ran
	}

	n := time.Duration(p.filled)
	stats.AvgTickDuration = total / n
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}

	for slot, name := range Phases {
		if ran&(1<<slot) == 0 {
			continue
		}
		avg := sums[slot] / n
		stats.PhaseAvg[name] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[name] = float64(avg) / float64(stats.AvgTickDuration) * 100
		}
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FeedPct      float64 `csv:"feed_pct"`
	ReproducePct float64 `csv:"reproduce_pct"`
	MovePct      float64 `csv:"move_pct"`
	ReapPct      float64 `csv:"reap_pct"`
	InjectPct    float64 `csv:"inject_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FeedPct:      s.PhasePct[PhaseFeed],
		ReproducePct: s.PhasePct[PhaseReproduce],
		MovePct:      s.PhasePct[PhaseMove],
		ReapPct:      s.PhasePct[PhaseReap],
		InjectPct:    s.PhasePct[PhaseInject],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
