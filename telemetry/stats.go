package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population counts at window end
	Vegetation int `csv:"vegetation"`
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`

	// Events during window
	VegetationBirths int `csv:"vegetation_births"`
	HerbivoreBirths  int `csv:"herbivore_births"`
	CarnivoreBirths  int `csv:"carnivore_births"`
	VegetationDeaths int `csv:"vegetation_deaths"`
	HerbivoreDeaths  int `csv:"herbivore_deaths"`
	CarnivoreDeaths  int `csv:"carnivore_deaths"`
	Grazes           int `csv:"grazes"`      // Herbivores eating vegetation
	Kills            int `csv:"kills"`       // Carnivores eating herbivores
	Starvations      int `csv:"starvations"` // Deaths from running out of energy while moving
	Injections       int `csv:"injections"`  // Vegetation added by resource injection

	// Energy distribution (sampled at window end)
	VegetationEnergyMean float64 `csv:"vegetation_energy_mean"`
	HerbivoreEnergyMean  float64 `csv:"herbivore_energy_mean"`
	HerbivoreEnergyP10   float64 `csv:"herbivore_energy_p10"`
	HerbivoreEnergyP50   float64 `csv:"herbivore_energy_p50"`
	HerbivoreEnergyP90   float64 `csv:"herbivore_energy_p90"`
	CarnivoreEnergyMean  float64 `csv:"carnivore_energy_mean"`
	CarnivoreEnergyP10   float64 `csv:"carnivore_energy_p10"`
	CarnivoreEnergyP50   float64 `csv:"carnivore_energy_p50"`
	CarnivoreEnergyP90   float64 `csv:"carnivore_energy_p90"`

	// Total energy held by all living entities
	TotalEnergy float64 `csv:"total_energy"`

	// Mean age at death of animals reaped during the window
	HerbivoreLifespanMean float64 `csv:"herbivore_lifespan_mean"`
	CarnivoreLifespanMean float64 `csv:"carnivore_lifespan_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// meanOrZero returns the mean of values, or 0 for an empty slice.
func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// CoefficientOfVariation returns std/mean of the values, or 0 when the mean is 0
// or fewer than two values are given.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("vegetation", s.Vegetation),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("vegetation_births", s.VegetationBirths),
		slog.Int("herbivore_births", s.HerbivoreBirths),
		slog.Int("carnivore_births", s.CarnivoreBirths),
		slog.Int("vegetation_deaths", s.VegetationDeaths),
		slog.Int("herbivore_deaths", s.HerbivoreDeaths),
		slog.Int("carnivore_deaths", s.CarnivoreDeaths),
		slog.Int("grazes", s.Grazes),
		slog.Int("kills", s.Kills),
		slog.Int("starvations", s.Starvations),
		slog.Int("injections", s.Injections),
		slog.Float64("vegetation_energy_mean", s.VegetationEnergyMean),
		slog.Float64("herbivore_energy_mean", s.HerbivoreEnergyMean),
		slog.Float64("herbivore_energy_p50", s.HerbivoreEnergyP50),
		slog.Float64("carnivore_energy_mean", s.CarnivoreEnergyMean),
		slog.Float64("carnivore_energy_p50", s.CarnivoreEnergyP50),
		slog.Float64("total_energy", s.TotalEnergy),
		slog.Float64("herbivore_lifespan_mean", s.HerbivoreLifespanMean),
		slog.Float64("carnivore_lifespan_mean", s.CarnivoreLifespanMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
