package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	// Herbivore energies from one stats window, already sorted
	herbivores := []float64{3, 5, 8, 12, 20}

	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"no herbivores", nil, 0.5, 0},
		{"lone carnivore", []float64{14}, 0.9, 14},
		{"below range clamps", herbivores, -0.2, 3},
		{"above range clamps", herbivores, 1.5, 20},
		{"median on a sample", herbivores, 0.5, 8},
		{"quartile on a sample", herbivores, 0.25, 5},
		{"interpolated p90", herbivores, 0.9, 16.8},
		{"equal energies", []float64{6, 6, 6}, 0.3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	// Population order, not sorted
	values := []float64{12, 3, 20, 8, 5}
	mean, p10, p50, p90 := ComputeEnergyStats(values)

	want := []struct {
		name      string
		got, want float64
	}{
		{"mean", mean, 9.6},
		{"p10", p10, 3.8},
		{"p50", p50, 8},
		{"p90", p90, 16.8},
	}
	for _, w := range want {
		if math.Abs(w.got-w.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", w.name, w.got, w.want)
		}
	}

	if values[0] != 12 || values[1] != 3 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeEnergyStats([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4}, 0},
		{"constant", []float64{5, 5, 5, 5}, 0},
		{"zero mean", []float64{0, 0, 0}, 0},
		// mean 5, sample std sqrt(((3)^2+(1)^2+(1)^2+(3)^2)/3) = sqrt(20/3)
		{"spread", []float64{2, 4, 6, 8}, math.Sqrt(20.0/3.0) / 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoefficientOfVariation(tt.values)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CoefficientOfVariation(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
