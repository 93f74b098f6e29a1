package components

import "image/color"

// Species is the closed set of life forms on the grid.
type Species uint8

const (
	Vegetation Species = iota
	Herbivore
	Carnivore

	// NumSpecies is the number of species; usable as an array length.
	NumSpecies = 3
)

// AllSpecies lists every species in initialization order.
var AllSpecies = [NumSpecies]Species{Vegetation, Herbivore, Carnivore}

// String returns the species name.
func (s Species) String() string {
	switch s {
	case Vegetation:
		return "vegetation"
	case Herbivore:
		return "herbivore"
	case Carnivore:
		return "carnivore"
	default:
		return "unknown"
	}
}

// Prey returns the species this species feeds on.
// Vegetation feeds on nothing and gains energy on its own.
func (s Species) Prey() (Species, bool) {
	switch s {
	case Herbivore:
		return Vegetation, true
	case Carnivore:
		return Herbivore, true
	default:
		return 0, false
	}
}

// Color returns the display color a renderer should use for the species.
func (s Species) Color() color.RGBA {
	switch s {
	case Vegetation:
		return color.RGBA{R: 0, G: 255, B: 0, A: 255}
	case Herbivore:
		return color.RGBA{R: 0, G: 0, B: 0, A: 255}
	case Carnivore:
		return color.RGBA{R: 255, G: 255, B: 0, A: 255}
	default:
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 255}
	}
}

// MarshalText implements encoding.TextMarshaler so species names appear in
// structured logs and CSV output instead of numbers.
func (s Species) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
