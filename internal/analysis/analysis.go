// Package analysis summarizes a grid's light for growers.
package analysis

import (
	"math"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

// Dominant spectrum labels.
const (
	Off           = "Off"
	Balanced      = "Balanced Mix"
	RedDominant   = "Red Dominant"
	GreenDominant = "Green Dominant"
	BlueDominant  = "Blue Dominant"
	FullSpectrum  = "Full Spectrum (White)"
)

// dominance is how much one channel must exceed both others.
const dominance = 1.3

// Spectrum is the average color of the lit cells.
type Spectrum struct {
	Dominant    string  `json:"dominantSpectrum"`
	AvgR        float64 `json:"avgR"`
	AvgG        float64 `json:"avgG"`
	AvgB        float64 `json:"avgB"`
	ActiveCells int     `json:"activeCells"`
}

// Analyze averages the active cells of g and labels the result.
func Analyze(g grid.Grid) Spectrum {
	var r, gr, b float64
	n := 0
	for _, c := range g.Cells {
		if !c.Active {
			continue
		}
		r += float64(c.R)
		gr += float64(c.G)
		b += float64(c.B)
		n++
	}
	if n == 0 {
		return Spectrum{Dominant: Off}
	}

	s := Spectrum{
		AvgR:        r / float64(n),
		AvgG:        gr / float64(n),
		AvgB:        b / float64(n),
		ActiveCells: n,
	}
	switch {
	case s.AvgR > s.AvgG*dominance && s.AvgR > s.AvgB*dominance:
		s.Dominant = RedDominant
	case s.AvgG > s.AvgR*dominance && s.AvgG > s.AvgB*dominance:
		s.Dominant = GreenDominant
	case s.AvgB > s.AvgR*dominance && s.AvgB > s.AvgG*dominance:
		s.Dominant = BlueDominant
	case math.Abs(s.AvgR-s.AvgG) < 25 && math.Abs(s.AvgR-s.AvgB) < 25 && s.AvgR > 200:
		s.Dominant = FullSpectrum
	default:
		s.Dominant = Balanced
	}
	return s
}

// PPFD maps an intensity level to photosynthetic photon flux density in
// µmol/m²/s.
var PPFD = map[string]float64{
	"Low":       100,
	"Medium":    200,
	"High":      300,
	"Very High": 400,
}

// DLI estimates the daily light integral in mol/m²/day for an intensity
// level held over the lights-on window. Unknown levels and empty windows
// give 0.
func DLI(intensity string, w timeline.Window) float64 {
	hours := float64(w.End-w.Start) / 60
	if hours <= 0 {
		return 0
	}
	return PPFD[intensity] * hours * 3600 / 1e6
}
