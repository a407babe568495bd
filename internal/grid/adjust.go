package grid

import "math"

// Adjust scales a base color by a brightness percentage in [0, 100].
// Out-of-range brightness is clamped, not rejected.
func Adjust(r, g, b uint8, brightnessPercent float64) (uint8, uint8, uint8) {
	k := ClampBrightness(brightnessPercent) / 100
	return scale(r, k), scale(g, k), scale(b, k)
}

// AdjustedCell returns the adjusted color as a cell with the given state.
func AdjustedCell(r, g, b uint8, brightnessPercent float64, active bool) Cell {
	ar, ag, ab := Adjust(r, g, b, brightnessPercent)
	return Cell{R: ar, G: ag, B: ab, Active: active}
}

// ClampBrightness pins a brightness percentage into [0, 100].
func ClampBrightness(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Round rounds half up, matching how channel values are rounded everywhere
// in the engine.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ClampChannel pins an int into the 0..255 channel range.
func ClampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func scale(c uint8, k float64) uint8 {
	return ClampChannel(Round(float64(c) * k))
}
