package timeline

import (
	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/program"
)

// Timeline is the read side of a keyframe store.
type Timeline interface {
	Sorted() []Keyframe
	Dimensions() (width, height int)
}

// Resolve builds the live grid for a whole minute of the cycle.
func Resolve(minute int, tl Timeline, p program.Programs) (grid.Grid, error) {
	return ResolveAt(float64(minute), tl, p)
}

// ResolveAt builds the live grid for any instant of the cycle by
// interpolating the bracketing keyframes on the circular timeline and then
// layering the channel programs on top.
func ResolveAt(minute float64, tl Timeline, p program.Programs) (grid.Grid, error) {
	sorted := tl.Sorted()
	if len(sorted) == 0 {
		return grid.Grid{}, ErrEmptyTimeline
	}
	t := WrapFloat(minute)
	prev, next, f := Bracket(t, sorted)

	width, height := tl.Dimensions()
	out := grid.New(width, height)
	for i := range out.Cells {
		out.Cells[i] = Interpolate(prev.Grid.At(i), next.Grid.At(i), f)
	}
	return program.Apply(out, p, t), nil
}

// Bracket finds the keyframe pair around t on the circular timeline and the
// interpolation factor between them. sorted must be in time order and
// non-empty.
//
// The pair (K[i], K[i+1 mod n]) is chosen when t >= K[i].Time and either
// t < K[i+1].Time or the pair wraps (K[i].Time >= K[i+1].Time). When no pair
// matches, t lies before the first keyframe and the wrap pair
// (K[n-1], K[0]) applies.
func Bracket(t float64, sorted []Keyframe) (prev, next Keyframe, f float64) {
	n := len(sorted)
	prev, next = sorted[n-1], sorted[0]
	for i := 0; i < n; i++ {
		cur := sorted[i]
		nxt := sorted[(i+1)%n]
		if t >= float64(cur.Time) && (t < float64(nxt.Time) || cur.Time >= nxt.Time) {
			prev, next = cur, nxt
			break
		}
	}

	span := float64(next.Time - prev.Time)
	if span < 0 {
		span += CycleDuration
	}
	elapsed := t - float64(prev.Time)
	if elapsed < 0 {
		elapsed += CycleDuration
	}
	if span == 0 {
		return prev, next, 0
	}
	return prev, next, elapsed / span
}

// Interpolate blends two cells. Colors are linearly interpolated and
// rounded; the active flag is a hard switch that flips to b at f >= 0.5.
func Interpolate(a, b grid.Cell, f float64) grid.Cell {
	active := a.Active
	if f >= 0.5 {
		active = b.Active
	}
	return grid.Cell{
		R:      lerp(a.R, b.R, f),
		G:      lerp(a.G, b.G, f),
		B:      lerp(a.B, b.B, f),
		Active: active,
	}
}

// lerp performs linear interpolation between a and b
func lerp(a, b uint8, f float64) uint8 {
	return grid.ClampChannel(grid.Round(float64(a) + (float64(b)-float64(a))*f))
}
