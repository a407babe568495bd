// Package generator asks a language model for a lighting recipe and turns
// the answer into keyframes that respect the lights-on window.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

// Intensity levels offered to the model.
var Intensities = []string{"Low", "Medium", "High", "Very High"}

// Pulsing modes offered to the model.
var PulsingModes = []string{"None", "Slow Pulses", "Fast Pulses", "Varied Pulses"}

// Request describes the recipe to generate.
type Request struct {
	Goal      string
	Intensity string
	Pulsing   string
	Window    timeline.Window
}

// DefaultRequest mirrors the defaults of the recipe form.
func DefaultRequest() Request {
	return Request{
		Goal:      "Maximize biomass for basil microgreens with strong purple coloration.",
		Intensity: "Medium",
		Pulsing:   "None",
		Window:    timeline.DefaultWindow,
	}
}

// Validate checks the request fields.
func (r Request) Validate() error {
	if r.Goal == "" {
		return errors.New("goal is required")
	}
	if !contains(Intensities, r.Intensity) {
		return fmt.Errorf("unknown intensity %q (want one of %v)", r.Intensity, Intensities)
	}
	if !contains(PulsingModes, r.Pulsing) {
		return fmt.Errorf("unknown pulsing mode %q (want one of %v)", r.Pulsing, PulsingModes)
	}
	return nil
}

// Color is a whole-grid color as returned by the model.
type Color struct {
	R      int  `json:"r"`
	G      int  `json:"g"`
	B      int  `json:"b"`
	Active bool `json:"active"`
}

// Entry is one generated keyframe.
type Entry struct {
	Time  int    `json:"time"`
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// Generated is a recipe proposed by the model.
type Generated struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Entries     []Entry `json:"keyframes"`
}

// Client produces a recipe for a request.
type Client interface {
	Generate(ctx context.Context, req Request) (*Generated, error)
}

// ApplyWindow enforces the lights-on window on generated entries: the
// first entry moves to the window start, the last to the window end and is
// forced dark. Entries keep the order the model returned them in.
func ApplyWindow(entries []Entry, w timeline.Window) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, errors.New("generated recipe has no keyframes")
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{
			Time: timeline.ClampMinute(e.Time),
			Name: e.Name,
			Color: Color{
				R:      int(grid.ClampChannel(e.Color.R)),
				G:      int(grid.ClampChannel(e.Color.G)),
				B:      int(grid.ClampChannel(e.Color.B)),
				Active: e.Color.Active,
			},
		}
	}
	out[0].Time = w.Start
	last := &out[len(out)-1]
	last.Time = w.End
	last.Color = Color{}
	return out, nil
}

// ToKeyframes fills a width x height grid with each entry's color.
func ToKeyframes(entries []Entry, width, height int) []timeline.Keyframe {
	out := make([]timeline.Keyframe, len(entries))
	for i, e := range entries {
		cell := grid.Cell{
			R:      grid.ClampChannel(e.Color.R),
			G:      grid.ClampChannel(e.Color.G),
			B:      grid.ClampChannel(e.Color.B),
			Active: e.Color.Active,
		}
		out[i] = timeline.Keyframe{
			ID:   timeline.NewID(),
			Time: e.Time,
			Name: e.Name,
			Grid: grid.Filled(width, height, cell),
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
