// Package program implements the per-channel time-of-day boost overlays
// that are layered on top of interpolated keyframe colors.
package program

import (
	"fmt"
	"strings"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
)

// Band is a named time-of-day window.
type Band string

const (
	Morning Band = "morning"
	Midday  Band = "midday"
	Evening Band = "evening"
	Night   Band = "night"
)

// Channel identifies a color channel.
type Channel string

const (
	Red   Channel = "red"
	Green Channel = "green"
	Blue  Channel = "blue"
)

// bandRule maps an hour interval [From, To) to a boost. Night wraps past
// midnight and is expressed as two intervals.
type bandRule struct {
	Band     Band
	FromHour float64
	ToHour   float64
	Boost    uint8
}

// rules is checked in order; the first matching enabled band wins. The
// bands are disjoint, so the order only matters if they ever overlap.
var rules = []bandRule{
	{Morning, 6, 12, 50},
	{Midday, 12, 18, 50},
	{Evening, 18, 22, 30},
	{Night, 22, 24, 10},
	{Night, 0, 6, 10},
}

// Flags is the set of enabled bands for one channel.
type Flags struct {
	Morning bool `json:"morning" yaml:"morning"`
	Midday  bool `json:"midday" yaml:"midday"`
	Evening bool `json:"evening" yaml:"evening"`
	Night   bool `json:"night" yaml:"night"`
}

// Enabled reports whether band b is switched on.
func (f Flags) Enabled(b Band) bool {
	switch b {
	case Morning:
		return f.Morning
	case Midday:
		return f.Midday
	case Evening:
		return f.Evening
	case Night:
		return f.Night
	}
	return false
}

// Toggle flips band b.
func (f *Flags) Toggle(b Band) {
	switch b {
	case Morning:
		f.Morning = !f.Morning
	case Midday:
		f.Midday = !f.Midday
	case Evening:
		f.Evening = !f.Evening
	case Night:
		f.Night = !f.Night
	}
}

// Any reports whether any band is enabled.
func (f Flags) Any() bool {
	return f.Morning || f.Midday || f.Evening || f.Night
}

// Boost returns the additive intensity for a minute of the day: 50 for
// morning and midday, 30 for evening, 10 for night, 0 otherwise.
func Boost(f Flags, minute float64) uint8 {
	hour := minute / 60
	for _, r := range rules {
		if hour >= r.FromHour && hour < r.ToHour && f.Enabled(r.Band) {
			return r.Boost
		}
	}
	return 0
}

// BandAt returns the band containing a minute of the day.
func BandAt(minute float64) Band {
	hour := minute / 60
	for _, r := range rules {
		if hour >= r.FromHour && hour < r.ToHour {
			return r.Band
		}
	}
	return Night
}

// Programs holds the flags of all three channels.
type Programs struct {
	Red   Flags `json:"red" yaml:"red"`
	Green Flags `json:"green" yaml:"green"`
	Blue  Flags `json:"blue" yaml:"blue"`
}

// Boosts returns the red, green and blue boosts at a minute.
func (p Programs) Boosts(minute float64) (uint8, uint8, uint8) {
	return Boost(p.Red, minute), Boost(p.Green, minute), Boost(p.Blue, minute)
}

// Empty reports whether no band is enabled on any channel.
func (p Programs) Empty() bool {
	return !p.Red.Any() && !p.Green.Any() && !p.Blue.Any()
}

// Channel returns a pointer to the flags of channel c.
func (p *Programs) Channel(c Channel) (*Flags, error) {
	switch c {
	case Red:
		return &p.Red, nil
	case Green:
		return &p.Green, nil
	case Blue:
		return &p.Blue, nil
	}
	return nil, fmt.Errorf("unknown channel: %s", c)
}

// Toggle flips band b on channel c.
func (p *Programs) Toggle(c Channel, b Band) error {
	f, err := p.Channel(c)
	if err != nil {
		return err
	}
	switch b {
	case Morning, Midday, Evening, Night:
	default:
		return fmt.Errorf("unknown band: %s", b)
	}
	f.Toggle(b)
	return nil
}

// Apply returns a copy of g with the boosts for minute added to every cell
// and clamped to 255. The input grid is never modified.
func Apply(g grid.Grid, p Programs, minute float64) grid.Grid {
	out := g.Clone()
	rb, gb, bb := p.Boosts(minute)
	if rb == 0 && gb == 0 && bb == 0 {
		return out
	}
	for i, c := range out.Cells {
		out.Cells[i] = grid.Cell{
			R:      grid.ClampChannel(int(c.R) + int(rb)),
			G:      grid.ClampChannel(int(c.G) + int(gb)),
			B:      grid.ClampChannel(int(c.B) + int(bb)),
			Active: c.Active,
		}
	}
	return out
}

// Parse reads a comma separated list of channel:band pairs, e.g.
// "red:morning,blue:night", into a Programs value.
func Parse(s string) (Programs, error) {
	var p Programs
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ch, band, ok := strings.Cut(part, ":")
		if !ok {
			return Programs{}, fmt.Errorf("invalid program %q (want channel:band)", part)
		}
		f, err := p.Channel(Channel(strings.ToLower(strings.TrimSpace(ch))))
		if err != nil {
			return Programs{}, err
		}
		b := Band(strings.ToLower(strings.TrimSpace(band)))
		if f.Enabled(b) {
			continue
		}
		switch b {
		case Morning, Midday, Evening, Night:
			f.Toggle(b)
		default:
			return Programs{}, fmt.Errorf("unknown band: %s", b)
		}
	}
	return p, nil
}
