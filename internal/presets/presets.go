// Package presets holds the built-in catalog of lighting patterns. The
// catalog is data (catalog.yaml); only the procedural grids are code.
package presets

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Registry is a parsed catalog.
type Registry struct {
	Categories []Category `yaml:"categories"`
}

// Category groups related patterns.
type Category struct {
	Name     string    `yaml:"name"`
	Patterns []Pattern `yaml:"patterns"`
}

// Pattern is a named, dimension-independent keyframe recipe.
type Pattern struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keyframes   []Step   `yaml:"keyframes"`
	Repeat      []Repeat `yaml:"repeat,omitempty"`
}

// Step describes one keyframe. Exactly one of Fill or Generator is set.
type Step struct {
	Time      int        `yaml:"time"`
	Offset    int        `yaml:"offset"`
	Name      string     `yaml:"name"`
	Fill      *grid.Cell `yaml:"fill,omitempty"`
	Generator *Generator `yaml:"generator,omitempty"`
}

// Repeat emits its pulses at every step in [From, To).
type Repeat struct {
	From     int    `yaml:"from"`
	To       int    `yaml:"to"`
	Step     int    `yaml:"step"`
	Numbered bool   `yaml:"numbered"`
	Pulses   []Step `yaml:"pulses"`
}

// Generator names a procedural grid.
type Generator struct {
	Kind   string    `yaml:"kind"`
	Offset float64   `yaml:"offset"`
	Frame  int       `yaml:"frame"`
	Color  grid.Cell `yaml:"color"`
}

// Default parses the embedded catalog.
func Default() (*Registry, error) {
	return Load(catalogYAML)
}

// Load parses and validates a catalog.
func Load(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse preset catalog: %w", err)
	}
	if len(r.Categories) == 0 {
		return nil, fmt.Errorf("preset catalog has no categories")
	}
	for _, c := range r.Categories {
		for _, p := range c.Patterns {
			if err := p.validate(); err != nil {
				return nil, fmt.Errorf("preset %s/%s: %w", c.Name, p.Name, err)
			}
		}
	}
	return &r, nil
}

// Find returns a pattern by category and name, both matched case
// insensitively.
func (r *Registry) Find(category, name string) (*Pattern, error) {
	for i := range r.Categories {
		c := &r.Categories[i]
		if !strings.EqualFold(c.Name, category) {
			continue
		}
		for j := range c.Patterns {
			if strings.EqualFold(c.Patterns[j].Name, name) {
				return &c.Patterns[j], nil
			}
		}
		return nil, fmt.Errorf("no pattern %q in category %q", name, category)
	}
	return nil, fmt.Errorf("unknown category %q", category)
}

// Lookup resolves a "Category/Pattern" reference. Pattern names may contain
// slashes; category names may not.
func (r *Registry) Lookup(ref string) (*Pattern, error) {
	category, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, fmt.Errorf("invalid preset reference %q (want Category/Name)", ref)
	}
	return r.Find(strings.TrimSpace(category), strings.TrimSpace(name))
}

// Build expands the pattern into keyframes for a width x height grid, in
// time order.
func (p *Pattern) Build(width, height int) []timeline.Keyframe {
	var out []timeline.Keyframe
	for _, s := range p.Keyframes {
		out = append(out, timeline.Keyframe{
			Time: s.Time,
			Name: s.Name,
			Grid: s.grid(width, height),
		})
	}
	for _, rep := range p.Repeat {
		for t := rep.From; t < rep.To; t += rep.Step {
			for _, pulse := range rep.Pulses {
				at := t + pulse.Offset
				name := pulse.Name
				if rep.Numbered {
					name = fmt.Sprintf("%s %d", name, at)
				}
				out = append(out, timeline.Keyframe{
					Time: at,
					Name: name,
					Grid: pulse.grid(width, height),
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

func (p *Pattern) validate() error {
	if len(p.Keyframes) == 0 && len(p.Repeat) == 0 {
		return fmt.Errorf("no keyframes")
	}
	steps := append([]Step(nil), p.Keyframes...)
	for _, rep := range p.Repeat {
		if rep.Step <= 0 {
			return fmt.Errorf("repeat step must be positive, got %d", rep.Step)
		}
		if len(rep.Pulses) == 0 {
			return fmt.Errorf("repeat block without pulses")
		}
		steps = append(steps, rep.Pulses...)
	}
	for _, s := range steps {
		if (s.Fill == nil) == (s.Generator == nil) {
			return fmt.Errorf("keyframe %q needs exactly one of fill or generator", s.Name)
		}
		if s.Generator != nil {
			if _, ok := generators[s.Generator.Kind]; !ok {
				return fmt.Errorf("keyframe %q: unknown generator %q", s.Name, s.Generator.Kind)
			}
		}
	}
	return nil
}

func (s Step) grid(width, height int) grid.Grid {
	if s.Fill != nil {
		return grid.Filled(width, height, *s.Fill)
	}
	return generators[s.Generator.Kind](width, height, *s.Generator)
}
