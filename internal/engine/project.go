// Package engine holds the editable state of one lighting program and the
// operations a user performs on it.
package engine

import (
	"errors"
	"fmt"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/analysis"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/config"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/generator"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/presets"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/program"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/recipe"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

// CustomRecipe names programs that did not come from the catalog.
const CustomRecipe = "Custom Recipe"

// Color is the paint color before brightness is applied.
type Color struct {
	R, G, B uint8
}

// Project is the complete editing state. It is not safe for concurrent
// use.
type Project struct {
	Store       *timeline.Store
	Programs    program.Programs
	Window      timeline.Window
	Brightness  float64
	Color       Color
	CurrentTime int
	Selected    string
	Playing     bool
	Speed       int
	RecipeName  string
	Description string

	// Live is the grid shown at CurrentTime.
	Live grid.Grid
}

// New returns a project with one dark keyframe at midnight.
func New(cfg *config.Config) *Project {
	if cfg == nil {
		cfg = config.Default()
	}
	p := &Project{
		Store:      timeline.NewStore(cfg.Width, cfg.Height),
		Window:     cfg.Window,
		Brightness: grid.ClampBrightness(cfg.Brightness),
		Color:      Color{R: 255, G: 255, B: 255},
		Speed:      cfg.Speed,
		RecipeName: CustomRecipe,
	}
	kf := p.Store.Add(0, "Scene 1", grid.New(cfg.Width, cfg.Height))
	p.Selected = kf.ID
	p.Refresh()
	return p
}

// Dimensions returns the grid size.
func (p *Project) Dimensions() (int, int) {
	return p.Store.Dimensions()
}

// Refresh recomputes the live grid for the current time.
func (p *Project) Refresh() {
	g, err := timeline.Resolve(p.CurrentTime, p.Store, p.Programs)
	if err != nil {
		// The store never becomes empty.
		return
	}
	p.Live = g
}

// SetTime moves the clock, wrapping into the cycle.
func (p *Project) SetTime(minute int) {
	p.CurrentTime = timeline.Wrap(minute)
	p.Refresh()
}

// SelectedKeyframe returns the selected keyframe.
func (p *Project) SelectedKeyframe() (timeline.Keyframe, bool) {
	return p.Store.Get(p.Selected)
}

// SelectedIndex returns the selected keyframe's position in time order.
func (p *Project) SelectedIndex() int {
	return p.Store.IndexOf(p.Selected)
}

// SelectKeyframe selects the keyframe at index (time order), jumps the
// clock to it and shows its grid as stored.
func (p *Project) SelectKeyframe(index int) error {
	sorted := p.Store.Sorted()
	if index < 0 || index >= len(sorted) {
		return fmt.Errorf("keyframe index %d out of range [0,%d)", index, len(sorted))
	}
	kf := sorted[index]
	p.Selected = kf.ID
	p.CurrentTime = kf.Time
	p.Live = kf.Grid
	return nil
}

// AddKeyframeAtCurrent snapshots the live grid into a new keyframe at the
// current time and selects it.
func (p *Project) AddKeyframeAtCurrent() timeline.Keyframe {
	name := fmt.Sprintf("Scene %d", p.Store.Len()+1)
	kf := p.Store.Add(p.CurrentTime, name, p.Live)
	p.Selected = kf.ID
	return kf
}

// DeleteKeyframe removes a keyframe. Deleting the last one returns
// timeline.ErrLastKeyframe and changes nothing. When the selected keyframe
// goes, the selection moves to the keyframe now at its position.
func (p *Project) DeleteKeyframe(id string) error {
	idx := p.Store.IndexOf(p.Selected)
	if err := p.Store.Delete(id); err != nil {
		return err
	}
	if id == p.Selected {
		sorted := p.Store.Sorted()
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		if idx < 0 {
			idx = 0
		}
		p.Selected = sorted[idx].ID
	}
	p.Refresh()
	return nil
}

// RetimeKeyframe moves a keyframe, clamping into [0, 1439].
func (p *Project) RetimeKeyframe(id string, minute int) error {
	if err := p.Store.Retime(id, minute); err != nil {
		return err
	}
	p.Refresh()
	return nil
}

// RenameKeyframe renames a keyframe.
func (p *Project) RenameKeyframe(id, name string) error {
	return p.Store.Rename(id, name)
}

// SetColor sets the paint color.
func (p *Project) SetColor(r, g, b uint8) {
	p.Color = Color{R: r, G: g, B: b}
}

// SetBrightness sets the paint brightness, clamped to [0, 100].
func (p *Project) SetBrightness(percent float64) {
	p.Brightness = grid.ClampBrightness(percent)
}

func (p *Project) paintColor(active bool) grid.Cell {
	return grid.AdjustedCell(p.Color.R, p.Color.G, p.Color.B, p.Brightness, active)
}

// PaintCell writes the adjusted paint color into one cell of the selected
// keyframe and flips the cell's active flag.
func (p *Project) PaintCell(index int) error {
	kf, ok := p.SelectedKeyframe()
	if !ok {
		return errors.New("no keyframe selected")
	}
	if index < 0 || index >= len(kf.Grid.Cells) {
		return fmt.Errorf("cell index %d out of range [0,%d)", index, len(kf.Grid.Cells))
	}
	kf.Grid.Cells[index] = p.paintColor(!kf.Grid.Cells[index].Active)
	return p.writeSelected(kf.Grid)
}

// FillAll lights every cell of the selected keyframe with the adjusted
// paint color.
func (p *Project) FillAll() error {
	w, h := p.Dimensions()
	return p.writeSelected(grid.Filled(w, h, p.paintColor(true)))
}

// ClearAll turns every cell of the selected keyframe off.
func (p *Project) ClearAll() error {
	w, h := p.Dimensions()
	return p.writeSelected(grid.New(w, h))
}

func (p *Project) writeSelected(g grid.Grid) error {
	if err := p.Store.SetGrid(p.Selected, g); err != nil {
		return err
	}
	p.Live = g.Clone()
	return nil
}

// SetDimensions resizes every keyframe.
func (p *Project) SetDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > grid.MaxSide || height > grid.MaxSide {
		return fmt.Errorf("invalid grid size %dx%d", width, height)
	}
	p.Store.Resize(width, height)
	p.Refresh()
	return nil
}

// SetWindowStart moves the lights-on edge, pinned to the lights-off edge.
func (p *Project) SetWindowStart(minute int) {
	p.Window.SetStart(minute)
}

// SetWindowEnd moves the lights-off edge, pinned to the lights-on edge.
func (p *Project) SetWindowEnd(minute int) {
	p.Window.SetEnd(minute)
}

// ToggleProgram flips one channel band overlay.
func (p *Project) ToggleProgram(c program.Channel, b program.Band) error {
	if err := p.Programs.Toggle(c, b); err != nil {
		return err
	}
	p.Refresh()
	return nil
}

// LoadPattern replaces all keyframes, selects the first one and moves the
// clock to it.
func (p *Project) LoadPattern(name, description string, keyframes []timeline.Keyframe) error {
	if err := p.Store.Load(keyframes); err != nil {
		return fmt.Errorf("load pattern %q: %w", name, err)
	}
	p.RecipeName = name
	p.Description = description
	first := p.Store.Sorted()[0]
	p.Selected = first.ID
	p.SetTime(first.Time)
	return nil
}

// LoadPreset builds a catalog pattern at the current size and loads it.
func (p *Project) LoadPreset(pat *presets.Pattern) error {
	w, h := p.Dimensions()
	return p.LoadPattern(pat.Name, pat.Description, pat.Build(w, h))
}

// ImportRecipe installs a recipe document, adopting its grid size. The
// first keyframe is selected and the clock is reset to midnight. On error
// the project is unchanged.
func (p *Project) ImportRecipe(doc recipe.Document) error {
	w, h := p.Dimensions()
	imp, err := recipe.Import(doc, w, h)
	if err != nil {
		return fmt.Errorf("import recipe: %w", err)
	}
	if err := p.Store.Reset(imp.Width, imp.Height, imp.Keyframes); err != nil {
		return fmt.Errorf("import recipe: %w", err)
	}
	p.RecipeName = imp.Name
	if p.RecipeName == "" {
		p.RecipeName = CustomRecipe
	}
	p.Description = imp.Description
	p.Selected = p.Store.Sorted()[0].ID
	p.SetTime(0)
	return nil
}

// ExportRecipe builds a recipe document from the current keyframes.
func (p *Project) ExportRecipe() recipe.Document {
	w, h := p.Dimensions()
	return recipe.Export(p.Store.Sorted(), recipe.ExportOptions{
		Name:        p.RecipeName,
		Description: p.Description,
		Width:       w,
		Height:      h,
	})
}

// ApplyGenerated clamps a generated recipe to the lights-on window and
// loads it as a custom program.
func (p *Project) ApplyGenerated(g *generator.Generated) error {
	if g == nil {
		return errors.New("no generated recipe")
	}
	entries, err := generator.ApplyWindow(g.Entries, p.Window)
	if err != nil {
		return err
	}
	w, h := p.Dimensions()
	return p.LoadPattern(g.Name, g.Description, generator.ToKeyframes(entries, w, h))
}

// TimeOfDay labels the current time.
func (p *Project) TimeOfDay() string {
	return timeline.TimeOfDay(p.CurrentTime)
}

// Spectrum analyzes the live grid.
func (p *Project) Spectrum() analysis.Spectrum {
	return analysis.Analyze(p.Live)
}

// DLI estimates the daily light integral of the window at an intensity.
func (p *Project) DLI(intensity string) float64 {
	return analysis.DLI(intensity, p.Window)
}

// Bracket returns the keyframes around the current time and the blend
// factor between them.
func (p *Project) Bracket() (prev, next timeline.Keyframe, f float64) {
	return timeline.Bracket(float64(p.CurrentTime), p.Store.Sorted())
}
