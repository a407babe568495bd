package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/analysis"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/config"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/generator"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/presets"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/program"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/recipe"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

func smallProject(t *testing.T) *Project {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 2, 2
	return New(cfg)
}

func TestNewProject(t *testing.T) {
	p := New(nil)
	w, h := p.Dimensions()
	if w != 8 || h != 8 {
		t.Fatalf("dimensions = %dx%d, want 8x8", w, h)
	}
	if p.Store.Len() != 1 {
		t.Fatalf("keyframes = %d, want 1", p.Store.Len())
	}
	if _, ok := p.SelectedKeyframe(); !ok {
		t.Fatal("no keyframe selected")
	}
	if p.Live.Len() != 64 || p.Live.ActiveCount() != 0 {
		t.Errorf("live grid = %d cells, %d active", p.Live.Len(), p.Live.ActiveCount())
	}
	if p.RecipeName != CustomRecipe {
		t.Errorf("name = %q", p.RecipeName)
	}
}

func TestPaintFillClear(t *testing.T) {
	p := smallProject(t)
	p.SetColor(200, 100, 50)
	p.SetBrightness(50)

	if err := p.PaintCell(1); err != nil {
		t.Fatal(err)
	}
	kf, _ := p.SelectedKeyframe()
	want := grid.Cell{R: 100, G: 50, B: 25, Active: true}
	if kf.Grid.Cells[1] != want {
		t.Errorf("painted cell = %+v, want %+v", kf.Grid.Cells[1], want)
	}
	if p.Live.Cells[1] != want {
		t.Errorf("live cell = %+v, want %+v", p.Live.Cells[1], want)
	}

	// A second paint toggles the cell off but keeps the color.
	if err := p.PaintCell(1); err != nil {
		t.Fatal(err)
	}
	kf, _ = p.SelectedKeyframe()
	if kf.Grid.Cells[1].Active || kf.Grid.Cells[1].R != 100 {
		t.Errorf("repainted cell = %+v", kf.Grid.Cells[1])
	}

	if err := p.PaintCell(4); err == nil {
		t.Error("expected out-of-range error")
	}

	if err := p.FillAll(); err != nil {
		t.Fatal(err)
	}
	kf, _ = p.SelectedKeyframe()
	if kf.Grid.ActiveCount() != 4 {
		t.Errorf("active after fill = %d", kf.Grid.ActiveCount())
	}

	if err := p.ClearAll(); err != nil {
		t.Fatal(err)
	}
	kf, _ = p.SelectedKeyframe()
	if kf.Grid.ActiveCount() != 0 || kf.Grid.Cells[0] != grid.Off {
		t.Errorf("clear left %+v", kf.Grid.Cells)
	}
}

func TestBrightnessClamp(t *testing.T) {
	p := smallProject(t)
	p.SetBrightness(150)
	if p.Brightness != 100 {
		t.Errorf("brightness = %v", p.Brightness)
	}
	p.SetBrightness(-5)
	if p.Brightness != 0 {
		t.Errorf("brightness = %v", p.Brightness)
	}
}

func TestAddAndInterpolate(t *testing.T) {
	p := smallProject(t)
	p.SetColor(200, 0, 0)
	p.SetTime(720)
	kf := p.AddKeyframeAtCurrent()
	if kf.Name != "Scene 2" || kf.Time != 720 || p.Selected != kf.ID {
		t.Fatalf("added %+v, selected %s", kf, p.Selected)
	}
	if err := p.FillAll(); err != nil {
		t.Fatal(err)
	}

	p.SetTime(360)
	want := grid.Cell{R: 100, Active: true}
	if p.Live.Cells[0] != want {
		t.Errorf("live at 06:00 = %+v, want %+v", p.Live.Cells[0], want)
	}
	prev, next, f := p.Bracket()
	if prev.Time != 0 || next.Time != 720 || f != 0.5 {
		t.Errorf("bracket = %d, %d, %v", prev.Time, next.Time, f)
	}
	if p.TimeOfDay() != "Morning" {
		t.Errorf("time of day = %q", p.TimeOfDay())
	}
}

func TestSelectKeyframe(t *testing.T) {
	p := smallProject(t)
	p.SetTime(600)
	added := p.AddKeyframeAtCurrent()
	p.FillAll()

	if err := p.SelectKeyframe(0); err != nil {
		t.Fatal(err)
	}
	if p.CurrentTime != 0 || p.Live.ActiveCount() != 0 {
		t.Errorf("after select 0: time %d, active %d", p.CurrentTime, p.Live.ActiveCount())
	}
	if err := p.SelectKeyframe(1); err != nil {
		t.Fatal(err)
	}
	if p.Selected != added.ID || p.CurrentTime != 600 || p.Live.ActiveCount() != 4 {
		t.Errorf("after select 1: %s time %d", p.Selected, p.CurrentTime)
	}
	if err := p.SelectKeyframe(2); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestDeleteKeyframe(t *testing.T) {
	p := smallProject(t)
	first := p.Selected
	p.SetTime(300)
	mid := p.AddKeyframeAtCurrent()
	p.SetTime(900)
	last := p.AddKeyframeAtCurrent()

	// Deleting the selected last keyframe moves selection back one.
	if err := p.DeleteKeyframe(last.ID); err != nil {
		t.Fatal(err)
	}
	if p.Selected != mid.ID {
		t.Errorf("selected = %s, want %s", p.Selected, mid.ID)
	}

	// Deleting an unselected keyframe keeps the selection.
	if err := p.DeleteKeyframe(first); err != nil {
		t.Fatal(err)
	}
	if p.Selected != mid.ID {
		t.Errorf("selected = %s, want %s", p.Selected, mid.ID)
	}

	if err := p.DeleteKeyframe(mid.ID); !errors.Is(err, timeline.ErrLastKeyframe) {
		t.Errorf("err = %v, want ErrLastKeyframe", err)
	}
	if p.Store.Len() != 1 {
		t.Errorf("keyframes = %d", p.Store.Len())
	}

	var nf timeline.NotFoundError
	if err := p.DeleteKeyframe("nope"); !errors.As(err, &nf) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestRetimeAndRename(t *testing.T) {
	p := smallProject(t)
	id := p.Selected
	if err := p.RetimeKeyframe(id, 2000); err != nil {
		t.Fatal(err)
	}
	if err := p.RenameKeyframe(id, "Dusk"); err != nil {
		t.Fatal(err)
	}
	kf, _ := p.Store.Get(id)
	if kf.Time != 1439 || kf.Name != "Dusk" {
		t.Errorf("keyframe = %d %q", kf.Time, kf.Name)
	}
}

func TestSetDimensions(t *testing.T) {
	p := smallProject(t)
	p.FillAll()
	if err := p.SetDimensions(3, 1); err != nil {
		t.Fatal(err)
	}
	if p.Live.Width != 3 || p.Live.Height != 1 {
		t.Fatalf("live = %dx%d", p.Live.Width, p.Live.Height)
	}
	kf, _ := p.SelectedKeyframe()
	if !kf.Grid.Cells[0].Active || !kf.Grid.Cells[1].Active || !kf.Grid.Cells[2].Active {
		t.Errorf("cells = %+v", kf.Grid.Cells)
	}
	if err := p.SetDimensions(0, 4); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestWindowEdges(t *testing.T) {
	p := smallProject(t)
	p.SetWindowStart(1300)
	if p.Window.Start != 1200 {
		t.Errorf("start = %d", p.Window.Start)
	}
	p.SetWindowEnd(100)
	if p.Window.End != 1200 {
		t.Errorf("end = %d", p.Window.End)
	}
	if p.DLI("Medium") != 0 {
		t.Errorf("zero-length window DLI = %v", p.DLI("Medium"))
	}
}

func TestToggleProgramOverlay(t *testing.T) {
	p := smallProject(t)
	p.SetColor(0, 0, 0)
	p.FillAll()
	p.SetTime(420)
	if err := p.ToggleProgram(program.Red, program.Morning); err != nil {
		t.Fatal(err)
	}
	if p.Live.Cells[0].R != 50 || p.Live.Cells[0].G != 0 {
		t.Errorf("boosted cell = %+v", p.Live.Cells[0])
	}
	kf, _ := p.SelectedKeyframe()
	if kf.Grid.Cells[0].R != 0 {
		t.Error("overlay leaked into keyframe")
	}
	if s := p.Spectrum(); s.Dominant != analysis.RedDominant {
		t.Errorf("spectrum = %+v", s)
	}
	if err := p.ToggleProgram("violet", program.Morning); err == nil {
		t.Error("expected unknown channel error")
	}
}

func TestLoadPreset(t *testing.T) {
	reg, err := presets.Default()
	if err != nil {
		t.Fatal(err)
	}
	pat, err := reg.Lookup("Research-Based/Leafy Greens (Lettuce/Spinach)")
	if err != nil {
		t.Fatal(err)
	}
	p := smallProject(t)
	if err := p.LoadPreset(pat); err != nil {
		t.Fatal(err)
	}
	if p.RecipeName != pat.Name || p.Description != pat.Description {
		t.Errorf("metadata = %q %q", p.RecipeName, p.Description)
	}
	first := p.Store.Sorted()[0]
	if p.Selected != first.ID || p.CurrentTime != first.Time {
		t.Errorf("selection = %s at %d", p.Selected, p.CurrentTime)
	}
}

func TestRecipeRoundTrip(t *testing.T) {
	p := smallProject(t)
	p.SetColor(10, 20, 30)
	p.FillAll()
	p.SetTime(600)
	p.AddKeyframeAtCurrent()
	p.RecipeName = "Test"

	doc := p.ExportRecipe()
	if doc.Metadata.Name != "Test" || len(doc.Keyframes) != 2 {
		t.Fatalf("doc = %+v", doc.Metadata)
	}

	q := New(nil)
	q.SetTime(900)
	if err := q.ImportRecipe(doc); err != nil {
		t.Fatal(err)
	}
	w, h := q.Dimensions()
	if w != 2 || h != 2 {
		t.Errorf("imported dimensions %dx%d", w, h)
	}
	if q.CurrentTime != 0 || q.Selected != q.Store.Sorted()[0].ID {
		t.Errorf("time %d selected %s", q.CurrentTime, q.Selected)
	}
	if q.Live.Cells[0] != (grid.Cell{R: 10, G: 20, B: 30, Active: true}) {
		t.Errorf("live = %+v", q.Live.Cells[0])
	}

	before := q.Store.Len()
	if err := q.ImportRecipe(recipe.Document{}); !errors.Is(err, recipe.ErrMissingKeyframes) {
		t.Errorf("err = %v", err)
	}
	if q.Store.Len() != before {
		t.Error("failed import changed the store")
	}
}

func TestApplyGenerated(t *testing.T) {
	p := smallProject(t)
	gen := &generator.Generated{
		Name:        "Basil",
		Description: "Leafy",
		Entries: []generator.Entry{
			{Time: 100, Name: "Dawn", Color: generator.Color{R: 255, G: 100, B: 50, Active: true}},
			{Time: 700, Name: "Noon", Color: generator.Color{R: 255, G: 255, B: 255, Active: true}},
			{Time: 1300, Name: "Dusk", Color: generator.Color{R: 255, Active: true}},
		},
	}
	if err := p.ApplyGenerated(gen); err != nil {
		t.Fatal(err)
	}
	sorted := p.Store.Sorted()
	if len(sorted) != 3 || sorted[0].Time != 360 || sorted[2].Time != 1200 {
		t.Fatalf("times = %d..%d", sorted[0].Time, sorted[len(sorted)-1].Time)
	}
	if sorted[2].Grid.ActiveCount() != 0 {
		t.Error("last keyframe should be dark")
	}
	if p.RecipeName != "Basil" || p.CurrentTime != 360 {
		t.Errorf("name %q time %d", p.RecipeName, p.CurrentTime)
	}
	if err := p.ApplyGenerated(nil); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestImportOversizedRecipeLeavesProjectUnchanged(t *testing.T) {
	p := smallProject(t)
	p.SetColor(10, 20, 30)
	p.FillAll()
	p.SetTime(300)
	before := p.Store.Sorted()
	selected := p.Selected

	doc, err := recipe.Decode(strings.NewReader(
		`{"metadata":{"gridWidth":2147483648,"gridHeight":1048576},"keyframes":[{"name":"A","time":0,"grid":[]}]}`), recipe.JSON)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.ImportRecipe(doc); !errors.Is(err, recipe.ErrBadDimensions) {
		t.Fatalf("err = %v, want ErrBadDimensions", err)
	}

	w, h := p.Dimensions()
	if w != 2 || h != 2 {
		t.Errorf("dimensions = %dx%d", w, h)
	}
	after := p.Store.Sorted()
	if len(after) != len(before) || after[0].ID != before[0].ID || !after[0].Grid.Equal(before[0].Grid) {
		t.Errorf("store changed: %+v", after)
	}
	if p.Selected != selected || p.CurrentTime != 300 {
		t.Errorf("selection %s time %d", p.Selected, p.CurrentTime)
	}
	if err := p.SetDimensions(grid.MaxSide+1, 1); err == nil {
		t.Error("expected error above the size limit")
	}
}
