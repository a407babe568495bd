package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

// ErrMissingKeyframes is returned when a document has no keyframes field.
var ErrMissingKeyframes = errors.New("recipe has no keyframes")

// ErrBadDimensions reports a grid size outside [1, grid.MaxSide].
var ErrBadDimensions = errors.New("invalid grid dimensions")

// Format selects the document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ExportOptions carries the metadata of an export.
type ExportOptions struct {
	Name        string
	Description string
	Width       int
	Height      int
	Created     time.Time
}

// Export builds a document from keyframes. Keyframes are written in time
// order.
func Export(keyframes []timeline.Keyframe, opts ExportOptions) Document {
	name := opts.Name
	if name == "" {
		name = "Custom Recipe"
	}
	desc := opts.Description
	if desc == "" {
		desc = "Custom 24-hour lighting pattern"
	}
	created := opts.Created
	if created.IsZero() {
		created = time.Now()
	}

	meta := Metadata{
		Name:          name,
		Created:       created.UTC().Format(time.RFC3339),
		Version:       Version,
		GridWidth:     opts.Width,
		GridHeight:    opts.Height,
		CycleDuration: timeline.CycleDuration,
		CycleUnit:     "minutes",
		Description:   desc,
	}
	if opts.Width == opts.Height {
		meta.GridSize = opts.Width
	}

	sorted := make([]timeline.Keyframe, len(keyframes))
	copy(sorted, keyframes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	docs := make([]KeyframeDoc, 0, len(sorted))
	for _, kf := range sorted {
		cells := make([]CellDoc, len(kf.Grid.Cells))
		for i, c := range kf.Grid.Cells {
			cells[i] = CellDoc{Red: int(c.R), Green: int(c.G), Blue: int(c.B), Active: c.Active}
		}
		docs = append(docs, KeyframeDoc{
			ID:            ID(kf.ID),
			Name:          kf.Name,
			Time:          kf.Time,
			TimeFormatted: timeline.FormatTime(kf.Time),
			Grid:          cells,
		})
	}

	instructions := DefaultInstructions
	return Document{Metadata: meta, Keyframes: docs, Instructions: &instructions}
}

// Imported is the result of reading a document back.
type Imported struct {
	Name        string
	Description string
	Width       int
	Height      int
	Keyframes   []timeline.Keyframe
}

// Import maps a document back to keyframes. Dimensions come from
// gridWidth/gridHeight, then the legacy gridSize, then a square side
// inferred from the first grid; when none apply the caller's width and
// height are kept. Missing ids are regenerated.
func Import(doc Document, width, height int) (Imported, error) {
	if doc.Keyframes == nil {
		return Imported{}, ErrMissingKeyframes
	}
	if len(doc.Keyframes) == 0 {
		return Imported{}, fmt.Errorf("import recipe: %w", timeline.ErrEmptyTimeline)
	}

	w, h := dimensions(doc, width, height)
	if w <= 0 || h <= 0 || w > grid.MaxSide || h > grid.MaxSide {
		return Imported{}, fmt.Errorf("import recipe: %w: %dx%d (max %d per side)", ErrBadDimensions, w, h, grid.MaxSide)
	}
	out := Imported{
		Name:        doc.Metadata.Name,
		Description: doc.Metadata.Description,
		Width:       w,
		Height:      h,
		Keyframes:   make([]timeline.Keyframe, 0, len(doc.Keyframes)),
	}
	for _, kd := range doc.Keyframes {
		cells := make([]grid.Cell, len(kd.Grid))
		for i, c := range kd.Grid {
			cells[i] = grid.Cell{
				R:      grid.ClampChannel(c.Red),
				G:      grid.ClampChannel(c.Green),
				B:      grid.ClampChannel(c.Blue),
				Active: c.Active,
			}
		}
		id := string(kd.ID)
		if id == "" {
			id = timeline.NewID()
		}
		g := grid.Grid{Width: w, Height: h, Cells: cells}
		out.Keyframes = append(out.Keyframes, timeline.Keyframe{
			ID:   id,
			Time: timeline.ClampMinute(kd.Time),
			Name: kd.Name,
			Grid: g.Resize(w, h),
		})
	}
	return out, nil
}

func dimensions(doc Document, width, height int) (int, int) {
	m := doc.Metadata
	switch {
	case m.GridWidth > 0 && m.GridHeight > 0:
		return m.GridWidth, m.GridHeight
	case m.GridSize > 0:
		return m.GridSize, m.GridSize
	}
	n := len(doc.Keyframes[0].Grid)
	side := int(math.Sqrt(float64(n)))
	if n > 0 && side*side == n {
		return side, side
	}
	return width, height
}

// Encode writes doc in the given format. JSON is indented with two spaces.
func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Decode reads a document in the given format.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return doc, nil
}

// WriteFile writes a recipe to path, choosing the format from its extension.
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recipe file: %w", err)
	}
	if err := Encode(f, doc, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a recipe from path, choosing the format from its extension.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open recipe file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug turns a recipe name into a file name stem: lower case, whitespace
// runs replaced by a dash.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "-")
}
