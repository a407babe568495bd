// Package render turns grids into images, PNG frame sequences, H.264
// video and QR labels.
package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

const labelHeight = 18

// Rasterizer paints grids as square cells on a black background.
type Rasterizer struct {
	CellSize  int
	Gap       int
	ShowLabel bool
}

// Bounds returns the frame rectangle for a width x height grid. Both sides
// are even so the frame can be encoded as yuv420p.
func (r Rasterizer) Bounds(width, height int) image.Rectangle {
	w := width * r.CellSize
	h := height * r.CellSize
	if r.ShowLabel {
		h += labelHeight
	}
	w += w % 2
	h += h % 2
	return image.Rect(0, 0, w, h)
}

// Render paints g into a new image.
func (r Rasterizer) Render(g grid.Grid, minute int) *image.RGBA {
	dst := image.NewRGBA(r.Bounds(g.Width, g.Height))
	r.Draw(dst, g, minute)
	return dst
}

// Draw paints g into dst, which must have the bounds returned by Bounds.
func (r Rasterizer) Draw(dst *image.RGBA, g grid.Grid, minute int) {
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	if g.Width == 0 || g.Height == 0 {
		return
	}

	// One pixel per cell, then upscale.
	src := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, c := range g.Cells {
		px := color.RGBA{A: 255}
		if c.Active {
			px = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
		src.SetRGBA(i%g.Width, i/g.Width, px)
	}
	cells := image.Rect(0, 0, g.Width*r.CellSize, g.Height*r.CellSize)
	draw.NearestNeighbor.Scale(dst, cells, src, src.Bounds(), draw.Src, nil)

	if r.Gap > 0 && r.Gap < r.CellSize {
		for x := 1; x <= g.Width; x++ {
			edge := x * r.CellSize
			draw.Draw(dst, image.Rect(edge-r.Gap, 0, edge, cells.Max.Y), image.Black, image.Point{}, draw.Src)
		}
		for y := 1; y <= g.Height; y++ {
			edge := y * r.CellSize
			draw.Draw(dst, image.Rect(0, edge-r.Gap, cells.Max.X, edge), image.Black, image.Point{}, draw.Src)
		}
	}

	if r.ShowLabel {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.White,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, cells.Max.Y+labelHeight-5),
		}
		d.DrawString(timeline.FormatTime(minute) + " " + timeline.TimeOfDay(minute))
	}
}
