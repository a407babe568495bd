package presets

import (
	"math"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
)

type generatorFunc func(width, height int, g Generator) grid.Grid

var generators = map[string]generatorFunc{
	"fill": func(w, h int, g Generator) grid.Grid {
		return grid.Filled(w, h, g.Color)
	},
	"night": func(w, h int, _ Generator) grid.Grid {
		return grid.New(w, h)
	},
	"rainbow": func(w, h int, g Generator) grid.Grid {
		return Rainbow(w, h, g.Offset)
	},
	"heart": func(w, h int, g Generator) grid.Grid {
		return Heart(w, h, g.Color)
	},
	"matrix": func(w, h int, g Generator) grid.Grid {
		return Matrix(w, h, g.Frame)
	},
}

// Rainbow paints a diagonal hue wave shifted by offset (0..1).
func Rainbow(width, height int, offset float64) grid.Grid {
	out := grid.New(width, height)
	span := float64(max(width, height)) * 1.5
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hue := math.Mod(float64(x+y)/span+offset, 1)
			r, g, b := hsvToRGB(hue, 1, 1)
			out.Cells[out.Index(x, y)] = grid.Cell{R: r, G: g, B: b, Active: true}
		}
	}
	return out
}

// heartCells are the lit indices of an 8x8 heart.
var heartCells = []int{10, 11, 14, 15, 17, 18, 19, 20, 21, 22, 23, 25, 26, 27, 28, 29, 30, 31, 34, 35, 36, 37, 38, 43, 44, 45, 52}

// Heart draws an 8x8 heart centered on the grid. Grids smaller than 8 on
// either side stay dark.
func Heart(width, height int, color grid.Cell) grid.Grid {
	out := grid.New(width, height)
	if width < 8 || height < 8 {
		return out
	}
	color.Active = true
	offX := (width - 8) / 2
	offY := (height - 8) / 2
	for _, i := range heartCells {
		out.Cells[out.Index(i%8+offX, i/8+offY)] = color
	}
	return out
}

// Matrix draws one frame of falling green rain. Only some columns carry
// drops; the rest glow dimly.
func Matrix(width, height, frame int) grid.Grid {
	out := grid.New(width, height)
	tail := float64(height) / 4
	for i := range out.Cells {
		x := i % width
		y := float64(i / width)
		out.Cells[i] = grid.Cell{G: 30, Active: true}

		hash := ((x * 13) ^ (x * 7)) % 11
		if hash >= 3 {
			continue
		}
		speed := 1 + hash%3
		head := float64((frame*speed+x*5)%(height+5) - 5)
		switch {
		case y >= head-1 && y <= head:
			out.Cells[i] = grid.Cell{R: 180, G: 255, B: 180, Active: true}
		case y > head-tail && y < head-1:
			fade := 1 - (head-y)/tail
			out.Cells[i] = grid.Cell{G: uint8(math.Floor(30 + 150*fade)), Active: true}
		}
	}
	return out
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := int(math.Floor(h * 6))
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return channel(r), channel(g), channel(b)
}

func channel(v float64) uint8 {
	return grid.ClampChannel(grid.Round(v * 255))
}
