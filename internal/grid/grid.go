package grid

import "fmt"

// Cell is a single RGB light. An inactive cell is dark regardless of its
// stored color, which is kept so the cell can be switched back on.
type Cell struct {
	R      uint8 `json:"r" yaml:"r"`
	G      uint8 `json:"g" yaml:"g"`
	B      uint8 `json:"b" yaml:"b"`
	Active bool  `json:"active" yaml:"active"`
}

// MaxSide bounds grid width and height.
const MaxSide = 1024

// Off is an inactive black cell.
var Off = Cell{}

// Grid is a row-major array of Width*Height cells (index = y*Width + x).
type Grid struct {
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Cells  []Cell `json:"cells" yaml:"cells"`
}

// New returns a width x height grid of inactive black cells.
func New(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Grid{Width: width, Height: height, Cells: make([]Cell, width*height)}
}

// Filled returns a grid with every cell set to c.
func Filled(width, height int, c Cell) Grid {
	g := New(width, height)
	for i := range g.Cells {
		g.Cells[i] = c
	}
	return g
}

// Len returns the number of cells the dimensions call for.
func (g Grid) Len() int {
	return g.Width * g.Height
}

// Index converts (x, y) to a cell index, or -1 when out of bounds.
func (g Grid) Index(x, y int) int {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return -1
	}
	return y*g.Width + x
}

// At returns the cell at index i. Missing cells read as Off.
func (g Grid) At(i int) Cell {
	if i < 0 || i >= len(g.Cells) {
		return Off
	}
	return g.Cells[i]
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := Grid{Width: g.Width, Height: g.Height}
	if g.Cells != nil {
		out.Cells = make([]Cell, len(g.Cells))
		copy(out.Cells, g.Cells)
	}
	return out
}

// Resize returns a copy with the new dimensions. Cells keep their index:
// indices that exist in both lengths keep their value, extra ones are Off,
// indices past the new length are dropped.
func (g Grid) Resize(width, height int) Grid {
	out := New(width, height)
	copy(out.Cells, g.Cells)
	return out
}

// Validate checks the length invariant.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid grid dimensions %dx%d", g.Width, g.Height)
	}
	if len(g.Cells) != g.Len() {
		return fmt.Errorf("grid %dx%d has %d cells, want %d", g.Width, g.Height, len(g.Cells), g.Len())
	}
	return nil
}

// Equal reports whether two grids have the same dimensions and cells.
func (g Grid) Equal(o Grid) bool {
	if g.Width != o.Width || g.Height != o.Height || len(g.Cells) != len(o.Cells) {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// ActiveCount returns the number of lit cells.
func (g Grid) ActiveCount() int {
	n := 0
	for _, c := range g.Cells {
		if c.Active {
			n++
		}
	}
	return n
}
