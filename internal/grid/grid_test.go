package grid

import "testing"

func TestResizePreservesIndices(t *testing.T) {
	g := New(2, 2)
	for i := range g.Cells {
		g.Cells[i] = Cell{R: uint8(10 * (i + 1)), G: 1, B: 2, Active: true}
	}

	bigger := g.Resize(3, 3)
	if len(bigger.Cells) != 9 {
		t.Fatalf("expected 9 cells; got %d", len(bigger.Cells))
	}
	for i := 0; i < 4; i++ {
		if bigger.Cells[i] != g.Cells[i] {
			t.Fatalf("cell %d changed: %+v != %+v", i, bigger.Cells[i], g.Cells[i])
		}
	}
	for i := 4; i < 9; i++ {
		if bigger.Cells[i] != Off {
			t.Fatalf("new cell %d should be off; got %+v", i, bigger.Cells[i])
		}
	}

	back := bigger.Resize(2, 2)
	if !back.Equal(g) {
		t.Fatalf("round-trip resize changed grid: %+v", back)
	}

	smaller := g.Resize(1, 1)
	if len(smaller.Cells) != 1 || smaller.Cells[0] != g.Cells[0] {
		t.Fatalf("truncation kept wrong cells: %+v", smaller.Cells)
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := Filled(2, 1, Cell{R: 5, Active: true})
	c := g.Clone()
	c.Cells[0].R = 99
	if g.Cells[0].R != 5 {
		t.Fatal("clone shares backing array")
	}
}

func TestAtMissingCellIsOff(t *testing.T) {
	g := Grid{Width: 2, Height: 2, Cells: []Cell{{R: 1}}}
	if got := g.At(3); got != Off {
		t.Fatalf("expected Off; got %+v", got)
	}
	if got := g.At(-1); got != Off {
		t.Fatalf("expected Off; got %+v", got)
	}
}

func TestIndexRowMajor(t *testing.T) {
	g := New(4, 3)
	if got := g.Index(1, 2); got != 9 {
		t.Fatalf("expected 9; got %d", got)
	}
	if got := g.Index(4, 0); got != -1 {
		t.Fatalf("expected -1 for out of bounds; got %d", got)
	}
}

func TestValidate(t *testing.T) {
	if err := New(3, 2).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := Grid{Width: 3, Height: 2, Cells: make([]Cell, 5)}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected length error")
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b    uint8
		brightness float64
		want       [3]uint8
	}{
		{"full", 255, 128, 1, 100, [3]uint8{255, 128, 1}},
		{"half rounds up", 255, 3, 1, 50, [3]uint8{128, 2, 1}},
		{"zero", 200, 200, 200, 0, [3]uint8{0, 0, 0}},
		{"clamped high", 100, 50, 25, 150, [3]uint8{100, 50, 25}},
		{"clamped low", 100, 50, 25, -20, [3]uint8{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := Adjust(tt.r, tt.g, tt.b, tt.brightness)
			if got := [3]uint8{r, g, b}; got != tt.want {
				t.Errorf("Adjust(%d,%d,%d,%v) = %v; want %v", tt.r, tt.g, tt.b, tt.brightness, got, tt.want)
			}
		})
	}
}
