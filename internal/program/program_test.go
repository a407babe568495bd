package program

import (
	"testing"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
)

func TestBoostBands(t *testing.T) {
	all := Flags{Morning: true, Midday: true, Evening: true, Night: true}
	tests := []struct {
		minute float64
		want   uint8
	}{
		{0, 10},
		{359, 10},
		{360, 50},
		{719, 50},
		{720, 50},
		{1079, 50},
		{1080, 30},
		{1319, 30},
		{1320, 10},
		{1439, 10},
	}
	for _, tt := range tests {
		if got := Boost(all, tt.minute); got != tt.want {
			t.Errorf("Boost(all, %v) = %d; want %d", tt.minute, got, tt.want)
		}
	}

	if got := Boost(Flags{Evening: true}, 400); got != 0 {
		t.Fatalf("expected no boost outside enabled band; got %d", got)
	}
	if got := Boost(Flags{}, 400); got != 0 {
		t.Fatalf("expected no boost with no flags; got %d", got)
	}
}

func TestBandsDoNotOverlap(t *testing.T) {
	for m := 0; m < 1440; m++ {
		hour := float64(m) / 60
		hits := 0
		for _, r := range rules {
			if hour >= r.FromHour && hour < r.ToHour {
				hits++
			}
		}
		if hits != 1 {
			t.Fatalf("minute %d matched %d band rules", m, hits)
		}
	}
}

func TestApplyIsNonDestructive(t *testing.T) {
	base := grid.Filled(2, 2, grid.Cell{R: 220, G: 10, B: 0, Active: true})
	p := Programs{Red: Flags{Morning: true}, Blue: Flags{Morning: true}}

	out := Apply(base, p, 400)
	if base.Cells[0].R != 220 {
		t.Fatalf("input mutated: %+v", base.Cells[0])
	}
	want := grid.Cell{R: 255, G: 10, B: 50, Active: true}
	for i, c := range out.Cells {
		if c != want {
			t.Fatalf("cell %d = %+v; want %+v", i, c, want)
		}
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("red:morning, blue:NIGHT")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !p.Red.Morning || !p.Blue.Night || p.Green.Any() {
		t.Fatalf("unexpected programs: %+v", p)
	}
	if _, err := Parse("purple:morning"); err == nil {
		t.Fatal("expected unknown channel error")
	}
	if _, err := Parse("red:dawn"); err == nil {
		t.Fatal("expected unknown band error")
	}
	if _, err := Parse("red"); err == nil {
		t.Fatal("expected format error")
	}
}

func TestToggle(t *testing.T) {
	var p Programs
	if err := p.Toggle(Green, Evening); err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if !p.Green.Evening {
		t.Fatal("expected green evening on")
	}
	if err := p.Toggle(Green, Evening); err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if p.Green.Evening {
		t.Fatal("expected green evening off")
	}
	if err := p.Toggle(Green, Band("dusk")); err == nil {
		t.Fatal("expected error for unknown band")
	}
}
