package timeline

import "testing"

func TestFormatTime(t *testing.T) {
	tests := []struct {
		minute int
		want   string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{360, "06:00"},
		{1439, "23:59"},
		{725, "12:05"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.minute); got != tt.want {
			t.Errorf("FormatTime(%d) = %q; want %q", tt.minute, got, tt.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"06:00", 360, false},
		{"23:59", 1439, false},
		{"720", 720, false},
		{"1500", 60, false},
		{"24:00", 0, false},
		{"6:5", 365, false},
		{"", 0, true},
		{"ab:cd", 0, true},
		{"10:75", 0, true},
		{"24:59", 0, true},
		{"24:01", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTime(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTime(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	if Wrap(-1) != 1439 || Wrap(1440) != 0 || Wrap(2881) != 1 {
		t.Fatalf("unexpected wrap results: %d %d %d", Wrap(-1), Wrap(1440), Wrap(2881))
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := map[int]string{
		0:    "Night",
		360:  "Morning",
		720:  "Afternoon",
		1080: "Evening",
		1320: "Night",
	}
	for m, want := range tests {
		if got := TimeOfDay(m); got != want {
			t.Errorf("TimeOfDay(%d) = %q; want %q", m, got, want)
		}
	}
}

func TestWindowClamping(t *testing.T) {
	w := Window{Start: 360, End: 1200}
	w.SetStart(1300)
	if w.Start != 1200 {
		t.Fatalf("start should pin to end; got %d", w.Start)
	}

	w = Window{Start: 360, End: 1200}
	w.SetEnd(100)
	if w.End != 360 {
		t.Fatalf("end should pin to start; got %d", w.End)
	}

	w.SetEnd(5000)
	if w.End != 1439 {
		t.Fatalf("end should clamp to 1439; got %d", w.End)
	}
	w.SetStart(-10)
	if w.Start != 0 {
		t.Fatalf("start should clamp to 0; got %d", w.Start)
	}

	if got := NewWindow(900, 100); got.Start != 900 || got.End != 900 {
		t.Fatalf("NewWindow should pin crossed edges; got %+v", got)
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("06:00-20:00")
	if err != nil {
		t.Fatalf("ParseWindow error: %v", err)
	}
	if w != DefaultWindow {
		t.Fatalf("expected %+v; got %+v", DefaultWindow, w)
	}
	if w.Duration() != 840 || !w.Contains(360) || w.Contains(1200) {
		t.Fatalf("unexpected window behaviour: %+v", w)
	}
	if _, err := ParseWindow("06:00"); err == nil {
		t.Fatal("expected error for missing end")
	}
}
