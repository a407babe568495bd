package timeline

import (
	"fmt"
	"strings"
)

// Window is the lights-on photoperiod. Start <= End always holds; edits
// that would cross the other edge are pinned to it.
type Window struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// DefaultWindow is 06:00 to 20:00.
var DefaultWindow = Window{Start: 360, End: 1200}

// NewWindow returns a window with both edges clamped into the cycle and
// End raised to Start when they cross.
func NewWindow(start, end int) Window {
	w := Window{Start: ClampMinute(start), End: ClampMinute(end)}
	if w.End < w.Start {
		w.End = w.Start
	}
	return w
}

// SetStart moves the start edge, pinning it to End if it would pass it.
func (w *Window) SetStart(minute int) {
	minute = ClampMinute(minute)
	if minute > w.End {
		minute = w.End
	}
	w.Start = minute
}

// SetEnd moves the end edge, pinning it to Start if it would pass it.
func (w *Window) SetEnd(minute int) {
	minute = ClampMinute(minute)
	if minute < w.Start {
		minute = w.Start
	}
	w.End = minute
}

// Duration returns the photoperiod length in minutes.
func (w Window) Duration() int {
	return w.End - w.Start
}

// Contains reports whether minute lies in [Start, End).
func (w Window) Contains(minute int) bool {
	return minute >= w.Start && minute < w.End
}

func (w Window) String() string {
	return FormatTime(w.Start) + "-" + FormatTime(w.End)
}

// ParseWindow reads "HH:MM-HH:MM".
func ParseWindow(s string) (Window, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Window{}, fmt.Errorf("invalid window %q (want HH:MM-HH:MM)", s)
	}
	start, err := ParseTime(a)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseTime(b)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(start, end), nil
}
