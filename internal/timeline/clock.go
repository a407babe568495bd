package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CycleDuration is the length of the repeating day in minutes.
const CycleDuration = 1440

// Wrap folds any minute value into [0, CycleDuration).
func Wrap(minute int) int {
	m := minute % CycleDuration
	if m < 0 {
		m += CycleDuration
	}
	return m
}

// WrapFloat folds a fractional minute into [0, CycleDuration).
func WrapFloat(minute float64) float64 {
	m := math.Mod(minute, CycleDuration)
	if m < 0 {
		m += CycleDuration
	}
	return m
}

// ClampMinute pins a minute into [0, CycleDuration-1].
func ClampMinute(minute int) int {
	if minute < 0 {
		return 0
	}
	if minute > CycleDuration-1 {
		return CycleDuration - 1
	}
	return minute
}

// FormatTime renders a minute of the day as HH:MM.
func FormatTime(minute int) string {
	return FormatMinutes(float64(minute))
}

// FormatMinutes renders a fractional minute as HH:MM, with the hour floored
// and the minute rounded.
func FormatMinutes(minute float64) string {
	hours := int(math.Floor(minute / 60))
	mins := int(math.Round(math.Mod(minute, 60)))
	return fmt.Sprintf("%02d:%02d", hours, mins)
}

// ParseTime accepts "HH:MM" or a bare minute count and returns the minute of
// the day.
func ParseTime(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}
	if h, m, ok := strings.Cut(s, ":"); ok {
		hh, err := strconv.Atoi(h)
		if err != nil {
			return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
		}
		mm, err := strconv.Atoi(m)
		if err != nil {
			return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
		}
		if hh < 0 || hh > 24 || mm < 0 || mm > 59 || (hh == 24 && mm != 0) {
			return 0, fmt.Errorf("time out of range: %q", s)
		}
		return Wrap(hh*60 + mm), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return Wrap(n), nil
}

// TimeOfDay returns a coarse label for a minute of the day.
func TimeOfDay(minute int) string {
	hour := Wrap(minute) / 60
	switch {
	case hour >= 6 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 18:
		return "Afternoon"
	case hour >= 18 && hour < 22:
		return "Evening"
	default:
		return "Night"
	}
}
