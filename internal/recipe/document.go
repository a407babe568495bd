// Package recipe converts timelines to and from the portable recipe
// document that is shared between installations and devices.
package recipe

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Version is written into every exported document.
const Version = "1.0"

// Document is the on-disk recipe.
type Document struct {
	Metadata     Metadata      `json:"metadata" yaml:"metadata"`
	Keyframes    []KeyframeDoc `json:"keyframes" yaml:"keyframes"`
	Instructions *Instructions `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// Metadata describes the recipe and the grid it was designed for.
// GridSize is only present for square grids and is what older readers use.
type Metadata struct {
	Name          string `json:"name" yaml:"name"`
	Created       string `json:"created" yaml:"created"`
	Version       string `json:"version" yaml:"version"`
	GridWidth     int    `json:"gridWidth,omitempty" yaml:"gridWidth,omitempty"`
	GridHeight    int    `json:"gridHeight,omitempty" yaml:"gridHeight,omitempty"`
	GridSize      int    `json:"gridSize,omitempty" yaml:"gridSize,omitempty"`
	CycleDuration int    `json:"cycleDuration" yaml:"cycleDuration"`
	CycleUnit     string `json:"cycleUnit" yaml:"cycleUnit"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
}

// KeyframeDoc is a keyframe in document form.
type KeyframeDoc struct {
	ID            ID        `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Time          int       `json:"time" yaml:"time"`
	TimeFormatted string    `json:"timeFormatted,omitempty" yaml:"timeFormatted,omitempty"`
	Grid          []CellDoc `json:"grid" yaml:"grid"`
}

// CellDoc uses long channel names, unlike the internal cell.
type CellDoc struct {
	Red    int  `json:"red" yaml:"red"`
	Green  int  `json:"green" yaml:"green"`
	Blue   int  `json:"blue" yaml:"blue"`
	Active bool `json:"active" yaml:"active"`
}

// Instructions is informational text for people wiring a controller.
// It is ignored on import.
type Instructions struct {
	Microcontroller string `json:"microcontroller,omitempty" yaml:"microcontroller,omitempty"`
	Notes           string `json:"notes" yaml:"notes"`
	Example         string `json:"example" yaml:"example"`
}

// DefaultInstructions is attached to every export.
var DefaultInstructions = Instructions{
	Microcontroller: "Compatible with Arduino/Raspberry Pi",
	Notes:           "24-hour cycle. Time values in minutes (0-1439). RGB values 0-255. Grid indexed row-major order.",
	Example:         "Use keyframe interpolation for smooth transitions between lighting phases.",
}

// ID is a keyframe id. Older documents store numeric ids, so numbers are
// accepted and kept in their decimal form.
type ID string

// UnmarshalJSON accepts a string, a number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("keyframe id must be a string or number: %s", data)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}
