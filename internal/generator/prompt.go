package generator

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

const promptTemplate = `You are a world-class horticultural scientist specializing in LED lighting for controlled environment agriculture.
Create a sophisticated 24-hour (1440 minute) horticultural light recipe for a full-panel LED array.

Primary Goal: %[1]s.
Photoperiod: Lights must be on only between %[2]s and %[3]s.
Target Intensity Level: %[4]s. This should influence the brightness (RGB values). 'High' should use values near 255. 'Low' should use values around 100-150.
Pulsing Requirement: %[5]s. If pulsing is requested, create short on/off keyframe pairs. A 'fast' pulse could be 5 minutes on, 5 minutes off. A 'slow' pulse could be 30 minutes on, 10 minutes off.

The recipe must be for the entire 24-hour cycle.
- The first keyframe must be at the 'lights on' time: %[2]s.
- The final keyframe must be at the 'lights off' time: %[3]s. The color for this keyframe must be black (r:0, g:0, b:0) and it must be inactive (active: false).
- Create a smooth and logical progression of light spectrum and intensity between the on and off times.

Generate a JSON object that strictly follows the provided schema. Do not output anything other than the JSON object.`

// Prompt renders the instruction text for a request.
func Prompt(req Request) string {
	return strings.TrimSpace(fmt.Sprintf(promptTemplate,
		req.Goal,
		timeline.FormatTime(req.Window.Start),
		timeline.FormatTime(req.Window.End),
		req.Intensity,
		req.Pulsing,
	))
}

// responseSchema constrains the model output to the Generated shape.
func responseSchema(w timeline.Window) *genai.Schema {
	color := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"r":      {Type: genai.TypeInteger, Description: "Red value from 0-255"},
			"g":      {Type: genai.TypeInteger, Description: "Green value from 0-255"},
			"b":      {Type: genai.TypeInteger, Description: "Blue value from 0-255"},
			"active": {Type: genai.TypeBoolean, Description: "Whether the light is on or off"},
		},
		Required: []string{"r", "g", "b", "active"},
	}
	keyframe := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"time": {
				Type:        genai.TypeInteger,
				Description: fmt.Sprintf("Time in minutes from 0 to 1439. Must be between %d and %d.", w.Start, w.End),
			},
			"name": {
				Type:        genai.TypeString,
				Description: `A descriptive name for the keyframe (e.g., "Morning Ramp-up", "Blue Pulse On")`,
			},
			"color": color,
		},
		Required: []string{"time", "name", "color"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        {Type: genai.TypeString, Description: "A creative, descriptive name for the recipe."},
			"description": {Type: genai.TypeString, Description: "A brief scientific description of the recipe's purpose and method."},
			"keyframes":   {Type: genai.TypeArray, Items: keyframe},
		},
		Required: []string{"name", "description", "keyframes"},
	}
}
