package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/analysis"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/program"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/recipe"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

type resolveOutput struct {
	Time          int               `json:"time"`
	TimeFormatted string            `json:"timeFormatted"`
	TimeOfDay     string            `json:"timeOfDay"`
	Width         int               `json:"gridWidth"`
	Height        int               `json:"gridHeight"`
	Previous      string            `json:"previous"`
	Next          string            `json:"next"`
	Factor        float64           `json:"factor"`
	Spectrum      analysis.Spectrum `json:"spectrum"`
	Grid          []recipe.CellDoc  `json:"grid"`
}

func newResolveCmd(app *App) *cobra.Command {
	var (
		at       string
		programs string
	)
	cmd := &cobra.Command{
		Use:   "resolve FILE",
		Short: "Print the grid a recipe shows at a time of day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minute, err := timeline.ParseTime(at)
			if err != nil {
				return err
			}
			progs, err := program.Parse(programs)
			if err != nil {
				return err
			}
			p, err := loadProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			p.Programs = progs
			p.SetTime(minute)

			prev, next, f := p.Bracket()
			w, h := p.Dimensions()
			out := resolveOutput{
				Time:          p.CurrentTime,
				TimeFormatted: timeline.FormatTime(p.CurrentTime),
				TimeOfDay:     p.TimeOfDay(),
				Width:         w,
				Height:        h,
				Previous:      prev.Name,
				Next:          next.Name,
				Factor:        f,
				Spectrum:      p.Spectrum(),
				Grid:          make([]recipe.CellDoc, len(p.Live.Cells)),
			}
			for i, c := range p.Live.Cells {
				out.Grid[i] = recipe.CellDoc{Red: int(c.R), Green: int(c.G), Blue: int(c.B), Active: c.Active}
			}
			return writeOut(cmd, app, out)
		},
	}
	cmd.Flags().StringVar(&at, "at", "00:00", "Time of day, HH:MM or minutes since midnight")
	cmd.Flags().StringVar(&programs, "program", "", fmt.Sprintf("Channel overlays, e.g. %q", "red:morning,blue:night"))
	return cmd
}
