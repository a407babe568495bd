package cli

import (
	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/program"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/tui"
)

func newPreviewCmd(app *App) *cobra.Command {
	var (
		play     bool
		at       string
		programs string
	)
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Play a recipe in the terminal",
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

			ctx := cmd.Context()
			return tui.Run(ctx, p, play)
		},
	}
	cmd.Flags().BoolVar(&play, "play", true, "Start playing immediately")
	cmd.Flags().StringVar(&at, "at", "00:00", "Start time")
	cmd.Flags().StringVar(&programs, "program", "", "Channel overlays, e.g. red:morning")
	return cmd
}
