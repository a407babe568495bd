package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/analysis"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/engine"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/generator"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

func newShowCmd(app *App) *cobra.Command {
	var (
		raw   bool
		style string
		width int
	)
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a readable summary of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			md := summaryMarkdown(p)
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(style),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}
			out, err := r.Render(md)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without rendering")
	cmd.Flags().StringVar(&style, "style", envOr("GLAMOUR_STYLE", "dark"), "Glamour style (dark, light, notty, ...)")
	cmd.Flags().IntVar(&width, "wrap", 100, "Word wrap width")
	return cmd
}

// summaryMarkdown describes the program: keyframe table, photoperiod and
// the daily light integral per intensity level.
func summaryMarkdown(p *engine.Project) string {
	var b strings.Builder
	w, h := p.Dimensions()
	sorted := p.Store.Sorted()

	fmt.Fprintf(&b, "# %s\n\n", p.RecipeName)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	fmt.Fprintf(&b, "Grid **%dx%d**, %d keyframes.\n\n", w, h, len(sorted))

	b.WriteString("## Keyframes\n\n")
	b.WriteString("| Time | Name | Lit | Average | Spectrum |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, kf := range sorted {
		s := analysis.Analyze(kf.Grid)
		avg := "-"
		if s.ActiveCells > 0 {
			avg = fmt.Sprintf("%.0f/%.0f/%.0f", s.AvgR, s.AvgG, s.AvgB)
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
			timeline.FormatTime(kf.Time), kf.Name, s.ActiveCells, avg, s.Dominant)
	}

	fmt.Fprintf(&b, "\n## Photoperiod %s\n\n", p.Window)
	b.WriteString("| Intensity | DLI (mol/m²/day) |\n|---|---|\n")
	for _, level := range generator.Intensities {
		fmt.Fprintf(&b, "| %s | %.1f |\n", level, p.DLI(level))
	}
	return b.String()
}
