package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/config"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/engine"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/generator"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/recipe"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

// newGeminiClient is swapped out in tests.
var newGeminiClient = func(ctx context.Context, cfg *config.Config) (generator.Client, error) {
	return generator.NewGeminiClient(ctx, generator.GeminiOptions{
		APIKey:  cfg.APIKey,
		Project: cfg.ProjectID,
		Region:  cfg.Region,
		Model:   cfg.Model,
	})
}

func newGenerateCmd(app *App) *cobra.Command {
	req := generator.DefaultRequest()
	var (
		window string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask Gemini for a recipe for a growth goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Window = app.Config.Window
			if window != "" {
				w, err := timeline.ParseWindow(window)
				if err != nil {
					return err
				}
				req.Window = w
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := newGeminiClient(ctx, app.Config)
			if err != nil {
				return err
			}
			if c, ok := client.(io.Closer); ok {
				defer c.Close()
			}

			logf(cmd, app, "[*] Generating for window %s (%s, %s)...", req.Window, req.Intensity, req.Pulsing)
			outcome := generator.Start(ctx, client, req).Wait()
			switch {
			case outcome.Canceled:
				return errors.New("generation canceled")
			case outcome.Err != nil:
				return outcome.Err
			}

			p := engine.New(app.Config)
			p.Window = req.Window
			if err := p.ApplyGenerated(outcome.Result); err != nil {
				return err
			}
			logf(cmd, app, "[*] Estimated DLI: %.1f mol/m²/day", p.DLI(req.Intensity))

			doc := p.ExportRecipe()
			if out == "" {
				return recipe.Encode(cmd.OutOrStdout(), doc, recipe.JSON)
			}
			if err := recipe.WriteFile(out, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Recipe saved: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Goal, "goal", req.Goal, "Plant and growth goal")
	cmd.Flags().StringVar(&req.Intensity, "intensity", req.Intensity, fmt.Sprintf("Light intensity %v", generator.Intensities))
	cmd.Flags().StringVar(&req.Pulsing, "pulsing", req.Pulsing, fmt.Sprintf("Pulsing mode %v", generator.PulsingModes))
	cmd.Flags().StringVar(&window, "window", "", "Lights-on window HH:MM-HH:MM (default from config)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (.json, .yaml); stdout when empty")
	return cmd
}
