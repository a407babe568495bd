// Package cli implements the ledsynth command line.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/config"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/engine"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/presets"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/recipe"
)

type App struct {
	ConfigPath string
	Width      int
	Height     int
	PrettyJSON bool
	Verbose    bool

	Config *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "ledsynth",
		Short:        "24-hour LED grid lighting programs",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # List built-in programs and save one as a recipe
  ledsynth presets
  ledsynth export --preset "Research-Based/Leafy Greens (Lettuce/Spinach)" -o leafy.json

  # Inspect a recipe
  ledsynth show leafy.json
  ledsynth resolve leafy.json --at 07:30 --program red:morning

  # Render it
  ledsynth frames leafy.json -o frames/
  ledsynth video leafy.json -o leafy.mp4
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("width") {
			cfg.Width = app.Width
		}
		if flags.Changed("height") {
			cfg.Height = app.Height
		}
		if flags.Changed("verbose") {
			cfg.Verbose = app.Verbose
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		app.Config = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("LEDSYNTH_CONFIG", ""), "Path to config file (default ~/.config/ledsynth/config.yaml)")
	cmd.PersistentFlags().IntVar(&app.Width, "width", 8, "Grid width in cells")
	cmd.PersistentFlags().IntVar(&app.Height, "height", 8, "Grid height in cells")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Print progress and export reports")

	cmd.AddCommand(newPresetsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newResolveCmd(app))
	cmd.AddCommand(newFramesCmd(app))
	cmd.AddCommand(newVideoCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newQRCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func logf(cmd *cobra.Command, app *App, format string, args ...any) {
	if app.Config != nil && app.Config.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

// loadProject reads a recipe file into a fresh project. A directory selects
// its newest recipe. Documents without dimensions fall back to the
// configured grid size.
func loadProject(cmd *cobra.Command, app *App, path string) (*engine.Project, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		latest, err := recipe.FindLatest(path)
		if err != nil {
			return nil, err
		}
		logf(cmd, app, "[*] Selected recipe: %s", latest)
		path = latest
	}
	doc, err := recipe.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := engine.New(app.Config)
	if err := p.ImportRecipe(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func registry() (*presets.Registry, error) {
	return presets.Default()
}
