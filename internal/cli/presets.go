package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/engine"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/recipe"
)

type presetInfo struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Ref         string `json:"ref"`
	Description string `json:"description"`
	Keyframes   int    `json:"keyframes"`
}

func newPresetsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in lighting programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			var out []presetInfo
			for _, c := range reg.Categories {
				for i := range c.Patterns {
					p := &c.Patterns[i]
					out = append(out, presetInfo{
						Category:    c.Name,
						Name:        p.Name,
						Ref:         c.Name + "/" + p.Name,
						Description: p.Description,
						Keyframes:   len(p.Build(1, 1)),
					})
				}
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var (
		preset string
		out    string
		name   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a built-in program as a recipe file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			pat, err := reg.Lookup(preset)
			if err != nil {
				return err
			}
			p := engine.New(app.Config)
			if err := p.LoadPreset(pat); err != nil {
				return err
			}
			if name != "" {
				p.RecipeName = name
			}
			doc := p.ExportRecipe()

			if out == "" {
				return recipe.Encode(cmd.OutOrStdout(), doc, recipe.JSON)
			}
			if info, err := os.Stat(out); err == nil && info.IsDir() {
				out = filepath.Join(out, recipe.FileName(doc.Metadata.Name, recipe.JSON))
			}
			if err := recipe.WriteFile(out, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Recipe saved: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", "", "Preset reference, Category/Name")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (.json, .yaml) or directory; stdout when empty")
	cmd.Flags().StringVar(&name, "name", "", "Override the recipe name")
	_ = cmd.MarkFlagRequired("preset")
	return cmd
}
