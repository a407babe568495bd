package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/render"
)

func newQRCmd(app *App) *cobra.Command {
	var (
		out  string
		size int
	)
	cmd := &cobra.Command{
		Use:   "qr FILE",
		Short: "Write a QR code label with the recipe schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			png, err := render.QRLabel(p.ExportRecipe(), size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Label saved: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "label.png", "Output PNG path")
	cmd.Flags().IntVar(&size, "size", 256, "Label size in pixels")
	return cmd
}
