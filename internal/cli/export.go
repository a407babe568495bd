package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/engine"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/render"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

// exportFlags binds the sweep and raster settings shared by frames and
// video, seeded from config.
type exportFlags struct {
	from    string
	frames  int
	step    int
	workers int
	cell    int
	gap     int
	noLabel bool
}

func (f *exportFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "00:00", "First frame time")
	cmd.Flags().IntVar(&f.frames, "frames", 0, "Frame count (default from config, 720)")
	cmd.Flags().IntVar(&f.step, "step", 0, "Minutes per frame (default from config, 2)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Encoder workers (0 = auto)")
	cmd.Flags().IntVar(&f.cell, "cell", 0, "Cell size in pixels")
	cmd.Flags().IntVar(&f.gap, "gap", -1, "Gap between cells in pixels")
	cmd.Flags().BoolVar(&f.noLabel, "no-label", false, "Omit the time label")
}

func (f *exportFlags) options(cmd *cobra.Command, app *App) (engine.ExportOptions, error) {
	opts := engine.ExportOptionsFromConfig(app.Config)
	from, err := timeline.ParseTime(f.from)
	if err != nil {
		return opts, err
	}
	opts.From = from
	if f.frames > 0 {
		opts.Frames = f.frames
	}
	if f.step > 0 {
		opts.Step = f.step
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	if f.cell > 0 {
		opts.Raster.CellSize = f.cell
	}
	if f.gap >= 0 {
		opts.Raster.Gap = f.gap
	}
	if f.noLabel {
		opts.Raster.ShowLabel = false
	}
	if app.Config.Verbose {
		var mu sync.Mutex
		out := cmd.ErrOrStderr()
		every := max(opts.Frames/20, 1)
		opts.Progress = func(done, total int) {
			if done%every == 0 || done == total {
				mu.Lock()
				fmt.Fprintf(out, "[>] Ready: %d/%d\n", done, total)
				mu.Unlock()
			}
		}
	}
	return opts, nil
}

func newFramesCmd(app *App) *cobra.Command {
	var (
		out   string
		flags exportFlags
	)
	cmd := &cobra.Command{
		Use:   "frames FILE",
		Short: "Render a recipe's day as numbered PNG frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, app)
			if err != nil {
				return err
			}
			logf(cmd, app, "[*] %s | %d frames, %d min/frame", p.RecipeName, opts.Frames, opts.Step)
			if _, err := p.ExportFrames(cmd.Context(), out, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Frames written: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "frames", "Output directory")
	flags.bind(cmd)
	return cmd
}

func newVideoCmd(app *App) *cobra.Command {
	var (
		out     string
		fps     int
		encoder string
		quality int
		ffmpeg  string
		flags   exportFlags
	)
	cmd := &cobra.Command{
		Use:   "video FILE",
		Short: "Render a recipe's day as an H.264 video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, app, args[0])
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, app)
			if err != nil {
				return err
			}
			if fps > 0 {
				opts.FPS = fps
			}
			if encoder != "" {
				opts.Encoder = encoder
			}
			if quality > 0 {
				opts.Quality = quality
			}
			logf(cmd, app, "[*] %s | %d frames @ %d FPS", p.RecipeName, opts.Frames, opts.FPS)
			stats, err := p.ExportVideo(cmd.Context(), out, &render.FFmpegEncoder{Binary: ffmpeg}, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Video saved: %s (%s)\n", out, stats.Encoder)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "output.mp4", "Output video path")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frames per second (default from config, 30)")
	cmd.Flags().StringVar(&encoder, "encoder", "", "H.264 encoder, or auto")
	cmd.Flags().IntVar(&quality, "quality", 0, "Quality (x264 CRF, NVENC CQ, VideoToolbox Q*100 kbit/s)")
	cmd.Flags().StringVar(&ffmpeg, "ffmpeg", envOr("FFMPEG", "ffmpeg"), "ffmpeg binary")
	flags.bind(cmd)
	return cmd
}
