package engine

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/config"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/grid"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/playback"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/render"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/system"
	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

// ExportOptions controls frame and video export.
type ExportOptions struct {
	From    int // first minute
	Step    int // minutes between frames
	Frames  int
	Workers int

	Raster render.Rasterizer

	FPS     int
	Encoder string
	Quality int

	// Progress is called after each finished frame. It may be called from
	// several goroutines.
	Progress func(done, total int)
	Stats    bool
}

// ExportOptionsFromConfig fills export options from settings. The sweep
// starts at midnight.
func ExportOptionsFromConfig(cfg *config.Config) ExportOptions {
	return ExportOptions{
		Step:    cfg.MinutesPerStep,
		Frames:  cfg.Frames,
		Workers: cfg.Workers,
		Raster: render.Rasterizer{
			CellSize:  cfg.CellSize,
			Gap:       cfg.Gap,
			ShowLabel: cfg.ShowLabel,
		},
		FPS:     cfg.FPS,
		Encoder: cfg.VideoEncoder,
		Quality: cfg.Quality,
		Stats:   cfg.Verbose,
	}
}

func (o ExportOptions) validate() error {
	if o.Frames <= 0 {
		return fmt.Errorf("frame count must be positive, got %d", o.Frames)
	}
	if o.Step <= 0 {
		return fmt.Errorf("minutes per frame must be positive, got %d", o.Step)
	}
	if o.Raster.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", o.Raster.CellSize)
	}
	return nil
}

// Stats summarizes one export run.
type Stats struct {
	Frames     int
	Workers    int
	Total      time.Duration
	Resolve    time.Duration
	Rendering  time.Duration
	Encoder    string
	OutputPath string
}

// FPS is the effective frame rate of the run.
func (s Stats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Total.Seconds()
}

// Report formats the run summary.
func (s Stats) Report() string {
	return fmt.Sprintf(
		"--- [EXPORT REPORT] ---\n"+
			"Output: %s\n"+
			"Frames: %d | Workers: %d | Encoder: %s\n"+
			"Total Time: %.2fs\n"+
			"Resolve: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"-----------------------\n",
		s.OutputPath, s.Frames, s.Workers, s.Encoder,
		s.Total.Seconds(), s.Resolve.Seconds(), s.Rendering.Seconds(), s.FPS(),
	)
}

type frameJob struct {
	index  int
	minute int
	grid   grid.Grid
}

// snapshot freezes the timeline so exports are unaffected by later edits.
type snapshot struct {
	frames        []timeline.Keyframe
	width, height int
}

func (s snapshot) Sorted() []timeline.Keyframe { return s.frames }
func (s snapshot) Dimensions() (int, int)      { return s.width, s.height }

func (p *Project) snapshot() snapshot {
	w, h := p.Dimensions()
	return snapshot{frames: p.Store.Sorted(), width: w, height: h}
}

// resolveFrames sweeps the cycle and feeds resolved grids into jobs. It
// closes jobs when done.
func (p *Project) resolveFrames(ctx context.Context, opts ExportOptions, jobs chan<- frameJob, elapsed *time.Duration) error {
	defer close(jobs)
	tl := p.snapshot()
	programs := p.Programs
	start := time.Now()
	err := playback.Sweep(ctx, opts.From, opts.Step, opts.Frames, func(i, minute int) error {
		g, err := timeline.Resolve(minute, tl, programs)
		if err != nil {
			return err
		}
		select {
		case jobs <- frameJob{index: i, minute: minute, grid: g}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	*elapsed = time.Since(start)
	return err
}

// ExportFrames writes one PNG per frame into dir as frame_0000.png and
// onwards.
func (p *Project) ExportFrames(ctx context.Context, dir string, opts ExportOptions) (Stats, error) {
	if err := opts.validate(); err != nil {
		return Stats{}, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Stats{}, fmt.Errorf("create frame dir: %w", err)
	}

	workers := system.WorkerCount(opts.Workers)
	stats := Stats{Frames: opts.Frames, Workers: workers, Encoder: "png", OutputPath: dir}
	w, h := p.Dimensions()
	rect := opts.Raster.Bounds(w, h)

	startTime := time.Now()
	jobs := make(chan frameJob, workers)
	var done, renderNanos atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.resolveFrames(ctx, opts, jobs, &stats.Resolve)
	})
	for range workers {
		g.Go(func() error {
			for job := range jobs {
				t0 := time.Now()
				img := system.GetImage(rect)
				opts.Raster.Draw(img, job.grid, job.minute)
				err := writePNG(filepath.Join(dir, fmt.Sprintf("frame_%04d.png", job.index)), img)
				system.PutImage(img)
				renderNanos.Add(int64(time.Since(t0)))
				if err != nil {
					return fmt.Errorf("frame %d: %w", job.index, err)
				}
				n := int(done.Add(1))
				if opts.Progress != nil {
					opts.Progress(n, opts.Frames)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	stats.Total = time.Since(startTime)
	stats.Rendering = time.Duration(renderNanos.Load())
	if opts.Stats {
		fmt.Print(stats.Report())
	}
	return stats, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportVideo renders the sweep and pipes it into ffmpeg. Frames are
// written in order, so only one goroutine rasterizes while another
// resolves ahead of it.
func (p *Project) ExportVideo(ctx context.Context, path string, enc *render.FFmpegEncoder, opts ExportOptions) (Stats, error) {
	if err := opts.validate(); err != nil {
		return Stats{}, err
	}
	if opts.FPS <= 0 {
		return Stats{}, fmt.Errorf("fps must be positive, got %d", opts.FPS)
	}
	if enc == nil {
		enc = &render.FFmpegEncoder{}
	}
	w, h := p.Dimensions()
	rect := opts.Raster.Bounds(w, h)
	encoder := system.ResolveEncoder(enc.Binary, opts.Encoder)
	stats := Stats{Frames: opts.Frames, Workers: 1, Encoder: encoder, OutputPath: path}

	startTime := time.Now()
	stream, err := enc.Start(ctx, path, render.VideoOptions{
		Width:   rect.Dx(),
		Height:  rect.Dy(),
		FPS:     opts.FPS,
		Encoder: encoder,
		Quality: opts.Quality,
	})
	if err != nil {
		return stats, err
	}

	jobs := make(chan frameJob, 8)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.resolveFrames(gctx, opts, jobs, &stats.Resolve)
	})
	g.Go(func() error {
		img := system.GetImage(rect)
		defer system.PutImage(img)
		n := 0
		for job := range jobs {
			t0 := time.Now()
			opts.Raster.Draw(img, job.grid, job.minute)
			if err := stream.WriteFrame(img); err != nil {
				return fmt.Errorf("frame %d: %w", job.index, err)
			}
			stats.Rendering += time.Since(t0)
			n++
			if opts.Progress != nil {
				opts.Progress(n, opts.Frames)
			}
		}
		return nil
	})
	werr := g.Wait()
	cerr := stream.Close()
	if werr != nil {
		return stats, werr
	}
	if cerr != nil {
		return stats, cerr
	}

	stats.Total = time.Since(startTime)
	if opts.Stats {
		fmt.Print(stats.Report())
	}
	return stats, nil
}
