package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"

	"golang.org/x/image/draw"
)

// VideoOptions configures an H.264 encode.
type VideoOptions struct {
	Width   int
	Height  int
	FPS     int
	Encoder string
	Quality int
}

// FFmpegEncoder streams raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	Binary string
}

// Stream is a running encode. Frames must all have the size given in
// VideoOptions.
type Stream struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	log   bytes.Buffer
	size  image.Rectangle
}

// Start launches ffmpeg writing to path.
func (e *FFmpegEncoder) Start(ctx context.Context, path string, opts VideoOptions) (*Stream, error) {
	bin := e.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	s := &Stream{size: image.Rect(0, 0, opts.Width, opts.Height)}
	s.cmd = exec.CommandContext(ctx, bin, buildFFmpegArgs(path, opts)...)
	s.cmd.Stdout = &s.log
	s.cmd.Stderr = &s.log

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	s.stdin = stdin

	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return s, nil
}

// WriteFrame sends one frame.
func (s *Stream) WriteFrame(img image.Image) error {
	if img.Bounds().Size() != s.size.Size() {
		return fmt.Errorf("frame size %v, want %v", img.Bounds().Size(), s.size.Size())
	}
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

// Close finishes the encode and waits for ffmpeg.
func (s *Stream) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, s.log.String())
	}
	return nil
}

func buildFFmpegArgs(path string, opts VideoOptions) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", opts.Encoder,
	}

	// Quality depends on the encoder
	switch opts.Encoder {
	case "h264_videotoolbox":
		bitrate := opts.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", opts.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", opts.Quality), "-preset", "medium")
	}

	return append(args, path)
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
