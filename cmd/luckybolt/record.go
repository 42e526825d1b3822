package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/richinsley/luckybolt/encoder"
	"github.com/richinsley/luckybolt/gldevice"
	"github.com/richinsley/luckybolt/glfwcontext"
	"github.com/richinsley/luckybolt/renderer"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Render the lightning loop to a video file",
	Long: `Render the lightning offscreen at a fixed frame rate and encode it with ffmpeg.
Frames are timed from the frame counter, not the wall clock, so the output is
smooth however slow the GPU is.

Examples:
  luckybolt record
  luckybolt record --duration 5s --fps 60 --output loop.mp4
  luckybolt record --width 480 --height 800 --codec libvpx-vp9 --output loop.webm`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().IntVar(&opts.Width, "width", opts.Width, "Video width")
	recordCmd.Flags().IntVar(&opts.Height, "height", opts.Height, "Video height")
	recordCmd.Flags().Float64Var(&opts.Hue, "hue", opts.Hue, "Lightning hue in degrees")
	recordCmd.Flags().DurationVar(&opts.Duration, "duration", opts.Duration, "Length of the video")
	recordCmd.Flags().IntVar(&opts.FPS, "fps", opts.FPS, "Frames per second")
	recordCmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "Output file")
	recordCmd.Flags().StringVar(&opts.FFmpegPath, "ffmpeg", opts.FFmpegPath, "Path to the ffmpeg binary")
	recordCmd.Flags().StringVar(&opts.Codec, "codec", "", "Video codec (default libx264)")
}

// frameSurface is the hidden window seen through a fixed-size, fixed-clock
// lens: the renderer sees the record size at a pixel ratio of 1 and a clock
// that advances exactly one frame per rendered frame.
type frameSurface struct {
	*glfwcontext.Context
	width, height int
	fps           int
	frame         int
}

func (s *frameSurface) ContainerSize() (int, int) { return s.width, s.height }

func (s *frameSurface) PixelRatio() float64 { return 1 }

func (s *frameSurface) Now() time.Duration {
	return time.Duration(s.frame) * time.Second / time.Duration(s.fps)
}

// frameCount is the number of frames covering d at fps, at least one.
func frameCount(d time.Duration, fps int) int {
	n := int((d*time.Duration(fps) + time.Second - 1) / time.Second)
	return max(n, 1)
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rc := cfg.Record

	if err := glfwcontext.InitGraphics(logger); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics(logger)

	win := cfg.Window
	win.Width, win.Height = rc.Width, rc.Height
	ctx, err := glfwcontext.New(win, windowTitle, false, logger)
	if err != nil {
		return fmt.Errorf("failed to create hidden window: %w", err)
	}
	defer ctx.Shutdown()

	if _, err := ctx.Acquire(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	fbo, err := gldevice.NewOffscreen(rc.Width, rc.Height)
	if err != nil {
		return err
	}
	defer fbo.Destroy()

	rec, err := encoder.NewRecorder(encoder.Options{
		Width:      rc.Width,
		Height:     rc.Height,
		FPS:        rc.FPS,
		Output:     rc.Output,
		FFmpegPath: rc.FFmpeg,
		Codec:      opts.Codec,
		Verbose:    opts.Verbose,
	}, logger)
	if err != nil {
		return err
	}
	if err := rec.Start(); err != nil {
		return err
	}

	surface := &frameSurface{Context: ctx, width: rc.Width, height: rc.Height, fps: rc.FPS}
	params := cfg.Shell().ParamsFor(rc.Width)

	fbo.Bind()
	lightning := renderer.Mount(surface, ctx, params, logger)

	total := frameCount(rc.Duration, rc.FPS)
	logger.Info("rendering", "frames", total, "params", fmt.Sprintf("%+v", params))

	var renderErr error
	for i := 0; i < total; i++ {
		surface.frame = i
		fbo.Bind()
		if ctx.RunFrame() == 0 {
			renderErr = fmt.Errorf("renderer stopped at frame %d", i)
			break
		}
		pixels := make([]byte, fbo.FrameSize())
		if err := fbo.ReadPixels(pixels); err != nil {
			renderErr = err
			break
		}
		if err := rec.SendVideo(&encoder.Frame{Pixels: pixels, PTS: int64(i)}); err != nil {
			renderErr = err
			break
		}
		if (i+1)%rc.FPS == 0 {
			logger.Debug("progress", "frame", i+1, "of", total)
		}
	}
	fbo.Unbind()
	lightning.Unmount()

	if err := rec.Close(); err != nil && renderErr == nil {
		renderErr = err
	}
	if renderErr != nil {
		return renderErr
	}
	logger.Info("recording finished", "output", rc.Output, "frames", total)
	return nil
}
