package main

import (
	"fmt"
	"os"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/richinsley/luckybolt/audio"
	"github.com/richinsley/luckybolt/config"
	"github.com/richinsley/luckybolt/glfwcontext"
	"github.com/richinsley/luckybolt/lotto"
	"github.com/richinsley/luckybolt/shell"
)

const windowTitle = "luckybolt"

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive window",
	Long: `Open the lightning window.

Controls:
  S                   - Start
  Space/Enter/Click   - Touch the lightning (once "Touch !" shows), or the current button
  A                   - Again (on the result screen)
  L / R               - Simulate graphics context loss / restore
  Esc                 - Quit

Minimising the window also releases the GPU resources; restoring the window
rebuilds them.

Examples:
  luckybolt
  luckybolt play --width 480 --height 800
  luckybolt play --mute --hue 300`,
	RunE: runPlay,
}

func init() {
	addWindowFlags(playCmd)
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "Window width")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "Window height")
	cmd.Flags().BoolVar(&opts.VSync, "vsync", opts.VSync, "Wait for vertical sync")
	cmd.Flags().BoolVar(&opts.Mute, "mute", opts.Mute, "Disable sound cues")
	cmd.Flags().Float64Var(&opts.Hue, "hue", opts.Hue, "Lightning hue in degrees")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := glfwcontext.InitGraphics(logger); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics(logger)

	ctx, err := glfwcontext.New(cfg.Window, windowTitle, true, logger)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	if _, err := ctx.Acquire(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	cues := newCues(cfg.Audio)
	defer cues.Close()

	stage := shell.NewRendererStage(ctx, ctx, logger)
	sh := shell.New(cfg.Shell(), stage, cues, lotto.NewRand(opts.Seed), logger)
	sh.AddObserver(&windowObserver{ctx: ctx, shell: sh})
	defer sh.Close()

	width, _ := ctx.ContainerSize()
	sh.Resize(width)
	ctx.OnResize(func() {
		width, _ := ctx.ContainerSize()
		sh.Resize(width)
	})

	primary := func() {
		switch sh.State() {
		case shell.Idle:
			sh.Start()
		case shell.WaitingForTouch:
			sh.Touch()
		case shell.ShowingResult:
			sh.Again()
		}
	}
	ctx.OnClick(primary)
	ctx.RegisterKeyCallback(glfw.KeySpace, primary)
	ctx.RegisterKeyCallback(glfw.KeyEnter, primary)
	ctx.RegisterKeyCallback(glfw.KeyS, sh.Start)
	ctx.RegisterKeyCallback(glfw.KeyA, sh.Again)
	ctx.RegisterKeyCallback(glfw.KeyL, ctx.LoseContext)
	ctx.RegisterKeyCallback(glfw.KeyR, ctx.RestoreContext)

	ctx.SetTitle(titleFor(sh))
	logger.Info("Starting interactive render loop...")

	opacity := float32(1)
	for !ctx.ShouldClose() {
		sh.Advance(ctx.Now())

		if fade := float32(sh.Fade()); fade != opacity {
			opacity = fade
			ctx.SetOpacity(opacity)
		}
		if dev := ctx.Device(); dev != nil && !ctx.IsLost() {
			if sh.State() == shell.Idle || sh.State() == shell.Generating || sh.State() == shell.ShowingResult {
				dev.Clear(0.06, 0.09, 0.16)
			} else {
				dev.Clear(0, 0, 0)
			}
		}
		ctx.EndFrame()
	}
	return nil
}

// cueCloser is a shell.Cues that owns an output device.
type cueCloser interface {
	shell.Cues
	Close() error
}

// newCues opens the audio output and loads every configured cue. Any
// failure falls back to silence.
func newCues(cfg config.AudioConfig) cueCloser {
	if !cfg.Enabled {
		return audio.NewNullPlayer(logger)
	}
	player, err := audio.NewPlayer(cfg.SampleRate, cfg.Declick, logger)
	if err != nil {
		logger.Warn("audio disabled", "error", err)
		return audio.NewNullPlayer(logger)
	}
	for _, cue := range []shell.Cue{shell.CueInit, shell.CueGogogo, shell.CueFinal} {
		path, ok := cfg.CuePath(string(cue))
		if !ok {
			continue
		}
		if err := player.Load(cue, path); err != nil {
			logger.Warn("cue unavailable", "cue", cue, "error", err)
		}
	}
	if err := player.Start(); err != nil {
		logger.Warn("audio disabled", "error", err)
		player.Close()
		return audio.NewNullPlayer(logger)
	}
	return player
}

// windowObserver mirrors the shell into the window title and prints each
// finished draw.
type windowObserver struct {
	ctx   *glfwcontext.Context
	shell *shell.Shell
}

func (w *windowObserver) StateChanged(from, to shell.State) {
	logger.Debug("state changed", "from", from, "to", to)
	w.ctx.SetTitle(titleFor(w.shell))
}

func (w *windowObserver) GuideChanged(visible bool) {
	w.ctx.SetTitle(titleFor(w.shell))
}

func (w *windowObserver) DrawReady(d lotto.Draw) {
	fmt.Fprintln(os.Stdout, lotto.Ticket(d))
	w.ctx.SetTitle(titleFor(w.shell))
}

func titleFor(sh *shell.Shell) string {
	switch sh.State() {
	case shell.Idle:
		return windowTitle + " - press S to start"
	case shell.WaitingForTouch:
		if sh.GuideVisible() {
			return windowTitle + " - Touch !"
		}
		return windowTitle
	case shell.Generating:
		return windowTitle + " - generating numbers..."
	case shell.ShowingResult:
		if d, ok := sh.Result(); ok {
			return fmt.Sprintf("%s - %s (A for again)", windowTitle, d)
		}
	}
	return windowTitle
}
