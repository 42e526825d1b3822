package renderer

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/richinsley/luckybolt/graphics"
)

// Params are the five scalars the lightning shader is driven by.
type Params struct {
	Hue       float32 // degrees, 0-360 expected
	XOffset   float32
	Speed     float32 // time multiplier
	Intensity float32 // brightness multiplier
	Size      float32 // noise-field scale
}

// State of the renderer's graphics session.
type State int

const (
	// Stopped: not mounted, or mounted without a session (setup failed).
	Stopped State = iota
	Active
	Lost
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Active:
		return "active"
	case Lost:
		return "lost"
	}
	return "unknown"
}

// Lightning renders the lightning shader into a surface. It is fully
// self-managing once mounted: it resizes with the surface, survives context
// loss, and tears itself down on Unmount. All methods must be called on the
// thread that owns the surface.
type Lightning struct {
	surface   graphics.Surface
	scheduler graphics.FrameScheduler
	params    Params
	logger    *log.Logger

	mounted bool
	s       session
}

// Mount creates a renderer on surface and starts its render loop. Failures
// are logged and leave the surface blank; Mount never fails.
func Mount(surface graphics.Surface, scheduler graphics.FrameScheduler, params Params, logger *log.Logger) *Lightning {
	if logger == nil {
		logger = log.Default()
	}
	l := &Lightning{
		surface:   surface,
		scheduler: scheduler,
		params:    params,
		logger:    logger.WithPrefix("lightning"),
	}
	l.mount()
	return l
}

func (l *Lightning) mount() {
	l.mounted = true
	l.s = session{}
	if err := l.setup(); errors.Is(err, ErrContextLost) {
		l.s.state = Lost
		l.logger.Warn("mounted while the graphics context is lost", "error", err)
	} else if err != nil {
		l.logger.Error("session setup failed", "error", err)
	}
	l.s.detachLost = l.surface.OnContextLost(l.handleContextLost)
	l.s.detachRestored = l.surface.OnContextRestored(l.handleContextRestored)
}

// Update applies new parameters. Any change tears the session down and
// mounts a fresh one; identical parameters are a no-op.
func (l *Lightning) Update(params Params) {
	if l.mounted && params == l.params {
		return
	}
	l.Unmount()
	l.params = params
	l.mount()
}

// Unmount stops the loop, releases every GPU object the session created and
// detaches all listeners. Calling it twice is harmless.
func (l *Lightning) Unmount() {
	if !l.mounted {
		return
	}
	l.mounted = false
	l.s.running = false
	l.detachResize()
	l.cancelFrame()
	l.releaseObjects()
	if l.s.detachLost != nil {
		l.s.detachLost()
		l.s.detachLost = nil
	}
	if l.s.detachRestored != nil {
		l.s.detachRestored()
		l.s.detachRestored = nil
	}
	l.s.state = Stopped
	l.s.dev = nil
}

// Params returns the parameters of the current session.
func (l *Lightning) Params() Params { return l.params }

// State reports where the context-loss state machine is.
func (l *Lightning) State() State { return l.s.state }

// Running reports whether the render loop is scheduling frames.
func (l *Lightning) Running() bool { return l.s.running }

// Mounted is true between Mount and Unmount.
func (l *Lightning) Mounted() bool { return l.mounted }

func (l *Lightning) detachResize() {
	if l.s.detachResize != nil {
		l.s.detachResize()
		l.s.detachResize = nil
	}
}

func (l *Lightning) cancelFrame() {
	if l.s.frame != 0 {
		l.scheduler.CancelFrame(l.s.frame)
		l.s.frame = 0
	}
}
