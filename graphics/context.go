package graphics

import "time"

// Context defines the interface for a window-backed OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
}

// ContextEvent is delivered to context-loss listeners. A listener that wants
// a later restore notification must call PreventDefault, otherwise the
// surface treats the loss as final.
type ContextEvent struct {
	prevented bool
}

func (e *ContextEvent) PreventDefault() { e.prevented = true }

func (e *ContextEvent) DefaultPrevented() bool { return e.prevented }

// Surface is the drawable target a renderer mounts into: a backing store
// inside a container box, plus the event sources a renderer listens on.
type Surface interface {
	// Acquire returns the rendering device bound to this surface, or an
	// error when no GL-class context can be created.
	Acquire() (Device, error)

	// ContainerSize is the layout box of the surface's container in
	// unscaled (display) units. Zero means "no layout yet".
	ContainerSize() (int, int)
	// ClientSize is the surface's own layout box in display units.
	ClientSize() (int, int)
	// PixelRatio maps display units to backing-store pixels.
	PixelRatio() float64

	SetBackingSize(width, height int)
	BackingSize() (int, int)
	SetDisplaySize(width, height int)

	// Now is a monotonic timestamp with an arbitrary origin.
	Now() time.Duration

	// The On* methods register a listener and return its detach function.
	OnResize(fn func()) (detach func())
	OnContextLost(fn func(*ContextEvent)) (detach func())
	OnContextRestored(fn func()) (detach func())
}
