package glfwcontext

import (
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/luckybolt/config"
	"github.com/richinsley/luckybolt/gldevice"
	"github.com/richinsley/luckybolt/graphics"
)

// Context is a GLFW window acting as the renderer's surface and frame
// scheduler. Minimising the window counts as a context loss: GPU objects are
// released while the window is iconified and rebuilt when it comes back.
type Context struct {
	window *glfw.Window
	frames *graphics.FrameQueue
	device *gldevice.Device
	logger *log.Logger

	loss *graphics.ContextLoss

	backingW, backingH int
	displayW, displayH int

	nextListener int
	resize       map[int]func()

	// A map to store functions to be called on key presses.
	keyCallbacks   map[glfw.Key]func()
	clickCallbacks []func()
}

// New creates and initializes a new GLFW window and returns a Context object.
func New(opts config.WindowConfig, title string, visible bool, logger *log.Logger) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &Context{
		window:       win,
		frames:       graphics.NewFrameQueue(),
		logger:       logger.WithPrefix("glfw"),
		loss:         graphics.NewContextLoss(),
		resize:       make(map[int]func()),
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) { c.dispatchResize() })
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if iconified {
			c.LoseContext()
		} else {
			c.RestoreContext()
		}
	})

	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// OnClick registers a function called on every left mouse button press.
func (c *Context) OnClick(f func()) {
	c.clickCallbacks = append(c.clickCallbacks, f)
}

// glfwKeyCallback is the function that will be called by GLFW on a key event.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}
	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}
	for _, f := range c.clickCallbacks {
		f()
	}
}

// ── graphics.Surface ──

func (c *Context) Acquire() (graphics.Device, error) {
	if c.device == nil {
		c.window.MakeContextCurrent()
		dev, err := gldevice.New(c.loss.IsLost)
		if err != nil {
			return nil, err
		}
		c.device = dev
	}
	return c.device, nil
}

// Device returns the GL device once Acquire has succeeded.
func (c *Context) Device() *gldevice.Device {
	return c.device
}

func (c *Context) ContainerSize() (int, int) {
	return c.window.GetSize()
}

func (c *Context) ClientSize() (int, int) {
	return c.displayW, c.displayH
}

// PixelRatio is framebuffer pixels per window unit, the GLFW equivalent of
// a device pixel ratio.
func (c *Context) PixelRatio() float64 {
	fbWidth, _ := c.window.GetFramebufferSize()
	winWidth, _ := c.window.GetSize()
	if fbWidth <= 0 || winWidth <= 0 {
		return 1
	}
	return float64(fbWidth) / float64(winWidth)
}

func (c *Context) SetBackingSize(width, height int) {
	c.backingW, c.backingH = width, height
}

func (c *Context) BackingSize() (int, int) {
	return c.backingW, c.backingH
}

// SetDisplaySize records the display box. The window itself is sized by the
// user, so this never resizes it.
func (c *Context) SetDisplaySize(width, height int) {
	c.displayW, c.displayH = width, height
}

func (c *Context) Now() time.Duration {
	return time.Duration(glfw.GetTime() * float64(time.Second))
}

func (c *Context) OnResize(fn func()) func() {
	c.nextListener++
	id := c.nextListener
	c.resize[id] = fn
	return func() { delete(c.resize, id) }
}

func (c *Context) OnContextLost(fn func(*graphics.ContextEvent)) func() {
	return c.loss.OnLost(fn)
}

func (c *Context) OnContextRestored(fn func()) func() {
	return c.loss.OnRestored(fn)
}

func (c *Context) dispatchResize() {
	for _, fn := range snapshot(c.resize) {
		fn()
	}
}

// LoseContext simulates a context loss. Listeners run while the GL context
// is still usable so they can delete their objects.
func (c *Context) LoseContext() {
	if c.loss.Lose() {
		c.logger.Debug("context lost")
	}
}

// RestoreContext brings the context back. Listeners are only told when a
// loss listener prevented the default; the window is usable again either
// way.
func (c *Context) RestoreContext() {
	if !c.loss.IsLost() {
		return
	}
	if c.loss.Restore() {
		c.logger.Debug("context restored")
	} else {
		c.logger.Debug("context restored without listeners")
	}
}

func (c *Context) IsLost() bool { return c.loss.IsLost() }

// ── graphics.FrameScheduler ──

func (c *Context) RequestFrame(cb func()) graphics.FrameID {
	return c.frames.RequestFrame(cb)
}

func (c *Context) CancelFrame(id graphics.FrameID) {
	c.frames.CancelFrame(id)
}

// ── graphics.Context ──

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown only destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// EndFrame runs the frame callbacks, presents and pumps events. Resize,
// iconify and input callbacks are delivered from PollEvents on this thread.
func (c *Context) EndFrame() {
	c.RunFrame()
	if !c.loss.IsLost() {
		c.window.SwapBuffers()
	}
	glfw.PollEvents()
}

// RunFrame runs the pending frame callbacks without presenting. Offscreen
// rendering drives frames with it directly.
func (c *Context) RunFrame() int {
	return c.frames.RunFrame()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// SetOpacity sets the whole window's opacity where the platform supports it.
func (c *Context) SetOpacity(opacity float32) {
	c.window.SetOpacity(opacity)
}

// Window returns the underlying *glfw.Window.
func (c *Context) Window() *glfw.Window {
	return c.window
}

func snapshot[F any](m map[int]F) []F {
	out := make([]F, 0, len(m))
	for _, fn := range m {
		out = append(out, fn)
	}
	return out
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics(logger *log.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	logger.Debug("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics(logger *log.Logger) {
	glfw.Terminate()
	logger.Debug("GLFW terminated")
}
