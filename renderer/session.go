package renderer

import (
	"fmt"

	"github.com/richinsley/luckybolt/graphics"
	"github.com/richinsley/luckybolt/shader"
)

// session is the mutable state of one mounted renderer. Only the renderer
// touches it, and only through mount/setup/teardown and the context-loss
// handlers.
type session struct {
	dev     graphics.Device
	state   State
	running bool
	frame   graphics.FrameID
	clock   FrameClock
	gpu     *gpuObjects

	detachResize   func()
	detachLost     func()
	detachRestored func()
}

type uniforms struct {
	resolution graphics.UniformLocation
	time       graphics.UniformLocation
	hue        graphics.UniformLocation
	xOffset    graphics.UniformLocation
	speed      graphics.UniformLocation
	intensity  graphics.UniformLocation
	size       graphics.UniformLocation
}

// gpuObjects are created together and released together.
type gpuObjects struct {
	vertex   graphics.Shader
	fragment graphics.Shader
	program  graphics.Program
	buffer   graphics.Buffer
	loc      uniforms
}

// setup acquires the device, builds the GPU objects, sizes the surface and
// schedules the first frame. On failure nothing is left allocated.
func (l *Lightning) setup() error {
	if l.s.detachResize == nil {
		l.s.detachResize = l.surface.OnResize(l.resize)
	}

	dev, err := l.surface.Acquire()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	if dev.IsContextLost() {
		return ErrContextLost
	}
	l.s.dev = dev

	objs, err := newGPUObjects(dev)
	if err != nil {
		l.detachResize()
		return err
	}
	l.s.gpu = objs
	l.s.clock = NewFrameClock(l.surface.Now())

	l.resize()
	l.s.running = true
	l.s.state = Active
	l.cancelFrame()
	l.s.frame = l.scheduler.RequestFrame(l.tick)
	return nil
}

// releaseObjects deletes the session's GPU objects while the device is
// still live. After a real loss the driver has already reclaimed them, so
// only the handles are dropped.
func (l *Lightning) releaseObjects() {
	if l.s.gpu == nil {
		return
	}
	if dev := l.s.dev; dev != nil && !dev.IsContextLost() {
		l.s.gpu.release(dev)
	}
	l.s.gpu = nil
}

func newGPUObjects(dev graphics.Device) (*gpuObjects, error) {
	vs, err := compileShader(dev, graphics.VertexShader, shader.GenerateVertexShader(false))
	if err != nil {
		return nil, err
	}
	fs, err := compileShader(dev, graphics.FragmentShader, shader.GetFragmentShader())
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}

	program, err := dev.CreateProgram()
	if err != nil {
		dev.DeleteShader(vs)
		dev.DeleteShader(fs)
		return nil, fmt.Errorf("%w: failed to create program: %v", ErrProgramLink, err)
	}
	if err := dev.LinkProgram(program, vs, fs); err != nil {
		dev.DeleteProgram(program)
		dev.DeleteShader(vs)
		dev.DeleteShader(fs)
		return nil, fmt.Errorf("%w: %v", ErrProgramLink, err)
	}
	dev.UseProgram(program)

	buffer, err := dev.CreateBuffer()
	if err != nil {
		dev.DeleteProgram(program)
		dev.DeleteShader(vs)
		dev.DeleteShader(fs)
		return nil, fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	dev.BufferStaticData(buffer, program, shader.AttribPosition, shader.QuadVertices)

	return &gpuObjects{
		vertex:   vs,
		fragment: fs,
		program:  program,
		buffer:   buffer,
		loc: uniforms{
			resolution: dev.UniformLocation(program, shader.UniformResolution),
			time:       dev.UniformLocation(program, shader.UniformTime),
			hue:        dev.UniformLocation(program, shader.UniformHue),
			xOffset:    dev.UniformLocation(program, shader.UniformXOffset),
			speed:      dev.UniformLocation(program, shader.UniformSpeed),
			intensity:  dev.UniformLocation(program, shader.UniformIntensity),
			size:       dev.UniformLocation(program, shader.UniformSize),
		},
	}, nil
}

func (o *gpuObjects) release(dev graphics.Device) {
	dev.DeleteProgram(o.program)
	dev.DeleteShader(o.vertex)
	dev.DeleteShader(o.fragment)
	dev.DeleteBuffer(o.buffer)
}

func compileShader(dev graphics.Device, kind graphics.ShaderKind, source string) (graphics.Shader, error) {
	s, err := dev.CreateShader(kind)
	if err != nil {
		return 0, fmt.Errorf("%w (%s): failed to create shader object: %v", ErrShaderCompile, kind, err)
	}
	if err := dev.CompileShader(s, source); err != nil {
		dev.DeleteShader(s)
		return 0, fmt.Errorf("%w (%s): %v", ErrShaderCompile, kind, err)
	}
	return s, nil
}
