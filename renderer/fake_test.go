package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/richinsley/luckybolt/graphics"
)

// fakeDevice tracks every GL object it hands out and records calls that
// would touch a dead context.
type fakeDevice struct {
	lost bool

	next     uint32
	shaders  map[graphics.Shader]graphics.ShaderKind
	programs map[graphics.Program]bool
	buffers  map[graphics.Buffer]bool

	createdPrograms int
	createdBuffers  int

	failCompile map[graphics.ShaderKind]bool
	failLink    bool
	missing     map[string]bool

	locations map[string]graphics.UniformLocation
	names     map[graphics.UniformLocation]string
	values    map[string][]float32

	draws     int
	viewports [][4]int
	deadCalls []string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:     make(map[graphics.Shader]graphics.ShaderKind),
		programs:    make(map[graphics.Program]bool),
		buffers:     make(map[graphics.Buffer]bool),
		failCompile: make(map[graphics.ShaderKind]bool),
		missing:     make(map[string]bool),
		locations:   make(map[string]graphics.UniformLocation),
		names:       make(map[graphics.UniformLocation]string),
		values:      make(map[string][]float32),
	}
}

func (d *fakeDevice) id() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) dead(call string) {
	if d.lost {
		d.deadCalls = append(d.deadCalls, call)
	}
}

// reclaim models the driver dropping every object on a real context loss.
func (d *fakeDevice) reclaim() {
	d.shaders = make(map[graphics.Shader]graphics.ShaderKind)
	d.programs = make(map[graphics.Program]bool)
	d.buffers = make(map[graphics.Buffer]bool)
}

func (d *fakeDevice) live() (programs, shaders, buffers int) {
	return len(d.programs), len(d.shaders), len(d.buffers)
}

func (d *fakeDevice) IsContextLost() bool { return d.lost }

func (d *fakeDevice) CreateShader(kind graphics.ShaderKind) (graphics.Shader, error) {
	d.dead("CreateShader")
	s := graphics.Shader(d.id())
	d.shaders[s] = kind
	return s, nil
}

func (d *fakeDevice) CompileShader(s graphics.Shader, source string) error {
	d.dead("CompileShader")
	if d.failCompile[d.shaders[s]] {
		return errors.New("ERROR: 0:1: syntax error")
	}
	return nil
}

func (d *fakeDevice) DeleteShader(s graphics.Shader) {
	d.dead("DeleteShader")
	delete(d.shaders, s)
}

func (d *fakeDevice) CreateProgram() (graphics.Program, error) {
	d.dead("CreateProgram")
	p := graphics.Program(d.id())
	d.programs[p] = true
	d.createdPrograms++
	return p, nil
}

func (d *fakeDevice) LinkProgram(p graphics.Program, vertex, fragment graphics.Shader) error {
	d.dead("LinkProgram")
	if d.failLink {
		return errors.New("link error: varying mismatch")
	}
	return nil
}

func (d *fakeDevice) UseProgram(p graphics.Program) { d.dead("UseProgram") }

func (d *fakeDevice) DeleteProgram(p graphics.Program) {
	d.dead("DeleteProgram")
	delete(d.programs, p)
}

func (d *fakeDevice) CreateBuffer() (graphics.Buffer, error) {
	d.dead("CreateBuffer")
	b := graphics.Buffer(d.id())
	d.buffers[b] = true
	d.createdBuffers++
	return b, nil
}

func (d *fakeDevice) BufferStaticData(b graphics.Buffer, p graphics.Program, attrib string, data []float32) {
	d.dead("BufferStaticData")
}

func (d *fakeDevice) DeleteBuffer(b graphics.Buffer) {
	d.dead("DeleteBuffer")
	delete(d.buffers, b)
}

func (d *fakeDevice) UniformLocation(p graphics.Program, name string) graphics.UniformLocation {
	if d.missing[name] {
		return graphics.NoLocation
	}
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	loc := graphics.UniformLocation(len(d.locations))
	d.locations[name] = loc
	d.names[loc] = name
	return loc
}

func (d *fakeDevice) Uniform1f(loc graphics.UniformLocation, v float32) {
	d.dead("Uniform1f")
	name := d.names[loc]
	d.values[name] = append(d.values[name], v)
}

func (d *fakeDevice) Uniform2f(loc graphics.UniformLocation, x, y float32) {
	d.dead("Uniform2f")
	name := d.names[loc]
	d.values[name] = append(d.values[name], x, y)
}

func (d *fakeDevice) Viewport(x, y, width, height int) {
	d.dead("Viewport")
	d.viewports = append(d.viewports, [4]int{x, y, width, height})
}

func (d *fakeDevice) DrawTriangles(first, count int) {
	d.dead(fmt.Sprintf("DrawTriangles(%d,%d)", first, count))
	d.draws++
}

// fakeSurface is a canvas inside a container with browser-like context
// loss semantics.
type fakeSurface struct {
	dev        *fakeDevice
	acquireErr error

	containerW, containerH int
	clientW, clientH       int
	dpr                    float64

	backingW, backingH int
	displayW, displayH int

	now time.Duration

	nextListener int
	resize       map[int]func()
	lost         map[int]func(*graphics.ContextEvent)
	restored     map[int]func()
	prevented    bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		dev:        newFakeDevice(),
		containerW: 800,
		containerH: 600,
		dpr:        1,
		resize:     make(map[int]func()),
		lost:       make(map[int]func(*graphics.ContextEvent)),
		restored:   make(map[int]func()),
	}
}

func (s *fakeSurface) Acquire() (graphics.Device, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	return s.dev, nil
}

func (s *fakeSurface) ContainerSize() (int, int) { return s.containerW, s.containerH }
func (s *fakeSurface) ClientSize() (int, int)    { return s.clientW, s.clientH }
func (s *fakeSurface) PixelRatio() float64       { return s.dpr }
func (s *fakeSurface) BackingSize() (int, int)   { return s.backingW, s.backingH }
func (s *fakeSurface) Now() time.Duration        { return s.now }

func (s *fakeSurface) SetBackingSize(w, h int) { s.backingW, s.backingH = w, h }
func (s *fakeSurface) SetDisplaySize(w, h int) { s.displayW, s.displayH = w, h }

func (s *fakeSurface) OnResize(fn func()) func() {
	s.nextListener++
	id := s.nextListener
	s.resize[id] = fn
	return func() { delete(s.resize, id) }
}

func (s *fakeSurface) OnContextLost(fn func(*graphics.ContextEvent)) func() {
	s.nextListener++
	id := s.nextListener
	s.lost[id] = fn
	return func() { delete(s.lost, id) }
}

func (s *fakeSurface) OnContextRestored(fn func()) func() {
	s.nextListener++
	id := s.nextListener
	s.restored[id] = fn
	return func() { delete(s.restored, id) }
}

func (s *fakeSurface) listeners() int {
	return len(s.resize) + len(s.lost) + len(s.restored)
}

func (s *fakeSurface) fireResize() {
	for _, fn := range s.resize {
		fn()
	}
}

func (s *fakeSurface) loseContext() {
	s.dev.lost = true
	s.dev.reclaim()
	e := &graphics.ContextEvent{}
	for _, fn := range s.lost {
		fn(e)
	}
	s.prevented = e.DefaultPrevented()
}

func (s *fakeSurface) restoreContext() {
	if !s.prevented {
		return
	}
	s.dev.lost = false
	for _, fn := range s.restored {
		fn()
	}
}
