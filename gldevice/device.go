package gldevice

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/luckybolt/graphics"
	"github.com/richinsley/luckybolt/translator"
)

// Package-level so gl.Init runs only once per process.
var glInitOnce sync.Once

// Init loads the OpenGL function pointers. A context must be current.
func Init() error {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return nil
}

// Device implements graphics.Device on a desktop OpenGL 4.1 core context.
// Fragment sources are WebGL2 GLSL and are translated before compiling.
type Device struct {
	lost func() bool

	kinds    map[graphics.Shader]graphics.ShaderKind
	shaders  map[graphics.Shader]*translator.Translated
	programs map[graphics.Program]*translator.Translated
	vaos     map[graphics.Buffer]uint32
	bound    map[graphics.Program]uint32
}

// New returns a Device for the current context. lost reports whether the
// owning surface considers the context lost; nil means never.
func New(lost func() bool) (*Device, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	if lost == nil {
		lost = func() bool { return false }
	}
	return &Device{
		lost:     lost,
		kinds:    make(map[graphics.Shader]graphics.ShaderKind),
		shaders:  make(map[graphics.Shader]*translator.Translated),
		programs: make(map[graphics.Program]*translator.Translated),
		vaos:     make(map[graphics.Buffer]uint32),
		bound:    make(map[graphics.Program]uint32),
	}, nil
}

func (d *Device) IsContextLost() bool { return d.lost() }

func (d *Device) CreateShader(kind graphics.ShaderKind) (graphics.Shader, error) {
	var glKind uint32 = gl.VERTEX_SHADER
	if kind == graphics.FragmentShader {
		glKind = gl.FRAGMENT_SHADER
	}
	s := graphics.Shader(gl.CreateShader(glKind))
	if s == 0 {
		return 0, errors.New("failed to create shader object")
	}
	d.kinds[s] = kind
	return s, nil
}

func (d *Device) CompileShader(s graphics.Shader, source string) error {
	if d.kinds[s] == graphics.FragmentShader {
		tr, err := translator.TranslateFragment(source)
		if err != nil {
			return err
		}
		d.shaders[s] = tr
		source = tr.Code
	}

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csources, nil)
	free()
	gl.CompileShader(uint32(s))

	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(uint32(s), logLength, nil, gl.Str(logText))
		return fmt.Errorf("failed to compile shader: %v", strings.TrimRight(logText, "\x00"))
	}
	return nil
}

func (d *Device) DeleteShader(s graphics.Shader) {
	gl.DeleteShader(uint32(s))
	delete(d.kinds, s)
	delete(d.shaders, s)
}

func (d *Device) CreateProgram() (graphics.Program, error) {
	p := graphics.Program(gl.CreateProgram())
	if p == 0 {
		return 0, errors.New("failed to create GL program")
	}
	return p, nil
}

func (d *Device) LinkProgram(p graphics.Program, vertex, fragment graphics.Shader) error {
	gl.AttachShader(uint32(p), uint32(vertex))
	gl.AttachShader(uint32(p), uint32(fragment))
	gl.LinkProgram(uint32(p))

	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(uint32(p), logLength, nil, gl.Str(logText))
		return fmt.Errorf("failed to link program: %v", strings.TrimRight(logText, "\x00"))
	}
	d.programs[p] = d.shaders[fragment]
	return nil
}

// UseProgram also binds the vertex array the program's quad lives in.
func (d *Device) UseProgram(p graphics.Program) {
	gl.UseProgram(uint32(p))
	if vao, ok := d.bound[p]; ok {
		gl.BindVertexArray(vao)
	}
}

func (d *Device) DeleteProgram(p graphics.Program) {
	gl.DeleteProgram(uint32(p))
	delete(d.programs, p)
	delete(d.bound, p)
}

// CreateBuffer returns a vertex buffer together with the vertex array
// object a core profile needs to source attributes from it.
func (d *Device) CreateBuffer() (graphics.Buffer, error) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	if vao == 0 || vbo == 0 {
		gl.DeleteVertexArrays(1, &vao)
		gl.DeleteBuffers(1, &vbo)
		return 0, errors.New("failed to create vertex buffer")
	}
	d.vaos[graphics.Buffer(vbo)] = vao
	return graphics.Buffer(vbo), nil
}

func (d *Device) BufferStaticData(b graphics.Buffer, p graphics.Program, attrib string, data []float32) {
	vao := d.vaos[b]
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	loc := gl.GetAttribLocation(uint32(p), gl.Str(attrib+"\x00"))
	if loc >= 0 {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	d.bound[p] = vao
}

func (d *Device) DeleteBuffer(b graphics.Buffer) {
	vbo := uint32(b)
	gl.DeleteBuffers(1, &vbo)
	if vao, ok := d.vaos[b]; ok {
		gl.DeleteVertexArrays(1, &vao)
		delete(d.vaos, b)
		for p, bound := range d.bound {
			if bound == vao {
				delete(d.bound, p)
			}
		}
	}
}

// UniformLocation resolves a uniform by its source name, following the
// translator's renaming when the fragment stage was translated.
func (d *Device) UniformLocation(p graphics.Program, name string) graphics.UniformLocation {
	if tr := d.programs[p]; tr != nil {
		name = tr.MappedName(name)
	}
	return graphics.UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) Uniform1f(loc graphics.UniformLocation, v float32) {
	gl.Uniform1f(int32(loc), v)
}

func (d *Device) Uniform2f(loc graphics.UniformLocation, x, y float32) {
	gl.Uniform2f(int32(loc), x, y)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) DrawTriangles(first, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

// Clear fills the bound framebuffer with an opaque colour. Used by the shell
// while no renderer is mounted.
func (d *Device) Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
