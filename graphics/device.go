package graphics

// Handles are opaque to callers. Zero is never a valid object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// UniformLocation is -1 when the uniform does not exist in the program.
type UniformLocation int32

const NoLocation UniformLocation = -1

func (l UniformLocation) Valid() bool { return l >= 0 }

type ShaderKind int

const (
	VertexShader ShaderKind = iota
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "VERTEX"
	case FragmentShader:
		return "FRAGMENT"
	}
	return "UNKNOWN"
}

// Device is the subset of a GL-class API the lightning renderer needs.
// Implementations are not safe for concurrent use; every call happens on
// the thread that owns the context.
type Device interface {
	IsContextLost() bool

	CreateShader(kind ShaderKind) (Shader, error)
	// CompileShader returns the compiler's info log as the error on failure.
	CompileShader(s Shader, source string) error
	DeleteShader(s Shader)

	CreateProgram() (Program, error)
	// LinkProgram attaches both stages and links. The link log is returned
	// as the error on failure.
	LinkProgram(p Program, vertex, fragment Shader) error
	UseProgram(p Program)
	DeleteProgram(p Program)

	CreateBuffer() (Buffer, error)
	// BufferStaticData uploads data to b and binds it to the program's vec2
	// attribute with the given name.
	BufferStaticData(b Buffer, p Program, attrib string, data []float32)
	DeleteBuffer(b Buffer)

	UniformLocation(p Program, name string) UniformLocation
	Uniform1f(loc UniformLocation, v float32)
	Uniform2f(loc UniformLocation, x, y float32)

	Viewport(x, y, width, height int)
	DrawTriangles(first, count int)
}
