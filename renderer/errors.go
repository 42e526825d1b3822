package renderer

import "errors"

var (
	ErrContextUnavailable = errors.New("graphics context unavailable")
	ErrShaderCompile      = errors.New("shader compile failed")
	ErrProgramLink        = errors.New("program link failed")
	ErrContextLost        = errors.New("graphics context lost")
)
