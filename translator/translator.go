package translator

import (
	"context"
	"fmt"

	gst "github.com/richinsley/goshadertranslator"
)

var translator *gst.ShaderTranslator

func GetTranslator() (*gst.ShaderTranslator, error) {
	if translator == nil {
		t, err := gst.NewShaderTranslator(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create shader translator: %w", err)
		}
		translator = t
	}
	return translator, nil
}

// Translated is a desktop-GL shader together with the names the translator
// gave to the uniforms of the original source.
type Translated struct {
	Code     string
	Uniforms map[string]string
}

// MappedName returns the translated name of a uniform, or the name itself
// when the translator left it untouched.
func (t *Translated) MappedName(name string) string {
	if mapped, ok := t.Uniforms[name]; ok && mapped != "" {
		return mapped
	}
	return name
}

// TranslateFragment converts a WebGL2 fragment source into GLSL 330.
func TranslateFragment(source string) (*Translated, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, err
	}
	out, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL330)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}
	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &Translated{Code: out.Code, Uniforms: names}, nil
}
