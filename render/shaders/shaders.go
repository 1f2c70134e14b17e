package shaders

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed *.glsl
var Files embed.FS

// Variants are the shader sets the demo loads, in scene order.
var Variants = []string{"Basic", "Lambert", "Phong"}

const Fallback = "Fallback"

func VertexFile(name string) string {
	return name + "VertexShader.glsl"
}

func FragmentFile(name string) string {
	return name + "FragmentShader.glsl"
}

// Source returns the embedded vertex and fragment sources for name.
func Source(name string) (vert, frag string, err error) {
	return SourceFrom(Files, name)
}

// SourceFrom reads a variant's pair of files from fsys.
func SourceFrom(fsys fs.FS, name string) (vert, frag string, err error) {
	v, err := readFile(fsys, VertexFile(name))
	if err != nil {
		return "", "", err
	}
	f, err := readFile(fsys, FragmentFile(name))
	if err != nil {
		return "", "", err
	}
	return v, f, nil
}

func readFile(fsys fs.FS, path string) (string, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("shaders: %w", err)
	}
	return string(b), nil
}
