package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageLink     Stage = "link"
)

// ShaderError is a compile or link failure with the driver's info log.
type ShaderError struct {
	Stage Stage
	Path  string
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s shader %s: %s", e.Stage, e.Path, strings.TrimSpace(e.Log))
	}
	return fmt.Sprintf("%s shader: %s", e.Stage, strings.TrimSpace(e.Log))
}

type uniform struct {
	location int32
	kind     uint32 // GL type enum
	size     int32  // array length, 1 for non-arrays
}

// Program is a linked GLSL program and its active uniforms.
type Program struct {
	Name     string
	id       uint32
	uniforms map[string]uniform
}

type Source struct {
	Name         string
	VertexPath   string
	FragmentPath string
	Vertex       string
	Fragment     string
}

func compileShader(src string, shaderType uint32, stage Stage, path string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, csources, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, &ShaderError{Stage: stage, Path: path, Log: string(log[:logLen])}
	}
	return shader, nil
}

// LinkProgram compiles both stages of src and links them.
func LinkProgram(src Source) (*Program, error) {
	vs, err := compileShader(src.Vertex, gl.VERTEX_SHADER, StageVertex, src.VertexPath)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(src.Fragment, gl.FRAGMENT_SHADER, StageFragment, src.FragmentPath)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, &ShaderError{Stage: StageLink, Path: src.Name, Log: string(log[:logLen])}
	}

	p := &Program{Name: src.Name, id: id}
	p.reflect()
	return p, nil
}

func (p *Program) reflect() {
	var count, maxLen int32
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)

	p.uniforms = make(map[string]uniform, count)
	buf := make([]uint8, maxLen+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var kind uint32
		gl.GetActiveUniform(p.id, uint32(i), maxLen+1, &length, &size, &kind, &buf[0])
		name := string(buf[:length])

		loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
		if loc < 0 {
			continue
		}
		u := uniform{location: loc, kind: kind, size: size}
		p.uniforms[name] = u
		// arrays are reported as "Name[0]"; accept the bare name too
		if base, ok := strings.CutSuffix(name, "[0]"); ok {
			p.uniforms[base] = u
		}
	}
}

// HasUniform reports whether name is an active uniform of p.
func (p *Program) HasUniform(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) use() {
	gl.UseProgram(p.id)
}
