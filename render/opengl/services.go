package opengl

import (
	"github.com/gekko3d/shaderlab/render/constants"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// programServices uploads to the currently bound program. GLSL programs share
// one uniform namespace across stages, so both stage setters write the same slot.
type programServices struct {
	p *Program
}

var _ constants.StageServices = programServices{}

func (s programServices) SetVertexFloats(name string, v []float32) { s.p.setFloats(name, v) }
func (s programServices) SetFragmentFloats(name string, v []float32) { s.p.setFloats(name, v) }
func (s programServices) SetVertexInts(name string, v []int32) { s.p.setInts(name, v) }
func (s programServices) SetFragmentInts(name string, v []int32) { s.p.setInts(name, v) }

// components returns the float count of one element of a GL uniform type,
// or 0 when the type does not take float uploads.
func components(kind uint32) int32 {
	switch kind {
	case gl.FLOAT:
		return 1
	case gl.FLOAT_VEC2:
		return 2
	case gl.FLOAT_VEC3:
		return 3
	case gl.FLOAT_VEC4:
		return 4
	case gl.FLOAT_MAT3:
		return 9
	case gl.FLOAT_MAT4:
		return 16
	}
	return 0
}

func isIntKind(kind uint32) bool {
	switch kind {
	case gl.INT, gl.BOOL, gl.SAMPLER_2D, gl.SAMPLER_CUBE:
		return true
	}
	return false
}

// Unknown names, empty payloads and type mismatches are ignored.
func (p *Program) setFloats(name string, v []float32) {
	u, ok := p.uniforms[name]
	if !ok || len(v) == 0 {
		return
	}
	n := components(u.kind)
	if n == 0 {
		return
	}
	count := int32(len(v)) / n
	if count > u.size {
		count = u.size
	}
	if count == 0 {
		return
	}
	switch u.kind {
	case gl.FLOAT:
		gl.Uniform1fv(u.location, count, &v[0])
	case gl.FLOAT_VEC2:
		gl.Uniform2fv(u.location, count, &v[0])
	case gl.FLOAT_VEC3:
		gl.Uniform3fv(u.location, count, &v[0])
	case gl.FLOAT_VEC4:
		gl.Uniform4fv(u.location, count, &v[0])
	case gl.FLOAT_MAT3:
		gl.UniformMatrix3fv(u.location, count, false, &v[0])
	case gl.FLOAT_MAT4:
		gl.UniformMatrix4fv(u.location, count, false, &v[0])
	}
}

func (p *Program) setInts(name string, v []int32) {
	u, ok := p.uniforms[name]
	if !ok || len(v) == 0 || !isIntKind(u.kind) {
		return
	}
	count := int32(len(v))
	if count > u.size {
		count = u.size
	}
	gl.Uniform1iv(u.location, count, &v[0])
}
