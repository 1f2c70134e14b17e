package opengl

import (
	"fmt"

	"github.com/gekko3d/shaderlab/render/constants"
	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/pipeline"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// SizeFunc reports the framebuffer size in pixels.
type SizeFunc func() (width, height int)

// Driver draws through an OpenGL 4.1 core context that must be current on
// the calling goroutine.
type Driver struct {
	size       SizeFunc
	transforms [core.TransformKindCount]mgl32.Mat4

	programs map[core.ProgramHandle]*Program
	next     core.ProgramHandle
	fallback *Program
	current  *Program

	meshes   map[*core.Mesh]*gpuMesh
	textures map[*core.Texture]uint32
}

var _ pipeline.Driver = (*Driver)(nil)

// NewDriver loads the GL function pointers and links the fallback program.
func NewDriver(size SizeFunc, fallback Source) (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	d := &Driver{
		size:     size,
		programs: make(map[core.ProgramHandle]*Program),
		meshes:   make(map[*core.Mesh]*gpuMesh),
		textures: make(map[*core.Texture]uint32),
	}
	for i := range d.transforms {
		d.transforms[i] = mgl32.Ident4()
	}

	p, err := LinkProgram(fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback program: %w", err)
	}
	d.fallback = p

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.FrontFace(gl.CCW)
	return d, nil
}

func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// AddProgram links src and returns its handle. On failure the handle is
// core.InvalidProgram and the error is a *ShaderError.
func (d *Driver) AddProgram(src Source) (core.ProgramHandle, error) {
	p, err := LinkProgram(src)
	if err != nil {
		return core.InvalidProgram, err
	}
	h := d.next
	d.next++
	d.programs[h] = p
	return h, nil
}

func (d *Driver) Program(h core.ProgramHandle) (*Program, bool) {
	p, ok := d.programs[h]
	return p, ok
}

func (d *Driver) BeginScene(clear mgl32.Vec4) {
	w, h := d.ScreenSize()
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.DepthMask(true)
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// EndScene unbinds state; presenting the frame is the window's job.
func (d *Driver) EndScene() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	d.current = nil
}

func (d *Driver) ScreenSize() (int, int) {
	if d.size == nil {
		return 0, 0
	}
	return d.size()
}

func (d *Driver) SetTransform(kind core.TransformKind, m mgl32.Mat4) {
	d.transforms[kind] = m
}

func (d *Driver) Transform(kind core.TransformKind) mgl32.Mat4 {
	return d.transforms[kind]
}

func (d *Driver) UseProgram(h core.ProgramHandle) (constants.StageServices, bool) {
	p := d.fallback
	if h != core.InvalidProgram {
		var ok bool
		if p, ok = d.programs[h]; !ok {
			return nil, false
		}
	}
	p.use()
	d.current = p

	if p == d.fallback {
		wvp := d.transforms[core.TransformProjection].Mul4(d.transforms[core.TransformView]).Mul4(d.transforms[core.TransformWorld])
		p.setFloats("WorldViewProjectionMatrix", wvp[:])
	}
	return programServices{p: p}, true
}

func (d *Driver) BindMaterial(m *core.Material) {
	gl.DepthMask(m.ZWriteEnable)
	if m.BackFaceCulling {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	switch m.Blend {
	case core.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case core.BlendAddColor:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
	default:
		gl.Disable(gl.BLEND)
	}

	for slot := 0; slot < core.MaxTextures; slot++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
		tex := m.Texture(slot)
		if tex == nil {
			gl.BindTexture(gl.TEXTURE_2D, 0)
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, d.texture(tex))
	}
	gl.ActiveTexture(gl.TEXTURE0)

	if d.current == d.fallback {
		d.fallback.setFloats("DiffuseMaterialColor", m.DiffuseColor[:])
		inUse := float32(0)
		if m.TextureInUse(0) {
			inUse = 1
		}
		d.fallback.setFloats("Texture0InUse", []float32{inUse})
		d.fallback.setInts("Texture0", []int32{0})
	}
}

func (d *Driver) DrawMesh(node *core.MeshNode) {
	if node.Mesh == nil || len(node.Mesh.Indices) == 0 {
		return
	}
	gm := d.mesh(node.Mesh)
	gl.BindVertexArray(gm.vao)
	gl.DrawElements(gl.TRIANGLES, gm.count, gl.UNSIGNED_INT, nil)
}

func (d *Driver) mesh(m *core.Mesh) *gpuMesh {
	if gm, ok := d.meshes[m]; ok {
		return gm
	}

	gm := &gpuMesh{count: int32(len(m.Indices))}
	vertices := m.Interleaved()

	gl.GenVertexArrays(1, &gm.vao)
	gl.GenBuffers(1, &gm.vbo)
	gl.GenBuffers(1, &gm.ebo)

	gl.BindVertexArray(gm.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(core.VertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	d.meshes[m] = gm
	return gm
}

func (d *Driver) texture(t *core.Texture) uint32 {
	if id, ok := d.textures[t]; ok {
		return id
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	if len(t.Pix) >= t.Width*t.Height*4 && t.Width > 0 && t.Height > 0 {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.Width), int32(t.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.Pix))
	}

	d.textures[t] = id
	return id
}

// Release deletes every GL object the driver created.
func (d *Driver) Release() {
	for m, gm := range d.meshes {
		gl.DeleteVertexArrays(1, &gm.vao)
		gl.DeleteBuffers(1, &gm.vbo)
		gl.DeleteBuffers(1, &gm.ebo)
		delete(d.meshes, m)
	}
	for t, id := range d.textures {
		gl.DeleteTextures(1, &id)
		delete(d.textures, t)
	}
	for h, p := range d.programs {
		p.Delete()
		delete(d.programs, h)
	}
	if d.fallback != nil {
		d.fallback.Delete()
		d.fallback = nil
	}
}
