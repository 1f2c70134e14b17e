package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxTextures is the number of texture slots a material carries.
const MaxTextures = 8

// ProgramHandle identifies a linked shader program owned by the render backend.
type ProgramHandle int32

// InvalidProgram marks a material whose shader failed to load; it is drawn
// with the backend's fallback program and receives no constant callback.
const InvalidProgram ProgramHandle = -1

type BlendMode uint32

const (
	BlendNone BlendMode = iota
	BlendAddColor
	BlendAlpha
)

type Texture struct {
	Name   string
	Width  int
	Height int
	Pix    []uint8 // RGBA8, row major
}

type Material struct {
	Program  ProgramHandle
	UserData int

	Shininess          float32
	Lighting           bool
	ZWriteEnable       bool
	BackFaceCulling    bool
	Blend              BlendMode
	MaterialTypeParam  float32
	MaterialTypeParam2 float32
	Thickness          float32

	AmbientColor  mgl32.Vec4
	DiffuseColor  mgl32.Vec4
	SpecularColor mgl32.Vec4
	EmissiveColor mgl32.Vec4

	Textures        [MaxTextures]*Texture
	TextureMatrices [MaxTextures]mgl32.Mat4
}

func NewMaterial() Material {
	m := Material{
		Program:         InvalidProgram,
		Lighting:        true,
		ZWriteEnable:    true,
		BackFaceCulling: true,
		Thickness:       1,
		AmbientColor:    mgl32.Vec4{1, 1, 1, 1},
		DiffuseColor:    mgl32.Vec4{1, 1, 1, 1},
		SpecularColor:   mgl32.Vec4{1, 1, 1, 1},
		EmissiveColor:   mgl32.Vec4{0, 0, 0, 0},
	}
	for i := range m.TextureMatrices {
		m.TextureMatrices[i] = mgl32.Ident4()
	}
	return m
}

func (m *Material) SetTexture(slot int, tex *Texture) {
	if slot < 0 || slot >= MaxTextures {
		return
	}
	m.Textures[slot] = tex
}

func (m *Material) Texture(slot int) *Texture {
	if slot < 0 || slot >= MaxTextures {
		return nil
	}
	return m.Textures[slot]
}

func (m *Material) TextureInUse(slot int) bool {
	return m.Texture(slot) != nil
}

func (m *Material) Transparent() bool {
	return m.Blend != BlendNone
}
