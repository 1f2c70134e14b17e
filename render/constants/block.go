package constants

import (
	"fmt"

	"github.com/gekko3d/shaderlab/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// StageServices uploads named constants to the bound program. Both stages of a
// GLSL program share one uniform namespace, but uploads are still issued per stage.
type StageServices interface {
	SetVertexFloats(name string, values []float32)
	SetFragmentFloats(name string, values []float32)
	SetVertexInts(name string, values []int32)
	SetFragmentInts(name string, values []int32)
}

type CameraBlock struct {
	Position          mgl32.Vec3
	Target            mgl32.Vec3 // normalized view direction
	View              mgl32.Mat4
	InverseView       mgl32.Mat4
	Projection        mgl32.Mat4
	InverseProjection mgl32.Mat4
	Near              float32
	Far               float32
	FOV               float32
}

type MaterialBlock struct {
	LightingEnabled int32
	ZWriteEnable    int32
	SpecularPower   float32
	AmbientColor    mgl32.Vec4
	DiffuseColor    mgl32.Vec4
	SpecularColor   mgl32.Vec4
	EmissiveColor   mgl32.Vec4
	TypeParam       float32
	TypeParam2      float32
	Thickness       float32
}

type TextureSlot struct {
	InUse  float32
	Unit   int32
	Matrix mgl32.Mat4
}

// Light element sizes in floats.
const (
	Vec3Components = 3
	ScalarElement  = 1
)

// LightArrays are flat, tightly packed and sized to the bucket lengths.
type LightArrays struct {
	DirectionalCount     int32
	DirectionalDirection []float32
	DirectionalColor     []float32

	PointCount       int32
	PointPosition    []float32
	PointDiffuse     []float32
	PointAttenuation []float32

	SpotCount       int32
	SpotPosition    []float32
	SpotDirection   []float32
	SpotDiffuse     []float32
	SpotAttenuation []float32
	SpotInnerCone   []float32 // radians
	SpotOuterCone   []float32 // radians
	SpotFalloff     []float32
}

// UniformBlock is every constant uploaded for one draw.
type UniformBlock struct {
	ScreenWidth  float32
	ScreenHeight float32
	Time         float32

	World               mgl32.Mat4
	InverseWorld        mgl32.Mat4
	View                mgl32.Mat4
	InverseView         mgl32.Mat4
	Projection          mgl32.Mat4
	InverseProjection   mgl32.Mat4
	WorldViewProjection mgl32.Mat4
	Normal              mgl32.Mat4

	// Camera is nil when the scene has no active camera.
	Camera *CameraBlock

	Material MaterialBlock
	Textures [core.MaxTextures]TextureSlot

	AmbientLight mgl32.Vec4
	ShadowColor  mgl32.Vec4
	FogColor     mgl32.Vec4
	FogStart     float32
	FogEnd       float32
	FogDensity   float32

	Lights LightArrays
}

type Kind uint8

const (
	KindFloat Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "int"
	}
	return "float"
}

// Uniform describes one named constant. Components is the element size; for
// arrays the uploaded length is a multiple of it, everything else matches it exactly.
type Uniform struct {
	Name       string
	Kind       Kind
	Components int
	Array      bool
	// Camera entries are skipped when the block has no camera.
	Camera bool

	floats func(b *UniformBlock) []float32
	ints   func(b *UniformBlock) []int32
}

func (u Uniform) Floats(b *UniformBlock) []float32 {
	if u.floats == nil {
		return nil
	}
	return u.floats(b)
}

func (u Uniform) Ints(b *UniformBlock) []int32 {
	if u.ints == nil {
		return nil
	}
	return u.ints(b)
}

// Len is the number of values u holds in b.
func (u Uniform) Len(b *UniformBlock) int {
	if u.Kind == KindInt {
		return len(u.Ints(b))
	}
	return len(u.Floats(b))
}

func scalar(name string, f func(b *UniformBlock) *float32) Uniform {
	return Uniform{Name: name, Kind: KindFloat, Components: 1, floats: func(b *UniformBlock) []float32 {
		return []float32{*f(b)}
	}}
}

func integer(name string, f func(b *UniformBlock) *int32) Uniform {
	return Uniform{Name: name, Kind: KindInt, Components: 1, ints: func(b *UniformBlock) []int32 {
		return []int32{*f(b)}
	}}
}

func vec3(name string, f func(b *UniformBlock) *mgl32.Vec3) Uniform {
	return Uniform{Name: name, Kind: KindFloat, Components: 3, floats: func(b *UniformBlock) []float32 {
		return f(b)[:]
	}}
}

func vec4(name string, f func(b *UniformBlock) *mgl32.Vec4) Uniform {
	return Uniform{Name: name, Kind: KindFloat, Components: 4, floats: func(b *UniformBlock) []float32 {
		return f(b)[:]
	}}
}

func mat4(name string, f func(b *UniformBlock) *mgl32.Mat4) Uniform {
	return Uniform{Name: name, Kind: KindFloat, Components: 16, floats: func(b *UniformBlock) []float32 {
		return f(b)[:]
	}}
}

func array(name string, components int, f func(b *UniformBlock) []float32) Uniform {
	return Uniform{Name: name, Kind: KindFloat, Components: components, Array: true, floats: f}
}

func camera(u Uniform) Uniform {
	u.Camera = true
	return u
}

// Layout is the upload order. Names match the uniforms declared by the GLSL sources.
var Layout = buildLayout()

func buildLayout() []Uniform {
	l := []Uniform{
		scalar("ScreenWidth", func(b *UniformBlock) *float32 { return &b.ScreenWidth }),
		scalar("ScreenHeight", func(b *UniformBlock) *float32 { return &b.ScreenHeight }),
		mat4("WorldViewProjectionMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.WorldViewProjection }),
		mat4("WorldMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.World }),
		mat4("InverseWorldMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.InverseWorld }),
		mat4("ViewMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.View }),
		mat4("InverseViewMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.InverseView }),
		mat4("ProjectionMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.Projection }),
		mat4("InverseProjectionMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.InverseProjection }),
		mat4("NormalMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.Normal }),
		scalar("Time", func(b *UniformBlock) *float32 { return &b.Time }),

		camera(vec3("CameraPosition", func(b *UniformBlock) *mgl32.Vec3 { return &b.Camera.Position })),
		camera(vec3("CameraTarget", func(b *UniformBlock) *mgl32.Vec3 { return &b.Camera.Target })),
		camera(mat4("CameraViewMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.Camera.View })),
		camera(mat4("InverseCameraViewMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.Camera.InverseView })),
		camera(mat4("CameraProjectionMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.Camera.Projection })),
		camera(mat4("InverseCameraProjectionMatrix", func(b *UniformBlock) *mgl32.Mat4 { return &b.Camera.InverseProjection })),
		camera(scalar("CameraNearPlane", func(b *UniformBlock) *float32 { return &b.Camera.Near })),
		camera(scalar("CameraFarPlane", func(b *UniformBlock) *float32 { return &b.Camera.Far })),
		camera(scalar("CameraFOV", func(b *UniformBlock) *float32 { return &b.Camera.FOV })),

		integer("LightingEnabled", func(b *UniformBlock) *int32 { return &b.Material.LightingEnabled }),
		integer("ZWriteEnable", func(b *UniformBlock) *int32 { return &b.Material.ZWriteEnable }),
		scalar("SpecularPower", func(b *UniformBlock) *float32 { return &b.Material.SpecularPower }),
		vec4("AmbientMaterialColor", func(b *UniformBlock) *mgl32.Vec4 { return &b.Material.AmbientColor }),
		vec4("DiffuseMaterialColor", func(b *UniformBlock) *mgl32.Vec4 { return &b.Material.DiffuseColor }),
		vec4("SpecularMaterialColor", func(b *UniformBlock) *mgl32.Vec4 { return &b.Material.SpecularColor }),
		vec4("EmissiveMaterialColor", func(b *UniformBlock) *mgl32.Vec4 { return &b.Material.EmissiveColor }),
		scalar("MaterialTypeParam", func(b *UniformBlock) *float32 { return &b.Material.TypeParam }),
		scalar("MaterialTypeParam2", func(b *UniformBlock) *float32 { return &b.Material.TypeParam2 }),
		scalar("MaterialThickness", func(b *UniformBlock) *float32 { return &b.Material.Thickness }),
	}

	for i := 0; i < core.MaxTextures; i++ {
		slot := i
		l = append(l,
			scalar(fmt.Sprintf("Texture%dInUse", slot), func(b *UniformBlock) *float32 { return &b.Textures[slot].InUse }),
			integer(fmt.Sprintf("Texture%d", slot), func(b *UniformBlock) *int32 { return &b.Textures[slot].Unit }),
			mat4(fmt.Sprintf("Texture%dMatrix", slot), func(b *UniformBlock) *mgl32.Mat4 { return &b.Textures[slot].Matrix }),
		)
	}

	l = append(l,
		vec4("AmbientLight", func(b *UniformBlock) *mgl32.Vec4 { return &b.AmbientLight }),
		vec4("ShadowColor", func(b *UniformBlock) *mgl32.Vec4 { return &b.ShadowColor }),
		vec4("FogColor", func(b *UniformBlock) *mgl32.Vec4 { return &b.FogColor }),
		scalar("FogStart", func(b *UniformBlock) *float32 { return &b.FogStart }),
		scalar("FogEnd", func(b *UniformBlock) *float32 { return &b.FogEnd }),
		scalar("FogDensity", func(b *UniformBlock) *float32 { return &b.FogDensity }),

		integer("DirectionalLightCount", func(b *UniformBlock) *int32 { return &b.Lights.DirectionalCount }),
		array("DirectionalLightDirection[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.DirectionalDirection }),
		array("DirectionalLightColor[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.DirectionalColor }),

		integer("PointLightCount", func(b *UniformBlock) *int32 { return &b.Lights.PointCount }),
		array("PointLightPosition[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.PointPosition }),
		array("PointLightDiffuseColor[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.PointDiffuse }),
		array("PointLightAttenuation[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.PointAttenuation }),

		integer("SpotLightCount", func(b *UniformBlock) *int32 { return &b.Lights.SpotCount }),
		array("SpotLightPosition[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.SpotPosition }),
		array("SpotLightDirection[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.SpotDirection }),
		array("SpotLightDiffuseColor[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.SpotDiffuse }),
		array("SpotLightAttenuation[0]", Vec3Components, func(b *UniformBlock) []float32 { return b.Lights.SpotAttenuation }),
		array("SpotLightInnerCone[0]", ScalarElement, func(b *UniformBlock) []float32 { return b.Lights.SpotInnerCone }),
		array("SpotLightOuterCone[0]", ScalarElement, func(b *UniformBlock) []float32 { return b.Lights.SpotOuterCone }),
		array("SpotLightFalloff[0]", ScalarElement, func(b *UniformBlock) []float32 { return b.Lights.SpotFalloff }),
	)
	return l
}

// Lookup finds a layout entry by uniform name.
func Lookup(name string) (Uniform, bool) {
	for _, u := range Layout {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Check verifies every present entry holds a whole number of elements and that
// fixed-size entries hold exactly one.
func (b *UniformBlock) Check() error {
	for _, u := range Layout {
		if u.Camera && b.Camera == nil {
			continue
		}
		n := u.Len(b)
		if u.Array {
			if n%u.Components != 0 {
				return fmt.Errorf("%w: %s has %d values, not a multiple of %d", ErrLayoutMismatch, u.Name, n, u.Components)
			}
			continue
		}
		if n != u.Components {
			return fmt.Errorf("%w: %s has %d values, want %d", ErrLayoutMismatch, u.Name, n, u.Components)
		}
	}
	return nil
}

// Upload pushes every entry to the vertex stage and then the fragment stage.
func (b *UniformBlock) Upload(s StageServices) {
	for _, u := range Layout {
		if u.Camera && b.Camera == nil {
			continue
		}
		switch u.Kind {
		case KindInt:
			v := u.Ints(b)
			s.SetVertexInts(u.Name, v)
			s.SetFragmentInts(u.Name, v)
		default:
			v := u.Floats(b)
			s.SetVertexFloats(u.Name, v)
			s.SetFragmentFloats(u.Name, v)
		}
	}
}
