package constants

import (
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/lighting"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrMaterialNotBound = errors.New("constants: no material bound")
	ErrLightOverflow    = errors.New("constants: light count exceeds capacity")
	ErrLayoutMismatch   = errors.New("constants: uniform layout mismatch")
)

// ShaderConstantProvider is called by the renderer for every draw: first with
// the material about to be drawn, then once the program is bound.
type ShaderConstantProvider interface {
	OnMaterialBound(material *core.Material)
	OnConstantsRequested(services StageServices, userData int) error
}

// FrameSource is the renderer state read while building constants.
type FrameSource interface {
	ScreenSize() (width, height int)
	ElapsedSeconds() float32
	Transform(kind core.TransformKind) mgl32.Mat4
	ActiveCamera() *core.Camera
	Environment() core.Environment
}

type LightSource interface {
	Lights() lighting.Buckets
}

type Binder struct {
	frame    FrameSource
	lights   LightSource
	capacity lighting.Capacity

	material *core.Material
	block    UniformBlock
	camera   CameraBlock
}

// NewBinder caps capacity at the shader light array sizes, so a larger light
// count fails with ErrLightOverflow instead of overrunning the arrays.
func NewBinder(frame FrameSource, lights LightSource, capacity lighting.Capacity) *Binder {
	c := capacity.Normalized().Clamped()
	return &Binder{
		frame:    frame,
		lights:   lights,
		capacity: c,
		block: UniformBlock{
			Lights: LightArrays{
				DirectionalDirection: make([]float32, 0, c.Directional*3),
				DirectionalColor:     make([]float32, 0, c.Directional*3),
				PointPosition:        make([]float32, 0, c.Point*3),
				PointDiffuse:         make([]float32, 0, c.Point*3),
				PointAttenuation:     make([]float32, 0, c.Point*3),
				SpotPosition:         make([]float32, 0, c.Spot*3),
				SpotDirection:        make([]float32, 0, c.Spot*3),
				SpotDiffuse:          make([]float32, 0, c.Spot*3),
				SpotAttenuation:      make([]float32, 0, c.Spot*3),
				SpotInnerCone:        make([]float32, 0, c.Spot),
				SpotOuterCone:        make([]float32, 0, c.Spot),
				SpotFalloff:          make([]float32, 0, c.Spot),
			},
		},
	}
}

// OnMaterialBound captures m for the next constant request. Each draw binds
// its own material; nil clears it.
func (b *Binder) OnMaterialBound(m *core.Material) {
	b.material = m
}

func (b *Binder) Material() *core.Material {
	return b.material
}

// OnConstantsRequested builds the block for the current draw and uploads it.
// Nothing is uploaded when an error is returned. userData is the material's
// tag and is not used by the shared constant set.
func (b *Binder) OnConstantsRequested(services StageServices, userData int) error {
	block, err := b.Build()
	b.material = nil
	if err != nil {
		return err
	}
	block.Upload(services)
	return nil
}

// Build computes the constants for the current draw. The returned block and its
// light arrays are reused by the next Build.
func (b *Binder) Build() (*UniformBlock, error) {
	if b.material == nil {
		return nil, ErrMaterialNotBound
	}

	buckets := b.lights.Lights()
	if err := b.checkCapacity(buckets); err != nil {
		return nil, err
	}

	blk := &b.block
	w, h := b.frame.ScreenSize()
	blk.ScreenWidth = float32(w)
	blk.ScreenHeight = float32(h)
	blk.Time = b.frame.ElapsedSeconds()

	b.fillTransforms(blk)
	b.fillCamera(blk)
	fillMaterial(blk, b.material)
	fillEnvironment(blk, b.frame.Environment())
	fillLights(&blk.Lights, buckets)

	if err := blk.Check(); err != nil {
		return nil, err
	}
	return blk, nil
}

func (b *Binder) checkCapacity(l lighting.Buckets) error {
	d, p, s := l.Counts()
	switch {
	case d > b.capacity.Directional:
		return fmt.Errorf("%w: %d directional, capacity %d", ErrLightOverflow, d, b.capacity.Directional)
	case p > b.capacity.Point:
		return fmt.Errorf("%w: %d point, capacity %d", ErrLightOverflow, p, b.capacity.Point)
	case s > b.capacity.Spot:
		return fmt.Errorf("%w: %d spot, capacity %d", ErrLightOverflow, s, b.capacity.Spot)
	}
	return nil
}

func (b *Binder) fillTransforms(blk *UniformBlock) {
	world := b.frame.Transform(core.TransformWorld)
	view := b.frame.Transform(core.TransformView)
	proj := b.frame.Transform(core.TransformProjection)

	blk.World = world
	blk.InverseWorld = world.Inv()
	blk.View = view
	blk.InverseView = view.Inv()
	blk.Projection = proj
	blk.InverseProjection = proj.Inv()
	// projection * view * world, in that order
	blk.WorldViewProjection = proj.Mul4(view).Mul4(world)
	blk.Normal = core.WithoutTranslation(world)
}

func (b *Binder) fillCamera(blk *UniformBlock) {
	cam := b.frame.ActiveCamera()
	if cam == nil {
		blk.Camera = nil
		return
	}
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	b.camera = CameraBlock{
		Position:          cam.AbsolutePosition(),
		Target:            cam.ViewDirection(),
		View:              view,
		InverseView:       view.Inv(),
		Projection:        proj,
		InverseProjection: proj.Inv(),
		Near:              cam.Near,
		Far:               cam.Far,
		FOV:               cam.FOV,
	}
	blk.Camera = &b.camera
}

func fillMaterial(blk *UniformBlock, m *core.Material) {
	blk.Material = MaterialBlock{
		LightingEnabled: boolToInt(m.Lighting),
		ZWriteEnable:    boolToInt(m.ZWriteEnable),
		SpecularPower:   m.Shininess,
		AmbientColor:    m.AmbientColor,
		DiffuseColor:    m.DiffuseColor,
		SpecularColor:   m.SpecularColor,
		EmissiveColor:   m.EmissiveColor,
		TypeParam:       m.MaterialTypeParam,
		TypeParam2:      m.MaterialTypeParam2,
		Thickness:       m.Thickness,
	}
	for i := range blk.Textures {
		slot := &blk.Textures[i]
		slot.InUse = 0
		if m.TextureInUse(i) {
			slot.InUse = 1
		}
		slot.Unit = int32(i)
		slot.Matrix = m.TextureMatrices[i]
	}
}

func fillEnvironment(blk *UniformBlock, env core.Environment) {
	blk.AmbientLight = env.AmbientLight
	blk.ShadowColor = env.ShadowColor
	blk.FogColor = env.Fog.Color
	blk.FogStart = env.Fog.Start
	blk.FogEnd = env.Fog.End
	blk.FogDensity = env.Fog.Density
}

func fillLights(a *LightArrays, l lighting.Buckets) {
	a.DirectionalCount = int32(len(l.Directional))
	a.DirectionalDirection = a.DirectionalDirection[:0]
	a.DirectionalColor = a.DirectionalColor[:0]
	for _, light := range l.Directional {
		a.DirectionalDirection = appendVec3(a.DirectionalDirection, light.WorldDirection())
		a.DirectionalColor = appendVec3(a.DirectionalColor, light.Data.DiffuseColor.Vec3())
	}

	a.PointCount = int32(len(l.Point))
	a.PointPosition = a.PointPosition[:0]
	a.PointDiffuse = a.PointDiffuse[:0]
	a.PointAttenuation = a.PointAttenuation[:0]
	for _, light := range l.Point {
		a.PointPosition = appendVec3(a.PointPosition, light.WorldPosition())
		a.PointDiffuse = appendVec3(a.PointDiffuse, light.Data.DiffuseColor.Vec3())
		a.PointAttenuation = appendVec3(a.PointAttenuation, light.Data.Attenuation)
	}

	a.SpotCount = int32(len(l.Spot))
	a.SpotPosition = a.SpotPosition[:0]
	a.SpotDirection = a.SpotDirection[:0]
	a.SpotDiffuse = a.SpotDiffuse[:0]
	a.SpotAttenuation = a.SpotAttenuation[:0]
	a.SpotInnerCone = a.SpotInnerCone[:0]
	a.SpotOuterCone = a.SpotOuterCone[:0]
	a.SpotFalloff = a.SpotFalloff[:0]
	for _, light := range l.Spot {
		a.SpotPosition = appendVec3(a.SpotPosition, light.WorldPosition())
		a.SpotDirection = appendVec3(a.SpotDirection, light.WorldDirection())
		a.SpotDiffuse = appendVec3(a.SpotDiffuse, light.Data.DiffuseColor.Vec3())
		a.SpotAttenuation = appendVec3(a.SpotAttenuation, light.Data.Attenuation)
		a.SpotInnerCone = append(a.SpotInnerCone, Radians(light.Data.InnerCone))
		a.SpotOuterCone = append(a.SpotOuterCone, Radians(light.Data.OuterCone))
		a.SpotFalloff = append(a.SpotFalloff, light.Data.Falloff)
	}
}

// Radians converts degrees using deg * pi / 180 in float64.
func Radians(deg float32) float32 {
	return float32(float64(deg) * math.Pi / 180)
}

func appendVec3(dst []float32, v mgl32.Vec3) []float32 {
	return append(dst, v[0], v[1], v[2])
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
