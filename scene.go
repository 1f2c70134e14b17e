package shaderlab

import (
	"math"

	"github.com/gekko3d/shaderlab/render/core"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneDef defines the initial state of the demo scene.
type SceneDef struct {
	AmbientLight mgl32.Vec4
	ShadowColor  mgl32.Vec4
	Lights       []LightDef
	Objects      []ObjectDef
	Ground       *GroundDef
	SkyTexture   string
}

// LightDef defines a light instantiation.
type LightDef struct {
	Name     string
	Data     core.LightData
	Position mgl32.Vec3
	Rotation mgl32.Vec3 // degrees
	Orbit    *Orbiting
	// MarkerRadius > 0 adds an unlit sphere that follows the light.
	MarkerRadius float32
}

// Orbiting moves a light on a figure around Center, advancing Angle by
// Speed radians every update.
type Orbiting struct {
	Center mgl32.Vec3
	Radius float32
	Speed  float32
	Angle  float32
}

// Position is (cx + cos(2a)r, sin(a)r, cos(a)r). The orbit ignores the
// center's height.
func (o *Orbiting) Position() mgl32.Vec3 {
	a := float64(o.Angle)
	return mgl32.Vec3{
		o.Center.X() + float32(math.Cos(a*2))*o.Radius,
		float32(math.Sin(a)) * o.Radius,
		float32(math.Cos(a)) * o.Radius,
	}
}

func (o *Orbiting) Advance() mgl32.Vec3 {
	o.Angle += o.Speed
	return o.Position()
}

// ObjectDef places one shaded sphere with a caption above it.
type ObjectDef struct {
	Name      string
	Shader    string
	Position  mgl32.Vec3
	Radius    float32
	Shininess float32
	Lighting  bool
	Caption   string
}

type GroundDef struct {
	Shader    string
	Position  mgl32.Vec3
	Size      float32
	Shininess float32
}

const orbitSpeed = 0.001

func pointLight() core.LightData {
	data := core.DefaultLightData()
	data.Type = core.LightTypePoint
	data.AmbientColor = mgl32.Vec4{0, 0, 0, 1}
	data.DiffuseColor = mgl32.Vec4{1, 1, 1, 1}
	data.SpecularColor = mgl32.Vec4{1, 1, 1, 1}
	data.Attenuation = mgl32.Vec3{0, 0.2, 0}
	data.Radius = 100
	return data
}

func orbitingPointLight(name string, x float32) LightDef {
	return LightDef{
		Name:         name,
		Data:         pointLight(),
		Position:     mgl32.Vec3{x, 50, 0},
		Orbit:        &Orbiting{Center: mgl32.Vec3{x, 0, 0}, Radius: 25, Speed: orbitSpeed},
		MarkerRadius: 5,
	}
}

// DemoScene is one directional light, three orbiting point lights and one
// sphere per shader variant over a ground plane.
func DemoScene() SceneDef {
	sun := core.DefaultLightData()
	sun.Type = core.LightTypeDirectional
	sun.DiffuseColor = mgl32.Vec4{0.23, 0.23, 0.25, 1}

	return SceneDef{
		AmbientLight: mgl32.Vec4{0.2, 0.2, 0.2, 1},
		ShadowColor:  mgl32.Vec4{0, 0, 0, 1},
		Lights: []LightDef{
			{Name: "sun", Data: sun, Rotation: mgl32.Vec3{0, 45, 90}},
			orbitingPointLight("light02", -150),
			orbitingPointLight("light03", 0),
			orbitingPointLight("light04", 150),
		},
		Objects: []ObjectDef{
			{Name: "basic", Shader: "Basic", Position: mgl32.Vec3{-150, 0, 0}, Radius: 20, Shininess: 200, Lighting: true, Caption: "Basic Shader"},
			{Name: "lambert", Shader: "Lambert", Position: mgl32.Vec3{0, 0, 0}, Radius: 20, Shininess: 800, Lighting: true, Caption: "Lambert Shader"},
			{Name: "phong", Shader: "Phong", Position: mgl32.Vec3{150, 0, 0}, Radius: 20, Shininess: 20, Lighting: false, Caption: "Phong Shader"},
		},
		Ground:     &GroundDef{Shader: "Phong", Position: mgl32.Vec3{0, -25, 0}, Size: 1000, Shininess: 800},
		SkyTexture: "sky/space1.jpg",
	}
}

// unlitMaterial draws with the fallback program and no lighting.
func unlitMaterial(m *core.Material) {
	m.Program = core.InvalidProgram
	m.Lighting = false
	m.BackFaceCulling = false
}

// LoadLights adds the lights of def to scene and returns the ones that orbit.
func LoadLights(scene *core.Scene, def *SceneDef) []OrbitingLight {
	scene.Env.AmbientLight = def.AmbientLight
	scene.Env.ShadowColor = def.ShadowColor

	var orbits []OrbitingLight
	for _, ld := range def.Lights {
		light := scene.AddLight(core.NewLightNode(ld.Name, ld.Data))
		light.SetPosition(ld.Position.X(), ld.Position.Y(), ld.Position.Z())
		light.SetRotationDegrees(ld.Rotation.X(), ld.Rotation.Y(), ld.Rotation.Z())

		if ld.MarkerRadius > 0 {
			marker := scene.AddMesh(core.NewMeshNode(ld.Name+"-marker", core.NewSphereMesh(ld.Name+"-marker", ld.MarkerRadius, 8)))
			unlitMaterial(&marker.Material)
			marker.Material.DiffuseColor = ld.Data.DiffuseColor
			marker.SetParent(&light.Node)
		}

		if ld.Orbit != nil {
			orbit := *ld.Orbit
			orbits = append(orbits, OrbitingLight{Light: light, Orbit: &orbit})
		}
	}
	return orbits
}

type OrbitingLight struct {
	Light *core.LightNode
	Orbit *Orbiting
}

// Orbits is the set of lights moved by orbitSystem.
type Orbits struct {
	Lights []OrbitingLight
}

func (o *Orbits) Advance() {
	for _, ol := range o.Lights {
		p := ol.Orbit.Advance()
		ol.Light.SetPosition(p.X(), p.Y(), p.Z())
	}
}

func orbitSystem(orbits *Orbits) {
	orbits.Advance()
}
