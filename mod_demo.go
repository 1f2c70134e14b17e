package shaderlab

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"

	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/opengl"
	"github.com/go-gl/mathgl/mgl32"
)

// ProgramCompiler links a shader pair into a program handle.
type ProgramCompiler interface {
	AddProgram(src opengl.Source) (core.ProgramHandle, error)
}

// Programs maps shader variant names to linked programs. A variant that
// failed to build maps to core.InvalidProgram.
type Programs struct {
	Handles map[string]core.ProgramHandle
}

func (p *Programs) Handle(name string) core.ProgramHandle {
	if h, ok := p.Handles[name]; ok {
		return h
	}
	return core.InvalidProgram
}

func sceneDef(def *SceneDef) *SceneDef {
	if def != nil {
		return def
	}
	d := DemoScene()
	return &d
}

// LightsModule adds the scene lights and animates the orbiting ones while
// the app is running.
type LightsModule struct {
	Def *SceneDef
}

func (LightsModule) Step() string { return "lights" }

func (m LightsModule) Install(app *App, cmd *Commands) error {
	scene := sceneResource(app, cmd)
	orbits := &Orbits{Lights: LoadLights(scene, sceneDef(m.Def))}
	cmd.AddResources(orbits)

	cmd.OnShutdown("lights", func() error {
		for _, ol := range orbits.Lights {
			scene.RemoveLight(ol.Light)
		}
		return nil
	})

	app.UseSystem(
		System(orbitSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
	return nil
}

// DemoModule builds the three shader variants and the objects that use them.
// A variant that fails to compile is logged and drawn with the fallback
// program; it does not stop startup.
type DemoModule struct {
	Def      *SceneDef
	Compiler ProgramCompiler
}

func (DemoModule) Step() string { return "demo" }

func (m DemoModule) Install(app *App, cmd *Commands) error {
	log := app.Logger()
	def := sceneDef(m.Def)

	assets, ok := Resource[AssetServer](app)
	if !ok {
		return initError("demo", ReasonAsset, fmt.Errorf("no asset server"))
	}

	compiler := m.Compiler
	if compiler == nil {
		if d, ok := Resource[opengl.Driver](app); ok {
			compiler = d
		}
	}

	programs := &Programs{Handles: map[string]core.ProgramHandle{}}
	for _, name := range shaderNames(def) {
		programs.Handles[name] = loadShader(log, assets, compiler, name)
	}
	cmd.AddResources(programs)

	var fonts *Fonts
	if f, ok := Resource[Fonts](app); ok {
		fonts = f
	}

	scene := sceneResource(app, cmd)
	LoadObjects(scene, assets, fonts, programs, def)
	return nil
}

func shaderNames(def *SceneDef) []string {
	var names []string
	seen := map[string]bool{}
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, o := range def.Objects {
		add(o.Shader)
	}
	if def.Ground != nil {
		add(def.Ground.Shader)
	}
	return names
}

func loadShader(log Logger, assets *AssetServer, compiler ProgramCompiler, name string) core.ProgramHandle {
	_, shader, err := assets.LoadShader(name)
	if err != nil {
		log.Errorf("unable to load shader %s: %v", name, err)
		return core.InvalidProgram
	}
	src := shader.Source
	if !shader.FromDisk {
		log.Debugf("%s: using embedded shaders", name)
	}
	if compiler == nil {
		log.Warnf("unable to load %s %s: no GPU device", src.VertexPath, src.FragmentPath)
		return core.InvalidProgram
	}

	h, err := compiler.AddProgram(src)
	if err != nil {
		log.Errorf("unable to load %s %s: %v", src.VertexPath, src.FragmentPath, err)
		return core.InvalidProgram
	}
	return h
}

// LoadObjects adds the shaded objects, their captions and the ground plane.
func LoadObjects(scene *core.Scene, assets *AssetServer, fonts *Fonts, programs *Programs, def *SceneDef) {
	for _, od := range def.Objects {
		obj := scene.AddMesh(core.NewMeshNode(od.Name, core.NewSphereMesh(od.Name, od.Radius, 32)))
		obj.SetPosition(od.Position.X(), od.Position.Y(), od.Position.Z())
		obj.Material.Program = programs.Handle(od.Shader)
		obj.Material.Shininess = od.Shininess
		obj.Material.Lighting = od.Lighting
		obj.Material.BackFaceCulling = false
		assets.AddMesh(obj.Mesh)

		if od.Caption != "" && fonts != nil {
			caption := newCaption(scene, assets, fonts, od.Name+"-caption", od.Caption, 8)
			caption.SetPosition(0, od.Radius+15, 0)
			caption.SetParent(&obj.Node)
		}
	}

	if g := def.Ground; g != nil {
		ground := scene.AddMesh(core.NewMeshNode("ground", core.NewQuadMesh("ground", g.Size, g.Size)))
		ground.SetPosition(g.Position.X(), g.Position.Y(), g.Position.Z())
		ground.SetRotationDegrees(90, 0, 0)
		ground.Material.Program = programs.Handle(g.Shader)
		ground.Material.Shininess = g.Shininess
		ground.Material.BackFaceCulling = false
		assets.AddMesh(ground.Mesh)
	}
}

// newCaption adds a textured quad of the given world height showing text.
func newCaption(scene *core.Scene, assets *AssetServer, fonts *Fonts, name, text string, height float32) *core.MeshNode {
	_, tex := assets.CreateTexture(name, RenderText(fonts.Face, text, color.White))
	width := height * float32(tex.Width) / float32(tex.Height)

	node := scene.AddMesh(core.NewMeshNode(name, core.NewQuadMesh(name, width, height)))
	unlitMaterial(&node.Material)
	node.Material.Blend = core.BlendAlpha
	node.Material.ZWriteEnable = false
	node.Material.SetTexture(0, tex)
	return node
}

// Hud is the caption line drawn over the scene in full-screen mode.
type Hud struct {
	Node    *core.MeshNode
	Visible bool
}

// GUIModule rasterises the HUD caption. It is only shown full-screen.
type GUIModule struct{}

func (GUIModule) Step() string { return "gui" }

func (GUIModule) Install(app *App, cmd *Commands) error {
	cfg := DefaultConfig()
	if c, ok := Resource[Config](app); ok {
		cfg = *c
	}

	hud := &Hud{Visible: cfg.Window.Fullscreen}
	fonts, hasFonts := Resource[Fonts](app)
	assets, hasAssets := Resource[AssetServer](app)
	if hasFonts && hasAssets && cfg.Caption != "" {
		_, tex := assets.CreateTexture("hud", RenderText(fonts.Face, cfg.Caption, color.White))
		hud.Node = core.NewMeshNode("hud", core.NewQuadMesh("hud", float32(tex.Width), float32(tex.Height)))
		unlitMaterial(&hud.Node.Material)
		hud.Node.Material.Blend = core.BlendAlpha
		hud.Node.Material.ZWriteEnable = false
		hud.Node.Material.SetTexture(0, tex)
	}
	cmd.AddResources(hud)
	return nil
}

// SkyModule wraps the scene in a textured dome that follows the camera. A
// missing sky texture leaves the clear colour showing.
type SkyModule struct {
	Def *SceneDef
}

func (SkyModule) Step() string { return "sky" }

func (m SkyModule) Install(app *App, cmd *Commands) error {
	def := sceneDef(m.Def)
	if def.SkyTexture == "" {
		return nil
	}
	assets, ok := Resource[AssetServer](app)
	if !ok {
		return nil
	}

	_, tex, err := assets.LoadTexture(def.SkyTexture)
	if errors.Is(err, fs.ErrNotExist) {
		app.Logger().Debugf("sky: %v", err)
		return nil
	}
	if err != nil {
		return initError("sky", ReasonAsset, err)
	}

	scene := sceneResource(app, cmd)
	far := float32(3000)
	if cam := scene.ActiveCamera(); cam != nil {
		far = cam.Far
	}

	sky := scene.AddMesh(core.NewMeshNode("sky", core.NewSphereMesh("sky", far*0.6, 24)))
	unlitMaterial(&sky.Material)
	sky.Material.ZWriteEnable = false
	sky.Material.DiffuseColor = mgl32.Vec4{1, 1, 1, 1}
	sky.Material.SetTexture(0, tex)
	if cam := scene.ActiveCamera(); cam != nil {
		sky.SetParent(&cam.Node)
	}
	return nil
}
