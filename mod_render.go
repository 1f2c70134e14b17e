package shaderlab

import (
	"fmt"
	"time"

	"github.com/gekko3d/shaderlab/render/constants"
	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/lighting"
	"github.com/gekko3d/shaderlab/render/opengl"
	"github.com/gekko3d/shaderlab/render/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderState wires the draw loop to its light policy and constant provider.
type RenderState struct {
	Renderer *pipeline.Renderer
	Binder   *constants.Binder
	Driver   pipeline.Driver
}

// RenderModule draws the scene every frame, paused or not, and presents it.
type RenderModule struct {
	// Driver overrides the GL driver created by DeviceModule.
	Driver pipeline.Driver
}

func (RenderModule) Step() string { return "render" }

func (m RenderModule) Install(app *App, cmd *Commands) error {
	driver := m.Driver
	if driver == nil {
		d, ok := Resource[opengl.Driver](app)
		if !ok {
			return initError("render", ReasonDevice, fmt.Errorf("no draw driver"))
		}
		driver = d
	}

	lights, ok := Resource[Lighting](app)
	if !ok {
		return initError("render", ReasonDevice, fmt.Errorf("no light manager"))
	}

	clock, ok := Resource[Time](app)
	if !ok {
		clock = NewTime(time.Now())
		cmd.AddResources(clock)
	}

	capacity := lighting.DefaultCapacity
	cfg := DefaultConfig()
	if c, ok := Resource[Config](app); ok {
		cfg = *c
		capacity = c.Lights.Normalized()
	}

	scene := sceneResource(app, cmd)
	renderer := pipeline.NewRenderer(driver, clock, app.Logger())
	renderer.ClearColor = mgl32.Vec4(cfg.ClearColor)
	renderer.SetScene(scene)

	binder := constants.NewBinder(renderer, lights.Manager, capacity)
	renderer.SetLightPolicy(lights.Manager)
	renderer.SetConstantProvider(binder)

	cmd.AddResources(&RenderState{Renderer: renderer, Binder: binder, Driver: driver})
	if _, ok := Resource[Hud](app); !ok {
		cmd.AddResources(&Hud{})
	}

	app.UseSystem(
		System(renderSystem).
			InStage(Render).
			RunAlways(),
	)
	if _, ok := Resource[WindowState](app); ok {
		app.UseSystem(
			System(presentSystem).
				InStage(PostRender).
				RunAlways(),
		)
	}
	return nil
}

func renderSystem(r *RenderState, scene *core.Scene, hud *Hud) {
	r.Renderer.DrawAll(scene)
	if hud.Visible && hud.Node != nil {
		w, h := r.Driver.ScreenSize()
		drawOverlay(r.Driver, hud.Node, w, h)
		r.Driver.EndScene()
	}
}

func presentSystem(ws *WindowState) {
	ws.SwapBuffers()
}

// overlayTransforms places a quad of w x h pixels at the top left corner of
// a screen of sw x sh pixels. Quads face -Z, so the overlay camera sits on
// -Z looking back at the origin.
func overlayTransforms(w, h float32, sw, sh int) (world, view, proj mgl32.Mat4) {
	const margin = 4
	cx := w/2 + margin
	cy := float32(sh) - h/2 - margin

	view = mgl32.LookAtV(mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	// looking down +Z flips view-space x against world x
	world = mgl32.Translate3D(-cx, cy, 0)
	proj = mgl32.Ortho(0, float32(sw), 0, float32(sh), 0.1, 10)
	return world, view, proj
}

func drawOverlay(driver pipeline.Driver, node *core.MeshNode, sw, sh int) {
	tex := node.Material.Texture(0)
	if tex == nil || sw <= 0 || sh <= 0 {
		return
	}
	world, view, proj := overlayTransforms(float32(tex.Width), float32(tex.Height), sw, sh)

	driver.SetTransform(core.TransformWorld, world)
	driver.SetTransform(core.TransformView, view)
	driver.SetTransform(core.TransformProjection, proj)
	if _, ok := driver.UseProgram(core.InvalidProgram); !ok {
		return
	}
	driver.BindMaterial(&node.Material)
	driver.DrawMesh(node)
}
