package pipeline

import (
	"github.com/gekko3d/shaderlab/render/constants"
	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/lighting"
	"github.com/go-gl/mathgl/mgl32"
)

// Driver is the backend the renderer draws through.
type Driver interface {
	BeginScene(clear mgl32.Vec4)
	EndScene()
	ScreenSize() (width, height int)
	SetTransform(kind core.TransformKind, m mgl32.Mat4)
	Transform(kind core.TransformKind) mgl32.Mat4
	// UseProgram binds handle. core.InvalidProgram binds the fallback program,
	// which needs no constants from the caller.
	UseProgram(handle core.ProgramHandle) (constants.StageServices, bool)
	BindMaterial(m *core.Material)
	DrawMesh(node *core.MeshNode)
}

type Clock interface {
	ElapsedSeconds() float32
}

type Logger interface {
	Errorf(format string, args ...any)
}

type FrameStats struct {
	Nodes    int
	Draws    int
	Fallback int
	Skipped  int
}

type Renderer struct {
	driver   Driver
	clock    Clock
	log      Logger
	policy   lighting.LightListPolicy
	provider constants.ShaderConstantProvider

	scene      *core.Scene
	ClearColor mgl32.Vec4
	stats      FrameStats
}

func NewRenderer(driver Driver, clock Clock, log Logger) *Renderer {
	return &Renderer{
		driver:     driver,
		clock:      clock,
		log:        log,
		policy:     nopPolicy{},
		ClearColor: mgl32.Vec4{0, 0, 0, 1},
	}
}

func (r *Renderer) SetLightPolicy(p lighting.LightListPolicy) {
	if p == nil {
		p = nopPolicy{}
	}
	r.policy = p
}

func (r *Renderer) SetConstantProvider(p constants.ShaderConstantProvider) {
	r.provider = p
}

func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// DrawAll renders one frame of scene. Lights are handed to the policy before
// any node is drawn; every draw binds its material before constants are requested.
func (r *Renderer) DrawAll(scene *core.Scene) FrameStats {
	r.scene = scene
	r.stats = FrameStats{}

	r.driver.BeginScene(r.ClearColor)

	if cam := scene.ActiveCamera(); cam != nil {
		if w, h := r.driver.ScreenSize(); h > 0 {
			cam.Aspect = float32(w) / float32(h)
		}
		r.driver.SetTransform(core.TransformView, cam.ViewMatrix())
		r.driver.SetTransform(core.TransformProjection, cam.ProjectionMatrix())
	}

	r.policy.OnPreRender(scene.Lights)

	for _, pass := range core.RenderPasses {
		nodes := scene.NodesInPass(pass)
		if len(nodes) == 0 {
			continue
		}
		r.policy.OnRenderPassPreRender(pass)
		for _, node := range nodes {
			r.stats.Nodes++
			r.policy.OnNodePreRender(&node.Node)
			r.drawNode(node)
			r.policy.OnNodePostRender(&node.Node)
		}
		r.policy.OnRenderPassPostRender(pass)
	}

	r.policy.OnPostRender()
	r.driver.EndScene()
	return r.stats
}

func (r *Renderer) drawNode(node *core.MeshNode) {
	r.driver.SetTransform(core.TransformWorld, node.AbsoluteTransformation())
	mat := &node.Material

	if mat.Program == core.InvalidProgram || r.provider == nil {
		if _, ok := r.driver.UseProgram(core.InvalidProgram); !ok {
			r.stats.Skipped++
			return
		}
		r.driver.BindMaterial(mat)
		r.driver.DrawMesh(node)
		r.stats.Fallback++
		r.stats.Draws++
		return
	}

	r.provider.OnMaterialBound(mat)
	services, ok := r.driver.UseProgram(mat.Program)
	if !ok {
		r.log.Errorf("render: %s: unknown program %d", node.Name, mat.Program)
		r.stats.Skipped++
		return
	}
	if err := r.provider.OnConstantsRequested(services, mat.UserData); err != nil {
		r.log.Errorf("render: %s: %v", node.Name, err)
		r.stats.Skipped++
		return
	}
	r.driver.BindMaterial(mat)
	r.driver.DrawMesh(node)
	r.stats.Draws++
}

var _ constants.FrameSource = (*Renderer)(nil)

func (r *Renderer) ScreenSize() (int, int) {
	return r.driver.ScreenSize()
}

func (r *Renderer) ElapsedSeconds() float32 {
	if r.clock == nil {
		return 0
	}
	return r.clock.ElapsedSeconds()
}

func (r *Renderer) Transform(kind core.TransformKind) mgl32.Mat4 {
	return r.driver.Transform(kind)
}

func (r *Renderer) ActiveCamera() *core.Camera {
	if r.scene == nil {
		return nil
	}
	return r.scene.ActiveCamera()
}

func (r *Renderer) Environment() core.Environment {
	if r.scene == nil {
		return core.DefaultEnvironment()
	}
	return r.scene.Environment()
}

// SetScene lets constants be built before the first DrawAll.
func (r *Renderer) SetScene(scene *core.Scene) {
	r.scene = scene
}

type nopPolicy struct{}

func (nopPolicy) OnPreRender([]*core.LightNode) {}
func (nopPolicy) OnPostRender() {}
func (nopPolicy) OnRenderPassPreRender(core.RenderPass) {}
func (nopPolicy) OnRenderPassPostRender(core.RenderPass) {}
func (nopPolicy) OnNodePreRender(*core.Node) {}
func (nopPolicy) OnNodePostRender(*core.Node) {}
