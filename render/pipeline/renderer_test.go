package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gekko3d/shaderlab/render/constants"
	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/lighting"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLog struct {
	calls []string
}

func (c *callLog) add(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

type nopServices struct{}

func (nopServices) SetVertexFloats(string, []float32) {}
func (nopServices) SetFragmentFloats(string, []float32) {}
func (nopServices) SetVertexInts(string, []int32) {}
func (nopServices) SetFragmentInts(string, []int32) {}

type fakeDriver struct {
	log        *callLog
	transforms [core.TransformKindCount]mgl32.Mat4
	programs   map[core.ProgramHandle]bool
	services   constants.StageServices
}

func newFakeDriver(log *callLog) *fakeDriver {
	d := &fakeDriver{log: log, programs: map[core.ProgramHandle]bool{}, services: nopServices{}}
	for i := range d.transforms {
		d.transforms[i] = mgl32.Ident4()
	}
	return d
}

func (d *fakeDriver) BeginScene(mgl32.Vec4) { d.log.add("begin") }

func (d *fakeDriver) EndScene() { d.log.add("end") }

func (d *fakeDriver) ScreenSize() (int, int) { return 800, 600 }

func (d *fakeDriver) SetTransform(kind core.TransformKind, m mgl32.Mat4) {
	d.transforms[kind] = m
}

func (d *fakeDriver) Transform(kind core.TransformKind) mgl32.Mat4 {
	return d.transforms[kind]
}

func (d *fakeDriver) UseProgram(h core.ProgramHandle) (constants.StageServices, bool) {
	d.log.add("use %d", h)
	if h == core.InvalidProgram {
		return nil, true
	}
	return d.services, d.programs[h]
}

func (d *fakeDriver) BindMaterial(*core.Material) { d.log.add("bind") }

func (d *fakeDriver) DrawMesh(n *core.MeshNode) { d.log.add("draw %s", n.Name) }

type spyPolicy struct {
	log *callLog
}

func (p spyPolicy) OnPreRender(l []*core.LightNode) { p.log.add("lights %d", len(l)) }

func (p spyPolicy) OnPostRender() { p.log.add("post") }

func (p spyPolicy) OnRenderPassPreRender(pass core.RenderPass) { p.log.add("pass %s", pass) }

func (p spyPolicy) OnRenderPassPostRender(pass core.RenderPass) { p.log.add("/pass %s", pass) }

func (p spyPolicy) OnNodePreRender(n *core.Node) { p.log.add("node %s", n.Name) }

func (p spyPolicy) OnNodePostRender(n *core.Node) { p.log.add("/node %s", n.Name) }

type spyProvider struct {
	log *callLog
	err error
}

func (p *spyProvider) OnMaterialBound(m *core.Material) { p.log.add("material %d", m.Program) }

func (p *spyProvider) OnConstantsRequested(s constants.StageServices, userData int) error {
	p.log.add("constants %d", userData)
	return p.err
}

type errorLog struct {
	lines []string
}

func (e *errorLog) Errorf(format string, args ...any) {
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

func demoScene() *core.Scene {
	s := core.NewScene()
	s.SetActiveCamera(core.NewCamera("cam"))
	s.AddLight(core.NewLightNode("l", core.DefaultLightData()))

	a := s.AddMesh(core.NewMeshNode("a", core.NewQuadMesh("q", 1, 1)))
	a.Material.Program = 1
	a.Material.UserData = 10
	glass := s.AddMesh(core.NewMeshNode("glass", core.NewQuadMesh("q", 1, 1)))
	glass.Material.Program = 1
	glass.Material.Blend = core.BlendAlpha
	s.AddMesh(core.NewMeshNode("fallback", core.NewQuadMesh("q", 1, 1)))
	return s
}

func TestDrawAllCallOrder(t *testing.T) {
	log := &callLog{}
	driver := newFakeDriver(log)
	driver.programs[1] = true

	r := NewRenderer(driver, nil, &errorLog{})
	r.SetLightPolicy(spyPolicy{log: log})
	r.SetConstantProvider(&spyProvider{log: log})

	stats := r.DrawAll(demoScene())

	assert.Equal(t, []string{
		"begin",
		"lights 1",
		"pass solid",
		"node a", "material 1", "use 1", "constants 10", "bind", "draw a", "/node a",
		"node fallback", "use -1", "bind", "draw fallback", "/node fallback",
		"/pass solid",
		"pass transparent",
		"node glass", "material 1", "use 1", "constants 0", "bind", "draw glass", "/node glass",
		"/pass transparent",
		"post",
		"end",
	}, log.calls)
	assert.Equal(t, FrameStats{Nodes: 3, Draws: 3, Fallback: 1}, stats)
}

func TestDrawAllSkipsDrawOnConstantsError(t *testing.T) {
	log := &callLog{}
	driver := newFakeDriver(log)
	driver.programs[1] = true
	errs := &errorLog{}

	r := NewRenderer(driver, nil, errs)
	r.SetConstantProvider(&spyProvider{log: log, err: errors.New("boom")})

	s := core.NewScene()
	n := s.AddMesh(core.NewMeshNode("a", core.NewQuadMesh("q", 1, 1)))
	n.Material.Program = 1

	stats := r.DrawAll(s)
	assert.NotContains(t, log.calls, "draw a")
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, errs.lines, 1)
	assert.Contains(t, errs.lines[0], "boom")
}

func TestDrawAllUnknownProgram(t *testing.T) {
	log := &callLog{}
	errs := &errorLog{}
	r := NewRenderer(newFakeDriver(log), nil, errs)
	r.SetConstantProvider(&spyProvider{log: log})

	s := core.NewScene()
	n := s.AddMesh(core.NewMeshNode("a", core.NewQuadMesh("q", 1, 1)))
	n.Material.Program = 42

	stats := r.DrawAll(s)
	assert.Equal(t, 1, stats.Skipped)
	assert.NotContains(t, log.calls, "constants 0")
	require.Len(t, errs.lines, 1)
	assert.Contains(t, errs.lines[0], "unknown program 42")
}

func TestCameraTransformsAppliedBeforeLights(t *testing.T) {
	log := &callLog{}
	driver := newFakeDriver(log)
	r := NewRenderer(driver, nil, &errorLog{})

	s := core.NewScene()
	cam := core.NewCamera("cam")
	cam.SetPosition(0, 50, -250)
	s.SetActiveCamera(cam)

	r.DrawAll(s)
	assert.InDelta(t, 800.0/600.0, cam.Aspect, 1e-6)
	assert.Equal(t, cam.ViewMatrix(), r.Transform(core.TransformView))
	assert.Equal(t, cam.ProjectionMatrix(), r.Transform(core.TransformProjection))
	assert.Same(t, cam, r.ActiveCamera())
}

type recordingServices struct {
	floats map[string][]float32
	ints   map[string][]int32
}

func newRecordingServices() *recordingServices {
	return &recordingServices{floats: map[string][]float32{}, ints: map[string][]int32{}}
}

func (r *recordingServices) SetVertexFloats(name string, v []float32) {
	r.floats[name] = append([]float32(nil), v...)
}

func (r *recordingServices) SetFragmentFloats(string, []float32) {}

func (r *recordingServices) SetVertexInts(name string, v []int32) {
	r.ints[name] = append([]int32(nil), v...)
}

func (r *recordingServices) SetFragmentInts(string, []int32) {}

type fixedClock float32

func (c fixedClock) ElapsedSeconds() float32 { return float32(c) }

func TestRendererWithManagerAndBinder(t *testing.T) {
	log := &callLog{}
	driver := newFakeDriver(log)
	driver.programs[1] = true
	services := newRecordingServices()
	driver.services = services

	r := NewRenderer(driver, fixedClock(3), &errorLog{})
	manager := lighting.NewManager(lighting.NewClassifier(lighting.DefaultCapacity, nil), r)
	binder := constants.NewBinder(r, manager, lighting.DefaultCapacity)
	r.SetLightPolicy(manager)
	r.SetConstantProvider(binder)

	s := core.NewScene()
	s.SetActiveCamera(core.NewCamera("cam"))
	s.Env.AmbientLight = mgl32.Vec4{0.2, 0.2, 0.2, 1}
	p := core.NewLightNode("p", core.DefaultLightData())
	p.SetPosition(-150, 50, 0)
	s.AddLight(p)
	mesh := s.AddMesh(core.NewMeshNode("m", core.NewSphereMesh("s", 1, 4)))
	mesh.Material.Program = 1
	mesh.SetPosition(10, 0, 0)

	stats := r.DrawAll(s)
	require.Equal(t, 1, stats.Draws)

	assert.Equal(t, []int32{1}, services.ints["PointLightCount"])
	assert.Equal(t, []float32{-150, 50, 0}, services.floats["PointLightPosition[0]"])
	assert.Equal(t, []float32{3}, services.floats["Time"])
	assert.Equal(t, []float32{800}, services.floats["ScreenWidth"])
	assert.Equal(t, []float32{0.2, 0.2, 0.2, 1}, services.floats["AmbientLight"])
	world := services.floats["WorldMatrix"]
	assert.Equal(t, float32(10), world[12])
	assert.Contains(t, services.floats, "CameraPosition")
}
