package shaderlab

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/opengl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler hands out sequential program handles and fails the named variants.
type fakeCompiler struct {
	fail    map[string]bool
	next    core.ProgramHandle
	sources []opengl.Source
}

func (c *fakeCompiler) AddProgram(src opengl.Source) (core.ProgramHandle, error) {
	c.sources = append(c.sources, src)
	if c.fail[src.Name] {
		return core.InvalidProgram, &opengl.ShaderError{Stage: opengl.StageFragment, Path: src.FragmentPath, Log: "syntax error"}
	}
	c.next++
	return c.next, nil
}

// headlessSetup stands in for the device steps: a recording logger and an
// asset server over media.
func headlessSetup(log *recordingLogger, media fstest.MapFS) Module {
	return moduleFunc(func(app *App, cmd *Commands) error {
		cmd.AddResources(log, NewAssetServerFS("media", media))
		return nil
	})
}

func meshByName(scene *core.Scene, name string) *core.MeshNode {
	for _, m := range scene.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func TestDemoModuleBuildsObjects(t *testing.T) {
	log := &recordingLogger{}
	compiler := &fakeCompiler{}
	app, err := NewAppBuilder().UseModule(
		headlessSetup(log, fstest.MapFS{}),
		FontsModule{},
		DemoModule{Compiler: compiler},
	).Build()
	require.NoError(t, err)

	require.Len(t, compiler.sources, 3)
	programs, ok := Resource[Programs](app)
	require.True(t, ok)
	assert.Equal(t, core.ProgramHandle(1), programs.Handle("Basic"))
	assert.Equal(t, core.InvalidProgram, programs.Handle("Toon"))

	scene, ok := Resource[core.Scene](app)
	require.True(t, ok)
	// three spheres, their captions and the ground
	assert.Len(t, scene.Meshes, 7)

	phong := meshByName(scene, "phong")
	require.NotNil(t, phong)
	assert.Equal(t, programs.Handle("Phong"), phong.Material.Program)
	assert.False(t, phong.Material.Lighting)
	assert.Equal(t, float32(20), phong.Material.Shininess)

	caption := meshByName(scene, "phong-caption")
	require.NotNil(t, caption)
	assert.Same(t, &phong.Node, caption.Parent())
	assert.Equal(t, core.PassTransparent, caption.Pass())
	assert.True(t, caption.Material.TextureInUse(0))

	ground := meshByName(scene, "ground")
	require.NotNil(t, ground)
	assert.Equal(t, programs.Handle("Phong"), ground.Material.Program)
	assert.Equal(t, float32(800), ground.Material.Shininess)
	assert.InDelta(t, -25, ground.AbsolutePosition().Y(), 1e-5)
}

func TestDemoModuleShaderFailureIsNotFatal(t *testing.T) {
	log := &recordingLogger{}
	compiler := &fakeCompiler{fail: map[string]bool{"Lambert": true}}
	app, err := NewAppBuilder().UseModule(
		headlessSetup(log, fstest.MapFS{}),
		DemoModule{Compiler: compiler},
	).Build()
	require.NoError(t, err)

	scene, _ := Resource[core.Scene](app)
	lambert := meshByName(scene, "lambert")
	require.NotNil(t, lambert)
	assert.Equal(t, core.InvalidProgram, lambert.Material.Program)
	assert.NotEqual(t, core.InvalidProgram, meshByName(scene, "basic").Material.Program)

	want := fmt.Sprintf("ERROR unable to load %s %s", "embedded/shaders/LambertVertexShader.glsl", "embedded/shaders/LambertFragmentShader.glsl")
	assert.True(t, log.has(want), log.lines)
	// no fonts, no captions
	assert.Nil(t, meshByName(scene, "lambert-caption"))
}

func TestDemoModuleWithoutDevice(t *testing.T) {
	log := &recordingLogger{}
	app, err := NewAppBuilder().UseModule(
		headlessSetup(log, fstest.MapFS{}),
		DemoModule{},
	).Build()
	require.NoError(t, err)

	programs, _ := Resource[Programs](app)
	for _, name := range []string{"Basic", "Lambert", "Phong"} {
		assert.Equal(t, core.InvalidProgram, programs.Handle(name))
	}
	assert.True(t, log.has("WARN unable to load"))
}

func TestDemoModuleNeedsAssets(t *testing.T) {
	_, err := NewAppBuilder().UseModule(DemoModule{Compiler: &fakeCompiler{}}).Build()

	var ie *InitError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "demo", ie.Step)
	assert.Equal(t, ReasonAsset, ie.Reason)
}

func TestLightsModuleRemovesLightsOnShutdown(t *testing.T) {
	app, err := NewAppBuilder().UseModule(LightsModule{}).Build()
	require.NoError(t, err)

	scene, _ := Resource[core.Scene](app)
	require.Len(t, scene.Lights, 4)
	orbits, ok := Resource[Orbits](app)
	require.True(t, ok)
	assert.Len(t, orbits.Lights, 3)

	require.NoError(t, app.Shutdown())
	// the sun does not orbit and stays
	assert.Len(t, scene.Lights, 1)
}

func TestGUIModuleHiddenWhenWindowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Fullscreen = false
	app, err := NewAppBuilder().UseModule(
		ConfigModule{Preset: &cfg},
		headlessSetup(&recordingLogger{}, fstest.MapFS{}),
		FontsModule{},
		GUIModule{},
	).Build()
	require.NoError(t, err)

	hud, ok := Resource[Hud](app)
	require.True(t, ok)
	assert.False(t, hud.Visible)
	require.NotNil(t, hud.Node)
	tex := hud.Node.Material.Texture(0)
	require.NotNil(t, tex)
	assert.Positive(t, tex.Width)
}

func TestSkyModule(t *testing.T) {
	t.Run("missing texture is skipped", func(t *testing.T) {
		log := &recordingLogger{}
		app, err := NewAppBuilder().UseModule(
			headlessSetup(log, fstest.MapFS{}),
			FlyingCameraModule{},
			SkyModule{},
		).Build()
		require.NoError(t, err)

		scene, _ := Resource[core.Scene](app)
		assert.Nil(t, meshByName(scene, "sky"))
		assert.True(t, log.has("DEBUG sky"))
	})

	t.Run("textured dome follows the camera", func(t *testing.T) {
		media := fstest.MapFS{"sky/space1.jpg": {Data: pngBytes(t, 8, 4)}}
		app, err := NewAppBuilder().UseModule(
			headlessSetup(&recordingLogger{}, media),
			FlyingCameraModule{},
			SkyModule{},
		).Build()
		require.NoError(t, err)

		scene, _ := Resource[core.Scene](app)
		sky := meshByName(scene, "sky")
		require.NotNil(t, sky)
		assert.Same(t, &scene.ActiveCamera().Node, sky.Parent())
		assert.False(t, sky.Material.ZWriteEnable)
		assert.True(t, sky.Material.TextureInUse(0))
	})

	t.Run("corrupt texture fails startup", func(t *testing.T) {
		media := fstest.MapFS{"sky/space1.jpg": {Data: []byte("garbage")}}
		_, err := NewAppBuilder().UseModule(
			headlessSetup(&recordingLogger{}, media),
			SkyModule{},
		).Build()

		var ie *InitError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, ReasonAsset, ie.Reason)
	})
}

func TestFlyingCameraStartPosition(t *testing.T) {
	app, err := NewAppBuilder().UseModule(FlyingCameraModule{}).Build()
	require.NoError(t, err)

	scene, _ := Resource[core.Scene](app)
	cam := scene.ActiveCamera()
	require.NotNil(t, cam)
	assert.Equal(t, float32(-250), cam.AbsolutePosition().Z())

	require.NoError(t, app.Shutdown())
	assert.Nil(t, scene.ActiveCamera())
}
