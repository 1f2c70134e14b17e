package shaderlab

import (
	"fmt"

	"github.com/gekko3d/shaderlab/render/opengl"
	"github.com/gekko3d/shaderlab/render/shaders"
)

// DeviceModule opens the window and GL context and creates the draw driver.
// Everything after it in the startup sequence can assume a current context.
type DeviceModule struct{}

func (m DeviceModule) Step() string { return "device" }

func (m DeviceModule) Install(app *App, cmd *Commands) error {
	cfg := DefaultConfig()
	if c, ok := Resource[Config](app); ok {
		cfg = *c
	}

	ws, err := createWindowState(cfg.Window)
	if err != nil {
		return initError("device", ReasonDevice, err)
	}
	cmd.OnShutdown("device", func() error {
		ws.destroy()
		return nil
	})

	vert, frag, err := shaders.Source(shaders.Fallback)
	if err != nil {
		return initError("device", ReasonDevice, err)
	}
	driver, err := opengl.NewDriver(ws.FramebufferSize, opengl.Source{
		Name:         shaders.Fallback,
		VertexPath:   shaders.VertexFile(shaders.Fallback),
		FragmentPath: shaders.FragmentFile(shaders.Fallback),
		Vertex:       vert,
		Fragment:     frag,
	})
	if err != nil {
		return initError("device", ReasonDevice, err)
	}
	cmd.OnShutdown("driver", func() error {
		driver.Release()
		return nil
	})

	app.Logger().Infof("OpenGL %s", opengl.Version())
	cmd.AddResources(ws, driver)
	return nil
}

// WindowModule sets the caption and hides the cursor. The caption is cleared
// again on shutdown.
type WindowModule struct{}

func (m WindowModule) Step() string { return "window" }

func (m WindowModule) Install(app *App, cmd *Commands) error {
	ws, ok := Resource[WindowState](app)
	if !ok {
		return initError("window", ReasonWindow, fmt.Errorf("no window"))
	}

	if cfg, ok := Resource[Config](app); ok && cfg.Window.Title != "" {
		ws.SetTitle(cfg.Window.Title)
	}
	ws.SetCursorVisible(false)

	cmd.OnShutdown("window", func() error {
		if ws.windowGlfw != nil {
			ws.SetTitle("")
		}
		return nil
	})
	return nil
}
