package shaderlab

import (
	"github.com/gekko3d/shaderlab/render/core"
	"github.com/gekko3d/shaderlab/render/lighting"
)

// Lighting is the per-frame light list policy and the classifier behind it.
type Lighting struct {
	Classifier *lighting.Classifier
	Manager    *lighting.Manager
}

// sceneResource returns the shared scene, creating it on first use.
func sceneResource(app *App, cmd *Commands) *core.Scene {
	if s, ok := Resource[core.Scene](app); ok {
		return s
	}
	s := core.NewScene()
	cmd.AddResources(s)
	return s
}

type LightingModule struct {
	// Culler narrows the lights each node sees. Nil gives every node every light.
	Culler lighting.Culler
}

func (LightingModule) Step() string { return "lightManager" }

func (m LightingModule) Install(app *App, cmd *Commands) error {
	capacity := lighting.DefaultCapacity
	if cfg, ok := Resource[Config](app); ok {
		capacity = cfg.Lights.Normalized()
	}

	scene := sceneResource(app, cmd)
	classifier := lighting.NewClassifier(capacity, app.Logger())
	manager := lighting.NewManager(classifier, scene)
	manager.SetCuller(m.Culler)

	cmd.AddResources(&Lighting{Classifier: classifier, Manager: manager})
	return nil
}
