package shaderlab

import (
	"github.com/gekko3d/shaderlab/render/core"
)

// FlyingCameraModule adds the FPS camera: W/S or Up/Down move, A/D or
// Left/Right strafe, Tab toggles mouse look.
type FlyingCameraModule struct{}

func (FlyingCameraModule) Step() string { return "camera" }

func (m FlyingCameraModule) Install(app *App, cmd *Commands) error {
	scene := sceneResource(app, cmd)

	cam := core.NewCamera("camera")
	cam.SetPosition(0, 50, -250)
	cam.SetRotationDegrees(0, 0, 0)
	cam.Speed = 500
	cam.Look(0, 0)
	scene.SetActiveCamera(cam)

	cmd.OnShutdown("camera", func() error {
		scene.SetActiveCamera(nil)
		return nil
	})

	app.UseSystem(
		System(FlyingCameraCaptureSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(FlyingCameraControlSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
	return nil
}

func FlyingCameraCaptureSystem(input *Input) {
	if input.JustPressed[KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
	}
}

// flyAxes reads the movement keys as forward and strafe amounts in [-1, 1].
func flyAxes(input *Input) (forward, strafe float32) {
	if input.Pressed[KeyW] || input.Pressed[KeyUp] {
		forward += 1
	}
	if input.Pressed[KeyS] || input.Pressed[KeyDown] {
		forward -= 1
	}
	if input.Pressed[KeyD] || input.Pressed[KeyRight] {
		strafe += 1
	}
	if input.Pressed[KeyA] || input.Pressed[KeyLeft] {
		strafe -= 1
	}
	return forward, strafe
}

func FlyingCameraControlSystem(input *Input, scene *core.Scene, time *Time) {
	cam := scene.ActiveCamera()
	if cam == nil {
		return
	}

	if input.MouseCaptured {
		cam.Look(float32(input.MouseDeltaX), float32(input.MouseDeltaY))
	}

	dt := time.DtSeconds()
	if dt <= 0 {
		return
	}
	forward, strafe := flyAxes(input)
	cam.Move(forward, strafe, dt)
}
