package shaderlab

type State int

const (
	StateRunning State = iota
	StatePaused
	StateStopped
)

var allStates = []State{StateRunning, StatePaused, StateStopped}

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// LifecycleModule maps input onto the app states: P pauses and resumes,
// Escape or closing the window stops.
type LifecycleModule struct{}

func (mod LifecycleModule) Step() string { return "lifecycle" }

func (mod LifecycleModule) Install(app *App, cmd *Commands) error {
	app.UseSystem(
		System(lifecycleSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(pausedSystem).
			InStage(Prelude).
			InState(OnEnter(StatePaused)),
	)
	app.UseSystem(
		System(resumedSystem).
			InStage(Prelude).
			InState(OnExit(StatePaused)),
	)
	return nil
}

func lifecycleSystem(input *Input, cmd *Commands) {
	if input.CloseRequested {
		cmd.Exit()
		return
	}
	if !input.JustPressed[KeyP] {
		return
	}

	switch cmd.State() {
	case StateRunning:
		cmd.ChangeState(StatePaused)
	case StatePaused:
		cmd.ChangeState(StateRunning)
	}
}

func pausedSystem(cmd *Commands) {
	cmd.app.Logger().Infof("paused")
}

func resumedSystem(cmd *Commands) {
	cmd.app.Logger().Infof("resumed")
}
