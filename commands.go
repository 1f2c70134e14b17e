package shaderlab

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// OnShutdown registers fn to run once the app stops. Hooks run in reverse
// registration order so teardown mirrors startup.
func (cmd *Commands) OnShutdown(step string, fn func() error) *Commands {
	cmd.app.shutdown = append(cmd.app.shutdown, shutdownHook{step: step, fn: fn})
	return cmd
}

// Exit asks the main loop to stop after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.changeState(StateStopped)
}

func (cmd *Commands) State() State {
	return cmd.app.state
}
