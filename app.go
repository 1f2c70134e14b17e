package shaderlab

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

type shutdownHook struct {
	step string
	fn   func() error
}

// App owns the resources, stages and systems of one running demo. It is
// built by AppBuilder and driven by Run on the main OS thread.
type App struct {
	stateTransitioning bool
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any
	shutdown           []shutdownHook
	frames             uint64
}

func newApp() *App {
	app := &App{
		state:            StateRunning,
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
		resources:        make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

func (app *App) State() State {
	return app.state
}

// Frames is the number of completed frames.
func (app *App) Frames() uint64 {
	return app.frames
}

// Run loops over the stages until the app reaches StateStopped, then runs
// the shutdown hooks.
func (app *App) Run() error {
	log := app.Logger()
	log.Infof("running")

	app.state = StateRunning
	app.callSystems(app.state, enter)

	for app.state != StateStopped {
		app.callSystems(app.state, execute)
		app.frames++

		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}
	}
	app.callSystems(app.state, exit)

	log.Infof("stopped after %d frames", app.frames)
	return app.Shutdown()
}

// Shutdown runs the registered shutdown hooks once, newest first.
func (app *App) Shutdown() error {
	log := app.Logger()

	var errs []error
	for i := len(app.shutdown) - 1; i >= 0; i-- {
		hook := app.shutdown[i]
		log.Infof("shutdown %s", hook.step)
		if err := hook.fn(); err != nil {
			log.Errorf("shutdown %s: %v", hook.step, err)
			errs = append(errs, fmt.Errorf("shutdown %s: %w", hook.step, err))
			continue
		}
		log.Infof("shutdown %s success", hook.step)
	}
	app.shutdown = nil
	return errors.Join(errs...)
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// On execute, call stateless/always run systems first
		if phase == execute {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		for _, system := range app.systems[stage.Name][state][phase] {
			app.callSystem(system)
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if newState == app.state {
		return
	}
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource stored for *T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			panic(fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			))
		}
	}

	out := systemValue.Call(args)
	if n := len(out); n > 0 && systemType.Out(n-1) == typeOfError && !out[n-1].IsNil() {
		app.Logger().Errorf("%s: %v", runtime.FuncForPC(systemValue.Pointer()).Name(), out[n-1].Interface())
	}
}
