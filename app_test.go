package shaderlab

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

// recordingLogger keeps every line it is given.
type recordingLogger struct {
	debug bool
	lines []string
}

func (l *recordingLogger) DebugEnabled() bool    { return l.debug }
func (l *recordingLogger) SetDebug(enabled bool) { l.debug = enabled }
func (l *recordingLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, "DEBUG "+fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, "INFO "+fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.lines = append(l.lines, "ERROR "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) has(prefix string) bool {
	for _, line := range l.lines {
		if len(line) >= len(prefix) && line[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func TestApp_changeState(t *testing.T) {
	app := newApp()
	require.Equal(t, StateRunning, app.State())

	app.changeState(StatePaused)
	assert.Equal(t, StatePaused, app.nextState, "The nextState should be set correctly.")
	assert.True(t, app.stateTransitioning, "The stateTransitioning flag should be true.")

	app.executeChangeState(StatePaused)
	assert.Equal(t, StatePaused, app.state, "The app state should change correctly.")
}

func TestApp_executeChangeStateRunsExitAndEnter(t *testing.T) {
	app := newApp()
	var calls []string
	app.UseSystem(System(func() { calls = append(calls, "exit running") }).InStage(Prelude).InState(OnExit(StateRunning)))
	app.UseSystem(System(func() { calls = append(calls, "enter paused") }).InStage(Prelude).InState(OnEnter(StatePaused)))

	app.executeChangeState(StatePaused)
	assert.Equal(t, []string{"exit running", "enter paused"}, calls)

	// same state is a no-op
	app.executeChangeState(StatePaused)
	assert.Len(t, calls, 2)
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestResource(t *testing.T) {
	app := newApp()
	_, ok := Resource[MockResource1](app)
	assert.False(t, ok)

	r := NewMockResource1("one")
	app.addResources(r)
	got, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestApp_callSystemResolvesDependencies(t *testing.T) {
	app := newApp()
	r1 := NewMockResource1("r1")
	app.addResources(r1)

	var gotRes *MockResource1
	var gotCmd *Commands
	app.callSystem(func(res *MockResource1, cmd *Commands) {
		gotRes = res
		gotCmd = cmd
	})
	assert.Same(t, r1, gotRes)
	require.NotNil(t, gotCmd)
	assert.Same(t, app, gotCmd.app)

	assert.Panics(t, func() {
		app.callSystem(func(*MockResource2) {})
	})
}

func TestApp_callSystemLogsReturnedError(t *testing.T) {
	app := newApp()
	log := &recordingLogger{}
	app.addResources(log)

	app.callSystem(func() error { return errors.New("boom") })
	app.callSystem(func() error { return nil })

	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "boom")
}

func TestApp_RunStopsOnExit(t *testing.T) {
	app := newApp()
	frames := 0
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 3 {
			cmd.Exit()
		}
	}).InStage(Update).RunAlways())

	require.NoError(t, app.Run())
	assert.Equal(t, 3, frames)
	assert.Equal(t, uint64(3), app.Frames())
	assert.Equal(t, StateStopped, app.State())
}

func TestApp_RunSkipsRunningSystemsWhilePaused(t *testing.T) {
	app := newApp()
	frames, running := 0, 0
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		switch frames {
		case 1:
			cmd.ChangeState(StatePaused)
		case 3:
			cmd.ChangeState(StateRunning)
		case 4:
			cmd.Exit()
		}
	}).InStage(PostUpdate).RunAlways())
	app.UseSystem(System(func() { running++ }).InStage(Update).InState(OnExecute(StateRunning)))

	require.NoError(t, app.Run())
	// frames 1 and 4 run in StateRunning
	assert.Equal(t, 2, running)
}

func TestApp_ShutdownRunsHooksInReverse(t *testing.T) {
	app := newApp()
	cmd := app.Commands()
	var order []string
	for _, step := range []string{"device", "window", "fonts"} {
		cmd.OnShutdown(step, func() error {
			order = append(order, step)
			return nil
		})
	}

	require.NoError(t, app.Shutdown())
	assert.Equal(t, []string{"fonts", "window", "device"}, order)

	// hooks run once
	require.NoError(t, app.Shutdown())
	assert.Len(t, order, 3)
}

func TestApp_ShutdownJoinsErrors(t *testing.T) {
	app := newApp()
	cmd := app.Commands()
	errA := errors.New("a")
	errB := errors.New("b")
	ran := false
	cmd.OnShutdown("first", func() error { return errA })
	cmd.OnShutdown("second", func() error { ran = true; return nil })
	cmd.OnShutdown("third", func() error { return errB })

	err := app.Shutdown()
	require.Error(t, err)
	assert.True(t, ran)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "shutdown third")
}

func TestApp_UseSystemUnknownStagePanics(t *testing.T) {
	app := newApp()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Nowhere"}))
	})
}
