package shaderlab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModule struct {
	installed bool
	err       error
	shutdown  *[]string
}

func (m *MockModule) Install(app *App, commands *Commands) error {
	if m.err != nil {
		return m.err
	}
	m.installed = true
	if m.shutdown != nil {
		commands.OnShutdown("mock", func() error {
			*m.shutdown = append(*m.shutdown, "mock")
			return nil
		})
	}
	return nil
}

type MockModule2 struct {
	installed bool
}

func (m *MockModule2) Step() string { return "second" }

func (m *MockModule2) Install(app *App, commands *Commands) error {
	m.installed = true
	return nil
}

// moduleFunc adapts a function to Module for one-off test steps.
type moduleFunc func(app *App, cmd *Commands) error

func (f moduleFunc) Install(app *App, cmd *Commands) error { return f(app, cmd) }

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	assert.Len(t, builder.modules, 1)
}

func TestAppBuilder_BuildInstallsInOrder(t *testing.T) {
	var order []string
	first := moduleFunc(func(app *App, cmd *Commands) error {
		order = append(order, "first")
		return nil
	})
	m2 := &MockModule2{}
	last := moduleFunc(func(app *App, cmd *Commands) error {
		require.True(t, m2.installed)
		order = append(order, "last")
		return nil
	})

	app, err := NewAppBuilder().UseModule(first, m2, last).Build()
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, []string{"first", "last"}, order)
	assert.Equal(t, StateRunning, app.State())
}

func TestAppBuilder_BuildLogsSteps(t *testing.T) {
	log := &recordingLogger{}
	withLogger := moduleFunc(func(app *App, cmd *Commands) error {
		cmd.AddResources(log)
		return nil
	})

	_, err := NewAppBuilder().UseModule(withLogger, &MockModule2{}).Build()
	require.NoError(t, err)
	assert.Contains(t, log.lines, "INFO second")
	assert.Contains(t, log.lines, "INFO second success")
}

func TestAppBuilder_BuildStopsAtFirstFailure(t *testing.T) {
	var shutdown []string
	ok := &MockModule{shutdown: &shutdown}
	cause := errors.New("no adapter")
	failing := moduleFunc(func(app *App, cmd *Commands) error {
		return initError("device", ReasonDevice, cause)
	})
	after := &MockModule2{}

	app, err := NewAppBuilder().UseModule(ok, failing, after).Build()
	require.Error(t, err)
	assert.Nil(t, app)
	assert.True(t, ok.installed)
	assert.False(t, after.installed, "steps after the failing one must not run")
	assert.Equal(t, []string{"mock"}, shutdown, "installed steps are shut down")

	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "device", ie.Step)
	assert.Equal(t, ReasonDevice, ie.Reason)
	assert.ErrorIs(t, err, cause)
}

func TestAppBuilder_BuildWrapsPlainErrors(t *testing.T) {
	cause := errors.New("bad")
	_, err := NewAppBuilder().UseModule(&MockModule{err: cause}).Build()

	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "Mock", ie.Step)
	assert.Equal(t, ReasonUnknown, ie.Reason)
	assert.ErrorIs(t, err, cause)
}

func TestModuleStep(t *testing.T) {
	assert.Equal(t, "Mock", moduleStep(&MockModule{}))
	assert.Equal(t, "second", moduleStep(&MockModule2{}))
	assert.Equal(t, "device", moduleStep(DeviceModule{}))
	assert.Equal(t, "lightManager", moduleStep(LightingModule{}))
}
