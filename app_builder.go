package shaderlab

import (
	"errors"
	"reflect"
	"strings"
)

type Module interface {
	Install(app *App, cmd *Commands) error
}

// A Module that names its startup step is logged under that name,
// otherwise under its type name.
type stepNamer interface {
	Step() string
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: newApp()}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs the modules in order. The first failing module stops the
// sequence: what was already installed is shut down and the failure is
// returned as an *InitError.
func (b *AppBuilder) Build() (*App, error) {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		step := moduleStep(module)
		log := app.Logger()
		log.Infof("%s", step)

		if err := module.Install(app, commands); err != nil {
			var ie *InitError
			if !errors.As(err, &ie) {
				ie = initError(step, ReasonUnknown, err)
			}
			log.Errorf("%s failed: %v", step, err)
			if serr := app.Shutdown(); serr != nil {
				log.Errorf("%v", serr)
			}
			return nil, ie
		}
		app.Logger().Infof("%s success", step)
	}

	return app, nil
}

func moduleStep(m Module) string {
	if n, ok := m.(stepNamer); ok {
		return n.Step()
	}
	t := reflect.TypeOf(m)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.TrimSuffix(t.Name(), "Module")
}
