package shaderlab

import (
	"fmt"
	"io"
)

// DemoModules is the startup sequence of the shader demo. Order matters:
// each step may use resources from the steps before it.
func DemoModules() []Module {
	return []Module{
		ConfigModule{},
		LoggingModule{Prefix: "shaderlab"},
		TimeModule{},
		DeviceModule{},
		WindowModule{},
		AssetServerModule{},
		FontsModule{},
		InputModule{},
		LifecycleModule{},
		LightingModule{},
		FlyingCameraModule{},
		LightsModule{},
		DemoModule{},
		GUIModule{},
		SkyModule{},
		RenderModule{},
	}
}

func NewDemoApp() (*App, error) {
	return NewAppBuilder().UseModule(DemoModules()...).Build()
}

// EchoArgs writes each argument on its own line.
func EchoArgs(w io.Writer, args []string) {
	for _, a := range args {
		fmt.Fprintln(w, a)
	}
}
