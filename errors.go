package shaderlab

import "fmt"

type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonDevice
	ReasonWindow
	ReasonShader
	ReasonAsset
	ReasonConfig
)

func (r Reason) String() string {
	switch r {
	case ReasonDevice:
		return "device"
	case ReasonWindow:
		return "window"
	case ReasonShader:
		return "shader"
	case ReasonAsset:
		return "asset"
	case ReasonConfig:
		return "config"
	}
	return "unknown"
}

// InitError is returned when a startup step fails. Steps after the failing
// one are not run.
type InitError struct {
	Step   string
	Reason Reason
	Err    error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("init %s: %s failure", e.Step, e.Reason)
	}
	return fmt.Sprintf("init %s: %s failure: %v", e.Step, e.Reason, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func initError(step string, reason Reason, err error) *InitError {
	return &InitError{Step: step, Reason: reason, Err: err}
}
