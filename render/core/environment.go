package core

import "github.com/go-gl/mathgl/mgl32"

type FogType uint32

const (
	FogExp FogType = iota
	FogLinear
	FogExp2
)

type Fog struct {
	Color   mgl32.Vec4
	Type    FogType
	Start   float32 // linear only
	End     float32 // linear only
	Density float32 // exponential only
	// PerPixel and Range mirror the driver fog state; the shaders ignore both.
	PerPixel bool
	Range    bool
}

func DefaultFog() Fog {
	return Fog{
		Color:   mgl32.Vec4{1, 1, 1, 0},
		Type:    FogLinear,
		Start:   50,
		End:     100,
		Density: 0.01,
	}
}

// Environment is the scene-wide state read by shaders: ambient light, shadow colour and fog.
type Environment struct {
	AmbientLight mgl32.Vec4
	ShadowColor  mgl32.Vec4
	Fog          Fog
}

func DefaultEnvironment() Environment {
	return Environment{
		AmbientLight: mgl32.Vec4{0, 0, 0, 0},
		ShadowColor:  mgl32.Vec4{0, 0, 0, 150.0 / 255.0},
		Fog:          DefaultFog(),
	}
}
