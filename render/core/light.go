package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeSpot        LightType = 1
	LightTypeDirectional LightType = 2
)

func (t LightType) String() string {
	switch t {
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	case LightTypeDirectional:
		return "directional"
	}
	return fmt.Sprintf("LightType(%d)", uint32(t))
}

// Forward is the canonical light direction before the node's rotation is applied.
var Forward = mgl32.Vec3{0, 0, 1}

type LightData struct {
	Type          LightType
	AmbientColor  mgl32.Vec4
	DiffuseColor  mgl32.Vec4
	SpecularColor mgl32.Vec4
	Attenuation   mgl32.Vec3 // constant, linear, quadratic
	Radius        float32
	InnerCone     float32 // degrees
	OuterCone     float32 // degrees
	Falloff       float32
}

func DefaultLightData() LightData {
	return LightData{
		Type:          LightTypePoint,
		AmbientColor:  mgl32.Vec4{0, 0, 0, 1},
		DiffuseColor:  mgl32.Vec4{1, 1, 1, 1},
		SpecularColor: mgl32.Vec4{1, 1, 1, 1},
		Attenuation:   mgl32.Vec3{1, 0, 0},
		Radius:        100,
		InnerCone:     0,
		OuterCone:     45,
		Falloff:       2,
	}
}

type LightNode struct {
	Node
	Data LightData
}

func NewLightNode(name string, data LightData) *LightNode {
	return &LightNode{
		Node: NewNode(name),
		Data: data,
	}
}

func (l *LightNode) Type() LightType {
	return l.Data.Type
}

func (l *LightNode) WorldPosition() mgl32.Vec3 {
	return l.AbsolutePosition()
}

// WorldDirection rotates Forward by the node's absolute transformation.
// The result is not normalized; scaled parents scale it too.
func (l *LightNode) WorldDirection() mgl32.Vec3 {
	return RotateVector(l.AbsoluteTransformation(), Forward)
}
