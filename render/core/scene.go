package core

type RenderPass uint8

const (
	PassSolid RenderPass = iota
	PassTransparent
)

func (p RenderPass) String() string {
	switch p {
	case PassSolid:
		return "solid"
	case PassTransparent:
		return "transparent"
	}
	return "unknown"
}

// RenderPasses lists the passes in draw order.
var RenderPasses = []RenderPass{PassSolid, PassTransparent}

type TransformKind uint8

const (
	TransformWorld TransformKind = iota
	TransformView
	TransformProjection
	transformCount
)

// TransformKindCount is the number of driver transform slots.
const TransformKindCount = int(transformCount)

// Scene holds the nodes the renderer draws each frame. It owns no GPU state.
type Scene struct {
	Meshes []*MeshNode
	Lights []*LightNode
	Env    Environment

	camera *Camera
}

func NewScene() *Scene {
	return &Scene{Env: DefaultEnvironment()}
}

func (s *Scene) AddMesh(m *MeshNode) *MeshNode {
	s.Meshes = append(s.Meshes, m)
	return m
}

func (s *Scene) AddLight(l *LightNode) *LightNode {
	s.Lights = append(s.Lights, l)
	return l
}

func (s *Scene) RemoveLight(l *LightNode) bool {
	for i, cur := range s.Lights {
		if cur == l {
			s.Lights = append(s.Lights[:i], s.Lights[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scene) SetActiveCamera(c *Camera) {
	s.camera = c
}

// ActiveCamera returns nil when no camera has been set.
func (s *Scene) ActiveCamera() *Camera {
	return s.camera
}

func (s *Scene) Environment() Environment {
	return s.Env
}

// NodesInPass returns the visible mesh nodes drawn in pass, in scene order.
func (s *Scene) NodesInPass(pass RenderPass) []*MeshNode {
	var out []*MeshNode
	for _, m := range s.Meshes {
		if m.Mesh == nil || !m.IsVisible() {
			continue
		}
		if m.Pass() == pass {
			out = append(out, m)
		}
	}
	return out
}
