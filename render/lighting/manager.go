package lighting

import (
	"github.com/gekko3d/shaderlab/render/core"
)

// LightListPolicy receives the render loop's light callbacks. OnPreRender runs
// once per frame before any node; the node callbacks bracket every draw.
type LightListPolicy interface {
	OnPreRender(lights []*core.LightNode)
	OnPostRender()
	OnRenderPassPreRender(pass core.RenderPass)
	OnRenderPassPostRender(pass core.RenderPass)
	OnNodePreRender(node *core.Node)
	OnNodePostRender(node *core.Node)
}

type CameraSource interface {
	ActiveCamera() *core.Camera
}

// Culler reports whether light affects node. Lights it rejects are left out
// of that node's lists.
type Culler func(node *core.Node, light *core.LightNode) bool

// Manager is the LightListPolicy used by the renderer. It classifies once per
// frame and exposes per-node copies of the buckets while a node is drawn.
type Manager struct {
	classifier *Classifier
	cameras    CameraSource
	culler     Culler

	node      *core.Node
	nodeLists Buckets
	inFrame   bool
}

func NewManager(classifier *Classifier, cameras CameraSource) *Manager {
	c := classifier.Capacity()
	return &Manager{
		classifier: classifier,
		cameras:    cameras,
		nodeLists: Buckets{
			Directional: make([]*core.LightNode, 0, c.Directional),
			Point:       make([]*core.LightNode, 0, c.Point),
			Spot:        make([]*core.LightNode, 0, c.Spot),
		},
	}
}

// SetCuller installs a per-node filter. nil means every light affects every node.
func (m *Manager) SetCuller(c Culler) {
	m.culler = c
}

func (m *Manager) Classifier() *Classifier {
	return m.classifier
}

func (m *Manager) OnPreRender(lights []*core.LightNode) {
	m.classifier.Reset()
	m.inFrame = true
	if m.cameras == nil || m.cameras.ActiveCamera() == nil {
		return
	}
	m.classifier.Classify(lights)
}

func (m *Manager) OnPostRender() {
	m.inFrame = false
}

func (m *Manager) OnRenderPassPreRender(pass core.RenderPass) {}

func (m *Manager) OnRenderPassPostRender(pass core.RenderPass) {}

func (m *Manager) OnNodePreRender(node *core.Node) {
	m.node = node
	frame := m.classifier.Buckets()
	m.nodeLists.Directional = m.fill(m.nodeLists.Directional[:0], frame.Directional)
	m.nodeLists.Point = m.fill(m.nodeLists.Point[:0], frame.Point)
	m.nodeLists.Spot = m.fill(m.nodeLists.Spot[:0], frame.Spot)
}

func (m *Manager) OnNodePostRender(node *core.Node) {
	m.node = nil
	m.nodeLists.Directional = m.nodeLists.Directional[:0]
	m.nodeLists.Point = m.nodeLists.Point[:0]
	m.nodeLists.Spot = m.nodeLists.Spot[:0]
}

func (m *Manager) fill(dst, src []*core.LightNode) []*core.LightNode {
	for _, l := range src {
		if m.culler != nil && !m.culler(m.node, l) {
			continue
		}
		dst = append(dst, l)
	}
	return dst
}

// Lights returns the lists for the node being drawn, or the frame buckets
// outside a node callback.
func (m *Manager) Lights() Buckets {
	if m.node != nil {
		return m.nodeLists
	}
	return m.classifier.Buckets()
}

// CurrentNode is the node between OnNodePreRender and OnNodePostRender, else nil.
func (m *Manager) CurrentNode() *core.Node {
	return m.node
}
