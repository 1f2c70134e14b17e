package core

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type NodeId = uuid.UUID

// Node is a scene graph element with a local transform relative to its parent.
type Node struct {
	Id      NodeId
	Name    string
	Local   Transform
	Visible bool

	parent   *Node
	children []*Node
}

func NewNode(name string) Node {
	return Node{
		Id:      uuid.New(),
		Name:    name,
		Local:   NewTransform(),
		Visible: true,
	}
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// SetParent reparents n. A nil parent detaches it.
func (n *Node) SetParent(parent *Node) {
	if n.parent != nil {
		siblings := n.parent.children
		for i, c := range siblings {
			if c == n {
				n.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}
}

func (n *Node) SetPosition(x, y, z float32) {
	n.Local.Position = mgl32.Vec3{x, y, z}
}

func (n *Node) SetScale(x, y, z float32) {
	n.Local.Scale = mgl32.Vec3{x, y, z}
}

func (n *Node) SetRotationDegrees(x, y, z float32) {
	n.Local.SetRotationDegrees(x, y, z)
}

// AbsoluteTransformation is the node's object-to-world matrix including all ancestors.
func (n *Node) AbsoluteTransformation() mgl32.Mat4 {
	m := n.Local.ObjectToWorld()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local.ObjectToWorld().Mul4(m)
	}
	return m
}

func (n *Node) AbsolutePosition() mgl32.Vec3 {
	return n.AbsoluteTransformation().Col(3).Vec3()
}

// IsVisible is false when n or any ancestor is hidden.
func (n *Node) IsVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}
