package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of floats per interleaved vertex: position, normal, uv.
const VertexStride = 8

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexStride)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
		)
	}
	return out
}

// NewSphereMesh builds a UV sphere centred on the origin.
func NewSphereMesh(name string, radius float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	rings := segments
	mesh := &Mesh{Name: name}

	for r := 0; r <= rings; r++ {
		v := float64(r) / float64(rings)
		phi := v * math.Pi
		for s := 0; s <= segments; s++ {
			u := float64(s) / float64(segments)
			theta := u * 2 * math.Pi

			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{float32(u), float32(v)},
			})
		}
	}

	row := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*row + s
			b := a + row
			mesh.Indices = append(mesh.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return mesh
}

// NewQuadMesh builds a w x h quad in the XY plane facing -Z. UVs are laid out
// so a texture reads left to right when viewed from -Z.
func NewQuadMesh(name string, w, h float32) *Mesh {
	hw, hh := w/2, h/2
	n := mgl32.Vec3{0, 0, -1}
	return &Mesh{
		Name: name,
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-hw, -hh, 0}, Normal: n, UV: mgl32.Vec2{1, 1}},
			{Position: mgl32.Vec3{hw, -hh, 0}, Normal: n, UV: mgl32.Vec2{0, 1}},
			{Position: mgl32.Vec3{hw, hh, 0}, Normal: n, UV: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{-hw, hh, 0}, Normal: n, UV: mgl32.Vec2{1, 0}},
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

// MeshNode places a mesh in the scene with one material per mesh.
type MeshNode struct {
	Node
	Mesh     *Mesh
	Material Material
}

func NewMeshNode(name string, mesh *Mesh) *MeshNode {
	return &MeshNode{
		Node:     NewNode(name),
		Mesh:     mesh,
		Material: NewMaterial(),
	}
}

func (m *MeshNode) Pass() RenderPass {
	if m.Material.Transparent() {
		return PassTransparent
	}
	return PassSolid
}
