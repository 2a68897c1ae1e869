// Package scene describes the in-memory scene graph handed to the exporter:
// nodes with local transforms and the components attached to them.
package scene

import (
	"strconv"
	"sync/atomic"

	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/naming"
)

var instanceCounter atomic.Int64

// NextInstanceID returns a process-local unique instance number.
func NextInstanceID() int64 {
	return instanceCounter.Add(1)
}

// Transform is a local position/rotation/scale triple.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform returns a transform that leaves its node in place.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.One(),
	}
}

// Node is one element of the scene hierarchy.
// Children are owned by the node; Parent is a back reference only.
type Node struct {
	Name       string
	InstanceID int64
	Transform  Transform
	Children   []*Node
	Parent     *Node

	MeshFilter *MeshFilter
	Renderer   *Renderer
	Light      *Light
	Emitter    *ParticleEmitter
	Collider   *Collider
	Audio      *AudioSource
	Camera     *Camera
}

// NewNode creates a node with an identity transform and a fresh instance number.
func NewNode(name string) *Node {
	return &Node{
		Name:       name,
		InstanceID: NextInstanceID(),
		Transform:  IdentityTransform(),
	}
}

// ID returns the node's stable identity: its sanitised name plus its instance number.
func (n *Node) ID() string {
	return naming.Identity(n.Name, strconv.FormatInt(n.InstanceID, 10))
}

// AddChild appends child to n's children and sets its parent reference.
// A child already attached elsewhere is detached first.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n, if present.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Mesh returns the node's shared mesh, or nil.
func (n *Node) Mesh() *Mesh {
	if n.MeshFilter == nil {
		return nil
	}
	return n.MeshFilter.Mesh
}

// Scene is a set of root nodes plus scene-wide lightmap textures.
type Scene struct {
	Roots     []*Node
	Lightmaps []*Texture
}

