package scene

// Kind is the single role a node plays in the exported scene.
type Kind int

const (
	KindEmpty Kind = iota
	KindGeometry
	KindLight
	KindEmitter
	KindCamera
	KindTrigger
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindGeometry:
		return "geometry"
	case KindLight:
		return "light"
	case KindEmitter:
		return "emitter"
	case KindCamera:
		return "camera"
	case KindTrigger:
		return "trigger"
	default:
		return "unknown"
	}
}

// Classify picks the node's kind. When a node carries several components the
// first match wins, in this order: light, particle emitter, camera, geometry
// (mesh present), trigger volume (box collider without audio), empty.
func Classify(n *Node) Kind {
	switch {
	case n.Light != nil:
		return KindLight
	case n.Emitter != nil:
		return KindEmitter
	case n.Camera != nil:
		return KindCamera
	case n.Mesh() != nil:
		return KindGeometry
	case n.Collider != nil && n.Collider.Shape == ShapeBox && n.Audio == nil:
		return KindTrigger
	default:
		return KindEmpty
	}
}
