package scene

import (
	"encoding/binary"
	stdmath "math"
	"strconv"

	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/naming"
)

// Mesh is shared geometry: positions, up to two UV channels and triangles.
type Mesh struct {
	Name      string
	Vertices  []math.Vec3
	UV0       []math.Vec2 // optional, one per vertex
	UV1       []math.Vec2 // optional lightmap channel
	Triangles [][3]int
}

// ContentKey returns the mesh's content checksum: the sum of every byte of
// every vertex component's little-endian IEEE-754 encoding, with signed 32-bit
// wraparound. It is deliberately weak; distinct meshes may collide.
func (m *Mesh) ContentKey() int32 {
	var sum int32
	var buf [4]byte
	for _, v := range m.Vertices {
		for _, c := range [3]float32{v.X, v.Y, v.Z} {
			binary.LittleEndian.PutUint32(buf[:], stdmath.Float32bits(c))
			for _, b := range buf {
				sum += int32(b)
			}
		}
	}
	return sum
}

// MeshFilter attaches a shared mesh to a node.
type MeshFilter struct {
	Mesh *Mesh
}

// NoLightmap marks a renderer without a baked lightmap.
const NoLightmap = -1

// LightmapBinding places a node in one of the scene's lightmaps.
// ScaleOffset is (scaleU, scaleV, offsetU, offsetV).
type LightmapBinding struct {
	Index       int
	ScaleOffset [4]float32
}

// Assigned reports whether the binding names a lightmap at all. Engines use
// 255 and 65534 as "not lightmapped" sentinels besides negative values.
func (b LightmapBinding) Assigned() bool {
	return b.Index >= 0 && b.Index != 255 && b.Index != 0xFFFE
}

// Renderer draws a node's mesh with a material.
type Renderer struct {
	Material *Material
	Lightmap LightmapBinding
}

// TextureSlot is a material texture role.
type TextureSlot int

const (
	SlotDiffuse TextureSlot = iota
	SlotBump
	SlotLightmap

	NumSlots = 3
)

// String returns the slot's role name.
func (s TextureSlot) String() string {
	switch s {
	case SlotDiffuse:
		return "diffuse"
	case SlotBump:
		return "bump"
	case SlotLightmap:
		return "lightmap"
	default:
		return "slot(" + strconv.Itoa(int(s)) + ")"
	}
}

// Material is a shader plus colour and texture bindings.
// Its identity comes from the source asset, not its content.
type Material struct {
	Name       string
	InstanceID int64
	Shader     string
	Color      [3]float32
	Textures   [NumSlots]*Texture
}

// NewMaterial creates a white material with a fresh instance number.
func NewMaterial(name, shader string) *Material {
	return &Material{
		Name:       name,
		InstanceID: NextInstanceID(),
		Shader:     shader,
		Color:      [3]float32{1, 1, 1},
	}
}

// ID returns the material's source identity.
func (m *Material) ID() string {
	return naming.Identity(m.Name, strconv.FormatInt(m.InstanceID, 10))
}

// Texture is a texture asset, optionally backed by an image file.
type Texture struct {
	Name       string
	InstanceID int64
	Path       string
}

// NewTexture creates a texture with a fresh instance number.
func NewTexture(name, path string) *Texture {
	return &Texture{Name: name, InstanceID: NextInstanceID(), Path: path}
}

// ID returns the texture's source identity.
func (t *Texture) ID() string {
	return naming.Identity(t.Name, strconv.FormatInt(t.InstanceID, 10))
}

// LightType enumerates light shapes.
type LightType int

const (
	LightPoint LightType = iota
	LightSpot
	LightDirectional
	LightArea
)

// String returns a human-readable light type name.
func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	case LightDirectional:
		return "directional"
	case LightArea:
		return "area"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Light is a light source attached to a node.
type Light struct {
	Type      LightType
	Intensity float32
	Range     float32
	Color     [3]float32
	SpotAngle float32 // full cone angle in degrees, spot lights only
}

// ParticleEmitter is a legacy particle emitter attached to a node.
type ParticleEmitter struct {
	Texture       string
	LocalVelocity math.Vec3
	Force         math.Vec3
	MinEnergy     float32
	MaxEnergy     float32
	MinEmission   float32
	MaxEmission   float32
	Count         int
	OneShot       bool
	AlphaFadeIn   float32
	AlphaFadeOut  float32
	MinSize       float32
	MaxSize       float32
	SizeGrow      float32
	MinRotation   float32
	MaxRotation   float32
	RotationGrow  float32
	Damping       float32
}

// ColliderShape enumerates collider volumes.
type ColliderShape int

const (
	ShapeBox ColliderShape = iota
	ShapeSphere
	ShapeCapsule
	ShapeMesh
)

// Collider is a physics volume attached to a node.
type Collider struct {
	Shape     ColliderShape
	Center    math.Vec3
	Size      math.Vec3
	IsTrigger bool
}

// AudioSource marks a node that plays sound.
type AudioSource struct {
	Clip string
}

// Camera marks a node as a viewpoint.
type Camera struct {
	FieldOfView float32
	Near, Far   float32
}
