// Package emit defines the closed set of statements the exporter produces and
// the sinks that receive them. Records carry data only; rendering them as
// text is the job of a single sink, Script.
package emit

import "github.com/Faultbox/blendexport/pkg/math"

// Record is one output statement.
type Record interface {
	// Kind returns the record's stable kind name, e.g. "mesh-define".
	Kind() string
}

// MeshDefine creates mesh data. Triangles are already in destination winding.
type MeshDefine struct {
	ID        string
	Vertices  []math.Vec3
	UV0       []math.Vec2
	UV1       []math.Vec2
	Triangles [][3]int
}

// MeshReference selects a previously defined mesh.
type MeshReference struct {
	ID string
}

// BlendFunc is a custom blend equation for additive materials.
type BlendFunc struct {
	Src, Dst           string
	SrcAlpha, DstAlpha string
	Cull               bool
}

// AdditiveBlend is the blend equation additive shaders map to.
var AdditiveBlend = BlendFunc{
	Src:      "GL_ONE",
	Dst:      "GL_ONE",
	SrcAlpha: "GL_ONE",
	DstAlpha: "GL_ONE",
	Cull:     false,
}

// UV layer names.
const (
	UVMap      = "UVMap"
	UVLightmap = "LM"
)

// SlotRole is how a material uses one of its textures.
type SlotRole string

const (
	RoleDiffuse  SlotRole = "diffuse"
	RoleBump     SlotRole = "bump"
	RoleLightmap SlotRole = "lightmap"
)

// TextureSlot binds a defined texture to a material.
type TextureSlot struct {
	Role    SlotRole
	Texture string
	UVLayer string
}

// MaterialDefine creates a material. All slot textures are defined before it.
type MaterialDefine struct {
	ID       string
	Diffuse  [3]float32
	Cutout   bool
	Additive bool
	Blend    *BlendFunc
	Slots    []TextureSlot
}

// MaterialReference selects a previously defined material.
type MaterialReference struct {
	ID string
}

// TextureDefine creates an image texture. Image is empty when the texture
// has no backing file.
type TextureDefine struct {
	ID    string
	Image string
}

// TextureReference selects a previously defined texture.
type TextureReference struct {
	ID string
}

// ImageLoad loads an image file by absolute path.
// PackPNG embeds it into the destination file as PNG.
type ImageLoad struct {
	ID      string
	Path    string
	PackPNG bool
}

// ImageReference selects a previously loaded image.
type ImageReference struct {
	ID string
}

// Destination light types.
const (
	LightPoint = "POINT"
	LightSpot  = "SPOT"
	LightHemi  = "HEMI"
)

// LightDefine creates light data. SpotSize is the full cone angle in
// radians and only meaningful for spot lights.
type LightDefine struct {
	ID       string
	Type     string
	Energy   float32
	Distance float32
	Color    [3]float32
	SpotSize float32
}

// Payload is the data an object is created with.
type Payload int

const (
	PayloadNone Payload = iota
	PayloadMesh
	PayloadLight
)

// String returns the payload name.
func (p Payload) String() string {
	switch p {
	case PayloadMesh:
		return "mesh"
	case PayloadLight:
		return "light"
	default:
		return "none"
	}
}

// ObjectCreate creates a scene object. Data names the mesh or light
// identity for non-empty payloads.
type ObjectCreate struct {
	ID      string
	Payload Payload
	Data    string
}

// ObjectTransformMatrix sets a root object's full local matrix.
type ObjectTransformMatrix struct {
	ID     string
	Matrix math.Mat4
}

// ObjectTransformTRS sets a child object's local transform.
type ObjectTransformTRS struct {
	ID       string
	Location math.Vec3
	Scale    math.Vec3
	Rotation math.Quat
}

// ObjectParentLink parents Child under Parent if Parent exists.
type ObjectParentLink struct {
	Child  string
	Parent string
}

// ObjectMaterialAttach attaches Material to Object's mesh unless it already
// has one. FaceImage, when set, is assigned to every UV face.
type ObjectMaterialAttach struct {
	Object    string
	Material  string
	Mesh      string
	FaceImage string
}

// ObjectLightmap records the baked lightmap an object samples.
type ObjectLightmap struct {
	Object      string
	Index       int
	ScaleOffset [4]float32
	Texture     string
}

// TriggerVolumeParams marks an object as a box trigger volume.
type TriggerVolumeParams struct {
	Object  string
	Center  math.Vec3
	Extents math.Vec3
}

// ParticleEmitterParams configures an object as a particle emitter.
type ParticleEmitterParams struct {
	Object       string
	Texture      string
	Velocity     math.Vec3
	Force        math.Vec3
	MinEnergy    float32
	MaxEnergy    float32
	MinEmission  float32
	MaxEmission  float32
	Count        int
	OneShot      bool
	AlphaFadeIn  float32
	AlphaFadeOut float32
	MinSize      float32
	MaxSize      float32
	SizeGrow     float32
	MinRotation  float32
	MaxRotation  float32
	RotationGrow float32
	Damping      float32
}

// SceneLink links an object into the active scene.
type SceneLink struct {
	ID string
}

func (MeshDefine) Kind() string            { return "mesh-define" }
func (MeshReference) Kind() string         { return "mesh-reference" }
func (MaterialDefine) Kind() string        { return "material-define" }
func (MaterialReference) Kind() string     { return "material-reference" }
func (TextureDefine) Kind() string         { return "texture-define" }
func (TextureReference) Kind() string      { return "texture-reference" }
func (ImageLoad) Kind() string             { return "image-load" }
func (ImageReference) Kind() string        { return "image-reference" }
func (LightDefine) Kind() string           { return "light-define" }
func (ObjectCreate) Kind() string          { return "object-create" }
func (ObjectTransformMatrix) Kind() string { return "object-transform-matrix" }
func (ObjectTransformTRS) Kind() string    { return "object-transform-trs" }
func (ObjectParentLink) Kind() string      { return "object-parent-link" }
func (ObjectMaterialAttach) Kind() string  { return "object-material-attach" }
func (ObjectLightmap) Kind() string        { return "object-lightmap" }
func (TriggerVolumeParams) Kind() string   { return "trigger-volume-params" }
func (ParticleEmitterParams) Kind() string { return "particle-emitter-params" }
func (SceneLink) Kind() string             { return "scene-link" }
