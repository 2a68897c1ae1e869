package manifest

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// Components are the optional per-node components. glTF sources read the
// same keys from node extras.
type Components struct {
	Light    *Light       `yaml:"light,omitempty"`
	Emitter  *Emitter     `yaml:"emitter,omitempty"`
	Collider *Collider    `yaml:"collider,omitempty"`
	Audio    *Audio       `yaml:"audio,omitempty"`
	Camera   *Camera      `yaml:"camera,omitempty"`
	Lightmap *LightmapRef `yaml:"lightmap,omitempty"`
}

// Light describes a light component. Type is point, spot, directional or area.
type Light struct {
	Type      string      `yaml:"type"`
	Intensity *float32    `yaml:"intensity,omitempty"`
	Range     float32     `yaml:"range,omitempty"`
	Color     *[3]float32 `yaml:"color,omitempty"`
	SpotAngle float32     `yaml:"spot_angle,omitempty"`
}

// Emitter describes a legacy particle emitter.
type Emitter struct {
	Texture      string     `yaml:"texture,omitempty"`
	Velocity     [3]float32 `yaml:"velocity,omitempty"`
	Force        [3]float32 `yaml:"force,omitempty"`
	MinEnergy    float32    `yaml:"min_energy,omitempty"`
	MaxEnergy    float32    `yaml:"max_energy,omitempty"`
	MinEmission  float32    `yaml:"min_emission,omitempty"`
	MaxEmission  float32    `yaml:"max_emission,omitempty"`
	Count        int        `yaml:"count,omitempty"`
	OneShot      bool       `yaml:"one_shot,omitempty"`
	AlphaFadeIn  float32    `yaml:"alpha_fade_in,omitempty"`
	AlphaFadeOut float32    `yaml:"alpha_fade_out,omitempty"`
	MinSize      float32    `yaml:"min_size,omitempty"`
	MaxSize      float32    `yaml:"max_size,omitempty"`
	SizeGrow     float32    `yaml:"size_grow,omitempty"`
	MinRotation  float32    `yaml:"min_rotation,omitempty"`
	MaxRotation  float32    `yaml:"max_rotation,omitempty"`
	RotationGrow float32    `yaml:"rotation_grow,omitempty"`
	Damping      float32    `yaml:"damping,omitempty"`
}

// Collider describes a physics volume. Shape defaults to box, Size to 1.
type Collider struct {
	Shape   string      `yaml:"shape,omitempty"`
	Center  [3]float32  `yaml:"center,omitempty"`
	Size    *[3]float32 `yaml:"size,omitempty"`
	Trigger bool        `yaml:"trigger,omitempty"`
}

// Audio marks a sound source.
type Audio struct {
	Clip string `yaml:"clip,omitempty"`
}

// Camera describes a viewpoint. FOV is vertical, in degrees.
type Camera struct {
	FOV  float32 `yaml:"fov,omitempty"`
	Near float32 `yaml:"near,omitempty"`
	Far  float32 `yaml:"far,omitempty"`
}

// LightmapRef places the node's renderer in a scene lightmap.
// ScaleOffset defaults to (1, 1, 0, 0).
type LightmapRef struct {
	Index       int         `yaml:"index"`
	ScaleOffset *[4]float32 `yaml:"scale_offset,omitempty"`
}

var lightTypes = map[string]scene.LightType{
	"point":       scene.LightPoint,
	"spot":        scene.LightSpot,
	"directional": scene.LightDirectional,
	"area":        scene.LightArea,
}

var colliderShapes = map[string]scene.ColliderShape{
	"":        scene.ShapeBox,
	"box":     scene.ShapeBox,
	"sphere":  scene.ShapeSphere,
	"capsule": scene.ShapeCapsule,
	"mesh":    scene.ShapeMesh,
}

// Apply attaches the described components to n. A lightmap reference needs
// a renderer; one is created when n has none.
func (c *Components) Apply(n *scene.Node) error {
	if c.Light != nil {
		l, err := c.Light.convert()
		if err != nil {
			return err
		}
		n.Light = l
	}

	if e := c.Emitter; e != nil {
		n.Emitter = &scene.ParticleEmitter{
			Texture:       e.Texture,
			LocalVelocity: vec3(e.Velocity),
			Force:         vec3(e.Force),
			MinEnergy:     e.MinEnergy,
			MaxEnergy:     e.MaxEnergy,
			MinEmission:   e.MinEmission,
			MaxEmission:   e.MaxEmission,
			Count:         e.Count,
			OneShot:       e.OneShot,
			AlphaFadeIn:   e.AlphaFadeIn,
			AlphaFadeOut:  e.AlphaFadeOut,
			MinSize:       e.MinSize,
			MaxSize:       e.MaxSize,
			SizeGrow:      e.SizeGrow,
			MinRotation:   e.MinRotation,
			MaxRotation:   e.MaxRotation,
			RotationGrow:  e.RotationGrow,
			Damping:       e.Damping,
		}
	}

	if col := c.Collider; col != nil {
		shape, ok := colliderShapes[strings.ToLower(col.Shape)]
		if !ok {
			return errors.Wrapf(ErrInvalid, "unknown collider shape %q", col.Shape)
		}
		size := math.One()
		if col.Size != nil {
			size = vec3(*col.Size)
		}
		n.Collider = &scene.Collider{
			Shape:     shape,
			Center:    vec3(col.Center),
			Size:      size,
			IsTrigger: col.Trigger,
		}
	}

	if c.Audio != nil {
		n.Audio = &scene.AudioSource{Clip: c.Audio.Clip}
	}

	if cam := c.Camera; cam != nil {
		n.Camera = &scene.Camera{FieldOfView: cam.FOV, Near: cam.Near, Far: cam.Far}
	}

	if lm := c.Lightmap; lm != nil {
		if n.Renderer == nil {
			n.Renderer = &scene.Renderer{}
		}
		n.Renderer.Lightmap = scene.LightmapBinding{
			Index:       lm.Index,
			ScaleOffset: [4]float32{1, 1, 0, 0},
		}
		if lm.ScaleOffset != nil {
			n.Renderer.Lightmap.ScaleOffset = *lm.ScaleOffset
		}
	}
	return nil
}

func (l *Light) convert() (*scene.Light, error) {
	typ, ok := lightTypes[strings.ToLower(l.Type)]
	if !ok {
		return nil, errors.Wrapf(ErrInvalid, "unknown light type %q", l.Type)
	}
	out := &scene.Light{
		Type:      typ,
		Intensity: 1,
		Range:     l.Range,
		Color:     [3]float32{1, 1, 1},
		SpotAngle: l.SpotAngle,
	}
	if l.Intensity != nil {
		out.Intensity = *l.Intensity
	}
	if l.Color != nil {
		out.Color = *l.Color
	}
	return out, nil
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
