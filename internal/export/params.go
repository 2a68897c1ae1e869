package export

import (
	stdmath "math"

	"github.com/Faultbox/blendexport/internal/emit"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// lightDefine maps a source light. Area lights have no counterpart.
func lightDefine(id string, l *scene.Light) (emit.LightDefine, bool) {
	def := emit.LightDefine{
		ID:       id,
		Energy:   l.Intensity,
		Distance: l.Range,
		Color:    l.Color,
	}
	switch l.Type {
	case scene.LightPoint:
		def.Type = emit.LightPoint
	case scene.LightSpot:
		def.Type = emit.LightSpot
		def.SpotSize = l.SpotAngle * stdmath.Pi / 180
	case scene.LightDirectional:
		def.Type = emit.LightHemi
	default:
		return emit.LightDefine{}, false
	}
	return def, true
}

// trigger converts a box collider into trigger volume parameters.
func (e *Exporter) trigger(id string, c *scene.Collider) emit.TriggerVolumeParams {
	return emit.TriggerVolumeParams{
		Object:  id,
		Center:  e.profile.ConvertPoint(c.Center),
		Extents: e.profile.ConvertScale(c.Size).Scale(0.5).Abs(),
	}
}

// particles fills emitter parameters, taking texture and count from the
// export defaults when the source leaves them unset.
func (e *Exporter) particles(id string, p *scene.ParticleEmitter) emit.ParticleEmitterParams {
	params := emit.ParticleEmitterParams{
		Object:       id,
		Texture:      p.Texture,
		Velocity:     e.profile.ConvertPoint(p.LocalVelocity),
		Force:        e.profile.ConvertPoint(p.Force),
		MinEnergy:    p.MinEnergy,
		MaxEnergy:    p.MaxEnergy,
		MinEmission:  p.MinEmission,
		MaxEmission:  p.MaxEmission,
		Count:        p.Count,
		OneShot:      p.OneShot,
		AlphaFadeIn:  p.AlphaFadeIn,
		AlphaFadeOut: p.AlphaFadeOut,
		MinSize:      p.MinSize,
		MaxSize:      p.MaxSize,
		SizeGrow:     p.SizeGrow,
		MinRotation:  p.MinRotation,
		MaxRotation:  p.MaxRotation,
		RotationGrow: p.RotationGrow,
		Damping:      p.Damping,
	}
	if params.Texture == "" {
		params.Texture = e.opts.Emitter.Texture
	}
	if params.Count <= 0 {
		params.Count = e.opts.Emitter.Count
	}
	return params
}
