package emit

import (
	"bufio"
	"fmt"
	"io"
	stdmath "math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Faultbox/blendexport/pkg/math"
)

// Preamble opens every script: interpreter line, imports and the short
// aliases the statements below rely on.
const Preamble = `#!/usr/bin/python
import bpy
import os
S=bpy.context.scene.objects
D=bpy.data
Me=D.meshes
Ma=D.materials
O=D.objects
T=D.textures
I=D.images
L=D.lamps
Q='QUATERNION'
`

// Script renders records as a Blender Python script.
//
// Statements work on a handful of variables (o, me, ma, t, i, l). Script
// remembers which identity each variable holds and emits a lookup only when
// a record refers to something other than the current binding, so the
// output stays close to hand-written form without depending on it.
type Script struct {
	w       *bufio.Writer
	started bool
	bound   map[string]string
	buf     strings.Builder
}

// NewScript creates a script sink writing to w. Call Flush when done.
func NewScript(w io.Writer) *Script {
	return &Script{
		w:     bufio.NewWriter(w),
		bound: make(map[string]string),
	}
}

// Write renders one record.
func (s *Script) Write(r Record) error {
	s.buf.Reset()
	if !s.started {
		s.buf.WriteString(Preamble)
	}
	if err := s.render(r); err != nil {
		return err
	}
	s.started = true
	_, err := s.w.WriteString(s.buf.String())
	return err
}

// Flush writes any buffered output. A script with no records still gets
// its preamble.
func (s *Script) Flush() error {
	if !s.started {
		s.started = true
		if _, err := s.w.WriteString(Preamble); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

func (s *Script) render(r Record) error {
	switch r := r.(type) {
	case MeshDefine:
		s.meshDefine(r)
	case MeshReference:
		s.line("me=Me[%s]", pyString(r.ID))
		s.bound["me"] = r.ID
	case MaterialDefine:
		s.materialDefine(r)
	case MaterialReference:
		s.line("ma=Ma[%s]", pyString(r.ID))
		s.bound["ma"] = r.ID
	case TextureDefine:
		s.line("t=T.new(%s,type='IMAGE')", pyString(r.ID))
		s.bound["t"] = r.ID
		if r.Image != "" {
			s.use("i", "I", r.Image)
			s.line("t.image=i")
		}
	case TextureReference:
		s.line("t=T[%s]", pyString(r.ID))
		s.bound["t"] = r.ID
	case ImageLoad:
		s.line("i=I.load(%s)", pyString(r.Path))
		s.line("i.name=%s", pyString(r.ID))
		if r.PackPNG {
			s.line("i.pack(as_png=True)")
			s.line("i.filepath=os.path.splitext(i.filepath)[0]+'.png'")
		}
		s.bound["i"] = r.ID
	case ImageReference:
		s.line("i=I[%s]", pyString(r.ID))
		s.bound["i"] = r.ID
	case LightDefine:
		s.lightDefine(r)
	case ObjectCreate:
		s.objectCreate(r)
	case ObjectTransformMatrix:
		s.use("o", "O", r.ID)
		s.line("o.matrix_local=%s", pyMatrix(r.Matrix))
	case ObjectTransformTRS:
		s.use("o", "O", r.ID)
		s.line("o.location=%s", pyTuple(r.Location.X, r.Location.Y, r.Location.Z))
		s.line("o.scale=%s", pyTuple(r.Scale.X, r.Scale.Y, r.Scale.Z))
		s.line("o.rotation_mode=Q")
		s.line("o.rotation_quaternion=%s", pyList(r.Rotation.W, r.Rotation.X, r.Rotation.Y, r.Rotation.Z))
	case ObjectParentLink:
		s.use("o", "O", r.Child)
		s.line("if O.get(%s) is not None:", pyString(r.Parent))
		s.line("\to.parent=O[%s]", pyString(r.Parent))
	case ObjectMaterialAttach:
		s.materialAttach(r)
	case ObjectLightmap:
		s.use("o", "O", r.Object)
		s.line("o['lightmap_index']=%d", r.Index)
		s.line("o['lightmap_scale_offset']=%s", pyList(r.ScaleOffset[:]...))
		s.line("o['lightmap_texture']=%s", pyString(r.Texture))
	case TriggerVolumeParams:
		s.use("o", "O", r.Object)
		s.line("o.empty_draw_type='CUBE'")
		s.line("o['trigger']=True")
		s.line("o['trigger_center']=%s", pyList(r.Center.X, r.Center.Y, r.Center.Z))
		s.line("o['trigger_extents']=%s", pyList(r.Extents.X, r.Extents.Y, r.Extents.Z))
	case ParticleEmitterParams:
		s.particleEmitter(r)
	case SceneLink:
		s.use("o", "O", r.ID)
		s.line("S.link(o)")
	default:
		return fmt.Errorf("%w: %T", ErrUnknownRecord, r)
	}
	return nil
}

func (s *Script) meshDefine(r MeshDefine) {
	s.line("me=Me.new(%s)", pyString(r.ID))
	s.bound["me"] = r.ID

	s.buf.WriteString("me.from_pydata([")
	for i, v := range r.Vertices {
		if i > 0 {
			s.buf.WriteByte(',')
		}
		s.buf.WriteString(pyTuple(v.X, v.Y, v.Z))
	}
	s.buf.WriteString("],[],[")
	for i, t := range r.Triangles {
		if i > 0 {
			s.buf.WriteByte(',')
		}
		fmt.Fprintf(&s.buf, "(%d,%d,%d)", t[0], t[1], t[2])
	}
	s.buf.WriteString("])\n")

	s.uvLayer("uv0", UVMap, r.UV0)
	s.uvLayer("uv1", UVLightmap, r.UV1)
}

func (s *Script) uvLayer(name, layer string, uv []math.Vec2) {
	if len(uv) == 0 {
		return
	}
	s.buf.WriteString(name + "=[")
	for i, c := range uv {
		if i > 0 {
			s.buf.WriteByte(',')
		}
		s.buf.WriteString(pyTuple(c.X, c.Y))
	}
	s.buf.WriteString("]\n")

	s.line("me.uv_textures.new(name=%s)", pyString(layer))
	s.line("uvl=me.uv_layers[%s].data", pyString(layer))
	s.line("for p in me.polygons:")
	s.line("\tfor k in range(p.loop_start,p.loop_start+p.loop_total):")
	s.line("\t\tuvl[k].uv=%s[me.loops[k].vertex_index]", name)
}

func (s *Script) materialDefine(r MaterialDefine) {
	s.line("ma=Ma.new(%s)", pyString(r.ID))
	s.bound["ma"] = r.ID
	s.line("ma.diffuse_color=%s", pyTuple(r.Diffuse[0], r.Diffuse[1], r.Diffuse[2]))

	if r.Cutout {
		s.line("ma.use_transparency=True")
		s.line("ma.game_settings.alpha_blend='CLIP'")
	}
	if r.Additive {
		s.line("ma.use_transparency=True")
		s.line("ma.game_settings.alpha_blend='ADD'")
	}
	if b := r.Blend; b != nil {
		s.line("ma.beerengine_cull_enable=%s", pyBool(b.Cull))
		s.line("ma.beerengine_blend_func_src=%s", pyString(b.Src))
		s.line("ma.beerengine_blend_func_dst=%s", pyString(b.Dst))
		s.line("ma.beerengine_blend_func_src_a=%s", pyString(b.SrcAlpha))
		s.line("ma.beerengine_blend_func_dst_a=%s", pyString(b.DstAlpha))
	}

	for _, slot := range r.Slots {
		s.line("ts=ma.texture_slots.add() # %s", slot.Role)
		s.line("ts.texture=T[%s]", pyString(slot.Texture))
		s.line("ts.texture_coords='UV'")
		s.line("ts.uv_layer=%s", pyString(slot.UVLayer))
		switch slot.Role {
		case RoleBump:
			s.line("ts.use_map_color_diffuse=False")
			s.line("ts.use_map_normal=True")
		default:
			s.line("ts.use_map_color_diffuse=True")
		}
	}
}

func (s *Script) lightDefine(r LightDefine) {
	s.line("l=L.new(name=%s,type=%s)", pyString(r.ID), pyString(r.Type))
	s.bound["l"] = r.ID
	s.line("l.energy=%s", pyFloat(r.Energy))
	s.line("l.distance=%s", pyFloat(r.Distance))
	s.line("l.color=%s", pyTuple(r.Color[0], r.Color[1], r.Color[2]))
	if r.Type == LightSpot {
		s.line("l.spot_size=%s", pyFloat(r.SpotSize))
	}
}

func (s *Script) objectCreate(r ObjectCreate) {
	data := "None"
	switch r.Payload {
	case PayloadMesh:
		s.use("me", "Me", r.Data)
		data = "me"
	case PayloadLight:
		s.use("l", "L", r.Data)
		data = "l"
	}
	s.line("o=O.new(%s,%s)", pyString(r.ID), data)
	s.bound["o"] = r.ID
	if r.Payload == PayloadNone {
		s.line("o.empty_draw_type='SINGLE_ARROW'")
	}
}

func (s *Script) materialAttach(r ObjectMaterialAttach) {
	s.use("o", "O", r.Object)
	s.use("ma", "Ma", r.Material)
	s.line("if len(o.material_slots)<1:")
	s.line("\to.data.materials.append(ma)")
	if r.FaceImage != "" {
		s.use("i", "I", r.FaceImage)
		s.line("for f in o.data.uv_textures[0].data:")
		s.line("\tf.image=i")
	}
}

func (s *Script) particleEmitter(r ParticleEmitterParams) {
	s.use("o", "O", r.Object)
	s.line("o.beerengine_asset_type='8'")
	s.line("o.beerengine_emitter_one_shot=%s", pyBool(r.OneShot))
	s.line("o.beerengine_emitter_texture=%s", pyString(r.Texture))
	s.line("o.beerengine_emitter_particlesystem='ps'")
	s.line("o.beerengine_emitter_ipolmode='0'")
	s.line("o.beerengine_emitter_animated=False")
	s.line("o.beerengine_emitter_usenormal=True")
	s.line("o.beerengine_emitter_alphafade=True")
	s.line("o.beerengine_emitter_rows=1")
	s.line("o.beerengine_emitter_cols=1")
	s.line("o.beerengine_emitter_velocity=%s", pyList(r.Velocity.X, r.Velocity.Y, r.Velocity.Z))
	s.line("o.beerengine_emitter_force=%s", pyList(r.Force.X, r.Force.Y, r.Force.Z))
	s.line("o.beerengine_emitter_count=%d", r.Count)
	s.line("o.beerengine_emitter_alpha_fade_in=%s", pyFloat(r.AlphaFadeIn))
	s.line("o.beerengine_emitter_alpha_fade_out=%s", pyFloat(r.AlphaFadeOut))
	s.line("o.beerengine_emitter_damping=%s", pyFloat(r.Damping))
	s.line("o.beerengine_emitter_size_min=%s", pyFloat(r.MinSize))
	s.line("o.beerengine_emitter_size_max=%s", pyFloat(r.MaxSize))
	s.line("o.beerengine_emitter_size_inc=%s", pyFloat(r.SizeGrow))
	s.line("o.beerengine_emitter_rot_min=%s", pyFloat(r.MinRotation))
	s.line("o.beerengine_emitter_rot_max=%s", pyFloat(r.MaxRotation))
	s.line("o.beerengine_emitter_rot_inc=%s", pyFloat(r.RotationGrow))
	s.line("o.beerengine_emitter_energy_min=%s", pyFloat(r.MinEnergy))
	s.line("o.beerengine_emitter_energy_max=%s", pyFloat(r.MaxEnergy))
	s.line("o.beerengine_emitter_emission_min=%s", pyFloat(r.MinEmission))
	s.line("o.beerengine_emitter_emission_max=%s", pyFloat(r.MaxEmission))
}

// use binds variable v to identity id from collection coll unless it
// already holds it.
func (s *Script) use(v, coll, id string) {
	if s.bound[v] == id {
		return
	}
	s.line("%s=%s[%s]", v, coll, pyString(id))
	s.bound[v] = id
}

func (s *Script) line(format string, args ...any) {
	fmt.Fprintf(&s.buf, format, args...)
	s.buf.WriteByte('\n')
}

// pyFloat formats f with the fewest digits that read back as the same
// float32. Non-finite values become float() calls.
func pyFloat(f float32) string {
	switch {
	case stdmath.IsNaN(float64(f)):
		return "float('nan')"
	case stdmath.IsInf(float64(f), 1):
		return "float('inf')"
	case stdmath.IsInf(float64(f), -1):
		return "float('-inf')"
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func pyFloats(fs []float32) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = pyFloat(f)
	}
	return strings.Join(parts, ",")
}

func pyTuple(fs ...float32) string {
	return "(" + pyFloats(fs) + ")"
}

func pyList(fs ...float32) string {
	return "[" + pyFloats(fs) + "]"
}

// pyMatrix writes m column by column. Blender reads each inner sequence
// assigned to a matrix property as a column.
func pyMatrix(m math.Mat4) string {
	cols := m.Columns()
	parts := make([]string, 4)
	for i, col := range cols {
		parts[i] = pyTuple(col[:]...)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// pyString quotes s as a single-quoted Python literal. Bytes that are not
// valid UTF-8 become surrogate escapes, which Python's filesystem encoding
// turns back into the original bytes.
func pyString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\udc%02x`, s[i])
			i++
			continue
		}
		i += size
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
