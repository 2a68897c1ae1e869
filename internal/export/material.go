package export

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/blendexport/internal/emit"
	"github.com/Faultbox/blendexport/internal/registry"
	"github.com/Faultbox/blendexport/pkg/scene"
)

var slotRoles = [scene.NumSlots]emit.SlotRole{
	scene.SlotDiffuse:  emit.RoleDiffuse,
	scene.SlotBump:     emit.RoleBump,
	scene.SlotLightmap: emit.RoleLightmap,
}

var slotLayers = [scene.NumSlots]string{
	scene.SlotDiffuse:  emit.UVMap,
	scene.SlotBump:     emit.UVMap,
	scene.SlotLightmap: emit.UVLightmap,
}

// material interns m, defining its textures first when it is new. It returns
// the material identity and the image its diffuse texture shows, if any.
func (e *Exporter) material(node string, m *scene.Material) (id, faceImage string, err error) {
	id, isNew := e.reg.InternOrCreate(registry.Material, registry.Key{
		Value: strconv.FormatInt(m.InstanceID, 10),
		Name:  m.Name,
	})
	if !isNew {
		return id, e.faceImages[id], e.put(emit.MaterialReference{ID: id})
	}

	def := emit.MaterialDefine{ID: id, Diffuse: m.Color}
	for slot, tex := range m.Textures {
		if tex == nil {
			continue
		}
		texID, imageID, err := e.texture(node, tex)
		if err != nil {
			return "", "", err
		}
		def.Slots = append(def.Slots, emit.TextureSlot{
			Role:    slotRoles[slot],
			Texture: texID,
			UVLayer: slotLayers[slot],
		})
		if scene.TextureSlot(slot) == scene.SlotDiffuse {
			faceImage = imageID
		}
	}

	shader := strings.ToLower(m.Shader)
	def.Cutout = strings.Contains(shader, "cutout")
	def.Additive = strings.Contains(shader, "additive")
	if def.Additive {
		blend := emit.AdditiveBlend
		def.Blend = &blend
	}
	if def.Cutout && def.Additive {
		e.log.Warn("shader is both cutout and additive, emitting both modes",
			zap.String("material", id),
			zap.String("shader", m.Shader))
	}

	e.faceImages[id] = faceImage
	return id, faceImage, e.put(def)
}

// texture interns t and its backing image. An image that cannot be resolved
// is skipped; the texture is still defined without it.
func (e *Exporter) texture(node string, t *scene.Texture) (id, imageID string, err error) {
	id, isNew := e.reg.InternOrCreate(registry.Texture, registry.Key{
		Value: strconv.FormatInt(t.InstanceID, 10),
		Name:  t.Name,
	})
	if !isNew {
		return id, e.texImages[id], e.put(emit.TextureReference{ID: id})
	}

	if t.Path != "" {
		imageID, err = e.image(node, t.Path)
		if err != nil {
			return "", "", err
		}
	}

	e.texImages[id] = imageID
	return id, imageID, e.put(emit.TextureDefine{ID: id, Image: imageID})
}

// image interns the file behind path by its absolute location.
func (e *Exporter) image(node, path string) (string, error) {
	abs, err := e.resolve(path)
	if err != nil {
		e.skip(node, "image", err.Error())
		return "", nil
	}

	id, isNew := e.reg.InternOrCreate(registry.Image, registry.Key{
		Value: abs,
		Name:  filepath.Base(abs),
	})
	if !isNew {
		return id, e.put(emit.ImageReference{ID: id})
	}
	return id, e.put(emit.ImageLoad{ID: id, Path: abs, PackPNG: e.opts.PackImages})
}

// lightmap emits the node's lightmap binding when it names a lightmap the
// scene actually has.
func (e *Exporter) lightmap(node string, b scene.LightmapBinding) error {
	if !b.Assigned() {
		return nil
	}
	if b.Index >= len(e.scene.Lightmaps) || e.scene.Lightmaps[b.Index] == nil {
		e.skip(node, "lightmap", "index "+strconv.Itoa(b.Index)+" out of range")
		return nil
	}

	texID, _, err := e.texture(node, e.scene.Lightmaps[b.Index])
	if err != nil {
		return err
	}
	return e.put(emit.ObjectLightmap{
		Object:      node,
		Index:       b.Index,
		ScaleOffset: b.ScaleOffset,
		Texture:     texID,
	})
}
