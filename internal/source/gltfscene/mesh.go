package gltfscene

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// mesh converts doc mesh idx, merging its triangle primitives into one mesh.
// The material of the first primitive that has one is returned alongside.
// Both are cached so nodes sharing a glTF mesh share the result.
func (c *converter) mesh(idx uint32) (*scene.Mesh, *scene.Material, error) {
	if int(idx) >= len(c.doc.Meshes) {
		return nil, nil, errors.Wrapf(ErrInvalid, "mesh %d out of range", idx)
	}
	src := c.doc.Meshes[idx]

	var matIdx *uint32
	for _, p := range src.Primitives {
		if p.Material != nil {
			matIdx = p.Material
			break
		}
	}
	var mat *scene.Material
	if matIdx != nil {
		var err error
		if mat, err = c.material(*matIdx); err != nil {
			return nil, nil, err
		}
	}

	if m, ok := c.meshes[idx]; ok {
		return m, mat, nil
	}

	m := &scene.Mesh{Name: src.Name}
	var uv0, uv1 []math.Vec2
	hasUV0, hasUV1 := true, true
	for pi, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		base := len(m.Vertices)

		posIdx, ok := p.Attributes["POSITION"]
		if !ok {
			return nil, nil, errors.Wrapf(ErrInvalid, "mesh %q primitive %d has no positions", src.Name, pi)
		}
		posAcr, err := c.accessor(posIdx)
		if err != nil {
			return nil, nil, err
		}
		positions, err := modeler.ReadPosition(c.doc, posAcr, nil)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "mesh %q primitive %d positions", src.Name, pi)
		}
		for _, v := range positions {
			m.Vertices = append(m.Vertices, mirrorPoint(math.Vec3{X: v[0], Y: v[1], Z: v[2]}))
		}

		var indices []uint32
		if p.Indices != nil {
			idxAcr, err := c.accessor(*p.Indices)
			if err != nil {
				return nil, nil, err
			}
			if indices, err = modeler.ReadIndices(c.doc, idxAcr, nil); err != nil {
				return nil, nil, errors.Wrapf(err, "mesh %q primitive %d indices", src.Name, pi)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		if len(indices)%3 != 0 {
			return nil, nil, errors.Wrapf(ErrInvalid, "mesh %q primitive %d: %d indices is not a triangle list", src.Name, pi, len(indices))
		}
		for i := 0; i < len(indices); i += 3 {
			tri := [3]int{base + int(indices[i]), base + int(indices[i+2]), base + int(indices[i+1])}
			for _, v := range tri {
				if v >= base+len(positions) {
					return nil, nil, errors.Wrapf(ErrInvalid, "mesh %q primitive %d: index %d out of range", src.Name, pi, v-base)
				}
			}
			m.Triangles = append(m.Triangles, tri)
		}

		for _, ch := range []struct {
			attr string
			dst  *[]math.Vec2
			ok   *bool
		}{{"TEXCOORD_0", &uv0, &hasUV0}, {"TEXCOORD_1", &uv1, &hasUV1}} {
			if !*ch.ok {
				continue
			}
			found, err := c.appendUVs(ch.dst, p, ch.attr, len(positions))
			if err != nil {
				return nil, nil, errors.Wrapf(err, "mesh %q primitive %d %s", src.Name, pi, ch.attr)
			}
			*ch.ok = found
		}
	}

	// A channel is kept only when every merged primitive supplies it.
	if hasUV0 && len(uv0) > 0 {
		m.UV0 = uv0
	}
	if hasUV1 && len(uv1) > 0 {
		m.UV1 = uv1
	}

	c.meshes[idx] = m
	return m, mat, nil
}

// appendUVs appends the primitive's attr channel to dst, reporting whether
// the primitive has one with an entry per vertex.
func (c *converter) appendUVs(dst *[]math.Vec2, p *gltf.Primitive, attr string, count int) (bool, error) {
	idx, ok := p.Attributes[attr]
	if !ok {
		return false, nil
	}
	acr, err := c.accessor(idx)
	if err != nil {
		return false, err
	}
	uvs, err := readUVs(c.doc, acr)
	if err != nil {
		return false, err
	}
	if len(uvs) != count {
		return false, nil
	}
	*dst = append(*dst, uvs...)
	return true, nil
}

func (c *converter) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(c.doc.Accessors) {
		return nil, errors.Wrapf(ErrInvalid, "accessor %d out of range", idx)
	}
	return c.doc.Accessors[idx], nil
}

// material converts doc material idx. Shader names come from extras.shader,
// falling back to the alpha mode.
func (c *converter) material(idx uint32) (*scene.Material, error) {
	if m, ok := c.materials[idx]; ok {
		return m, nil
	}
	if int(idx) >= len(c.doc.Materials) {
		return nil, errors.Wrapf(ErrInvalid, "material %d out of range", idx)
	}
	src := c.doc.Materials[idx]

	var extras struct {
		Shader string `yaml:"shader"`
	}
	if err := decodeExtras(src.Extras, &extras); err != nil {
		return nil, errors.Wrapf(err, "material %q extras", src.Name)
	}
	shader := extras.Shader
	if shader == "" {
		shader = alphaShader(src.AlphaMode)
	}

	m := scene.NewMaterial(src.Name, shader)
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			m.Color = [3]float32{f[0], f[1], f[2]}
		}
		if ti := pbr.BaseColorTexture; ti != nil {
			tex, err := c.texture(ti.Index)
			if err != nil {
				return nil, errors.Wrapf(err, "material %q", src.Name)
			}
			m.Textures[scene.SlotDiffuse] = tex
		}
	}
	if nt := src.NormalTexture; nt != nil && nt.Index != nil {
		tex, err := c.texture(*nt.Index)
		if err != nil {
			return nil, errors.Wrapf(err, "material %q", src.Name)
		}
		m.Textures[scene.SlotBump] = tex
	}

	c.materials[idx] = m
	return m, nil
}

func alphaShader(mode gltf.AlphaMode) string {
	switch mode {
	case gltf.AlphaMask:
		return "Transparent/Cutout/Diffuse"
	case gltf.AlphaBlend:
		return "Transparent/Diffuse"
	default:
		return "Diffuse"
	}
}

// texture converts doc texture idx. Images embedded in buffers or data URIs
// have no file to point at and leave the path empty.
func (c *converter) texture(idx uint32) (*scene.Texture, error) {
	if t, ok := c.textures[idx]; ok {
		return t, nil
	}
	if int(idx) >= len(c.doc.Textures) {
		return nil, errors.Wrapf(ErrInvalid, "texture %d out of range", idx)
	}
	src := c.doc.Textures[idx]

	name, path := src.Name, ""
	if src.Source != nil {
		if int(*src.Source) >= len(c.doc.Images) {
			return nil, errors.Wrapf(ErrInvalid, "texture %q: image %d out of range", src.Name, *src.Source)
		}
		img := c.doc.Images[*src.Source]
		if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
			path = c.path(img.URI)
		}
		if name == "" {
			name = img.Name
		}
	}

	t := scene.NewTexture(name, path)
	c.textures[idx] = t
	return t, nil
}
