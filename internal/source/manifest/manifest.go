// Package manifest loads scenes described in YAML: named meshes, textures
// and materials, plus a node tree that refers to them by name.
//
//	meshes:
//	  - name: Quad
//	    vertices: [[0,0,0], [1,0,0], [1,1,0], [0,1,0]]
//	    uv0: [[0,0], [1,0], [1,1], [0,1]]
//	    triangles: [[0,1,2], [0,2,3]]
//	textures:
//	  - {name: wall, path: textures/wall.png}
//	materials:
//	  - {name: Wall, shader: Diffuse, diffuse: wall}
//	nodes:
//	  - name: Root
//	    children:
//	      - {name: Floor, mesh: Quad, material: Wall, euler: [90, 0, 0]}
//	      - {name: Lamp, position: [0, 3, 0], light: {type: point, range: 10}}
package manifest

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// ErrInvalid marks manifests that parse but do not describe a valid scene.
var ErrInvalid = errors.New("invalid scene manifest")

// Document is the top level of a manifest.
type Document struct {
	Meshes    []Mesh     `yaml:"meshes"`
	Textures  []Texture  `yaml:"textures"`
	Materials []Material `yaml:"materials"`
	Lightmaps []string   `yaml:"lightmaps"` // texture names, by lightmap index
	Nodes     []Node     `yaml:"nodes"`
}

// Mesh is inline geometry.
type Mesh struct {
	Name      string       `yaml:"name"`
	Vertices  [][3]float32 `yaml:"vertices"`
	UV0       [][2]float32 `yaml:"uv0"`
	UV1       [][2]float32 `yaml:"uv1"`
	Triangles [][3]int     `yaml:"triangles"`
}

// Texture names an image file. Relative paths are resolved at export time.
type Texture struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Material binds a shader name, colour and textures by name.
type Material struct {
	Name     string      `yaml:"name"`
	Shader   string      `yaml:"shader"`
	Color    *[3]float32 `yaml:"color"`
	Diffuse  string      `yaml:"diffuse"`
	Bump     string      `yaml:"bump"`
	Lightmap string      `yaml:"lightmap"`
}

// Node is one scene node. Rotation is a quaternion (x, y, z, w); Euler is
// an alternative in degrees, applied Z, then X, then Y.
type Node struct {
	Name     string      `yaml:"name"`
	Position *[3]float32 `yaml:"position"`
	Rotation *[4]float32 `yaml:"rotation"`
	Euler    *[3]float32 `yaml:"euler"`
	Scale    *[3]float32 `yaml:"scale"`
	Mesh     string      `yaml:"mesh"`
	Material string      `yaml:"material"`

	Components `yaml:",inline"`

	Children []Node `yaml:"children"`
}

// Load reads and builds the manifest at path.
func Load(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return sc, nil
}

// Parse decodes a manifest and builds its scene. Unknown keys are errors.
func Parse(data []byte) (*scene.Scene, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	return Build(&doc)
}

// Build turns a decoded document into a scene. Nodes naming the same mesh,
// material or texture share one value.
func Build(doc *Document) (*scene.Scene, error) {
	b := builder{
		meshes:    make(map[string]*scene.Mesh),
		textures:  make(map[string]*scene.Texture),
		materials: make(map[string]*scene.Material),
	}
	if err := b.assets(doc); err != nil {
		return nil, err
	}

	sc := &scene.Scene{}
	for i, name := range doc.Lightmaps {
		tex, ok := b.textures[name]
		if !ok {
			return nil, errors.Wrapf(ErrInvalid, "lightmap %d: unknown texture %q", i, name)
		}
		sc.Lightmaps = append(sc.Lightmaps, tex)
	}

	for i := range doc.Nodes {
		n, err := b.node(&doc.Nodes[i])
		if err != nil {
			return nil, err
		}
		sc.Roots = append(sc.Roots, n)
	}
	return sc, nil
}

type builder struct {
	meshes    map[string]*scene.Mesh
	textures  map[string]*scene.Texture
	materials map[string]*scene.Material
}

func (b *builder) assets(doc *Document) error {
	for _, t := range doc.Textures {
		if _, dup := b.textures[t.Name]; dup || t.Name == "" {
			return errors.Wrapf(ErrInvalid, "texture %q: missing or duplicate name", t.Name)
		}
		b.textures[t.Name] = scene.NewTexture(t.Name, t.Path)
	}

	for _, m := range doc.Meshes {
		if _, dup := b.meshes[m.Name]; dup || m.Name == "" {
			return errors.Wrapf(ErrInvalid, "mesh %q: missing or duplicate name", m.Name)
		}
		mesh, err := convertMesh(m)
		if err != nil {
			return err
		}
		b.meshes[m.Name] = mesh
	}

	for _, m := range doc.Materials {
		if _, dup := b.materials[m.Name]; dup || m.Name == "" {
			return errors.Wrapf(ErrInvalid, "material %q: missing or duplicate name", m.Name)
		}
		mat := scene.NewMaterial(m.Name, m.Shader)
		if m.Color != nil {
			mat.Color = *m.Color
		}
		for slot, name := range map[scene.TextureSlot]string{
			scene.SlotDiffuse:  m.Diffuse,
			scene.SlotBump:     m.Bump,
			scene.SlotLightmap: m.Lightmap,
		} {
			if name == "" {
				continue
			}
			tex, ok := b.textures[name]
			if !ok {
				return errors.Wrapf(ErrInvalid, "material %q: unknown %s texture %q", m.Name, slot, name)
			}
			mat.Textures[slot] = tex
		}
		b.materials[m.Name] = mat
	}
	return nil
}

func convertMesh(m Mesh) (*scene.Mesh, error) {
	mesh := &scene.Mesh{
		Name:      m.Name,
		Vertices:  make([]math.Vec3, len(m.Vertices)),
		Triangles: m.Triangles,
		UV0:       vec2s(m.UV0),
		UV1:       vec2s(m.UV1),
	}
	for i, v := range m.Vertices {
		mesh.Vertices[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, t := range m.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= len(m.Vertices) {
				return nil, errors.Wrapf(ErrInvalid, "mesh %q: triangle %d index %d out of range", m.Name, i, idx)
			}
		}
	}
	return mesh, nil
}

func vec2s(in [][2]float32) []math.Vec2 {
	if len(in) == 0 {
		return nil
	}
	out := make([]math.Vec2, len(in))
	for i, v := range in {
		out[i] = math.Vec2{X: v[0], Y: v[1]}
	}
	return out
}

func (b *builder) node(src *Node) (*scene.Node, error) {
	n := scene.NewNode(src.Name)

	if src.Position != nil {
		p := src.Position
		n.Transform.Position = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	switch {
	case src.Rotation != nil && src.Euler != nil:
		return nil, errors.Wrapf(ErrInvalid, "node %q: rotation and euler are exclusive", src.Name)
	case src.Rotation != nil:
		r := src.Rotation
		n.Transform.Rotation = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	case src.Euler != nil:
		e := src.Euler
		n.Transform.Rotation = math.QuatFromEuler(e[0], e[1], e[2])
	}
	if src.Scale != nil {
		s := src.Scale
		n.Transform.Scale = math.Vec3{X: s[0], Y: s[1], Z: s[2]}
	}

	if src.Mesh != "" {
		mesh, ok := b.meshes[src.Mesh]
		if !ok {
			return nil, errors.Wrapf(ErrInvalid, "node %q: unknown mesh %q", src.Name, src.Mesh)
		}
		n.MeshFilter = &scene.MeshFilter{Mesh: mesh}
	}
	if src.Material != "" || src.Lightmap != nil {
		n.Renderer = &scene.Renderer{Lightmap: scene.LightmapBinding{Index: scene.NoLightmap}}
		if src.Material != "" {
			mat, ok := b.materials[src.Material]
			if !ok {
				return nil, errors.Wrapf(ErrInvalid, "node %q: unknown material %q", src.Name, src.Material)
			}
			n.Renderer.Material = mat
		}
	}

	if err := src.Components.Apply(n); err != nil {
		return nil, errors.Wrapf(err, "node %q", src.Name)
	}

	for i := range src.Children {
		child, err := b.node(&src.Children[i])
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}
