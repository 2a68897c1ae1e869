// Package gltfscene converts glTF 2.0 documents into scene graphs.
//
// glTF is right-handed; the scene graph uses the left-handed Y-up basis, so
// positions and rotations are mirrored across Z and triangle winding is
// reversed on the way in. Texture V is flipped to a bottom-left origin.
package gltfscene

import (
	"encoding/json"
	stdmath "math"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/blendexport/internal/source/manifest"
	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// ErrInvalid marks documents that decode but cannot be converted.
var ErrInvalid = errors.New("invalid glTF scene")

// Load opens a .gltf or .glb file and converts its default scene. Image URIs
// are taken relative to the file's directory.
func Load(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	sc, err := Convert(doc, filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s", path)
	}
	return sc, nil
}

// Convert builds a scene from doc. dir anchors relative image URIs.
func Convert(doc *gltf.Document, dir string) (*scene.Scene, error) {
	c := converter{
		doc:       doc,
		dir:       dir,
		meshes:    make(map[uint32]*scene.Mesh),
		materials: make(map[uint32]*scene.Material),
		textures:  make(map[uint32]*scene.Texture),
		visiting:  make(map[uint32]bool),
	}

	sc := &scene.Scene{}
	if len(doc.Scenes) == 0 {
		return sc, nil
	}
	idx := uint32(0)
	if doc.Scene != nil {
		idx = *doc.Scene
	}
	if int(idx) >= len(doc.Scenes) {
		return nil, errors.Wrapf(ErrInvalid, "default scene %d out of range", idx)
	}
	root := doc.Scenes[idx]

	lightmaps, err := c.lightmaps(root.Extras)
	if err != nil {
		return nil, err
	}
	sc.Lightmaps = lightmaps

	for _, ni := range root.Nodes {
		n, err := c.node(ni)
		if err != nil {
			return nil, err
		}
		sc.Roots = append(sc.Roots, n)
	}
	return sc, nil
}

type converter struct {
	doc *gltf.Document
	dir string

	meshes    map[uint32]*scene.Mesh
	materials map[uint32]*scene.Material
	textures  map[uint32]*scene.Texture
	visiting  map[uint32]bool
}

func (c *converter) node(idx uint32) (*scene.Node, error) {
	if int(idx) >= len(c.doc.Nodes) {
		return nil, errors.Wrapf(ErrInvalid, "node %d out of range", idx)
	}
	if c.visiting[idx] {
		return nil, errors.Wrapf(ErrInvalid, "node %d is its own ancestor", idx)
	}
	c.visiting[idx] = true
	defer delete(c.visiting, idx)

	src := c.doc.Nodes[idx]
	n := scene.NewNode(src.Name)
	n.Transform = nodeTransform(src)

	if src.Mesh != nil {
		mesh, mat, err := c.mesh(*src.Mesh)
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", src.Name)
		}
		n.MeshFilter = &scene.MeshFilter{Mesh: mesh}
		n.Renderer = &scene.Renderer{
			Material: mat,
			Lightmap: scene.LightmapBinding{Index: scene.NoLightmap},
		}
	}

	if src.Camera != nil {
		if int(*src.Camera) >= len(c.doc.Cameras) {
			return nil, errors.Wrapf(ErrInvalid, "node %q: camera %d out of range", src.Name, *src.Camera)
		}
		n.Camera = camera(c.doc.Cameras[*src.Camera])
	}

	var comps manifest.Components
	if err := decodeExtras(src.Extras, &comps); err != nil {
		return nil, errors.Wrapf(err, "node %q extras", src.Name)
	}
	if err := comps.Apply(n); err != nil {
		return nil, errors.Wrapf(err, "node %q", src.Name)
	}

	for _, ci := range src.Children {
		child, err := c.node(ci)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeTransform reads a node's local transform. A non-identity matrix wins
// over TRS properties; zero rotation and scale mean "unset".
func nodeTransform(n *gltf.Node) scene.Transform {
	t := scene.IdentityTransform()

	if n.Matrix != identityMatrix && n.Matrix != [16]float32{} {
		pos, rot, scale := math.Mat4(n.Matrix).Decompose()
		t.Position = mirrorPoint(pos)
		t.Rotation = mirrorRotation(rot)
		t.Scale = scale
		return t
	}

	tr := n.Translation
	t.Position = mirrorPoint(math.Vec3{X: tr[0], Y: tr[1], Z: tr[2]})
	if r := n.Rotation; r != [4]float32{} {
		t.Rotation = mirrorRotation(math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize())
	}
	if s := n.Scale; s != [3]float32{} {
		t.Scale = math.Vec3{X: s[0], Y: s[1], Z: s[2]}
	}
	return t
}

func mirrorPoint(p math.Vec3) math.Vec3 {
	return math.Vec3{X: p.X, Y: p.Y, Z: -p.Z}
}

func mirrorRotation(q math.Quat) math.Quat {
	return math.Quat{X: -q.X, Y: -q.Y, Z: q.Z, W: q.W}
}

func camera(cam *gltf.Camera) *scene.Camera {
	out := &scene.Camera{FieldOfView: 60, Near: 0.3, Far: 1000}
	if p := cam.Perspective; p != nil {
		out.FieldOfView = p.Yfov * 180 / stdmath.Pi
		out.Near = p.Znear
		if p.Zfar != nil {
			out.Far = *p.Zfar
		}
	}
	return out
}

type sceneExtras struct {
	Lightmaps []string `yaml:"lightmaps"`
}

// lightmaps reads scene-level lightmap image paths from the scene extras.
func (c *converter) lightmaps(extras any) ([]*scene.Texture, error) {
	var ex sceneExtras
	if err := decodeExtras(extras, &ex); err != nil {
		return nil, errors.Wrap(err, "scene extras")
	}
	var out []*scene.Texture
	for _, p := range ex.Lightmaps {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		out = append(out, scene.NewTexture(name, c.path(p)))
	}
	return out, nil
}

// path anchors a relative URI to the document directory.
func (c *converter) path(uri string) string {
	if u, err := url.PathUnescape(uri); err == nil {
		uri = u
	}
	uri = filepath.FromSlash(uri)
	if filepath.IsAbs(uri) || c.dir == "" {
		return uri
	}
	return filepath.Join(c.dir, uri)
}

// decodeExtras re-reads a glTF extras value through YAML into out. Keys
// out does not know are ignored; extras are shared with other tools.
func decodeExtras(extras any, out any) error {
	var data []byte
	switch v := extras.(type) {
	case nil:
		return nil
	case json.RawMessage:
		data = v
	case *json.RawMessage:
		if v == nil {
			return nil
		}
		data = *v
	case []byte:
		data = v
	default:
		var err error
		if data, err = yaml.Marshal(v); err != nil {
			return err
		}
	}
	if len(data) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, out)
}

// readUVs reads a TEXCOORD accessor with V flipped.
func readUVs(doc *gltf.Document, acr *gltf.Accessor) ([]math.Vec2, error) {
	uvs, err := modeler.ReadTextureCoord(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	out := make([]math.Vec2, len(uvs))
	for i, uv := range uvs {
		out[i] = math.Vec2{X: uv[0], Y: uv[1]}.FlipV()
	}
	return out, nil
}
