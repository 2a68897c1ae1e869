package export

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/blendexport/internal/emit"
	"github.com/Faultbox/blendexport/internal/registry"
	"github.com/Faultbox/blendexport/internal/walker"
	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// mesh interns m and emits its definition or a reference to it.
func (e *Exporter) mesh(node string, m *scene.Mesh) (string, error) {
	key, ok := e.keys[m]
	if !ok {
		key = m.ContentKey()
	}

	id, isNew := e.reg.InternOrCreate(registry.Mesh, registry.Key{
		Value: strconv.FormatInt(int64(key), 10),
		Name:  m.Name,
	})
	if !isNew {
		return id, e.put(emit.MeshReference{ID: id})
	}

	def := emit.MeshDefine{
		ID:        id,
		Vertices:  make([]math.Vec3, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Triangles)),
		UV0:       e.uvChannel(node, "uv0", m.UV0, len(m.Vertices)),
		UV1:       e.uvChannel(node, "uv1", m.UV1, len(m.Vertices)),
	}
	for i, v := range m.Vertices {
		def.Vertices[i] = e.profile.ConvertPoint(v)
	}
	for i, t := range m.Triangles {
		def.Triangles[i] = e.profile.ConvertTriangle(t)
	}
	e.meshUV0[id] = len(def.UV0) > 0
	return id, e.put(def)
}

// uvChannel drops a UV channel that does not have one entry per vertex.
func (e *Exporter) uvChannel(node, name string, uv []math.Vec2, vertices int) []math.Vec2 {
	if len(uv) == 0 {
		return nil
	}
	if len(uv) != vertices {
		e.skip(node, name, "channel length "+strconv.Itoa(len(uv))+" does not match "+strconv.Itoa(vertices)+" vertices")
		return nil
	}
	return uv
}

// collectMeshes lists every distinct mesh under roots, in visiting order.
func collectMeshes(roots []*scene.Node) ([]*scene.Mesh, error) {
	var meshes []*scene.Mesh
	seen := make(map[*scene.Mesh]struct{})
	err := walker.Walk(roots, func(n, _ *scene.Node) error {
		m := n.Mesh()
		if m == nil {
			return nil
		}
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			meshes = append(meshes, m)
		}
		return nil
	})
	return meshes, err
}

// contentKeys computes every mesh's content key. With more than one worker
// the meshes are split into contiguous chunks, one goroutine per chunk, and
// each goroutine writes only its own slots; the map is built afterwards.
func contentKeys(ctx context.Context, meshes []*scene.Mesh, workers int) (map[*scene.Mesh]int32, error) {
	keys := make([]int32, len(meshes))

	if workers <= 1 || len(meshes) < 2 {
		for i, m := range meshes {
			keys[i] = m.ContentKey()
		}
	} else {
		g, ctx := errgroup.WithContext(ctx)
		chunk := (len(meshes) + workers - 1) / workers
		for start := 0; start < len(meshes); start += chunk {
			end := min(start+chunk, len(meshes))
			g.Go(func() error {
				for i := start; i < end; i++ {
					if err := ctx.Err(); err != nil {
						return err
					}
					keys[i] = meshes[i].ContentKey()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := make(map[*scene.Mesh]int32, len(meshes))
	for i, m := range meshes {
		out[m] = keys[i]
	}
	return out, nil
}
