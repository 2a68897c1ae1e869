package export

import (
	"github.com/Faultbox/blendexport/internal/emit"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// visit emits one node: payload definition, the object itself, its
// transform, then anything attached to it.
func (e *Exporter) visit(n, parent *scene.Node) error {
	e.result.Nodes++
	id := n.ID()
	kind := scene.Classify(n)

	create := emit.ObjectCreate{ID: id, Payload: emit.PayloadNone}
	light := false
	var meshID string

	switch kind {
	case scene.KindGeometry:
		var err error
		if meshID, err = e.mesh(id, n.Mesh()); err != nil {
			return err
		}
		create.Payload, create.Data = emit.PayloadMesh, meshID

	case scene.KindLight:
		def, ok := lightDefine(id, n.Light)
		if !ok {
			e.skip(id, "light", n.Light.Type.String()+" lights are not supported")
			break
		}
		if err := e.put(def); err != nil {
			return err
		}
		create.Payload, create.Data = emit.PayloadLight, def.ID
		light = true

	case scene.KindCamera:
		e.skip(id, "camera", "exported as an empty")
	}
	e.noteDropped(id, n, kind)

	if err := e.put(create); err != nil {
		return err
	}
	if err := e.transform(id, n, parent, light); err != nil {
		return err
	}
	if err := e.put(emit.SceneLink{ID: id}); err != nil {
		return err
	}

	switch kind {
	case scene.KindGeometry:
		return e.surface(id, n, meshID)
	case scene.KindTrigger:
		return e.put(e.trigger(id, n.Collider))
	case scene.KindEmitter:
		return e.put(e.particles(id, n.Emitter))
	}
	return nil
}

func (e *Exporter) transform(id string, n, parent *scene.Node, light bool) error {
	if parent == nil {
		return e.put(emit.ObjectTransformMatrix{
			ID:     id,
			Matrix: e.profile.RootMatrix(n.Transform, light),
		})
	}

	trs := e.profile.ChildTRS(n.Transform, light)
	if err := e.put(emit.ObjectTransformTRS{
		ID:       id,
		Location: trs.Location,
		Scale:    trs.Scale,
		Rotation: trs.Rotation,
	}); err != nil {
		return err
	}
	return e.put(emit.ObjectParentLink{Child: id, Parent: parent.ID()})
}

// surface attaches the node's material and lightmap to its geometry.
func (e *Exporter) surface(id string, n *scene.Node, meshID string) error {
	r := n.Renderer
	switch {
	case r == nil:
		e.skip(id, "material", "geometry has no renderer")
		return nil
	case r.Material == nil:
		e.skip(id, "material", "renderer has no material")
	default:
		matID, faceImage, err := e.material(id, r.Material)
		if err != nil {
			return err
		}
		attach := emit.ObjectMaterialAttach{Object: id, Material: matID, Mesh: meshID}
		// Face images go on the first UV layer, which only exists when
		// uv0 made it into the mesh definition.
		if e.meshUV0[meshID] {
			attach.FaceImage = faceImage
		}
		if err := e.put(attach); err != nil {
			return err
		}
	}
	return e.lightmap(id, r.Lightmap)
}

// noteDropped reports components the node's kind leaves unexported.
func (e *Exporter) noteDropped(id string, n *scene.Node, kind scene.Kind) {
	if n.Audio != nil {
		e.skip(id, "audio", "audio sources are not exported")
	}
	if c := n.Collider; c != nil && kind != scene.KindTrigger {
		if c.Shape != scene.ShapeBox {
			e.skip(id, "collider", "only box colliders become trigger volumes")
		}
	}
}
