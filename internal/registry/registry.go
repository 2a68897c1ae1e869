// Package registry assigns stable identities to shared assets during one
// export, so identical data is defined once and referenced afterwards.
package registry

import (
	"fmt"
	"strconv"

	"github.com/Faultbox/blendexport/pkg/naming"
)

// Kind selects one of the registry's independent keyspaces.
type Kind int

const (
	Mesh Kind = iota
	Material
	Texture
	Image

	numKinds
)

// String returns the keyspace name.
func (k Kind) String() string {
	switch k {
	case Mesh:
		return "mesh"
	case Material:
		return "material"
	case Texture:
		return "texture"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Key identifies an asset inside a keyspace.
// Value is what deduplication compares: a mesh content key, a material or
// texture source identity, or an image's absolute path. Name seeds the
// readable part of a new identity.
type Key struct {
	Value string
	Name  string
}

// Stats counts definitions and reuses for one keyspace.
type Stats struct {
	Defined int
	Reused  int
}

// Registry maps keys to identities. The zero value is not usable; create one
// per export with New and drop it afterwards.
type Registry struct {
	ids   [numKinds]map[string]string   // key value -> identity
	taken [numKinds]map[string]struct{} // issued identities
	stats [numKinds]Stats
}

// New creates an empty registry.
func New() *Registry {
	r := &Registry{}
	for k := range r.ids {
		r.ids[k] = make(map[string]string)
		r.taken[k] = make(map[string]struct{})
	}
	return r
}

// InternOrCreate returns the identity for key in the kind's keyspace.
// isNew is true the first time a key is seen; the caller must then emit the
// entity's definition before anything references it. Otherwise the caller
// emits a reference to the returned, previously defined identity.
func (r *Registry) InternOrCreate(kind Kind, key Key) (id string, isNew bool) {
	if id, ok := r.ids[kind][key.Value]; ok {
		r.stats[kind].Reused++
		return id, false
	}

	suffix := key.Value
	if kind == Image {
		// Paths make poor suffixes; number images in first-seen order.
		suffix = strconv.Itoa(len(r.ids[kind]))
	}
	id = naming.Identity(key.Name, suffix)

	// Keep the mapping injective even if two keys render to the same string.
	for n := 1; r.isTaken(kind, id); n++ {
		id = naming.Identity(key.Name, suffix+"."+strconv.Itoa(n))
	}

	r.ids[kind][key.Value] = id
	r.taken[kind][id] = struct{}{}
	r.stats[kind].Defined++
	return id, true
}

// Lookup returns the identity already assigned to key, if any.
func (r *Registry) Lookup(kind Kind, value string) (string, bool) {
	id, ok := r.ids[kind][value]
	return id, ok
}

// Len returns the number of identities issued in a keyspace.
func (r *Registry) Len(kind Kind) int {
	return len(r.ids[kind])
}

// Stats returns definition and reuse counts for a keyspace.
func (r *Registry) Stats(kind Kind) Stats {
	return r.stats[kind]
}

func (r *Registry) isTaken(kind Kind, id string) bool {
	_, ok := r.taken[kind][id]
	return ok
}
