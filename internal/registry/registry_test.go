package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternOrCreate(t *testing.T) {
	r := New()

	id, isNew := r.InternOrCreate(Mesh, Key{Value: "191", Name: "Quad"})
	require.True(t, isNew)
	assert.Equal(t, "Quad#191", id)

	again, isNew := r.InternOrCreate(Mesh, Key{Value: "191", Name: "Quad"})
	assert.False(t, isNew)
	assert.Equal(t, id, again)

	// Same content under another name is still the same mesh.
	renamed, isNew := r.InternOrCreate(Mesh, Key{Value: "191", Name: "Other"})
	assert.False(t, isNew)
	assert.Equal(t, id, renamed)

	assert.Equal(t, Stats{Defined: 1, Reused: 2}, r.Stats(Mesh))
}

func TestKeyspacesAreIndependent(t *testing.T) {
	r := New()

	for _, kind := range []Kind{Mesh, Material, Texture} {
		id, isNew := r.InternOrCreate(kind, Key{Value: "7", Name: "shared"})
		assert.True(t, isNew, kind.String())
		assert.Equal(t, "shared#7", id, kind.String())
	}
	assert.Equal(t, 1, r.Len(Material))
}

func TestImageIdentities(t *testing.T) {
	r := New()

	a, isNew := r.InternOrCreate(Image, Key{Value: "/tex/a.png", Name: "a.png"})
	require.True(t, isNew)
	b, _ := r.InternOrCreate(Image, Key{Value: "/other/a.png", Name: "a.png"})
	again, isNew := r.InternOrCreate(Image, Key{Value: "/tex/a.png", Name: "a.png"})

	assert.Equal(t, "a.png#0", a)
	assert.Equal(t, "a.png#1", b)
	assert.False(t, isNew)
	assert.Equal(t, a, again)
}

func TestIdentitiesAreInjective(t *testing.T) {
	r := New()

	// Names that sanitise to the same text must still get distinct identities.
	keys := []Key{
		{Value: "1", Name: "door"},
		{Value: "2", Name: "door's"},
		{Value: "3", Name: "door#"},
		{Value: "1.1", Name: "door"},
		{Value: "4", Name: ""},
		{Value: "5", Name: "\x00"},
	}

	seen := map[string]string{}
	for _, k := range keys {
		id, isNew := r.InternOrCreate(Texture, k)
		require.True(t, isNew, k.Value)
		if prev, dup := seen[id]; dup {
			t.Fatalf("identity %q issued for %q and %q", id, prev, k.Value)
		}
		seen[id] = k.Value

		got, ok := r.Lookup(Texture, k.Value)
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
	assert.Equal(t, "doors#2", identityOf(seen, "2"))
	assert.Equal(t, "unnamed#4", identityOf(seen, "4"))
}

func identityOf(m map[string]string, value string) string {
	for id, v := range m {
		if v == value {
			return id
		}
	}
	return ""
}

func TestLongNamesKeepSuffix(t *testing.T) {
	r := New()
	id, _ := r.InternOrCreate(Material, Key{Value: "123", Name: strings.Repeat("m", 200)})

	assert.LessOrEqual(t, len(id), 63)
	assert.True(t, strings.HasSuffix(id, "#123"), id)
}

func TestLookupMiss(t *testing.T) {
	r := New()
	_, ok := r.Lookup(Image, "/nope.png")
	assert.False(t, ok)
	assert.Equal(t, "image", Image.String())
}
