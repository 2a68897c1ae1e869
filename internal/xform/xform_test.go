package xform

import (
	"errors"
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/scene"
)

const eps = 1e-5

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "rotate-x90", false},
		{"rotate-x90", "rotate-x90", false},
		{"mirror-x", "mirror-x", false},
		{"flip-everything", "", true},
	}

	for _, tt := range tests {
		p, err := Lookup(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownProfile) {
				t.Errorf("Lookup(%q) error = %v, want ErrUnknownProfile", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.name, err)
		}
		if p.Name != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.name, p.Name, tt.want)
		}
	}

	if got := Profiles()[0].Name; got != DefaultProfile {
		t.Errorf("first profile is %s, want the default %s", got, DefaultProfile)
	}
}

func TestConvertPoint(t *testing.T) {
	v := math.Vec3{X: 1, Y: 2, Z: 3}

	rot := mustProfile(t, "rotate-x90")
	if got := rot.ConvertPoint(v); got != v {
		t.Errorf("rotate-x90 ConvertPoint = %v, want unchanged", got)
	}

	mir := mustProfile(t, "mirror-x")
	if got, want := mir.ConvertPoint(v), (math.Vec3{X: -1, Y: 2, Z: 3}); got != want {
		t.Errorf("mirror-x ConvertPoint = %v, want %v", got, want)
	}
}

func TestConvertRotationIsMirrorConjugate(t *testing.T) {
	p := mustProfile(t, "mirror-x")
	mirror := math.Scale(-1, 1, 1)

	for _, q := range []math.Quat{
		math.QuatIdentity(),
		math.QuatFromEuler(30, 0, 0),
		math.QuatFromEuler(0, 45, 0),
		math.QuatFromEuler(10, 20, 30),
	} {
		want := mirror.Mul(q.ToMat4()).Mul(mirror)
		got := p.ConvertRotation(q).ToMat4()
		if !got.ApproxEqual(want, eps) {
			t.Errorf("ConvertRotation(%v):\n got  %v\n want %v", q, got, want)
		}
	}
}

func TestCorrectionMatchesMathGL(t *testing.T) {
	want := math.Mat4(mgl32.HomogRotate3DX(stdmath.Pi / 2))
	if !Correction().ApproxEqual(want, eps) {
		t.Errorf("Correction() = %v, want %v", Correction(), want)
	}

	// Source up (Y) becomes destination up (Z).
	up := Correction().TransformPoint(math.Vec3{Y: 1})
	if up != (math.Vec3{Z: 1}) {
		t.Errorf("Correction maps +Y to %v, want +Z", up)
	}
}

func TestRootMatrix(t *testing.T) {
	p := mustProfile(t, "rotate-x90")
	tr := scene.Transform{
		Position: math.Vec3{X: 1, Y: 2, Z: 3},
		Rotation: math.QuatIdentity(),
		Scale:    math.One(),
	}

	got := p.RootMatrix(tr, false)
	want := math.Mat4(mgl32.HomogRotate3DX(stdmath.Pi / 2).Mul4(mgl32.Translate3D(1, 2, 3)))
	if !got.ApproxEqual(want, eps) {
		t.Errorf("RootMatrix =\n %v\nwant\n %v", got, want)
	}
	if pos := got.TransformPoint(math.Vec3{}); pos != (math.Vec3{X: 1, Y: -3, Z: 2}) {
		t.Errorf("root origin lands at %v, want (1,-3,2)", pos)
	}
}

func TestRootRoundTrip(t *testing.T) {
	transforms := []scene.Transform{
		scene.IdentityTransform(),
		{Position: math.Vec3{X: 4, Y: -1, Z: 2}, Rotation: math.QuatFromEuler(15, 70, -20), Scale: math.Vec3{X: 2, Y: 1, Z: 0.5}},
		{Position: math.Vec3{Z: 10}, Rotation: math.QuatFromEuler(0, 180, 0), Scale: math.Vec3{X: 1, Y: 3, Z: 1}},
	}

	for _, profile := range Profiles() {
		for _, light := range []bool{false, true} {
			for i, tr := range transforms {
				emitted := profile.RootMatrix(tr, light)
				got := Correction().Inverse().Mul(emitted)
				want := profile.ChildTRS(tr, light).Matrix()
				if !got.ApproxEqual(want, eps) {
					t.Errorf("%s light=%v #%d: round trip\n got  %v\n want %v", profile.Name, light, i, got, want)
				}
			}
		}
	}
}

func TestComposeMatchesMathGL(t *testing.T) {
	pos := math.Vec3{X: 1, Y: 2, Z: 3}
	rot := math.QuatFromEuler(10, 20, 30)
	scale := math.Vec3{X: 2, Y: 3, Z: 4}

	q := mgl32.Quat{W: rot.W, V: mgl32.Vec3{rot.X, rot.Y, rot.Z}}
	want := mgl32.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(scale.X, scale.Y, scale.Z))

	if got := Compose(pos, rot, scale); !got.ApproxEqual(math.Mat4(want), eps) {
		t.Errorf("Compose =\n %v\nwant\n %v", got, want)
	}
}

func TestLightFlipFoldsIntoRotation(t *testing.T) {
	tr := scene.Transform{
		Position: math.Vec3{X: 1, Y: 5, Z: -2},
		Rotation: math.QuatFromEuler(50, -30, 0),
		Scale:    math.Vec3{X: 1, Y: 2, Z: 3},
	}

	for _, profile := range Profiles() {
		plain := profile.ChildTRS(tr, false)
		lit := profile.ChildTRS(tr, true)

		if lit.Location != plain.Location || lit.Scale != plain.Scale {
			t.Errorf("%s: light flip must only touch the rotation", profile.Name)
		}

		want := plain.Matrix().Mul(math.RotateX(stdmath.Pi))
		if got := lit.Matrix(); !got.ApproxEqual(want, eps) {
			t.Errorf("%s: light TRS\n got  %v\n want %v", profile.Name, got, want)
		}
	}
}

func TestChildTRSKeepsQuaternion(t *testing.T) {
	q := math.QuatFromEuler(89.9, 0, 45)
	tr := scene.Transform{Rotation: q, Scale: math.One()}

	got := mustProfile(t, "rotate-x90").ChildTRS(tr, false)
	if got.Rotation != q {
		t.Errorf("rotation changed: got %v, want %v", got.Rotation, q)
	}
}

func TestWindingFollowsHandedness(t *testing.T) {
	pts := [3]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	normal := pts[1].Sub(pts[0]).Cross(pts[2].Sub(pts[0]))

	for _, profile := range Profiles() {
		idx := profile.ConvertTriangle([3]int{0, 1, 2})
		var c [3]math.Vec3
		for i, j := range idx {
			c[i] = profile.ConvertPoint(pts[j])
		}
		got := c[1].Sub(c[0]).Cross(c[2].Sub(c[0]))

		if want := profile.ConvertPoint(normal); got != want {
			t.Errorf("%s: face normal %v, want %v", profile.Name, got, want)
		}
		if profile.ReversesWinding() != (idx != [3]int{0, 1, 2}) {
			t.Errorf("%s: ReversesWinding disagrees with ConvertTriangle", profile.Name)
		}
	}
}

func mustProfile(t *testing.T, name string) Profile {
	t.Helper()
	p, err := Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
