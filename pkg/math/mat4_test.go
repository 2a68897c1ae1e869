package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	result := m.TransformPoint(Vec3{1, 2, 3})

	expected := Vec3{12, 24, 36}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestRotateX90MapsUpAxis(t *testing.T) {
	m := RotateX(float32(math.Pi / 2))

	// Right-angle rotations are exact: Y-up becomes Z-up.
	if got := m.TransformPoint(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Errorf("RotateX 90 of +Y: got %v, want (0, 0, 1)", got)
	}
	if got := m.TransformPoint(Vec3{0, 0, 1}); got != (Vec3{0, -1, 0}) {
		t.Errorf("RotateX 90 of +Z: got %v, want (0, -1, 0)", got)
	}
}

func TestRotateXMatchesMathGL(t *testing.T) {
	for _, angle := range []float32{0.7, -1.3, math.Pi} {
		got, want := RotateX(angle), mgl32.HomogRotate3DX(angle)
		if !got.ApproxEqual(Mat4(want), 1e-6) {
			t.Errorf("RotateX(%v): got %v, want %v", angle, got, want)
		}
	}
}

func TestTRSMatchesMathGL(t *testing.T) {
	pos := Vec3{1, -2, 3.5}
	rot := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.5).Mul(QuatFromAxisAngle(Vec3{1, 0, 0}, -1.2))
	scale := Vec3{2, 0.5, 3}

	got := TRS(pos, rot, scale)

	q := mgl32.Quat{W: rot.W, V: mgl32.Vec3{rot.X, rot.Y, rot.Z}}
	want := mgl32.Translate3D(pos.X, pos.Y, pos.Z).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(scale.X, scale.Y, scale.Z))

	if !got.ApproxEqual(Mat4(want), 1e-5) {
		t.Errorf("TRS:\ngot  %v\nwant %v", got, want)
	}

	composed := Translate(pos.X, pos.Y, pos.Z).Mul(rot.ToMat4()).Mul(Scale(scale.X, scale.Y, scale.Z))
	if !got.ApproxEqual(composed, 1e-5) {
		t.Errorf("TRS should equal T*R*S:\ngot  %v\nwant %v", got, composed)
	}
}

func TestInverse(t *testing.T) {
	m := TRS(Vec3{4, 5, 6}, QuatFromEuler(30, 45, 60), Vec3{1, 2, 3})
	if !m.Mul(m.Inverse()).ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 should be identity, got %v", m.Mul(m.Inverse()))
	}

	var singular Mat4
	if singular.Inverse() != Identity() {
		t.Error("singular matrix inverse should fall back to identity")
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name  string
		pos   Vec3
		rot   Quat
		scale Vec3
	}{
		{"identity", Vec3{}, QuatIdentity(), One()},
		{"rotated", Vec3{1, 2, 3}, QuatFromEuler(10, 20, 30), Vec3{1, 1, 1}},
		{"scaled", Vec3{-4, 0, 9}, QuatFromEuler(0, 90, 0), Vec3{2, 3, 4}},
		{"mirrored", Vec3{0, 1, 0}, QuatFromEuler(45, 0, 0), Vec3{-1, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, r, s := TRS(tt.pos, tt.rot, tt.scale).Decompose()
			if p != tt.pos {
				t.Errorf("position: got %v, want %v", p, tt.pos)
			}
			if !TRS(p, r, s).ApproxEqual(TRS(tt.pos, tt.rot, tt.scale), 1e-5) {
				t.Errorf("recomposed matrix differs: r=%v s=%v", r, s)
			}
		})
	}
}

func TestColumns(t *testing.T) {
	cols := Translate(7, 8, 9).Columns()

	if cols[0] != [4]float32{1, 0, 0, 0} {
		t.Errorf("column 0: got %v", cols[0])
	}
	if cols[3] != [4]float32{7, 8, 9, 1} {
		t.Errorf("column 3: got %v", cols[3])
	}
}

func TestDeterminant3(t *testing.T) {
	if d := Scale(-1, 1, 1).Determinant3(); d != -1 {
		t.Errorf("mirror determinant: got %v, want -1", d)
	}
	if d := Scale(2, 3, 4).Determinant3(); d != 24 {
		t.Errorf("scale determinant: got %v, want 24", d)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
