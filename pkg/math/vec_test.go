package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should stay zero")
	}
}

func TestVec3Abs(t *testing.T) {
	got := Vec3{-1, 2, -3}.Abs()
	want := Vec3{1, 2, 3}
	if got != want {
		t.Errorf("Vec3.Abs() = %v, want %v", got, want)
	}
}

func TestVec3Mul(t *testing.T) {
	got := Vec3{1, 2, 3}.Mul(Vec3{-1, 0.5, 2})
	want := Vec3{-1, 1, 6}
	if got != want {
		t.Errorf("Vec3.Mul() = %v, want %v", got, want)
	}
}

func TestVec2FlipV(t *testing.T) {
	got := Vec2{0.25, 0.75}.FlipV()
	want := Vec2{0.25, 0.25}
	if got != want {
		t.Errorf("Vec2.FlipV() = %v, want %v", got, want)
	}
}
