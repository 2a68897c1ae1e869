// Package xform converts transforms and geometry from the source engine's
// left-handed, Y-up convention into the destination's right-handed, Z-up one.
//
// Conversion is split in two. Child transforms are relative to a parent
// whose space has already been converted, so they only need the profile's
// per-component mapping. Root transforms additionally receive the basis
// correction, a +90° rotation about X that turns Y-up into Z-up.
package xform

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/blendexport/pkg/math"
	"github.com/Faultbox/blendexport/pkg/scene"
)

// ErrUnknownProfile is returned by Lookup for names no profile answers to.
var ErrUnknownProfile = errors.New("unknown coordinate profile")

// DefaultProfile is used when no profile is configured.
const DefaultProfile = "rotate-x90"

// Profile is one destination convention policy.
type Profile struct {
	Name        string
	Description string

	// mirror negates X on points and conjugates rotations by that mirror.
	mirror bool
}

var profiles = []Profile{
	{
		Name:        "rotate-x90",
		Description: "keep child coordinates, rotate roots +90° about X",
	},
	{
		Name:        "mirror-x",
		Description: "mirror X on every point and rotation, rotate roots +90° about X, reverse winding",
		mirror:      true,
	},
}

// Profiles lists every available profile, default first.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// Lookup returns the profile with the given name. An empty name selects
// DefaultProfile.
func Lookup(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// ConvertPoint maps a source-space position or direction.
func (p Profile) ConvertPoint(v math.Vec3) math.Vec3 {
	if p.mirror {
		return math.Vec3{X: -v.X, Y: v.Y, Z: v.Z}
	}
	return v
}

// ConvertRotation maps a source-space rotation. Under the mirror the axis
// is reflected and, being a pseudo-vector, flips sign: (w, x, -y, -z).
func (p Profile) ConvertRotation(q math.Quat) math.Quat {
	if p.mirror {
		return math.Quat{X: q.X, Y: -q.Y, Z: -q.Z, W: q.W}
	}
	return q
}

// ConvertScale maps a local scale. Axis-aligned scale survives both policies.
func (p Profile) ConvertScale(s math.Vec3) math.Vec3 {
	return s
}

// ReversesWinding reports whether ConvertTriangle swaps vertex order.
func (p Profile) ReversesWinding() bool {
	return p.mirror
}

// ConvertTriangle keeps faces front-facing after the point mapping.
func (p Profile) ConvertTriangle(t [3]int) [3]int {
	if p.mirror {
		return [3]int{t[2], t[1], t[0]}
	}
	return t
}

// Correction returns the basis correction applied to root transforms.
func Correction() math.Mat4 {
	return math.RotateX(stdmath.Pi / 2)
}

// Compose builds T·R·S.
func Compose(position math.Vec3, rotation math.Quat, scale math.Vec3) math.Mat4 {
	return math.TRS(position, rotation, scale)
}

// TRS is a converted local transform in destination space.
type TRS struct {
	Location math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// Matrix composes the transform.
func (t TRS) Matrix() math.Mat4 {
	return Compose(t.Location, t.Rotation, t.Scale)
}

// lightFlip is a half turn about local X. Source lights shine down +Z, the
// destination's down -Z.
var lightFlip = math.Quat{X: 1, W: 0}

// ChildTRS converts a node's local transform for emission relative to its
// parent. The rotation stays a quaternion; going through Euler angles would
// lose precision and invite gimbal ambiguity. For lights the half turn is
// folded into the rotation, which is exact because a diagonal scale
// commutes with it.
func (p Profile) ChildTRS(t scene.Transform, light bool) TRS {
	rot := p.ConvertRotation(t.Rotation)
	if light {
		rot = rot.Mul(lightFlip)
	}
	return TRS{
		Location: p.ConvertPoint(t.Position),
		Rotation: rot,
		Scale:    p.ConvertScale(t.Scale),
	}
}

// RootMatrix converts a root node's transform into a full destination
// matrix: Correction · Compose(converted TRS).
func (p Profile) RootMatrix(t scene.Transform, light bool) math.Mat4 {
	return Correction().Mul(p.ChildTRS(t, light).Matrix())
}
