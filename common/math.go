package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes. Y is up, Z is the default facing.
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
	Right   = mgl64.Vec3{1, 0, 0}
)

const epsilon = 1e-9

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Horizontal drops the vertical component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// SafeNormalize returns the unit vector of v, or the zero vector when v is
// too short to have a direction.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// HorizontalDir is SafeNormalize(Horizontal(v)).
func HorizontalDir(v mgl64.Vec3) mgl64.Vec3 {
	return SafeNormalize(Horizontal(v))
}

// AngleBetween returns the unsigned angle in degrees between a and b.
// Zero-length inputs yield 0.
func AngleBetween(a, b mgl64.Vec3) float64 {
	a = SafeNormalize(a)
	b = SafeNormalize(b)
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}
	return mgl64.RadToDeg(math.Acos(Clamp(a.Dot(b), -1, 1)))
}

// RightOf returns the horizontal right axis for a facing direction.
func RightOf(forward mgl64.Vec3) mgl64.Vec3 {
	return SafeNormalize(Up.Cross(HorizontalDir(forward)))
}

// RotateY rotates v around the up axis by deg degrees.
func RotateY(v mgl64.Vec3, deg float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(mgl64.DegToRad(deg)).Mul3x1(v)
}

// LookRotation builds the rotation whose +Z axis points along forward and whose
// +Y axis is as close to up as possible.
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	f := SafeNormalize(forward)
	if f.Len() == 0 {
		return mgl64.QuatIdent()
	}
	r := SafeNormalize(up.Cross(f))
	if r.Len() == 0 {
		// forward parallel to up; pick any perpendicular right axis
		r = SafeNormalize(Forward.Cross(f))
		if r.Len() == 0 {
			r = Right
		}
	}
	u := f.Cross(r)
	m := mgl64.Mat3FromCols(r, u, f)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// FacingOf returns the +Z axis of rot.
func FacingOf(rot mgl64.Quat) mgl64.Vec3 {
	return rot.Rotate(Forward)
}

// MoveTowards steps current toward target by at most maxDelta.
func MoveTowards(current, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	d := target.Sub(current)
	l := d.Len()
	if l <= maxDelta || l < epsilon {
		return target
	}
	return current.Add(d.Mul(maxDelta / l))
}
