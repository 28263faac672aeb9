package value

import (
	"fmt"
	"math"
)

// Vector is a 2D or 3D vector. X and Y are always present. HasZ marks
// whether Z was authored; an absent Z reads as 0 and is widened during
// interpolation rather than switched discretely.
type Vector struct {
	X, Y, Z float64
	HasZ    bool
}

// Sub returns v - o, widening to 3D if either side has Z.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z, HasZ: v.HasZ || o.HasZ}
}

// Len returns the Euclidean length.
func (v Vector) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vector) String() string {
	if v.HasZ {
		return fmt.Sprintf("{x:%g y:%g z:%g}", v.X, v.Y, v.Z)
	}
	return fmt.Sprintf("{x:%g y:%g}", v.X, v.Y)
}

// lerpVector blends each axis independently. A Z missing on one side is
// treated as 0 there, so the axis fades in proportionally to t.
func lerpVector(a, b Vector, t float64) Vector {
	return Vector{
		X:    lerp(a.X, b.X, t),
		Y:    lerp(a.Y, b.Y, t),
		Z:    lerp(a.Z, b.Z, t),
		HasZ: a.HasZ || b.HasZ,
	}
}
