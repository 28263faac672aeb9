package value

import "math"

// Lerp blends a toward b by t. t is usually in [0,1] but eased curves may
// overshoot; the blend extrapolates accordingly except for colours, which are
// clamped to their channel range.
//
// t == 0 returns a and t == 1 returns b exactly, so keyframe frames reproduce
// authored values bit-for-bit. Kinds that differ between a and b, and step
// values, switch from a to b at t == 0.5.
func Lerp(a, b Value, t float64) Value {
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	if a.kind != b.kind {
		return stepAt(a, b, t)
	}

	switch a.kind {
	case KindNumber:
		return Number(lerp(a.num, b.num, t))
	case KindVector:
		return Value{kind: KindVector, vec: lerpVector(a.vec, b.vec, t)}
	case KindColor:
		return Value{kind: KindColor, color: lerpColor(a.color, b.color, t)}
	default:
		return stepAt(a, b, t)
	}
}

// Blendable reports whether a and b can be blended component-wise.
func Blendable(a, b Value) bool {
	return a.kind == b.kind && a.kind != KindStep
}

// Delta is the magnitude used to normalise a bezier handle's value offset
// for the segment a → b: the signed difference for numbers, the Euclidean
// distance for vectors and the largest channel difference for colours.
// Steps and mismatched kinds report 0.
func Delta(a, b Value) float64 {
	if a.kind != b.kind {
		return 0
	}
	switch a.kind {
	case KindNumber:
		return b.num - a.num
	case KindVector:
		return b.vec.Sub(a.vec).Len()
	case KindColor:
		return a.color.maxChannelDelta(b.color)
	default:
		return 0
	}
}

// stepAt is the policy for values that cannot be blended: a for the first
// half of the segment, b from the midpoint on.
func stepAt(a, b Value, t float64) Value {
	if t < 0.5 {
		return a
	}
	return b
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Equal reports whether a and b are identical, treating NaN as equal to NaN
// so non-finite inputs still compare deterministically.
func Equal(a, b Value) bool {
	if a == b {
		return true
	}
	if a.kind != b.kind || a.kind != KindNumber {
		return false
	}
	return math.IsNaN(a.num) && math.IsNaN(b.num)
}
