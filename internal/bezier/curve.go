// Package bezier turns keyframe handles into a normalised cubic timing curve
// and solves it: given the linear fraction x across a segment, find the eased
// fraction y.
//
// The curve runs from (0,0) to (1,1) with control points (x1,y1) and (x2,y2).
// Because the curve is parameterised by s rather than x, solving inverts
// x(s) = t with a bounded Newton iteration and a bisection fallback, then
// evaluates y(s). Every step is a pure function of the quantised control
// points, so a curve solved from cache and a curve solved cold agree bit for
// bit.
package bezier

import (
	"math"

	"github.com/ivlev/keyframes/internal/keyframe"
)

// quantum is the resolution control points are snapped to. Curves that differ
// by less than this share one cache slot and one solution.
const quantum = 1e9

// yLimit bounds control point y so quantised coordinates fit in an int64.
const yLimit = 1e6

// Key identifies a curve by its quantised control points (x1, y1, x2, y2).
type Key [4]int64

// Curve is a normalised cubic timing curve.
type Curve struct {
	key Key
}

// NewCurve builds a curve from normalised control points. x coordinates are
// clamped to [0,1] so x(s) stays monotonic; y may overshoot.
func NewCurve(x1, y1, x2, y2 float64) Curve {
	return Curve{key: Key{
		quantize(clamp(x1, 0, 1)),
		quantize(clamp(y1, -yLimit, yLimit)),
		quantize(clamp(x2, 0, 1)),
		quantize(clamp(y2, -yLimit, yLimit)),
	}}
}

// FromHandles builds the curve for a segment lasting duration frames whose
// value changes by delta. The outgoing handle is relative to (0,0) and the
// incoming handle to (1,1); frame offsets are divided by duration and value
// offsets by delta. A disabled or non-finite handle falls back to the
// straight-line control point on its side. A zero delta leaves no value
// scale, so y mirrors x and only the timing is shaped.
func FromHandles(out, in keyframe.Handle, duration, delta float64) Curve {
	x1, y1 := 1.0/3, 1.0/3
	if out.Enabled && duration > 0 && finite(out.Frame) && finite(out.Value) {
		x1 = out.Frame / duration
		y1 = x1
		if delta != 0 {
			y1 = out.Value / delta
		}
	}

	x2, y2 := 2.0/3, 2.0/3
	if in.Enabled && duration > 0 && finite(in.Frame) && finite(in.Value) {
		dx := in.Frame / duration
		dy := dx
		if delta != 0 {
			dy = in.Value / delta
		}
		x2, y2 = 1+dx, 1+dy
	}

	return NewCurve(x1, y1, x2, y2)
}

// Key returns the cache key of the curve.
func (c Curve) Key() Key { return c.key }

// Points returns the quantised control points.
func (c Curve) Points() (x1, y1, x2, y2 float64) {
	return dequantize(c.key[0]), dequantize(c.key[1]), dequantize(c.key[2]), dequantize(c.key[3])
}

// Linear reports whether both control points lie on the diagonal, in which
// case y(x) = x and no solving is needed.
func (c Curve) Linear() bool {
	return c.key[0] == c.key[1] && c.key[2] == c.key[3]
}

func quantize(v float64) int64 {
	return int64(math.Round(v * quantum))
}

func dequantize(q int64) float64 {
	return float64(q) / quantum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
