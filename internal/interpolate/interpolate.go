// Package interpolate evaluates one located segment of a keyframe track.
//
// The outgoing keyframe's interpolation mode picks a Strategy. Strategies are
// generic over value shapes: they only compute an eased fraction and leave
// the per-kind blending to value.Lerp.
package interpolate

import (
	"github.com/ivlev/keyframes/internal/bezier"
	"github.com/ivlev/keyframes/internal/keyframe"
	"github.com/ivlev/keyframes/internal/value"
)

// Strategy produces the value of a Between segment.
type Strategy interface {
	Interpolate(seg keyframe.Segment, solver *bezier.Solver) value.Value
}

// For returns the strategy for an interpolation mode. Unknown modes are
// treated as linear.
func For(mode keyframe.Interpolation) Strategy {
	switch mode {
	case keyframe.Hold:
		return Hold{}
	case keyframe.Bezier:
		return Bezier{}
	default:
		return Linear{}
	}
}

// Evaluate returns the value for a located segment. Boundary segments and
// frames sitting exactly on a keyframe return the authored value without
// consulting any strategy. solver may be nil to solve curves uncached.
func Evaluate(seg keyframe.Segment, solver *bezier.Solver) value.Value {
	if seg.Position != keyframe.Between || seg.T <= 0 {
		return seg.A.Value
	}
	if seg.T >= 1 {
		return seg.B.Value
	}
	if !value.Blendable(seg.A.Value, seg.B.Value) && seg.A.Interpolation != keyframe.Hold {
		return value.Lerp(seg.A.Value, seg.B.Value, seg.T)
	}
	return For(seg.A.Interpolation).Interpolate(seg, solver)
}

// Hold keeps the first keyframe's value for the whole segment.
type Hold struct{}

func (Hold) Interpolate(seg keyframe.Segment, _ *bezier.Solver) value.Value {
	return seg.A.Value
}

// Linear blends at a constant rate, optionally reshaped by a named easing
// preset on the outgoing keyframe.
type Linear struct{}

func (Linear) Interpolate(seg keyframe.Segment, _ *bezier.Solver) value.Value {
	t := seg.T
	if fn, ok := Easing(seg.A.Easing); ok {
		t = fn(t)
	}
	return value.Lerp(seg.A.Value, seg.B.Value, t)
}

// Bezier eases the segment with the cubic curve described by the outgoing
// keyframe's out-handle and the incoming keyframe's in-handle. A disabled
// handle makes its side of the curve straight; with both disabled the
// segment is exactly linear.
type Bezier struct{}

func (Bezier) Interpolate(seg keyframe.Segment, solver *bezier.Solver) value.Value {
	out, in := seg.A.OutHandle, seg.B.InHandle
	if !out.Enabled && !in.Enabled {
		return value.Lerp(seg.A.Value, seg.B.Value, seg.T)
	}

	curve := bezier.FromHandles(out, in, seg.Duration(), value.Delta(seg.A.Value, seg.B.Value))
	return value.Lerp(seg.A.Value, seg.B.Value, solver.Solve(curve, seg.T))
}
