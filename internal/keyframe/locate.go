package keyframe

import (
	"math"
	"sort"
)

// Position says where a queried frame falls relative to a keyframe track.
type Position uint8

const (
	// BeforeFirst: the frame precedes every keyframe. A and B are the first keyframe.
	BeforeFirst Position = iota
	// AfterLast: the frame is at or past the last keyframe. A and B are the last keyframe.
	AfterLast
	// Between: A.Frame <= frame < B.Frame and T is the linear fraction across the segment.
	Between
)

func (p Position) String() string {
	switch p {
	case BeforeFirst:
		return "before-first"
	case AfterLast:
		return "after-last"
	default:
		return "between"
	}
}

// Segment is the result of locating a frame on a track.
type Segment struct {
	Position Position
	A, B     Keyframe
	T        float64
}

// Duration is the segment length in frames. Boundary segments have none.
func (s Segment) Duration() float64 {
	return float64(s.B.Frame - s.A.Frame)
}

// Locate finds the keyframes bounding frame with a binary search over a
// frame-sorted track. The second result is false for an empty track.
//
// Frames equal to a keyframe's frame land at T == 0 of the segment that
// keyframe opens (or AfterLast for the final keyframe), so the authored
// value is returned exactly. If the track holds duplicate frames the last
// of them is used. A NaN frame resolves to BeforeFirst.
func Locate(kfs []Keyframe, frame float64) (Segment, bool) {
	n := len(kfs)
	if n == 0 {
		return Segment{}, false
	}
	if boundary, ok := bounds(kfs, frame); ok {
		return boundary, true
	}

	// first index with Frame > frame, minus one: the last keyframe at or before frame
	i := sort.Search(n, func(i int) bool {
		return float64(kfs[i].Frame) > frame
	}) - 1

	return between(kfs[i], kfs[i+1], frame), true
}

// LocateLinear is the reference scan Locate must agree with.
func LocateLinear(kfs []Keyframe, frame float64) (Segment, bool) {
	n := len(kfs)
	if n == 0 {
		return Segment{}, false
	}
	if boundary, ok := bounds(kfs, frame); ok {
		return boundary, true
	}

	i := 0
	for j := 0; j < n; j++ {
		if float64(kfs[j].Frame) <= frame {
			i = j
		} else {
			break
		}
	}
	return between(kfs[i], kfs[i+1], frame), true
}

func bounds(kfs []Keyframe, frame float64) (Segment, bool) {
	first, last := kfs[0], kfs[len(kfs)-1]
	if math.IsNaN(frame) || frame < float64(first.Frame) {
		return Segment{Position: BeforeFirst, A: first, B: first}, true
	}
	if frame >= float64(last.Frame) {
		return Segment{Position: AfterLast, A: last, B: last}, true
	}
	return Segment{}, false
}

func between(a, b Keyframe, frame float64) Segment {
	t := (frame - float64(a.Frame)) / float64(b.Frame-a.Frame)
	return Segment{Position: Between, A: a, B: b, T: t}
}
