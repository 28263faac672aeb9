// Package keyframe holds authored keyframes and the search that finds which
// pair of them bounds a requested frame.
package keyframe

import (
	"github.com/ivlev/keyframes/internal/value"
)

// Interpolation selects how a segment blends from its first keyframe to the
// next. The outgoing keyframe of a segment decides.
type Interpolation string

const (
	Hold   Interpolation = "hold"
	Linear Interpolation = "linear"
	Bezier Interpolation = "bezier"
)

// Handle is a tangent leaving or entering a keyframe, expressed relative to
// that keyframe in frames and property units.
type Handle struct {
	Frame   float64 `yaml:"frame" json:"frame"`
	Value   float64 `yaml:"value" json:"value"`
	Enabled bool    `yaml:"enabled" json:"enabled"`
}

// Keyframe is an authored (frame, value) anchor on a property curve.
type Keyframe struct {
	ID            string        `yaml:"id,omitempty" json:"id,omitempty"`
	Frame         int           `yaml:"frame" json:"frame"`
	Value         value.Value   `yaml:"value" json:"value"`
	Interpolation Interpolation `yaml:"interpolation,omitempty" json:"interpolation,omitempty" validate:"omitempty,oneof=hold linear bezier"`
	Easing        string        `yaml:"easing,omitempty" json:"easing,omitempty"`
	InHandle      Handle        `yaml:"inHandle,omitempty" json:"inHandle"`
	OutHandle     Handle        `yaml:"outHandle,omitempty" json:"outHandle"`
}

// New returns a linear keyframe at frame.
func New(frame int, v value.Value) Keyframe {
	return Keyframe{Frame: frame, Value: v, Interpolation: Linear}
}

// WithHold returns a copy of k with hold interpolation.
func (k Keyframe) WithHold() Keyframe {
	k.Interpolation = Hold
	return k
}

// WithBezier returns a copy of k with bezier interpolation and the given
// handles enabled.
func (k Keyframe) WithBezier(in, out Handle) Keyframe {
	in.Enabled = true
	out.Enabled = true
	k.Interpolation = Bezier
	k.InHandle = in
	k.OutHandle = out
	return k
}

// WithEasing returns a copy of k using a named easing preset.
func (k Keyframe) WithEasing(name string) Keyframe {
	k.Easing = name
	return k
}
