package engine

import (
	"golang.org/x/image/math/f64"

	"github.com/ivlev/keyframes/internal/value"
)

// FrameState is the resolved state of a composition at one frame. Every call
// to Evaluate builds a fresh FrameState that shares no memory with the
// project or with earlier results, so callers may keep or modify it freely.
type FrameState struct {
	Frame       float64          `json:"frame" yaml:"frame"`
	Composition string           `json:"composition,omitempty" yaml:"composition,omitempty"`
	Layers      []EvaluatedLayer `json:"layers" yaml:"layers"`
}

// Layer returns the evaluated layer with the given ID.
func (s FrameState) Layer(id string) (EvaluatedLayer, bool) {
	for _, l := range s.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return EvaluatedLayer{}, false
}

// EvaluatedLayer is one layer's resolved properties.
type EvaluatedLayer struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Visible is the layer's own flag. InRange additionally requires the
	// frame to fall within the layer's start and end frames.
	Visible bool `json:"visible" yaml:"visible"`
	InRange bool `json:"inRange" yaml:"inRange"`

	Transform Transform `json:"transform" yaml:"transform"`
	Opacity   float64   `json:"opacity" yaml:"opacity"`

	// World maps layer space to composition space, parents included.
	World         f64.Aff3     `json:"world" yaml:"world"`
	WorldPosition value.Vector `json:"worldPosition" yaml:"worldPosition"`

	Properties map[string]value.Value `json:"properties,omitempty" yaml:"properties,omitempty"`
	Effects    []EvaluatedEffect      `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// Transform is a layer's local transform. Scale is in percent and rotation in
// degrees.
type Transform struct {
	Position value.Vector `json:"position" yaml:"position"`
	Scale    value.Vector `json:"scale" yaml:"scale"`
	Rotation float64      `json:"rotation" yaml:"rotation"`
	Anchor   value.Vector `json:"anchor" yaml:"anchor"`
}

// EvaluatedEffect is an enabled effect with its parameters resolved.
type EvaluatedEffect struct {
	ID     string                 `json:"id" yaml:"id"`
	Type   string                 `json:"type" yaml:"type"`
	Params map[string]value.Value `json:"params,omitempty" yaml:"params,omitempty"`
}

// Defaults substituted for missing or unusable layer data.
var (
	DefaultPosition = value.Vec2(0, 0)
	DefaultScale    = value.Vec2(100, 100)
	DefaultRotation = value.Number(0)
	DefaultAnchor   = value.Vec2(0, 0)
	DefaultOpacity  = value.Number(100)
)

// Identity is the identity affine transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}
