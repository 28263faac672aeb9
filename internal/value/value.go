// Package value defines the shapes an animatable property can hold and how
// each shape blends between two keyframes.
//
// A Value is a tagged union. The Kind selects which payload is meaningful and
// every operation dispatches on it with a switch, never on a dynamic type.
// Values are plain comparable structs, so two evaluations can be compared with
// == and a Value handed to a caller can never alias engine state.
package value

import (
	"fmt"
	"math"
)

// Kind identifies the payload carried by a Value.
type Kind uint8

const (
	// KindNumber is a single float64 (rotation, opacity, slider values).
	KindNumber Kind = iota
	// KindVector is a 2D or 3D vector (position, scale, anchor).
	KindVector
	// KindColor is an RGB(A) colour written as a hex string.
	KindColor
	// KindStep is anything that cannot be split into numeric components.
	// It switches from one keyframe to the next at the segment midpoint.
	KindStep
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindVector:
		return "vector"
	case KindColor:
		return "color"
	case KindStep:
		return "step"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a property value of one of the supported kinds.
// The zero Value is the number 0.
type Value struct {
	kind  Kind
	num   float64
	vec   Vector
	color Color
	step  string
}

// Number returns a numeric Value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Vec2 returns a 2D vector Value.
func Vec2(x, y float64) Value {
	return Value{kind: KindVector, vec: Vector{X: x, Y: y}}
}

// Vec3 returns a 3D vector Value.
func Vec3(x, y, z float64) Value {
	return Value{kind: KindVector, vec: Vector{X: x, Y: y, Z: z, HasZ: true}}
}

// FromVector wraps v.
func FromVector(v Vector) Value {
	if !v.HasZ {
		v.Z = 0
	}
	return Value{kind: KindVector, vec: v}
}

// FromColor wraps c.
func FromColor(c Color) Value {
	if !c.HasAlpha {
		c.A = 255
	}
	return Value{kind: KindColor, color: c}
}

// Hex parses a "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa" colour.
func Hex(s string) (Value, error) {
	c, err := ParseColor(s)
	if err != nil {
		return Value{}, err
	}
	return FromColor(c), nil
}

// MustHex is like Hex but panics on malformed input. Intended for literals.
func MustHex(s string) Value {
	v, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Step returns an opaque Value that is never blended.
func Step(s string) Value {
	return Value{kind: KindStep, step: s}
}

// Kind reports the payload kind.
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric payload. Vectors report X, everything else 0.
func (v Value) Float() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindVector:
		return v.vec.X
	default:
		return 0
	}
}

// ConvertsTo reports whether v can stand in for a value of kind k. Numbers
// widen to vectors; every other kind only serves itself.
func (v Value) ConvertsTo(k Kind) bool {
	return v.kind == k || (v.kind == KindNumber && k == KindVector)
}

// Vector returns the vector payload. A number is widened to {n, n}.
func (v Value) Vector() Vector {
	switch v.kind {
	case KindVector:
		return v.vec
	case KindNumber:
		return Vector{X: v.num, Y: v.num}
	default:
		return Vector{}
	}
}

// Color returns the colour payload, or opaque black for other kinds.
func (v Value) Color() Color {
	if v.kind == KindColor {
		return v.color
	}
	return Color{A: 255}
}

// Text returns the opaque payload of a step Value, or the formatted value
// for every other kind.
func (v Value) Text() string {
	if v.kind == KindStep {
		return v.step
	}
	return v.String()
}

// Finite reports whether every numeric component is a finite number.
func (v Value) Finite() bool {
	switch v.kind {
	case KindNumber:
		return isFinite(v.num)
	case KindVector:
		return isFinite(v.vec.X) && isFinite(v.vec.Y) && isFinite(v.vec.Z)
	default:
		return true
	}
}

// Add offsets the numeric components of v by d. Vectors are offset on every
// present axis. Colours and steps are returned unchanged.
func (v Value) Add(d float64) Value {
	switch v.kind {
	case KindNumber:
		v.num += d
	case KindVector:
		v.vec.X += d
		v.vec.Y += d
		if v.vec.HasZ {
			v.vec.Z += d
		}
	}
	return v
}

// WithAxis returns v with one vector axis replaced ("x", "y" or "z").
// Setting z on a 2D vector widens it. Non-vectors are returned unchanged.
func (v Value) WithAxis(axis string, n float64) Value {
	if v.kind != KindVector {
		return v
	}
	switch axis {
	case "x":
		v.vec.X = n
	case "y":
		v.vec.Y = n
	case "z":
		v.vec.Z = n
		v.vec.HasZ = true
	}
	return v
}

// Axis returns one vector axis ("x", "y" or "z"). Missing axes read as 0.
func (v Value) Axis(axis string) float64 {
	vec := v.Vector()
	switch axis {
	case "x":
		return vec.X
	case "y":
		return vec.Y
	case "z":
		return vec.Z
	}
	return 0
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindVector:
		return v.vec.String()
	case KindColor:
		return v.color.Hex()
	case KindStep:
		return v.step
	default:
		return ""
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
