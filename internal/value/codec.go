package value

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// vectorDoc is the document form of a vector: {x: 1, y: 2, z: 3}.
type vectorDoc struct {
	X *float64 `yaml:"x" json:"x"`
	Y *float64 `yaml:"y" json:"y"`
	Z *float64 `yaml:"z,omitempty" json:"z,omitempty"`
}

// UnmarshalYAML decodes numbers, "#hex" colours, {x,y[,z]} mappings and
// [x, y[, z]] sequences. Any other scalar becomes a step value.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return err
			}
			*v = Number(n)
			return nil
		case "!!str":
			if strings.HasPrefix(strings.TrimSpace(node.Value), "#") {
				if c, err := ParseColor(node.Value); err == nil {
					*v = FromColor(c)
					return nil
				}
			}
		}
		*v = Step(node.Value)
		return nil

	case yaml.MappingNode:
		var doc vectorDoc
		if err := node.Decode(&doc); err != nil {
			return err
		}
		if doc.X == nil && doc.Y == nil {
			return fmt.Errorf("line %d: vector needs x or y", node.Line)
		}
		*v = FromVector(doc.vector())
		return nil

	case yaml.SequenceNode:
		var parts []float64
		if err := node.Decode(&parts); err != nil {
			return err
		}
		switch len(parts) {
		case 2:
			*v = Vec2(parts[0], parts[1])
		case 3:
			*v = Vec3(parts[0], parts[1], parts[2])
		default:
			return fmt.Errorf("line %d: vector needs 2 or 3 components, got %d", node.Line, len(parts))
		}
		return nil
	}
	return fmt.Errorf("line %d: unsupported value node", node.Line)
}

// MarshalYAML writes the same forms UnmarshalYAML reads.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.document(), nil
}

// MarshalJSON writes numbers, hex strings, {x,y[,z]} objects or strings.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.document())
}

func (v Value) document() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindVector:
		doc := vectorDoc{X: ptr(v.vec.X), Y: ptr(v.vec.Y)}
		if v.vec.HasZ {
			doc.Z = ptr(v.vec.Z)
		}
		return doc
	case KindColor:
		return v.color.Hex()
	default:
		return v.step
	}
}

func (d vectorDoc) vector() Vector {
	var out Vector
	if d.X != nil {
		out.X = *d.X
	}
	if d.Y != nil {
		out.Y = *d.Y
	}
	if d.Z != nil {
		out.Z = *d.Z
		out.HasZ = true
	}
	return out
}

func ptr(f float64) *float64 { return &f }

// MarshalJSON writes a vector as {x, y[, z]}.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(FromVector(v).document())
}

// MarshalYAML writes a vector as {x, y[, z]}.
func (v Vector) MarshalYAML() (interface{}, error) {
	return FromVector(v).document(), nil
}
