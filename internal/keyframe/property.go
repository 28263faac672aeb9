package keyframe

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ivlev/keyframes/internal/value"
)

// Property is an animatable property: a static fallback value plus an
// optional keyframe track. Keyframes are kept sorted by frame after every
// mutation, with at most one keyframe per frame, so readers never sort.
type Property struct {
	Value     value.Value `yaml:"value" json:"value"`
	Animated  bool        `yaml:"animated,omitempty" json:"animated"`
	Keyframes []Keyframe  `yaml:"keyframes,omitempty" json:"keyframes,omitempty" validate:"dive"`
}

// Static returns a non-animated property.
func Static(v value.Value) Property {
	return Property{Value: v}
}

// Animated returns an animated property with the given keyframes, sorted and
// de-duplicated.
func Animated(static value.Value, kfs ...Keyframe) Property {
	p := Property{Value: static, Animated: true, Keyframes: append([]Keyframe(nil), kfs...)}
	p.Normalize()
	return p
}

// IsAnimated reports whether evaluation should consult the keyframes.
func (p Property) IsAnimated() bool {
	return p.Animated && len(p.Keyframes) > 0
}

// Insert adds kf in frame order and returns it with its ID assigned.
// A keyframe already at the same frame is replaced: the last write wins.
func (p *Property) Insert(kf Keyframe) Keyframe {
	if kf.ID == "" {
		kf.ID = uuid.New().String()
	}
	if kf.Interpolation == "" {
		kf.Interpolation = Linear
	}

	i := p.search(kf.Frame)
	if i < len(p.Keyframes) && p.Keyframes[i].Frame == kf.Frame {
		p.Keyframes[i] = kf
		return kf
	}

	p.Keyframes = append(p.Keyframes, Keyframe{})
	copy(p.Keyframes[i+1:], p.Keyframes[i:])
	p.Keyframes[i] = kf
	return kf
}

// Remove deletes the keyframe with the given ID.
func (p *Property) Remove(id string) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.Keyframes = append(p.Keyframes[:i], p.Keyframes[i+1:]...)
	return true
}

// Move re-times the keyframe with the given ID. Any other keyframe already at
// the target frame is displaced.
func (p *Property) Move(id string, frame int) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	kf := p.Keyframes[i]
	p.Keyframes = append(p.Keyframes[:i], p.Keyframes[i+1:]...)
	kf.Frame = frame
	p.Insert(kf)
	return true
}

// SetValue replaces the value of the keyframe with the given ID.
func (p *Property) SetValue(id string, v value.Value) bool {
	i := p.index(id)
	if i < 0 {
		return false
	}
	p.Keyframes[i].Value = v
	return true
}

// Find returns the keyframe with the given ID.
func (p Property) Find(id string) (Keyframe, bool) {
	i := p.index(id)
	if i < 0 {
		return Keyframe{}, false
	}
	return p.Keyframes[i], true
}

// At returns the keyframe exactly at frame.
func (p Property) At(frame int) (Keyframe, bool) {
	i := p.search(frame)
	if i < len(p.Keyframes) && p.Keyframes[i].Frame == frame {
		return p.Keyframes[i], true
	}
	return Keyframe{}, false
}

// Normalize restores the store invariants on keyframes that were assembled
// without the mutation methods (decoded documents, literals): frame order,
// one keyframe per frame with the later entry winning, IDs and a default
// interpolation on every keyframe.
func (p *Property) Normalize() {
	sort.SliceStable(p.Keyframes, func(i, j int) bool {
		return p.Keyframes[i].Frame < p.Keyframes[j].Frame
	})

	out := p.Keyframes[:0]
	for i, kf := range p.Keyframes {
		if i+1 < len(p.Keyframes) && p.Keyframes[i+1].Frame == kf.Frame {
			continue
		}
		if kf.ID == "" {
			kf.ID = uuid.New().String()
		}
		if kf.Interpolation == "" {
			kf.Interpolation = Linear
		}
		out = append(out, kf)
	}
	p.Keyframes = out
}

// Sorted reports whether keyframes are strictly ascending by frame.
func (p Property) Sorted() bool {
	for i := 1; i < len(p.Keyframes); i++ {
		if p.Keyframes[i].Frame <= p.Keyframes[i-1].Frame {
			return false
		}
	}
	return true
}

// search returns the first index whose frame is >= frame.
func (p Property) search(frame int) int {
	return sort.Search(len(p.Keyframes), func(i int) bool {
		return p.Keyframes[i].Frame >= frame
	})
}

func (p Property) index(id string) int {
	for i, kf := range p.Keyframes {
		if kf.ID == id {
			return i
		}
	}
	return -1
}
