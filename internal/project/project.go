// Package project holds the read-only document the evaluator consumes: a
// project of compositions, each an ordered list of layers with animatable
// properties. It also loads, saves and watches project files.
package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/ivlev/keyframes/internal/keyframe"
)

var (
	// ErrNotFound is returned when a project or composition does not exist.
	ErrNotFound = errors.New("project not found")
	// ErrNoComposition is returned when a project has nothing to evaluate.
	ErrNoComposition = errors.New("project has no composition")
	// ErrInvalidID is returned for project IDs that are not safe file names.
	ErrInvalidID = errors.New("invalid project id")
)

// Project is a saved compositor document.
type Project struct {
	Version           string         `yaml:"version,omitempty" json:"version,omitempty"`
	Meta              Meta           `yaml:"meta" json:"meta"`
	ActiveComposition string         `yaml:"activeComposition,omitempty" json:"activeComposition,omitempty"`
	Compositions      []Composition  `yaml:"compositions" json:"compositions" validate:"dive"`
	Audio             *AudioAnalysis `yaml:"audio,omitempty" json:"audio,omitempty"`
}

// Meta describes a project for listings.
type Meta struct {
	Name     string    `yaml:"name" json:"name"`
	Created  time.Time `yaml:"created,omitempty" json:"created,omitempty"`
	Modified time.Time `yaml:"modified,omitempty" json:"modified,omitempty"`
}

// Composition is a timeline of layers.
type Composition struct {
	ID         string  `yaml:"id" json:"id" validate:"required"`
	Name       string  `yaml:"name,omitempty" json:"name,omitempty"`
	Width      int     `yaml:"width" json:"width" validate:"gte=0"`
	Height     int     `yaml:"height" json:"height" validate:"gte=0"`
	FPS        float64 `yaml:"fps" json:"fps" validate:"gte=0"`
	FrameCount int     `yaml:"frameCount" json:"frameCount" validate:"gte=0"`
	Layers     []Layer `yaml:"layers" json:"layers" validate:"dive"`
}

// Layer is one drawable element of a composition. Every transform property
// is optional; the evaluator substitutes identity defaults for missing ones.
type Layer struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// Visible defaults to true.
	Visible *bool `yaml:"visible,omitempty" json:"visible,omitempty"`
	// StartFrame and EndFrame default to the composition's range.
	StartFrame *int   `yaml:"startFrame,omitempty" json:"startFrame,omitempty"`
	EndFrame   *int   `yaml:"endFrame,omitempty" json:"endFrame,omitempty"`
	Parent     string `yaml:"parent,omitempty" json:"parent,omitempty"`

	Transform     Transform                    `yaml:"transform" json:"transform"`
	Opacity       *keyframe.Property           `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Properties    map[string]keyframe.Property `yaml:"properties,omitempty" json:"properties,omitempty" validate:"dive"`
	Effects       []Effect                     `yaml:"effects,omitempty" json:"effects,omitempty" validate:"dive"`
	AudioBindings []AudioBinding               `yaml:"audioBindings,omitempty" json:"audioBindings,omitempty" validate:"dive"`
}

// Transform groups a layer's spatial properties.
type Transform struct {
	Position *keyframe.Property `yaml:"position,omitempty" json:"position,omitempty"`
	Scale    *keyframe.Property `yaml:"scale,omitempty" json:"scale,omitempty"`
	Rotation *keyframe.Property `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Anchor   *keyframe.Property `yaml:"anchor,omitempty" json:"anchor,omitempty"`
}

// Effect is a layer effect with animatable parameters. Disabled effects are
// skipped by the evaluator.
type Effect struct {
	ID      string                       `yaml:"id" json:"id" validate:"required"`
	Type    string                       `yaml:"type" json:"type" validate:"required"`
	Enabled *bool                        `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Params  map[string]keyframe.Property `yaml:"params,omitempty" json:"params,omitempty" validate:"dive"`
}

// IsEnabled reports whether the effect should be evaluated.
func (e Effect) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// AudioBinding adds a scaled audio feature to a numeric layer property.
type AudioBinding struct {
	Feature string  `yaml:"feature" json:"feature" validate:"required"`
	Target  string  `yaml:"target" json:"target" validate:"required"`
	Amount  float64 `yaml:"amount" json:"amount"`
}

// AudioAnalysis is a precomputed snapshot of per-frame audio features such as
// amplitude or bass energy. The evaluator only reads it.
type AudioAnalysis struct {
	FPS      float64              `yaml:"fps,omitempty" json:"fps,omitempty" validate:"gte=0"`
	Features map[string][]float64 `yaml:"features" json:"features"`
}

// Sample returns feature name at frame, clamping frame to the analysed range.
func (a *AudioAnalysis) Sample(name string, frame int) (float64, bool) {
	if a == nil {
		return 0, false
	}
	samples := a.Features[name]
	if len(samples) == 0 {
		return 0, false
	}
	if frame < 0 {
		frame = 0
	}
	if frame >= len(samples) {
		frame = len(samples) - 1
	}
	return samples[frame], true
}

// Composition returns the composition with the given ID.
func (p *Project) Composition(id string) (*Composition, error) {
	for i := range p.Compositions {
		if p.Compositions[i].ID == id {
			return &p.Compositions[i], nil
		}
	}
	return nil, fmt.Errorf("composition %q: %w", id, ErrNotFound)
}

// Active returns the active composition, or the first one when none is
// marked active.
func (p *Project) Active() (*Composition, error) {
	if p == nil || len(p.Compositions) == 0 {
		return nil, ErrNoComposition
	}
	if p.ActiveComposition == "" {
		return &p.Compositions[0], nil
	}
	return p.Composition(p.ActiveComposition)
}

// Layer returns the layer with the given ID.
func (c *Composition) Layer(id string) (*Layer, bool) {
	for i := range c.Layers {
		if c.Layers[i].ID == id {
			return &c.Layers[i], true
		}
	}
	return nil, false
}

// Normalize sorts and de-duplicates every keyframe track so the evaluator
// can rely on frame order. Documents are normalized on load.
func (p *Project) Normalize() {
	for ci := range p.Compositions {
		for li := range p.Compositions[ci].Layers {
			p.Compositions[ci].Layers[li].normalize()
		}
	}
}

func (l *Layer) normalize() {
	for _, prop := range []*keyframe.Property{
		l.Transform.Position, l.Transform.Scale, l.Transform.Rotation, l.Transform.Anchor, l.Opacity,
	} {
		if prop != nil {
			prop.Normalize()
		}
	}
	normalizeMap(l.Properties)
	for i := range l.Effects {
		normalizeMap(l.Effects[i].Params)
	}
}

func normalizeMap(props map[string]keyframe.Property) {
	for name, prop := range props {
		prop.Normalize()
		props[name] = prop
	}
}
