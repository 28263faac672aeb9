package project

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/ivlev/keyframes/internal/interpolate"
	"github.com/ivlev/keyframes/internal/keyframe"
	"github.com/ivlev/keyframes/internal/value"
)

var validate = validator.New()

// transformKinds is the kind each named layer property must resolve to.
var transformKinds = map[string]value.Kind{
	"position": value.KindVector,
	"scale":    value.KindVector,
	"anchor":   value.KindVector,
	"rotation": value.KindNumber,
	"opacity":  value.KindNumber,
}

// Validate checks a project for structural errors. Evaluation tolerates every
// problem reported here by falling back to defaults; Validate exists so
// editors and the CLI can surface them. All problems are joined into one
// error.
func Validate(p *Project) error {
	if p == nil {
		return ErrNoComposition
	}

	var errs []error
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if len(p.Compositions) == 0 {
		errs = append(errs, ErrNoComposition)
	} else if _, err := p.Active(); err != nil {
		errs = append(errs, fmt.Errorf("activeComposition: %w", err))
	}

	seen := make(map[string]bool, len(p.Compositions))
	for i := range p.Compositions {
		c := &p.Compositions[i]
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("composition %q: duplicate id", c.ID))
		}
		seen[c.ID] = true
		errs = append(errs, validateComposition(c, p.Audio)...)
	}

	return errors.Join(errs...)
}

func validateComposition(c *Composition, audio *AudioAnalysis) []error {
	var errs []error

	ids := make(map[string]bool, len(c.Layers))
	for _, l := range c.Layers {
		if ids[l.ID] {
			errs = append(errs, fmt.Errorf("composition %q: duplicate layer id %q", c.ID, l.ID))
		}
		ids[l.ID] = true
	}

	for _, l := range c.Layers {
		where := fmt.Sprintf("composition %q layer %q", c.ID, l.ID)

		if l.StartFrame != nil && l.EndFrame != nil && *l.EndFrame < *l.StartFrame {
			errs = append(errs, fmt.Errorf("%s: endFrame %d before startFrame %d", where, *l.EndFrame, *l.StartFrame))
		}
		if l.Parent != "" {
			switch {
			case l.Parent == l.ID:
				errs = append(errs, fmt.Errorf("%s: layer is its own parent", where))
			case !ids[l.Parent]:
				errs = append(errs, fmt.Errorf("%s: unknown parent %q", where, l.Parent))
			case parentCycle(c, l.ID):
				errs = append(errs, fmt.Errorf("%s: parent cycle", where))
			}
		}

		props := l.properties()
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			errs = append(errs, validateProperty(where+" "+name, props[name])...)
			if kind, ok := transformKinds[name]; ok {
				errs = append(errs, validateKind(where+" "+name, props[name], kind)...)
			}
		}

		for _, b := range l.AudioBindings {
			if audio == nil || len(audio.Features[b.Feature]) == 0 {
				errs = append(errs, fmt.Errorf("%s: audio feature %q not analysed", where, b.Feature))
			}
		}
	}

	return errs
}

func validateProperty(where string, p *keyframe.Property) []error {
	var errs []error
	if !p.Sorted() {
		errs = append(errs, fmt.Errorf("%s: keyframes not sorted by frame", where))
	}
	if p.Animated && len(p.Keyframes) == 0 {
		errs = append(errs, fmt.Errorf("%s: animated without keyframes", where))
	}
	for _, kf := range p.Keyframes {
		if !kf.Value.Finite() {
			errs = append(errs, fmt.Errorf("%s: keyframe at frame %d has a non-finite value", where, kf.Frame))
		}
		if !interpolate.KnownEasing(kf.Easing) {
			errs = append(errs, fmt.Errorf("%s: unknown easing %q", where, kf.Easing))
		}
	}
	return errs
}

// validateKind reports static and keyframe values that cannot serve as kind.
func validateKind(where string, p *keyframe.Property, kind value.Kind) []error {
	var errs []error
	if !p.Value.ConvertsTo(kind) {
		errs = append(errs, fmt.Errorf("%s: %s value where a %s is expected", where, p.Value.Kind(), kind))
	}
	for _, kf := range p.Keyframes {
		if !kf.Value.ConvertsTo(kind) {
			errs = append(errs, fmt.Errorf("%s: keyframe at frame %d has a %s value where a %s is expected", where, kf.Frame, kf.Value.Kind(), kind))
		}
	}
	return errs
}

// properties lists every animatable property of l by a readable name.
func (l *Layer) properties() map[string]*keyframe.Property {
	props := make(map[string]*keyframe.Property)
	named := map[string]*keyframe.Property{
		"position": l.Transform.Position,
		"scale":    l.Transform.Scale,
		"rotation": l.Transform.Rotation,
		"anchor":   l.Transform.Anchor,
		"opacity":  l.Opacity,
	}
	for name, p := range named {
		if p != nil {
			props[name] = p
		}
	}
	for name := range l.Properties {
		p := l.Properties[name]
		props["properties."+name] = &p
	}
	for _, e := range l.Effects {
		for name := range e.Params {
			p := e.Params[name]
			props["effects."+e.ID+"."+name] = &p
		}
	}
	return props
}

// parentCycle reports whether following parents from id returns to id.
func parentCycle(c *Composition, id string) bool {
	visited := map[string]bool{}
	cur := id
	for {
		l, ok := c.Layer(cur)
		if !ok || l.Parent == "" {
			return false
		}
		if l.Parent == id {
			return true
		}
		if visited[l.Parent] {
			return false
		}
		visited[cur] = true
		cur = l.Parent
	}
}
