package engine

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivlev/keyframes/internal/bezier"
	"github.com/ivlev/keyframes/internal/interpolate"
	"github.com/ivlev/keyframes/internal/keyframe"
	"github.com/ivlev/keyframes/internal/project"
	"github.com/ivlev/keyframes/internal/value"
)

// layerEval holds what every layer of one Evaluate call shares. It is read
// only, so layers can be evaluated from several goroutines.
type layerEval struct {
	frame  float64
	comp   *project.Composition
	audio  *project.AudioAnalysis
	solver *bezier.Solver
	logger zerolog.Logger
}

// layer resolves one layer's own properties. World is left for
// composeHierarchy.
func (ev layerEval) layer(l *project.Layer) EvaluatedLayer {
	out := EvaluatedLayer{
		ID:      l.ID,
		Name:    l.Name,
		Visible: l.Visible == nil || *l.Visible,
		Transform: Transform{
			Position: ev.typed(l.ID, "position", l.Transform.Position, DefaultPosition).Vector(),
			Scale:    ev.typed(l.ID, "scale", l.Transform.Scale, DefaultScale).Vector(),
			Rotation: ev.typed(l.ID, "rotation", l.Transform.Rotation, DefaultRotation).Float(),
			Anchor:   ev.typed(l.ID, "anchor", l.Transform.Anchor, DefaultAnchor).Vector(),
		},
		Opacity: ev.typed(l.ID, "opacity", l.Opacity, DefaultOpacity).Float(),
		World:   Identity,
	}

	start, end := frameRange(l, ev.comp)
	out.InRange = out.Visible && start <= ev.frame && ev.frame <= end

	if len(l.Properties) > 0 {
		out.Properties = make(map[string]value.Value, len(l.Properties))
		for name := range l.Properties {
			prop := l.Properties[name]
			out.Properties[name] = ev.property(l.ID, name, &prop, value.Value{}, value.Value.Finite)
		}
	}

	for _, eff := range l.Effects {
		if !eff.IsEnabled() {
			continue
		}
		evaluated := EvaluatedEffect{ID: eff.ID, Type: eff.Type}
		if len(eff.Params) > 0 {
			evaluated.Params = make(map[string]value.Value, len(eff.Params))
			for name := range eff.Params {
				prop := eff.Params[name]
				evaluated.Params[name] = ev.property(l.ID, name, &prop, value.Value{}, value.Value.Finite)
			}
		}
		out.Effects = append(out.Effects, evaluated)
	}

	for _, b := range l.AudioBindings {
		ev.bind(&out, b)
	}

	out.Opacity = clamp(out.Opacity, 0, 100)
	return out
}

// typed resolves a property that must produce def's kind. Values of any
// other kind are malformed and replaced like non-finite ones.
func (ev layerEval) typed(layer, name string, p *keyframe.Property, def value.Value) value.Value {
	return ev.property(layer, name, p, def, func(v value.Value) bool {
		return v.Finite() && v.ConvertsTo(def.Kind())
	})
}

// property resolves p at the current frame. A missing property yields def.
// When the keyframes produce a value usable rejects, the static value is used
// instead, and def if the static value is not usable either.
func (ev layerEval) property(layer, name string, p *keyframe.Property, def value.Value, usable func(value.Value) bool) value.Value {
	if p == nil {
		return def
	}

	static := p.Value
	if !usable(static) {
		ev.logger.Debug().
			Str("layer", layer).
			Str("property", name).
			Stringer("kind", static.Kind()).
			Msg("Unusable static value, using default")
		static = def
	}
	if !p.IsAnimated() {
		return static
	}

	seg, ok := keyframe.Locate(p.Keyframes, ev.frame)
	if !ok {
		return static
	}

	v := interpolate.Evaluate(seg, ev.solver)
	if !usable(v) {
		ev.logger.Debug().
			Str("layer", layer).
			Str("property", name).
			Float64("frame", ev.frame).
			Int("keyframe", seg.A.Frame).
			Msg("Unusable keyframe data, using static value")
		return static
	}
	return v
}

// bind adds an audio feature sample to the binding's target.
func (ev layerEval) bind(out *EvaluatedLayer, b project.AudioBinding) {
	frame := 0
	if !math.IsNaN(ev.frame) {
		frame = int(math.Floor(clamp(ev.frame, math.MinInt32, math.MaxInt32)))
	}
	sample, ok := ev.audio.Sample(b.Feature, frame)
	if !ok {
		ev.logger.Debug().Str("layer", out.ID).Str("feature", b.Feature).Msg("Audio feature not analysed")
		return
	}
	d := sample * b.Amount
	if !isFinite(d) {
		return
	}

	name, axis, _ := strings.Cut(b.Target, ".")
	switch name {
	case "opacity":
		out.Opacity += d
	case "rotation":
		out.Transform.Rotation += d
	case "position":
		out.Transform.Position = offsetAxis(out.Transform.Position, axis, d)
	case "scale":
		out.Transform.Scale = offsetAxis(out.Transform.Scale, axis, d)
	case "anchor":
		out.Transform.Anchor = offsetAxis(out.Transform.Anchor, axis, d)
	default:
		v, ok := out.Properties[name]
		if !ok {
			ev.logger.Debug().Str("layer", out.ID).Str("target", b.Target).Msg("Unknown audio binding target")
			return
		}
		if axis != "" && v.Kind() == value.KindVector {
			out.Properties[name] = v.WithAxis(axis, v.Axis(axis)+d)
		} else {
			out.Properties[name] = v.Add(d)
		}
	}
}

// offsetAxis adds d to one axis of v, or to x and y when axis is empty.
func offsetAxis(v value.Vector, axis string, d float64) value.Vector {
	switch axis {
	case "x":
		v.X += d
	case "y":
		v.Y += d
	case "z":
		v.Z += d
		v.HasZ = true
	default:
		v.X += d
		v.Y += d
	}
	return v
}

// frameRange returns the layer's inclusive frame range. A composition
// without a frame count leaves the end open.
func frameRange(l *project.Layer, comp *project.Composition) (start, end float64) {
	end = math.Inf(1)
	if comp.FrameCount > 0 {
		end = float64(comp.FrameCount - 1)
	}
	if l.StartFrame != nil {
		start = float64(*l.StartFrame)
	}
	if l.EndFrame != nil {
		end = float64(*l.EndFrame)
	}
	return start, end
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
