package engine

import (
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/keyframes/internal/project"
	"github.com/ivlev/keyframes/internal/value"
)

// composeHierarchy fills in World and WorldPosition for every layer, each
// child composed with its parent at the same frame. A missing parent makes
// the layer a root. Every layer on a parent cycle is treated as a root, so
// the outcome does not depend on layer order.
func composeHierarchy(comp *project.Composition, layers []EvaluatedLayer, logger zerolog.Logger) {
	index := make(map[string]int, len(comp.Layers))
	for i := range comp.Layers {
		if _, dup := index[comp.Layers[i].ID]; !dup {
			index[comp.Layers[i].ID] = i
		}
	}

	parent := make([]int, len(comp.Layers))
	for i, l := range comp.Layers {
		parent[i] = -1
		if l.Parent == "" {
			continue
		}
		p, ok := index[l.Parent]
		if !ok {
			logger.Debug().Str("layer", l.ID).Str("parent", l.Parent).Msg("Parent not found, treating as root")
			continue
		}
		parent[i] = p
	}

	cyclic := make([]bool, len(parent))
	for i := range parent {
		cyclic[i] = onCycle(parent, i)
	}
	for i := range parent {
		if cyclic[i] {
			logger.Debug().Str("layer", comp.Layers[i].ID).Msg("Parent cycle, treating as root")
			parent[i] = -1
		}
	}

	done := make([]bool, len(layers))
	var resolve func(i int) f64.Aff3
	resolve = func(i int) f64.Aff3 {
		if done[i] {
			return layers[i].World
		}
		world := localMatrix(layers[i].Transform)
		if p := parent[i]; p >= 0 {
			world = mul(resolve(p), world)
		}
		layers[i].World = world
		done[i] = true
		return world
	}

	for i := range layers {
		world := resolve(i)
		anchor := layers[i].Transform.Anchor
		x, y := apply(world, anchor.X, anchor.Y)
		layers[i].WorldPosition = value.Vector{X: x, Y: y, Z: layers[i].Transform.Position.Z, HasZ: layers[i].Transform.Position.HasZ}
	}
}

// onCycle reports whether following parents from i leads back to i.
func onCycle(parent []int, i int) bool {
	cur := parent[i]
	for steps := 0; cur >= 0 && steps < len(parent); steps++ {
		if cur == i {
			return true
		}
		cur = parent[cur]
	}
	return false
}

// localMatrix maps layer space to parent space: move the anchor to the
// origin, scale, rotate, then translate to position.
func localMatrix(t Transform) f64.Aff3 {
	rad := t.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	sx, sy := t.Scale.X/100, t.Scale.Y/100

	a, b := cos*sx, -sin*sy
	d, e := sin*sx, cos*sy
	return f64.Aff3{
		a, b, t.Position.X - (a*t.Anchor.X + b*t.Anchor.Y),
		d, e, t.Position.Y - (d*t.Anchor.X + e*t.Anchor.Y),
	}
}

// mul returns p·q, the transform applying q first. f64 defines the matrix
// layout only, so the products are written out here.
func mul(p, q f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		p[0]*q[0] + p[1]*q[3], p[0]*q[1] + p[1]*q[4], p[0]*q[2] + p[1]*q[5] + p[2],
		p[3]*q[0] + p[4]*q[3], p[3]*q[1] + p[4]*q[4], p[3]*q[2] + p[4]*q[5] + p[5],
	}
}

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}
