package bezier

import "math"

const (
	newtonIterations    = 8
	newtonMinSlope      = 1e-7
	bisectionIterations = 64
	epsilon             = 1e-12

	sampleCount = 11
	sampleStep  = 1.0 / (sampleCount - 1)
)

// Entry is a solved curve: polynomial coefficients for x(s) and y(s) plus a
// table of x samples used to seed the root search. It is what the cache
// stores, and building one is a pure function of the curve.
type Entry struct {
	ax, bx, cx float64
	ay, by, cy float64
	samples    [sampleCount]float64
	linear     bool
}

// NewEntry precomputes the coefficients and sample table for c.
func NewEntry(c Curve) *Entry {
	x1, y1, x2, y2 := c.Points()

	e := &Entry{linear: c.Linear()}
	e.cx = 3 * x1
	e.bx = 3*(x2-x1) - e.cx
	e.ax = 1 - e.cx - e.bx
	e.cy = 3 * y1
	e.by = 3*(y2-y1) - e.cy
	e.ay = 1 - e.cy - e.by

	for i := range e.samples {
		e.samples[i] = e.sampleX(float64(i) * sampleStep)
	}
	return e
}

// Y returns the eased fraction for the linear fraction t. t is clamped to
// [0,1]; the endpoints map to themselves exactly.
func (e *Entry) Y(t float64) float64 {
	if math.IsNaN(t) || t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if e.linear {
		return t
	}
	return e.sampleY(e.solveS(t))
}

// solveS inverts x(s) = t. Newton converges in a few steps from the table
// guess; flat regions fall through to bisection, which always terminates
// with its best estimate.
func (e *Entry) solveS(t float64) float64 {
	s := e.guess(t)
	for i := 0; i < newtonIterations; i++ {
		x := e.sampleX(s) - t
		if math.Abs(x) < epsilon {
			return s
		}
		d := e.sampleDerivX(s)
		if math.Abs(d) < newtonMinSlope {
			break
		}
		s -= x / d
		if s < 0 || s > 1 {
			break
		}
	}

	lo, hi := 0.0, 1.0
	s = t
	for i := 0; i < bisectionIterations; i++ {
		x := e.sampleX(s)
		if math.Abs(x-t) < epsilon {
			return s
		}
		if x < t {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}

// guess interpolates the sample table for a starting s.
func (e *Entry) guess(t float64) float64 {
	i := 1
	for i < sampleCount-1 && e.samples[i] <= t {
		i++
	}
	i--

	span := e.samples[i+1] - e.samples[i]
	if span <= 0 {
		return float64(i) * sampleStep
	}
	return (float64(i) + (t-e.samples[i])/span) * sampleStep
}

func (e *Entry) sampleX(s float64) float64 {
	return ((e.ax*s+e.bx)*s + e.cx) * s
}

func (e *Entry) sampleY(s float64) float64 {
	return ((e.ay*s+e.by)*s + e.cy) * s
}

func (e *Entry) sampleDerivX(s float64) float64 {
	return (3*e.ax*s+2*e.bx)*s + e.cx
}
