// Package engine evaluates a project at a frame.
//
// Evaluation runs in two phases. Each layer's properties are first resolved
// on their own, optionally in parallel; parent transforms are then composed
// in a second, sequential pass. Layers never read each other's state during
// the first phase, so the result does not depend on evaluation order.
package engine

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/keyframes/internal/bezier"
	"github.com/ivlev/keyframes/internal/cache"
	"github.com/ivlev/keyframes/internal/project"
)

// Recorder receives one observation per Evaluate call.
type Recorder interface {
	ObserveEvaluation(layers int, elapsed time.Duration)
}

// Evaluator turns a project and a frame into a FrameState. It owns the bezier
// cache and is safe for concurrent use.
type Evaluator struct {
	solver   *bezier.Solver
	logger   zerolog.Logger
	workers  int
	recorder Recorder
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for degraded input. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger.With().Str("component", "evaluator").Logger()
	}
}

// WithCacheSize sets the bezier cache capacity.
func WithCacheSize(size int) Option {
	return func(e *Evaluator) {
		e.solver = bezier.NewSolver(size)
	}
}

// WithSolver shares an existing solver, and its cache, with the evaluator.
func WithSolver(s *bezier.Solver) Option {
	return func(e *Evaluator) {
		e.solver = s
	}
}

// WithWorkers evaluates up to n layers in parallel. n <= 1 is sequential.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		e.workers = n
	}
}

// WithRecorder reports each evaluation to r.
func WithRecorder(r Recorder) Option {
	return func(e *Evaluator) {
		e.recorder = r
	}
}

// New creates an Evaluator with its own bezier cache.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger:  zerolog.Nop(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.solver == nil {
		e.solver = bezier.NewSolver(cache.DefaultCapacity)
	}
	return e
}

// Evaluate resolves every layer of the project's active composition at frame.
// It never fails: missing or malformed data is replaced by defaults and a
// project without a usable composition yields a state with no layers.
//
// With cacheEnabled false, bezier curves are solved without touching the
// cache. Both settings produce the same values.
func (e *Evaluator) Evaluate(frame float64, p *project.Project, cacheEnabled bool) FrameState {
	start := time.Now()
	state := FrameState{Frame: frame, Layers: []EvaluatedLayer{}}

	comp, err := p.Active()
	if err != nil {
		e.logger.Debug().Err(err).Msg("Nothing to evaluate")
		e.observe(0, start)
		return state
	}
	state.Composition = comp.ID

	var solver *bezier.Solver
	if cacheEnabled {
		solver = e.solver
	}

	ev := layerEval{
		frame:  frame,
		comp:   comp,
		audio:  p.Audio,
		solver: solver,
		logger: e.logger,
	}

	layers := make([]EvaluatedLayer, len(comp.Layers))
	if e.workers <= 1 || len(comp.Layers) < 2 {
		for i := range comp.Layers {
			layers[i] = ev.layer(&comp.Layers[i])
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i := range comp.Layers {
			i := i
			g.Go(func() error {
				layers[i] = ev.layer(&comp.Layers[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	composeHierarchy(comp, layers, e.logger)

	state.Layers = layers
	e.observe(len(layers), start)
	return state
}

func (e *Evaluator) observe(layers int, start time.Time) {
	if e.recorder != nil {
		e.recorder.ObserveEvaluation(layers, time.Since(start))
	}
}

// InvalidateCache drops every cached bezier solution. Later evaluations
// rebuild them on demand and return the same values.
func (e *Evaluator) InvalidateCache() {
	e.solver.Clear()
	e.logger.Debug().Msg("Bezier cache cleared")
}

// CacheStats reports the bezier cache's size and counters.
func (e *Evaluator) CacheStats() cache.Stats {
	return e.solver.Stats()
}

// Solver returns the evaluator's bezier solver.
func (e *Evaluator) Solver() *bezier.Solver {
	return e.solver
}
