package commands

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/keyframes/internal/bezier"
	"github.com/ivlev/keyframes/internal/engine"
	"github.com/ivlev/keyframes/internal/project"
	"github.com/ivlev/keyframes/internal/telemetry"
)

func newWatchCommand(a *app) *cobra.Command {
	var (
		frames   []float64
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-evaluate a project whenever its file changes",
		Long: `Load a project, print its state at the given frames, and print it again
every time the file is saved. The bezier cache is invalidated on each reload.

With --metrics-addr, Prometheus metrics for evaluations and the bezier cache
are served at /metrics.`,
		Example: `  keyframes watch -p promo.yaml --frames 0,50,100 --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := a.projectPath()
			if err != nil {
				return err
			}
			p, err := a.loadProject()
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				frames = []float64{0}
			}

			var opts []engine.Option
			var metrics *telemetry.Metrics
			if a.cfg.MetricsAddr != "" {
				solver := bezier.NewSolver(a.cfg.CacheSize)
				metrics = telemetry.NewMetrics(solver.Stats)
				opts = append(opts, engine.WithSolver(solver), engine.WithRecorder(metrics))
			}
			ev := a.evaluator(opts...)

			var mu sync.Mutex
			render := func(p *project.Project) {
				mu.Lock()
				defer mu.Unlock()
				states := make([]engine.FrameState, 0, len(frames))
				for _, f := range frames {
					states = append(states, ev.Evaluate(f, p, !a.cfg.NoCache))
				}
				if err := a.print(states); err != nil {
					a.logger.Error().Err(err).Msg("Failed to print frame states")
				}
			}
			render(p)

			if metrics != nil {
				srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: metricsMux(metrics)}
				go func() {
					a.logger.Info().Str("addr", a.cfg.MetricsAddr).Msg("Serving metrics")
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error().Err(err).Msg("Metrics server failed")
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			w := project.NewWatcher(path, debounce, a.logger)
			err = w.Watch(ctx, func(p *project.Project) {
				if err := a.selectComposition(p); err != nil {
					a.logger.Error().Err(err).Msg("Reloaded project lost the selected composition")
					return
				}
				ev.InvalidateCache()
				render(p)
			})
			if err != nil {
				return err
			}
			defer w.Close()

			<-ctx.Done()
			a.logger.Info().Msg("Stopped watching")
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&frames, "frames", nil, "frames to evaluate on each reload (default 0)")
	cmd.Flags().DurationVar(&debounce, "debounce", project.DefaultDebounce, "wait this long after the last change before reloading")
	cmd.Flags().StringVar(&a.flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func metricsMux(m *telemetry.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
