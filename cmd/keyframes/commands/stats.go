package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/keyframes/internal/cache"
	"github.com/ivlev/keyframes/internal/system"
)

// StatsReport is printed by the stats command.
type StatsReport struct {
	Project  string      `json:"project" yaml:"project"`
	Layers   int         `json:"layers" yaml:"layers"`
	Frames   int         `json:"frames" yaml:"frames"`
	Workers  int         `json:"workers" yaml:"workers"`
	Elapsed  string      `json:"elapsed" yaml:"elapsed"`
	PerFrame string      `json:"perFrame" yaml:"perFrame"`
	Cache    cache.Stats `json:"cache" yaml:"cache"`
	Host     system.Host `json:"host" yaml:"host"`
}

func newStatsCommand(a *app) *cobra.Command {
	var from, to, step float64

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Evaluate a frame range and report timing and cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := frameRange(from, to, step)
			if err != nil {
				return err
			}
			path, err := a.projectPath()
			if err != nil {
				return err
			}
			p, err := a.loadProject()
			if err != nil {
				return err
			}

			ev := a.evaluator()
			layers := 0
			start := time.Now()
			for _, f := range frames {
				layers = len(ev.Evaluate(f, p, !a.cfg.NoCache).Layers)
			}
			elapsed := time.Since(start)

			return a.print(StatsReport{
				Project:  path,
				Layers:   layers,
				Frames:   len(frames),
				Workers:  a.cfg.Workers,
				Elapsed:  elapsed.String(),
				PerFrame: (elapsed / time.Duration(len(frames))).String(),
				Cache:    ev.CacheStats(),
				Host:     system.Inspect(),
			})
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "first frame")
	cmd.Flags().Float64Var(&to, "to", 100, "last frame")
	cmd.Flags().Float64Var(&step, "step", 1, "frame step")

	return cmd
}
