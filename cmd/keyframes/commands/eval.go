package commands

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ivlev/keyframes/internal/engine"
)

func newEvalCommand(a *app) *cobra.Command {
	var from, to, step float64

	cmd := &cobra.Command{
		Use:   "eval [frame...]",
		Short: "Evaluate a project at one or more frames",
		Long: `Evaluate every layer of the active composition and print the resolved
transform, opacity, visibility, custom properties and effects.

Frames may be fractional and may lie outside the keyframed range.`,
		Example: `  # Evaluate frame 50 of the latest project
  keyframes eval 50

  # Several frames as YAML
  keyframes eval -p promo.yaml -o yaml 0 12.5 100

  # Every tenth frame from 0 to 100
  keyframes eval --from 0 --to 100 --step 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := parseFrames(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				frames, err = frameRange(from, to, step)
				if err != nil {
					return err
				}
			}
			if len(frames) == 0 {
				frames = []float64{0}
			}

			p, err := a.loadProject()
			if err != nil {
				return err
			}

			ev := a.evaluator()
			states := make([]engine.FrameState, 0, len(frames))
			for _, f := range frames {
				states = append(states, ev.Evaluate(f, p, !a.cfg.NoCache))
			}

			if len(states) == 1 {
				return a.print(states[0])
			}
			return a.print(states)
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "first frame of a range")
	cmd.Flags().Float64Var(&to, "to", 0, "last frame of a range")
	cmd.Flags().Float64Var(&step, "step", 1, "frame step of a range")

	return cmd
}

func parseFrames(args []string) ([]float64, error) {
	frames := make([]float64, 0, len(args))
	for _, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid frame %q: %w", arg, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("invalid frame %q: not a finite number", arg)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// maxRangeFrames bounds a --from/--to range.
const maxRangeFrames = 1_000_000

func frameRange(from, to, step float64) ([]float64, error) {
	for _, v := range []float64{from, to, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("range bounds must be finite, got from %v to %v step %v", from, to, step)
		}
	}
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %v", step)
	}
	if to < from {
		return nil, fmt.Errorf("range end %v before start %v", to, from)
	}
	span := (to - from) / step
	if span+1 > maxRangeFrames {
		return nil, fmt.Errorf("range of %.0f frames exceeds %d", span+1, maxRangeFrames)
	}
	n := int(span) + 1

	frames := make([]float64, n)
	for i := range frames {
		frames[i] = from + float64(i)*step
	}
	return frames, nil
}
