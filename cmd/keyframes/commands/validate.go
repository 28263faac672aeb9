package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/keyframes/internal/project"
)

// ValidationResult is printed by the validate command.
type ValidationResult struct {
	Project string   `json:"project" yaml:"project"`
	Valid   bool     `json:"valid" yaml:"valid"`
	Errors  []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check project files for structural problems",
		Long: `Validate project documents. Evaluation tolerates every problem reported
here by substituting defaults; validate surfaces them so they can be fixed.

Without arguments the configured project is validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				path, err := a.projectPath()
				if err != nil {
					return err
				}
				paths = []string{path}
			}

			results := make([]ValidationResult, 0, len(paths))
			invalid := 0
			for _, path := range paths {
				res := ValidationResult{Project: path, Valid: true}
				p, err := project.Read(path)
				if err == nil {
					err = project.Validate(p)
				}
				if err != nil {
					res.Valid = false
					res.Errors = splitJoined(err)
					invalid++
				}
				results = append(results, res)
			}

			if err := a.print(results); err != nil {
				return err
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d projects invalid", invalid, len(paths))
			}
			return nil
		},
	}
}

// splitJoined flattens an errors.Join result into its messages.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, splitJoined(e)...)
		}
		return out
	}
	return strings.Split(err.Error(), "\n")
}
