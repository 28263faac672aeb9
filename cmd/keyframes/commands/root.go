// Package commands implements the keyframes CLI.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/keyframes/internal/config"
	"github.com/ivlev/keyframes/internal/engine"
	"github.com/ivlev/keyframes/internal/project"
	"github.com/ivlev/keyframes/internal/telemetry"
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	return newRootCommand(version, commit, buildDate).ExecuteContext(ctx)
}

// app is the state shared by every command once flags are resolved.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	out    io.Writer

	configPath string
	flags      config.Config
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	a := &app{flags: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "keyframes",
		Short: "Deterministic keyframe evaluation for motion-graphics projects",
		Long: `keyframes evaluates the animated properties of a compositor project at any
frame. Every frame is computed independently of the frames evaluated before it,
so scrubbing forward, backward or at random always gives the same result.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file path")
	flags.StringVarP(&a.flags.ProjectPath, "project", "p", "", "project file (default: latest in --projects-dir)")
	flags.StringVar(&a.flags.ProjectsDir, "projects-dir", a.flags.ProjectsDir, "directory of stored projects")
	flags.StringVar(&a.flags.Composition, "composition", "", "composition to evaluate (default: the project's active one)")
	flags.IntVar(&a.flags.CacheSize, "cache-size", a.flags.CacheSize, "bezier cache capacity")
	flags.BoolVar(&a.flags.NoCache, "no-cache", false, "solve bezier curves without the cache")
	flags.IntVar(&a.flags.Workers, "workers", a.flags.Workers, "layers evaluated in parallel")
	flags.StringVar(&a.flags.LogLevel, "log-level", a.flags.LogLevel, "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.flags.LogFormat, "log-format", a.flags.LogFormat, "log format: console or json")
	flags.StringVarP(&a.flags.OutputFormat, "output", "o", a.flags.OutputFormat, "output format: json or yaml")

	rootCmd.AddCommand(newEvalCommand(a))
	rootCmd.AddCommand(newScrubCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newWatchCommand(a))
	rootCmd.AddCommand(newProjectsCommand(a))
	rootCmd.AddCommand(newStatsCommand(a))

	return rootCmd
}

// setup loads the config file, applies flags that were set explicitly and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("project") {
		cfg.ProjectPath = a.flags.ProjectPath
	}
	if flags.Changed("projects-dir") {
		cfg.ProjectsDir = a.flags.ProjectsDir
	}
	if flags.Changed("composition") {
		cfg.Composition = a.flags.Composition
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize = a.flags.CacheSize
	}
	if flags.Changed("no-cache") {
		cfg.NoCache = a.flags.NoCache
	}
	if flags.Changed("workers") {
		cfg.Workers = a.flags.Workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.flags.LogFormat
	}
	if flags.Changed("output") {
		cfg.OutputFormat = a.flags.OutputFormat
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = a.flags.MetricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	if err != nil {
		return err
	}
	log.Logger = logger

	a.cfg = cfg
	a.logger = logger
	a.out = cmd.OutOrStdout()
	return nil
}

// evaluator builds an evaluator from the resolved config.
func (a *app) evaluator(opts ...engine.Option) *engine.Evaluator {
	opts = append([]engine.Option{
		engine.WithLogger(a.logger),
		engine.WithCacheSize(a.cfg.CacheSize),
		engine.WithWorkers(a.cfg.Workers),
	}, opts...)
	return engine.New(opts...)
}

func (a *app) store() *project.Store {
	return project.NewStore(a.cfg.ProjectsDir, a.logger)
}

// projectPath returns the configured project, or the latest stored one.
func (a *app) projectPath() (string, error) {
	if a.cfg.ProjectPath != "" {
		return a.cfg.ProjectPath, nil
	}
	path, err := a.store().Latest()
	if err != nil {
		return "", fmt.Errorf("no --project given: %w", err)
	}
	a.logger.Info().Str("project", path).Msg("Using latest project")
	return path, nil
}

// loadProject reads the configured project and applies the composition
// override.
func (a *app) loadProject() (*project.Project, error) {
	path, err := a.projectPath()
	if err != nil {
		return nil, err
	}
	p, err := project.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if err := a.selectComposition(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *app) selectComposition(p *project.Project) error {
	if a.cfg.Composition == "" {
		return nil
	}
	if _, err := p.Composition(a.cfg.Composition); err != nil {
		return err
	}
	p.ActiveComposition = a.cfg.Composition
	return nil
}

// print writes v in the configured output format.
func (a *app) print(v interface{}) error {
	if a.cfg.OutputFormat == "yaml" {
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
