// Package pipeline runs the report stages in order over a shared State.
//
// Stages run strictly one after another. The first failure stops the run;
// files written by earlier stages are left in place.
package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/building"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/config"
	serrors "github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/errors"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/export"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/geo"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/logging"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/proximity"
	"github.com/Sagar1ka/World-s-Tallest-Buildings/pkg/spinner"
)

// State is what stages read and fill in as the run progresses.
type State struct {
	Config    *config.Config
	RunID     string
	StartedAt time.Time

	Table    *building.Table
	ByHeight []building.Record
	ByYear   []building.Record

	Boundaries *geo.Boundaries
	Counts     []proximity.Count

	Manifest *export.ManifestBuilder

	// Stdout receives the console report.
	Stdout io.Writer
}

// Stage is one named step of the run.
type Stage struct {
	Name string
	Run  func(ctx context.Context, s *State) error
}

// Options adjusts where a run writes.
type Options struct {
	// Stdout receives the table preview and proximity lines. Defaults to os.Stdout.
	Stdout io.Writer

	// Progress, when set, shows one bar step per stage.
	Progress io.Writer

	// Version is recorded in the run manifest.
	Version string
}

// Pipeline is an ordered list of stages bound to a configuration.
type Pipeline struct {
	config *config.Config
	stages []Stage
	opts   Options
}

// New creates a pipeline running DefaultStages.
func New(cfg *config.Config, opts Options) *Pipeline {
	return NewWithStages(cfg, opts, DefaultStages())
}

// NewWithStages creates a pipeline running the given stages.
func NewWithStages(cfg *config.Config, opts Options, stages []Stage) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Pipeline{config: cfg, stages: stages, opts: opts}
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage in order and returns the final state. The context
// is checked before each stage; a cancelled run stops between stages.
func (p *Pipeline) Run(ctx context.Context) (*State, error) {
	manifest := export.NewManifestBuilder().WithVersion(p.opts.Version)
	state := &State{
		Config:    p.config,
		RunID:     manifest.RunID(),
		StartedAt: time.Now(),
		Manifest:  manifest,
		Stdout:    p.opts.Stdout,
	}
	ctx = logging.WithRunID(ctx, state.RunID)
	logger := logging.FromContext(ctx)

	if dir := p.config.Output.Dir; dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return state, serrors.IOWrap(err, serrors.ErrIOWriteFailed, "failed to create output directory").
				WithContext(serrors.ContextPath, dir)
		}
	}

	var bar *spinner.ProgressBar
	if p.opts.Progress != nil {
		cfg := spinner.DefaultProgressConfig()
		cfg.Total = len(p.stages)
		cfg.Writer = p.opts.Progress
		bar = spinner.NewProgressWithConfig(cfg)
		bar.Start()
	}

	logger.Info("run started", "stages", len(p.stages), "output_dir", p.config.Output.Dir)
	for _, stage := range p.stages {
		if err := p.runStage(ctx, stage, state, bar); err != nil {
			if bar != nil {
				bar.Fail("Stage " + stage.Name + " failed")
			}
			logger.Error("run failed", "stage", stage.Name, "error", err)
			return state, err
		}
	}
	if bar != nil {
		bar.Complete("Reports written to " + p.config.Output.Dir)
	}
	logger.Info("run finished", "duration", time.Since(state.StartedAt).Round(time.Millisecond))
	return state, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, state *State, bar *spinner.ProgressBar) error {
	if err := ctx.Err(); err != nil {
		return serrors.InternalWrap(err, serrors.ErrInternalCancelled, "run cancelled").
			WithContext("stage", stage.Name)
	}

	log := logging.WithFields(ctx, "stage", stage.Name)
	log.Debug("stage started")
	if bar != nil {
		bar.Begin(stage.Name)
	}

	start := time.Now()
	if err := stage.Run(ctx, state); err != nil {
		if se, ok := serrors.AsSkylineError(err); ok {
			se.WithContext("stage", stage.Name)
			return err
		}
		return serrors.InternalWrap(err, serrors.ErrInternalStage, "stage failed").
			WithContext("stage", stage.Name)
	}

	log.Info("stage finished", "duration", time.Since(start).Round(time.Millisecond))
	if bar != nil {
		bar.Increment()
	}
	return nil
}
