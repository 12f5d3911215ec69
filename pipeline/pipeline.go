package pipeline

import (
	"context"
	"fmt"

	"github.com/ncobase/searchsync/logging/logger"
	"github.com/ncobase/searchsync/logging/observes"

	"go.opentelemetry.io/otel/attribute"
)

// Stage is one step of a pipeline. It reads and updates the shared state.
type Stage[T any] interface {
	Name() string
	Execute(ctx context.Context, state T) error
}

type funcStage[T any] struct {
	name string
	fn   func(ctx context.Context, state T) error
}

func (s *funcStage[T]) Name() string { return s.name }

func (s *funcStage[T]) Execute(ctx context.Context, state T) error { return s.fn(ctx, state) }

// Func adapts a function to a Stage.
func Func[T any](name string, fn func(ctx context.Context, state T) error) Stage[T] {
	return &funcStage[T]{name: name, fn: fn}
}

// StageError reports which stage stopped the pipeline.
type StageError struct {
	Pipeline string
	Stage    string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: stage %s failed: %v", e.Pipeline, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline runs its stages in order and stops at the first failure.
type Pipeline[T any] struct {
	name   string
	stages []Stage[T]
}

// New creates a pipeline
func New[T any](name string, stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{name: name, stages: stages}
}

// Name returns the pipeline name
func (p *Pipeline[T]) Name() string { return p.name }

// Stages returns the stage names in execution order
func (p *Pipeline[T]) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Execute runs every stage against state. A stage starts only after the
// previous one returned. The first error is returned as a *StageError.
func (p *Pipeline[T]) Execute(ctx context.Context, state T) error {
	for _, stage := range p.stages {
		stageCtx, span := observes.StartSpan(ctx, p.name+"."+stage.Name(),
			attribute.String("pipeline", p.name),
			attribute.String("stage", stage.Name()),
		)
		logger.Debugf(stageCtx, "pipeline %s: running stage %s", p.name, stage.Name())

		err := stage.Execute(stageCtx, state)
		observes.EndSpan(span, err)
		if err != nil {
			return &StageError{Pipeline: p.name, Stage: stage.Name(), Err: err}
		}
	}
	return nil
}
