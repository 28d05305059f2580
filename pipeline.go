package sdk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/causalbio/sdk/statement"
)

// Stage is one step of an assembly pipeline, transforming a statement
// list.
type Stage func(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error)

type namedStage struct {
	name  string
	stage Stage
}

// Pipeline runs a sequence of named corpus operations with structured
// logging and optional OpenTelemetry tracing and metrics.
//
// A Pipeline is built once and may then be run any number of times;
// Add must not be called concurrently with Run.
type Pipeline struct {
	name   string
	stages []namedStage
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	metrics *pipelineMetrics
}

// pipelineMetrics holds the metric instruments of a pipeline, created
// once and reused across runs.
type pipelineMetrics struct {
	// stageDuration records per-stage wall time in milliseconds.
	stageDuration metric.Float64Histogram

	// statementsIn and statementsOut count statements entering and
	// leaving each stage.
	statementsIn  metric.Int64Counter
	statementsOut metric.Int64Counter
}

// NewPipeline creates an empty pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		name:   "assembly",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add appends a named stage and returns the pipeline for chaining.
func (p *Pipeline) Add(name string, stage Stage) *Pipeline {
	p.stages = append(p.stages, namedStage{name: name, stage: stage})
	return p
}

// Run executes the stages in order, passing each stage's output to the
// next. A stage failure stops the run and is returned wrapped in a
// StageError.
func (p *Pipeline) Run(ctx context.Context, stmts []statement.Statement) ([]statement.Statement, error) {
	if len(p.stages) == 0 {
		return nil, ErrNoStages
	}
	if err := p.initMetrics(); err != nil {
		return nil, err
	}

	p.logger.Info("pipeline starting", "pipeline", p.name, "stages", len(p.stages), "statements", len(stmts))
	start := time.Now()

	current := stmts
	for _, ns := range p.stages {
		out, err := p.runStage(ctx, ns, current)
		if err != nil {
			return nil, &StageError{Stage: ns.name, Err: err}
		}
		current = out
	}

	p.logger.Info("pipeline finished", "pipeline", p.name,
		"statements", len(current), "duration", time.Since(start))
	return current, nil
}

func (p *Pipeline) runStage(ctx context.Context, ns namedStage, stmts []statement.Statement) ([]statement.Statement, error) {
	var span trace.Span
	if p.tracer != nil {
		ctx, span = p.tracer.Start(ctx, p.name+"."+ns.name)
		defer span.End()
		span.SetAttributes(
			attribute.String("pipeline", p.name),
			attribute.String("stage", ns.name),
			attribute.Int("statements.in", len(stmts)),
		)
	}

	start := time.Now()
	out, err := ns.stage(ctx, stmts)
	elapsed := time.Since(start)

	if p.metrics != nil {
		attrs := metric.WithAttributes(
			attribute.String("pipeline", p.name),
			attribute.String("stage", ns.name),
		)
		p.metrics.stageDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
		p.metrics.statementsIn.Add(ctx, int64(len(stmts)), attrs)
		if err == nil {
			p.metrics.statementsOut.Add(ctx, int64(len(out)), attrs)
		}
	}

	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		p.logger.Error("stage failed", "pipeline", p.name, "stage", ns.name, "error", err)
		return nil, err
	}

	if span != nil {
		span.SetAttributes(attribute.Int("statements.out", len(out)))
		span.SetStatus(codes.Ok, "")
	}
	p.logger.Info("stage finished", "pipeline", p.name, "stage", ns.name,
		"in", len(stmts), "out", len(out), "duration", elapsed)
	return out, nil
}

// initMetrics lazily creates the metric instruments on the first run
// with a meter configured.
func (p *Pipeline) initMetrics() error {
	if p.meter == nil || p.metrics != nil {
		return nil
	}

	m := &pipelineMetrics{}
	var err error

	m.stageDuration, err = p.meter.Float64Histogram(
		"assembly.stage.duration",
		metric.WithDescription("Assembly stage duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("create stage duration histogram: %w", err)
	}

	m.statementsIn, err = p.meter.Int64Counter(
		"assembly.statements.in",
		metric.WithDescription("Statements entering an assembly stage"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("create statements-in counter: %w", err)
	}

	m.statementsOut, err = p.meter.Int64Counter(
		"assembly.statements.out",
		metric.WithDescription("Statements leaving an assembly stage"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("create statements-out counter: %w", err)
	}

	p.metrics = m
	return nil
}
