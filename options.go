package sdk

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineName names the pipeline; the name appears in logs, span
// names and metric attributes. Defaults to "assembly".
func WithPipelineName(name string) PipelineOption {
	return func(p *Pipeline) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets the logger for stage progress. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets an OpenTelemetry tracer; each stage runs in its own
// span. Without a tracer no spans are created.
func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter recording statement counts and
// stage durations. Without a meter no metrics are recorded.
func WithMeter(meter metric.Meter) PipelineOption {
	return func(p *Pipeline) {
		p.meter = meter
	}
}
