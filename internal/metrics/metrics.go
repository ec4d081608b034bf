// Package metrics records workflow generation outcomes through OpenTelemetry
// and can expose them in the Prometheus text format.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Scope is the instrumentation scope name of the service meters.
const Scope = "github.com/MalithGihan/flowgen-service"

// Recorder holds the generation instruments. A nil *Recorder records nothing.
type Recorder struct {
	generated metric.Int64Counter
	fallbacks metric.Int64Counter
	nodes     metric.Int64Histogram
}

// New creates the instruments on meter; a nil meter uses the global provider.
func New(meter metric.Meter) (*Recorder, error) {
	if meter == nil {
		meter = otel.Meter(Scope)
	}
	generated, err := meter.Int64Counter("workflow.generated",
		metric.WithDescription("Workflows returned, by source"))
	if err != nil {
		return nil, fmt.Errorf("create workflow.generated: %w", err)
	}
	fallbacks, err := meter.Int64Counter("workflow.fallbacks",
		metric.WithDescription("Requests served by the synthesizer, by cause"))
	if err != nil {
		return nil, fmt.Errorf("create workflow.fallbacks: %w", err)
	}
	nodes, err := meter.Int64Histogram("workflow.nodes",
		metric.WithDescription("Node count of returned workflows"))
	if err != nil {
		return nil, fmt.Errorf("create workflow.nodes: %w", err)
	}
	return &Recorder{generated: generated, fallbacks: fallbacks, nodes: nodes}, nil
}

// Generated counts a returned workflow.
func (r *Recorder) Generated(ctx context.Context, source string, nodes int) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	r.generated.Add(ctx, 1, attrs)
	r.nodes.Record(ctx, int64(nodes), attrs)
}

// FellBack counts a fallback to the synthesizer.
func (r *Recorder) FellBack(ctx context.Context, cause string) {
	if r == nil {
		return
	}
	r.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("cause", cause)))
}
