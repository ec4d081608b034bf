package cli

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/MalithGihan/flowgen-service/internal/config"
	"github.com/MalithGihan/flowgen-service/internal/fusion"
	"github.com/MalithGihan/flowgen-service/internal/generator"
	"github.com/MalithGihan/flowgen-service/internal/metrics"
	"github.com/MalithGihan/flowgen-service/internal/synth"
)

// newService builds the generation service for cfg. offline forces the
// synthesizer-only configuration. A nil meter uses the global provider.
func newService(cfg config.Config, logger *slog.Logger, offline bool, meter metric.Meter) (*generator.Service, error) {
	rec, err := metrics.New(meter)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	var ext fusion.Generator
	if !offline {
		ext = fusion.FromConfig(cfg.AI)
	}
	if ext != nil {
		logger.Info("AI generation enabled", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	} else {
		logger.Info("AI generation disabled, using keyword synthesizer")
	}
	return generator.New(ext, synth.New(synth.UUIDSource{}), rec), nil
}
