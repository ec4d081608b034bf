// Package generator decides where a workflow comes from: one attempt at the
// external model when it is configured, then the synthesizer.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/MalithGihan/flowgen-service/internal/ctxlog"
	"github.com/MalithGihan/flowgen-service/internal/fusion"
	"github.com/MalithGihan/flowgen-service/internal/metrics"
	"github.com/MalithGihan/flowgen-service/internal/validate"
	"github.com/MalithGihan/flowgen-service/pkg/types"
)

// Source names the path that produced a workflow.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Cause is why the external attempt did not produce the result.
type Cause int

const (
	CauseNone         Cause = iota // the model's answer was used
	CauseDisabled                  // no collaborator configured
	CauseCollaborator              // transport, status, payload or panic
	CauseSchema                    // readable answer with the wrong shape
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseDisabled:
		return "disabled"
	case CauseCollaborator:
		return "collaborator"
	case CauseSchema:
		return "schema"
	default:
		return fmt.Sprintf("cause(%d)", int(c))
	}
}

// Result is a generated workflow and how it was obtained.
type Result struct {
	Workflow types.Workflow
	Source   Source
	Cause    Cause
}

// Synthesizer builds a workflow without external calls.
type Synthesizer interface {
	Synthesize(description string) (types.Workflow, error)
}

// Service applies the generation policy. It holds no per-request state.
type Service struct {
	ext     fusion.Generator
	synth   Synthesizer
	metrics *metrics.Recorder
}

// New builds a Service. ext may be nil, which disables the external attempt.
func New(ext fusion.Generator, synth Synthesizer, rec *metrics.Recorder) *Service {
	return &Service{ext: ext, synth: synth, metrics: rec}
}

// Enabled reports whether requests try the external model first.
func (s *Service) Enabled() bool { return s.ext != nil }

// Generate returns a workflow for description. An error means the fallback
// itself failed.
func (s *Service) Generate(ctx context.Context, description string) (Result, error) {
	log := ctxlog.FromContext(ctx)

	wf, cause, err := s.tryExternal(ctx, description)
	if cause == CauseNone {
		s.metrics.Generated(ctx, string(SourceAI), len(wf.Nodes))
		log.Debug("workflow generated by model", "nodes", len(wf.Nodes), "edges", len(wf.Edges))
		return Result{Workflow: wf, Source: SourceAI, Cause: CauseNone}, nil
	}
	if err != nil {
		log.Warn("AI generation failed, falling back", "cause", cause.String(), "error", err)
	}
	s.metrics.FellBack(ctx, cause.String())

	wf, err = s.synth.Synthesize(description)
	if err != nil {
		return Result{}, err
	}
	s.metrics.Generated(ctx, string(SourceFallback), len(wf.Nodes))
	log.Debug("workflow synthesized", "cause", cause.String(), "nodes", len(wf.Nodes))
	return Result{Workflow: wf, Source: SourceFallback, Cause: cause}, nil
}

// tryExternal makes the single external attempt. A panic in the client is
// contained to this request.
func (s *Service) tryExternal(ctx context.Context, description string) (wf types.Workflow, cause Cause, err error) {
	if s.ext == nil {
		return types.Workflow{}, CauseDisabled, nil
	}
	defer func() {
		if r := recover(); r != nil {
			wf, cause, err = types.Workflow{}, CauseCollaborator, fmt.Errorf("collaborator panic: %v", r)
		}
	}()

	wf, err = s.ext.Generate(ctx, description)
	if err == nil {
		if verr := checkWorkflow(wf); verr != nil {
			return types.Workflow{}, CauseSchema, verr
		}
		return wf, CauseNone, nil
	}
	var sv *types.SchemaViolation
	if errors.As(err, &sv) {
		return types.Workflow{}, CauseSchema, err
	}
	return types.Workflow{}, CauseCollaborator, err
}

// checkWorkflow holds a collaborator's answer to the same shape rules as
// decoded JSON, whatever the client did before returning it.
func checkWorkflow(wf types.Workflow) error {
	if err := validate.ValidateMap(wf); err != nil {
		return fmt.Errorf("collaborator answer: %w", err)
	}
	if err := validate.Endpoints(wf); err != nil {
		return fmt.Errorf("collaborator answer: %w", err)
	}
	return nil
}
