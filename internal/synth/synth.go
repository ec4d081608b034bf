// Package synth builds workflows from a description without calling a model.
// The graph shape depends only on the signal words found by Classify:
//
//	start -> process[1 or 2] -> end
//	start -> process[1 or 2] -> decision -> end (yes), end (no)
package synth

import (
	"fmt"

	"github.com/MalithGihan/flowgen-service/pkg/types"
)

const (
	originX = 100
	originY = 100
	spacing = 200

	// end nodes behind a decision sit above and below the spine
	yesY = 50
	noY  = 150
)

// Synthesizer is stateless apart from its id source and may be shared.
type Synthesizer struct {
	f *Factory
}

func New(ids IDSource) *Synthesizer {
	return &Synthesizer{f: NewFactory(ids)}
}

type builder struct {
	f    *Factory
	wf   types.Workflow
	last types.Node
	x    float64
	err  error
}

// add places a node at the cursor on the spine, links it from the last node
// and advances the cursor.
func (b *builder) add(kind types.Kind, name string) types.Node {
	n := b.place(kind, b.x, originY, name, b.last)
	b.last = n
	b.x += spacing
	return n
}

// place builds a node at (x, y) with an edge from parent.
func (b *builder) place(kind types.Kind, x, y float64, name string, parent types.Node) types.Node {
	if b.err != nil {
		return types.Node{}
	}
	n, err := b.f.MakeNode(kind, x, y, name)
	if err != nil {
		b.err = err
		return types.Node{}
	}
	e, err := b.f.Connect(parent, n)
	if err != nil {
		b.err = err
		return types.Node{}
	}
	b.wf.Nodes = append(b.wf.Nodes, n)
	b.wf.Edges = append(b.wf.Edges, e)
	return n
}

// Synthesize lays out the workflow for description. It fails only when the
// id source does.
func (s *Synthesizer) Synthesize(description string) (types.Workflow, error) {
	sig := Classify(description)

	start, err := s.f.MakeNode(types.KindStart, originX, originY, "Start")
	if err != nil {
		return types.Workflow{}, fmt.Errorf("synthesize: %w", err)
	}
	b := &builder{
		f:    s.f,
		wf:   types.Workflow{Nodes: []types.Node{start}, Edges: []types.Edge{}},
		last: start,
		x:    originX + spacing,
	}

	if sig.HasMultipleSteps {
		for i := 1; i <= 2; i++ {
			b.add(types.KindProcess, fmt.Sprintf("Process Step %d", i))
		}
	} else {
		b.add(types.KindProcess, "Main Process")
	}

	if sig.HasDecision {
		d := b.add(types.KindDecision, "Decision Point")
		b.place(types.KindEnd, b.x, yesY, "End (Yes)", d)
		b.place(types.KindEnd, b.x, noY, "End (No)", d)
	} else {
		b.add(types.KindEnd, "End")
	}

	if b.err != nil {
		return types.Workflow{}, fmt.Errorf("synthesize: %w", b.err)
	}
	return b.wf, nil
}
