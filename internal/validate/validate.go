// Package validate checks generic decoded JSON against the Workflow schema
// and converts it into typed values.
package validate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MalithGihan/flowgen-service/pkg/types"
)

const schemaURL = "file://schema/workflow.schema.json"

//go:embed schema/workflow.schema.json
var workflowSchema string

var (
	once    sync.Once
	schema  *jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(workflowSchema)); err != nil {
		loadErr = err
		return
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		loadErr = err
		return
	}
	schema = s
}

// ValidateMap validates a generic value (as produced by json.Unmarshal into
// any) against the Workflow schema.
func ValidateMap(v any) error {
	once.Do(load)
	if loadErr != nil {
		return fmt.Errorf("load workflow schema: %w", loadErr)
	}
	// round-trip so map[string]any built in Go code gets the same number types
	// as decoded JSON
	b, err := json.Marshal(v)
	if err != nil {
		return &types.SchemaViolation{Reason: err.Error()}
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return &types.SchemaViolation{Reason: err.Error()}
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			return &types.SchemaViolation{Path: leaf.InstanceLocation, Reason: leaf.Message}
		}
		return &types.SchemaViolation{Reason: err.Error()}
	}
	return nil
}

// DecodeWorkflow validates v and converts it into a Workflow. Edges must
// reference nodes of the same workflow.
func DecodeWorkflow(v any) (types.Workflow, error) {
	if err := ValidateMap(v); err != nil {
		return types.Workflow{}, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return types.Workflow{}, &types.SchemaViolation{Reason: err.Error()}
	}
	var wf types.Workflow
	if err := json.Unmarshal(b, &wf); err != nil {
		return types.Workflow{}, &types.SchemaViolation{Reason: err.Error()}
	}
	if err := Endpoints(wf); err != nil {
		return types.Workflow{}, err
	}
	return wf, nil
}

// Endpoints reports duplicate node or edge ids and the first edge whose
// source or target is not a node of wf.
func Endpoints(wf types.Workflow) error {
	ids := make(map[string]struct{}, len(wf.Nodes))
	for i, n := range wf.Nodes {
		if _, dup := ids[n.ID]; dup {
			return &types.SchemaViolation{
				Path:   fmt.Sprintf("/nodes/%d/id", i),
				Reason: fmt.Sprintf("duplicate node id %q", n.ID),
			}
		}
		ids[n.ID] = struct{}{}
	}
	edgeIDs := make(map[string]struct{}, len(wf.Edges))
	for i, e := range wf.Edges {
		if _, dup := edgeIDs[e.ID]; dup {
			return &types.SchemaViolation{
				Path:   fmt.Sprintf("/edges/%d/id", i),
				Reason: fmt.Sprintf("duplicate edge id %q", e.ID),
			}
		}
		edgeIDs[e.ID] = struct{}{}
		if _, ok := ids[e.Source]; !ok {
			return &types.SchemaViolation{
				Path:   fmt.Sprintf("/edges/%d/source", i),
				Reason: fmt.Sprintf("unknown node %q", e.Source),
			}
		}
		if _, ok := ids[e.Target]; !ok {
			return &types.SchemaViolation{
				Path:   fmt.Sprintf("/edges/%d/target", i),
				Reason: fmt.Sprintf("unknown node %q", e.Target),
			}
		}
	}
	return nil
}

func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
