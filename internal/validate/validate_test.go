package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/flowgen-service/pkg/types"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

const validDoc = `{
  "nodes": [
    {"id": "a", "type": "start", "position": {"x": 100, "y": 100},
     "data": {"name": "Start", "description": "Start node", "category": "General", "color": "#4caf50", "type": "start"}},
    {"id": "b", "type": "end", "position": {"x": 300, "y": 100},
     "data": {"name": "End", "description": null}}
  ],
  "edges": [
    {"id": "e1", "source": "a", "target": "b"}
  ]
}`

func TestDecodeWorkflow_Valid(t *testing.T) {
	wf, err := DecodeWorkflow(decode(t, validDoc))
	require.NoError(t, err)

	require.Len(t, wf.Nodes, 2)
	require.Len(t, wf.Edges, 1)
	assert.Equal(t, types.KindStart, wf.Nodes[0].Type)
	assert.Equal(t, types.Position{X: 300, Y: 100}, wf.Nodes[1].Position)
	assert.Equal(t, "", wf.Nodes[1].Data.Description)
	assert.Equal(t, "", wf.Edges[0].Type)
}

func TestDecodeWorkflow_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing edges":    `{"nodes": [{"id": "a", "type": "start", "position": {"x": 1, "y": 1}, "data": {}}]}`,
		"empty nodes":      `{"nodes": [], "edges": []}`,
		"missing node id":  `{"nodes": [{"type": "start", "position": {"x": 1, "y": 1}, "data": {}}], "edges": []}`,
		"empty node id":    `{"nodes": [{"id": "", "type": "start", "position": {"x": 1, "y": 1}, "data": {}}], "edges": []}`,
		"string position":  `{"nodes": [{"id": "a", "type": "start", "position": {"x": "1", "y": 1}, "data": {}}], "edges": []}`,
		"missing y":        `{"nodes": [{"id": "a", "type": "start", "position": {"x": 1}, "data": {}}], "edges": []}`,
		"numeric data":     `{"nodes": [{"id": "a", "type": "start", "position": {"x": 1, "y": 1}, "data": {"name": 3}}], "edges": []}`,
		"edge without src": `{"nodes": [{"id": "a", "type": "start", "position": {"x": 1, "y": 1}, "data": {}}], "edges": [{"id": "e", "target": "a"}]}`,
		"not an object":    `[1, 2, 3]`,
		"dangling edge":    `{"nodes": [{"id": "a", "type": "start", "position": {"x": 1, "y": 1}, "data": {}}], "edges": [{"id": "e", "source": "a", "target": "zz"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeWorkflow(decode(t, doc))
			require.Error(t, err)
			var sv *types.SchemaViolation
			require.ErrorAs(t, err, &sv)
			assert.NotEmpty(t, sv.Reason)
		})
	}
}

func TestDecodeWorkflow_DanglingEdgePath(t *testing.T) {
	doc := `{"nodes": [{"id": "a", "type": "start", "position": {"x": 1, "y": 1}, "data": {}}],
	         "edges": [{"id": "e", "source": "a", "target": "zz"}]}`
	_, err := DecodeWorkflow(decode(t, doc))
	var sv *types.SchemaViolation
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, "/edges/0/target", sv.Path)
}

func TestValidateMap_GoValues(t *testing.T) {
	wf := types.Workflow{
		Nodes: []types.Node{{ID: "n1", Type: types.KindStart, Data: types.NodeData{Name: "Start"}}},
		Edges: []types.Edge{},
	}
	assert.NoError(t, ValidateMap(wf))
}

func TestDecodeWorkflow_DuplicateIDs(t *testing.T) {
	node := `{"id": "a", "type": "process", "position": {"x": 1, "y": 1}, "data": {}}`
	_, err := DecodeWorkflow(decode(t, `{"nodes": [`+node+`, `+node+`], "edges": []}`))
	var sv *types.SchemaViolation
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, "/nodes/1/id", sv.Path)

	two := `{"id": "b", "type": "end", "position": {"x": 2, "y": 1}, "data": {}}`
	edge := `{"id": "e", "source": "a", "target": "b"}`
	_, err = DecodeWorkflow(decode(t, `{"nodes": [`+node+`, `+two+`], "edges": [`+edge+`, `+edge+`]}`))
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, "/edges/1/id", sv.Path)
}
