package fusion

import (
	"github.com/MalithGihan/flowgen-service/internal/synth"
	"github.com/MalithGihan/flowgen-service/pkg/types"
)

// Sanitize fills the optional fields a model tends to leave out. It never
// invents nodes or edges, so anything structurally wrong still fails
// validation afterwards. A missing "edges" key is read as a workflow without
// edges, which is looser than requiring the key.
func Sanitize(doc map[string]any) map[string]any {
	if doc == nil {
		return doc
	}
	if _, ok := doc["edges"]; !ok {
		doc["edges"] = []any{}
	}

	if nodes, ok := doc["nodes"].([]any); ok {
		for _, v := range nodes {
			n, ok := v.(map[string]any)
			if !ok {
				continue
			}
			data, ok := n["data"].(map[string]any)
			if !ok {
				continue
			}
			// data.type carries the real kind when the model used a custom node type
			kind := strOrEmpty(data["type"])
			if kind == "" {
				kind = strOrEmpty(n["type"])
				if kind == "" {
					continue
				}
				data["type"] = kind
			}
			def := synth.DefaultData(types.Kind(kind))
			fill(data, "name", def.Name)
			fill(data, "description", def.Description)
			fill(data, "category", def.Category)
			fill(data, "color", def.Color)
		}
	}

	if edges, ok := doc["edges"].([]any); ok {
		for _, v := range edges {
			if e, ok := v.(map[string]any); ok {
				fill(e, "type", types.DefaultEdgeType)
			}
		}
	}
	return doc
}

// fill sets m[k] when it is missing, null or an empty string.
func fill(m map[string]any, k, def string) {
	if v, ok := m[k]; ok && v != nil {
		if s, isStr := v.(string); !isStr || s != "" {
			return
		}
	}
	m[k] = def
}

func strOrEmpty(v any) string { s, _ := v.(string); return s }
