package types

// Kind is the node type understood by the flow editor.
type Kind string

const (
	KindStart    Kind = "start"
	KindEnd      Kind = "end"
	KindProcess  Kind = "process"
	KindDecision Kind = "decision"
)

// DefaultEdgeType is applied to edges that arrive without a type.
const DefaultEdgeType = "default"

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NodeData is the presentation block rendered by the editor. Type repeats the
// node kind so custom node components can pick their styling from data alone.
type NodeData struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Color       string `json:"color" yaml:"color"`
	Type        string `json:"type" yaml:"type"`
}

type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Type     Kind     `json:"type" yaml:"type"` // start|end|process|decision
	Position Position `json:"position" yaml:"position"`
	Data     NodeData `json:"data" yaml:"data"`
}

type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type" yaml:"type"`
}

// Workflow is the graph returned to callers. Nodes and edges keep the order
// they were built in.
type Workflow struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// NodeByID returns the node with the given id.
func (w Workflow) NodeByID(id string) (Node, bool) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
