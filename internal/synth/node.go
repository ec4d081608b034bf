package synth

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MalithGihan/flowgen-service/pkg/types"
)

// IDSource hands out node and edge identifiers. Implementations must be safe
// for concurrent use.
type IDSource interface {
	NewID() (string, error)
}

// UUIDSource draws random (v4) UUIDs.
type UUIDSource struct{}

func (UUIDSource) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

const defaultCategory = "General"

var colors = map[types.Kind]string{
	types.KindStart:    "#4caf50",
	types.KindEnd:      "#f44336",
	types.KindProcess:  "#2196f3",
	types.KindDecision: "#ff9800",
}

// ColorFor returns the fixed color of kind; unknown kinds get the process color.
func ColorFor(kind types.Kind) string {
	if c, ok := colors[kind]; ok {
		return c
	}
	return colors[types.KindProcess]
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && n <= 1 {
		return s
	}
	return cases.Upper(language.Und).String(s[:n]) + cases.Lower(language.Und).String(s[n:])
}

// DefaultData is the presentation block a node of kind gets when nothing
// else is known about it.
func DefaultData(kind types.Kind) types.NodeData {
	label := Capitalize(string(kind))
	return types.NodeData{
		Name:        label,
		Description: label + " node",
		Category:    defaultCategory,
		Color:       ColorFor(kind),
		Type:        string(kind),
	}
}

// Factory builds nodes and edges with fresh identifiers.
type Factory struct {
	ids IDSource
}

func NewFactory(ids IDSource) *Factory {
	if ids == nil {
		ids = UUIDSource{}
	}
	return &Factory{ids: ids}
}

// MakeNode builds a node of kind at (x, y). An empty name falls back to the
// capitalized kind.
func (f *Factory) MakeNode(kind types.Kind, x, y float64, name string) (types.Node, error) {
	id, err := f.ids.NewID()
	if err != nil {
		return types.Node{}, err
	}
	data := DefaultData(kind)
	if name != "" {
		data.Name = name
	}
	return types.Node{
		ID:       id,
		Type:     kind,
		Position: types.Position{X: x, Y: y},
		Data:     data,
	}, nil
}

// Connect builds a default-typed edge from src to dst.
func (f *Factory) Connect(src, dst types.Node) (types.Edge, error) {
	id, err := f.ids.NewID()
	if err != nil {
		return types.Edge{}, err
	}
	return types.Edge{ID: id, Source: src.ID, Target: dst.ID, Type: types.DefaultEdgeType}, nil
}
