package types

import "fmt"

// SchemaViolation reports a value that does not have the Workflow shape.
// Path is a JSON pointer into the offending document ("" for the root).
type SchemaViolation struct {
	Path   string
	Reason string
}

func (e *SchemaViolation) Error() string {
	if e.Path == "" {
		return "schema violation: " + e.Reason
	}
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}
