// Package schema extracts form field descriptions from OpenAPI 3 documents.
package schema

// Field types mirrored from JSON Schema.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Field describes one request body property that should become a control.
type Field struct {
	Name        string
	Label       string
	Description string
	Type        string
	Format      string
	Enum        []string
	Default     string
	Required    bool
	ReadOnly    bool
	MaxLength   int
	// Widget forces a control kind, from the x-formkit.widget extension.
	Widget string
	// VisibleWhen is a visibility rule, from x-formkit.visibleWhen.
	VisibleWhen string
	// Order sorts fields, from x-formkit.order. Ties sort by name.
	Order int
}

// Operation is the subset of an OpenAPI operation needed to build a form.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	Fields  []Field
}
