package form

import (
	"strings"

	"github.com/pagelift-dev/pagelift/pkg/dom"
)

// Field is a typed view over a single form control node. It stores nothing:
// value, constraints, and validity are read from the node on each use.
type Field struct {
	node *dom.Node
}

// AsField wraps a form control node.
func AsField(n *dom.Node) Field {
	return Field{node: n}
}

// Node returns the underlying document node.
func (f Field) Node() *dom.Node {
	return f.node
}

// Name returns the control's name attribute.
func (f Field) Name() string {
	return f.node.Attr("name")
}

// Type returns the control's declared type. Textareas report "textarea",
// selects "select"; inputs default to "text" when no type is declared.
func (f Field) Type() string {
	switch f.node.Tag {
	case "textarea":
		return "textarea"
	case "select":
		return "select"
	}
	if t := f.node.Attr("type"); t != "" {
		return t
	}
	return "text"
}

// Value returns the control's current value.
func (f Field) Value() string {
	return f.node.Attr("value")
}

// Required reports whether the control carries the required attribute.
func (f Field) Required() bool {
	return f.node.Bool("required")
}

// MinLength returns the declared minimum length constraint.
// Only textareas carry this constraint in the validation pipeline.
func (f Field) MinLength() (int, bool) {
	if f.node.Tag != "textarea" {
		return 0, false
	}
	return f.node.Int("minlength")
}

// Label returns the human-readable name used in error messages.
func (f Field) Label() string {
	if name := f.Name(); name != "" {
		return name
	}
	return "This field"
}

// Empty reports whether the trimmed value is empty.
func (f Field) Empty() bool {
	return strings.TrimSpace(f.Value()) == ""
}
