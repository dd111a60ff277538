package form

import (
	"net/url"
	"strings"

	"github.com/pagelift-dev/pagelift/pkg/dom"
)

// A Form is a typed view over a form node: an ordered collection of fields
// plus the submission destination and verb.
type Form struct {
	doc  *dom.Document
	node *dom.Node
}

// AsForm wraps a form node belonging to the given document.
func AsForm(doc *dom.Document, n *dom.Node) Form {
	return Form{doc: doc, node: n}
}

// Node returns the underlying form node.
func (f Form) Node() *dom.Node {
	return f.node
}

// Fields returns the form's controls in document order.
func (f Form) Fields() []Field {
	nodes := f.doc.FieldsOf(f.node)
	fields := make([]Field, len(nodes))
	for i, n := range nodes {
		fields[i] = AsField(n)
	}
	return fields
}

// Action returns the form's declared submission destination.
func (f Form) Action() string {
	return f.node.Attr("action")
}

// Method returns the form's submission verb, upper-cased.
// Defaults to POST when the form declares none.
func (f Form) Method() string {
	m := strings.ToUpper(f.node.Attr("method"))
	if m == "" {
		return "POST"
	}
	return m
}

// SubmitControl returns the form's submit control node, or nil.
func (f Form) SubmitControl() *dom.Node {
	return f.doc.SubmitControl(f.node)
}

// Values returns the current field values, URL-encodable, keyed by field
// name. Unnamed fields are skipped.
func (f Form) Values() url.Values {
	values := make(url.Values)
	for _, field := range f.Fields() {
		if field.Name() == "" {
			continue
		}
		values.Set(field.Name(), field.Value())
	}
	return values
}

// Reset clears every field value and all of the form's error annotations.
func (f Form) Reset(p *Presenter) {
	for _, field := range f.Fields() {
		f.doc.SetAttr(field.Node(), "value", "")
		if p != nil {
			p.Clear(field)
		}
	}
}
